package catalog

const (
	MaxISBNLength          = 17
	MaxDeweyClassLength    = 20
	MaxShelfLocationLength = 20
	MaxLanguageLength      = 30
)

// BibliographicCard carries the shelving data of a Book. Every field is optional.
// A persisted ISBN is always in canonical form: 10 or 13 digits without hyphens.
type BibliographicCard struct {
	ID            int64
	ISBN          Optional[string]
	DeweyClass    Optional[string]
	ShelfLocation Optional[string]
	Language      Optional[string]
	Deleted       bool
}

// BuildCard creates an unsaved, empty BibliographicCard.
func BuildCard() BibliographicCard {
	return BibliographicCard{}
}

func (c BibliographicCard) WithISBN(isbn string) BibliographicCard {
	c.ISBN = Some(isbn)
	return c
}

func (c BibliographicCard) WithDeweyClass(class string) BibliographicCard {
	c.DeweyClass = Some(class)
	return c
}

func (c BibliographicCard) WithShelfLocation(location string) BibliographicCard {
	c.ShelfLocation = Some(location)
	return c
}

func (c BibliographicCard) WithLanguage(language string) BibliographicCard {
	c.Language = Some(language)
	return c
}
