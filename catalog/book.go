package catalog

const (
	MaxTitleLength     = 150
	MaxAuthorLength    = 120
	MaxPublisherLength = 100
	MinEditionYear     = 1000
)

// Book is a catalogued title. ID 0 means the store has not assigned one yet.
type Book struct {
	ID          int64
	Title       string
	Author      string
	Publisher   Optional[string]
	EditionYear Optional[int]
	CardRef     Optional[int64]
	Deleted     bool
}

// BuildBook creates an unsaved Book with the required fields set.
func BuildBook(title, author string) Book {
	return Book{
		Title:  title,
		Author: author,
	}
}

func (b Book) WithPublisher(publisher string) Book {
	b.Publisher = Some(publisher)
	return b
}

func (b Book) WithEditionYear(year int) Book {
	b.EditionYear = Some(year)
	return b
}

func (b Book) WithCardRef(cardID int64) Book {
	b.CardRef = Some(cardID)
	return b
}

// BookFilter narrows Find results. Absent fields do not constrain the result.
// Title, Author, and Publisher match partially and case-insensitively; Language matches the
// linked card's language exactly.
type BookFilter struct {
	Title       Optional[string]
	Author      Optional[string]
	Publisher   Optional[string]
	EditionYear Optional[int]
	Language    Optional[string]
}
