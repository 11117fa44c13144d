// Command catalogctl administers a library catalog database.
//
// Usage:
//
//	catalogctl [-config catalog.yaml] <command> [flags]
//
// Commands:
//
//	migrate [-down] [-status]   apply (or roll back one, or list) schema migrations
//	books list                  list active books
//	books get -id N
//	books find [-title T] [-author A] [-publisher P] [-year Y] [-language L]
//	books add -title T -author A [book and card flags]
//	books update -id N [-title T] [-author A] [-publisher P] [-year Y] [card flags]
//	books delete -id N
//	cards list
//	cards get -id N
//	cards delete -id N
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/AntonStoeckl/library-catalog-go/catalog"
	"github.com/AntonStoeckl/library-catalog-go/catalog/postgresengine"
	"github.com/AntonStoeckl/library-catalog-go/config"
)

var errUsage = errors.New("usage error")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}

		os.Exit(1)
	}
}

// app carries the wired components a command needs.
type app struct {
	conn         *config.Connection
	service      catalog.Service
	orchestrator catalog.Orchestrator
	logger       *slog.Logger
	out          io.Writer
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	global := flag.NewFlagSet("catalogctl", flag.ContinueOnError)
	global.SetOutput(stderr)
	configFile := global.String("config", "", "path to a YAML config file (default: ./catalog.yaml if present)")

	if err := global.Parse(args); err != nil {
		return errUsage
	}

	rest := global.Args()
	if len(rest) == 0 {
		global.Usage()
		return errUsage
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		return err
	}

	logger := config.NewLogger(cfg.Log, stderr)

	engineOptions := []postgresengine.Option{postgresengine.WithContextualLogger(logger)}
	if collector := config.NewMetricsCollector(cfg.Metrics); collector != nil {
		engineOptions = append(engineOptions, postgresengine.WithMetrics(collector))
	}

	conn, err := config.Connect(ctx, cfg, engineOptions...)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			logger.Warn("failed to close database connection", "error", closeErr.Error())
		}
	}()

	a, err := newApp(conn, logger, config.NewTracingCollector(cfg.Tracing), stdout)
	if err != nil {
		return err
	}

	switch rest[0] {
	case "migrate":
		return a.migrate(ctx, rest[1:], stderr)
	case "books":
		return a.books(ctx, rest[1:], stderr)
	case "cards":
		return a.cards(ctx, rest[1:], stderr)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", rest[0])
		global.Usage()

		return errUsage
	}
}

func newApp(conn *config.Connection, logger *slog.Logger, tracer catalog.TracingCollector, out io.Writer) (*app, error) {
	books, cards := conn.Engine.Books(), conn.Engine.Cards()

	validator, err := catalog.NewValidator(books, cards)
	if err != nil {
		return nil, err
	}

	service, err := catalog.NewService(books, cards, validator, catalog.WithServiceContextualLogger(logger))
	if err != nil {
		return nil, err
	}

	orchestratorOptions := []catalog.OrchestratorOption{catalog.WithOrchestratorContextualLogger(logger)}
	if tracer != nil {
		orchestratorOptions = append(orchestratorOptions, catalog.WithOrchestratorTracing(tracer))
	}

	orchestrator, err := catalog.NewOrchestrator(conn.Engine, books, cards, validator, orchestratorOptions...)
	if err != nil {
		return nil, err
	}

	return &app{
		conn:         conn,
		service:      service,
		orchestrator: orchestrator,
		logger:       logger,
		out:          out,
	}, nil
}

func (a *app) migrate(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	down := fs.Bool("down", false, "roll back the most recent migration")
	status := fs.Bool("status", false, "list migrations and their state")

	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if *status {
		statuses, err := postgresengine.MigrationStatus(ctx, a.conn.DB)
		if err != nil {
			return err
		}

		return writeJSON(a.out, migrationViews(statuses))
	}

	var (
		version int64
		err     error
	)

	if *down {
		version, err = postgresengine.MigrateDown(ctx, a.conn.DB)
	} else {
		version, err = postgresengine.Migrate(ctx, a.conn.DB)
	}

	if err != nil {
		return err
	}

	a.logger.InfoContext(ctx, "schema migrated", "version", version)

	return nil
}
