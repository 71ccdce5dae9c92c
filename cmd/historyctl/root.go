package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"trs/internal/history/legacy"
	"trs/internal/history/store"
	"trs/internal/history/store/postgres"
	"trs/internal/history/store/sqlite"
	"trs/internal/platform/config"
	"trs/internal/platform/logger"
	"trs/pkg/platform/tx"
)

// batchTimeout bounds a whole import transaction.
const batchTimeout = 2 * time.Minute

type options struct {
	store         string
	sqlitePath    string
	databaseURL   string
	referenceData string
	logLevel      string
}

// session is what every subcommand works against.
type session struct {
	events store.Store
	runner tx.Runner
	ref    *legacy.Bridge
	log    *slog.Logger
	close  func() error
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "historyctl",
		Short:         "Inspect and maintain teaching record change history",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	flags := root.PersistentFlags()
	flags.StringVar(&opts.store, "store", config.EventStoreSQLite, "event store backend: sqlite or postgres")
	flags.StringVar(&opts.sqlitePath, "sqlite-path", "trs-events.db", "SQLite database file")
	flags.StringVar(&opts.databaseURL, "database-url", "", "PostgreSQL connection string")
	flags.StringVar(&opts.referenceData, "reference-data", "", "reference data YAML (defaults to the embedded set)")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level")

	root.AddCommand(
		newVerifyCommand(opts),
		newShowCommand(opts),
		newImportCommand(opts),
	)
	return root
}

func (o *options) open(ctx context.Context, cmd *cobra.Command) (*session, error) {
	ref, err := legacy.Load(o.referenceData)
	if err != nil {
		return nil, err
	}
	s := &session{ref: ref, log: logger.NewWithWriter(cmd.ErrOrStderr(), o.logLevel)}

	switch o.store {
	case config.EventStoreSQLite:
		st, err := sqlite.Open(ctx, o.sqlitePath)
		if err != nil {
			return nil, err
		}
		s.events, s.runner, s.close = st, tx.NewSQLRunner(st.DB(), tx.WithTimeout(batchTimeout)), st.Close
	case config.EventStorePostgres:
		if o.databaseURL == "" {
			return nil, fmt.Errorf("--database-url is required for the postgres store")
		}
		db, err := sql.Open("pgx", o.databaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
		s.events, s.runner, s.close = postgres.New(db), tx.NewSQLRunner(db, tx.WithTimeout(batchTimeout)), db.Close
	default:
		return nil, fmt.Errorf("unsupported store %q", o.store)
	}
	return s, nil
}
