package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"

	"trs/internal/history/store"
	"trs/internal/history/store/memory"
	"trs/internal/history/store/postgres"
	"trs/internal/history/store/sqlite"
	"trs/internal/person"
	"trs/internal/person/cache"
	personmetrics "trs/internal/person/metrics"
	personstore "trs/internal/person/store"
	"trs/internal/platform/config"
	"trs/internal/platform/redis"
	ratelimitmw "trs/internal/ratelimit/middleware"
	"trs/internal/ratelimit/store/bucket"
	"trs/pkg/platform/audit"
	auditmemory "trs/pkg/platform/audit/store/memory"
	auditpostgres "trs/pkg/platform/audit/store/postgres"
	"trs/pkg/platform/circuit"
)

// backends are the storage dependencies chosen by EVENT_STORE. Only Postgres
// keeps a persons table; the other backends derive people from their events.
type backends struct {
	events  store.Store
	people  person.Directory
	access  audit.Store
	buckets ratelimitmw.BucketStore
	closers []func() error
}

func (b *backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		_ = b.closers[i]()
	}
}

func openBackends(ctx context.Context, cfg config.Server, log *slog.Logger) (*backends, error) {
	b := &backends{}
	var persons person.Store

	switch cfg.EventStore {
	case config.EventStorePostgres:
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		b.closers = append(b.closers, db.Close)
		if err := db.PingContext(ctx); err != nil {
			b.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			b.Close()
			return nil, err
		}
		if err := personstore.Migrate(ctx, db); err != nil {
			b.Close()
			return nil, err
		}
		if err := auditpostgres.Migrate(ctx, db); err != nil {
			b.Close()
			return nil, err
		}
		b.events = postgres.New(db)
		persons = personstore.NewPostgres(db)
		b.people = persons
		b.access = auditpostgres.New(db)

	case config.EventStoreSQLite:
		s, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, s.Close)
		b.events = s
		b.people = person.NewEventDirectory(s)
		b.access = auditmemory.New()

	default:
		s := memory.New()
		b.events = s
		b.people = person.NewEventDirectory(s)
		b.access = auditmemory.New()
	}

	rc, err := redis.New(cfg.Redis)
	if err != nil {
		b.Close()
		return nil, err
	}
	b.buckets = bucket.NewInMemoryBucketStore()
	if rc != nil {
		b.closers = append(b.closers, rc.Close)
		b.buckets = bucket.NewRedisBucketStore(rc.Client)
	}
	if rc != nil && persons != nil {
		b.people = cache.NewRedisDirectory(persons, rc.Client,
			cache.WithTTL(cfg.PersonCacheTTL),
			cache.WithLogger(log),
			cache.WithMetrics(personmetrics.New()),
			cache.WithBreaker(circuit.New("person-cache")),
		)
		log.Info("person cache enabled", "ttl", cfg.PersonCacheTTL.String())
	}

	log.Info("event store ready", "backend", cfg.EventStore)
	return b, nil
}
