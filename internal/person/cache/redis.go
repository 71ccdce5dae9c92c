// Package cache fronts a person directory with Redis. Entries are written on
// read misses and dropped on save; a Redis failure never fails the lookup.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"trs/internal/person"
	"trs/internal/person/metrics"
	"trs/internal/person/models"
	id "trs/pkg/domain"
	"trs/pkg/platform/circuit"
)

const keyPrefix = "trs:person:"

const defaultTTL = 5 * time.Minute

// RedisDirectory is a read-through cache over a person.Store.
type RedisDirectory struct {
	next    person.Store
	client  *redis.Client
	ttl     time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
	breaker *circuit.Breaker
}

type Option func(*RedisDirectory)

func WithTTL(ttl time.Duration) Option {
	return func(d *RedisDirectory) {
		if ttl > 0 {
			d.ttl = ttl
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(d *RedisDirectory) {
		d.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *RedisDirectory) {
		d.metrics = m
	}
}

// WithBreaker stops calling Redis while it keeps failing. Lookups go straight
// to the store until a probe succeeds.
func WithBreaker(b *circuit.Breaker) Option {
	return func(d *RedisDirectory) {
		d.breaker = b
	}
}

func NewRedisDirectory(next person.Store, client *redis.Client, opts ...Option) *RedisDirectory {
	d := &RedisDirectory{
		next:   next,
		client: client,
		ttl:    defaultTTL,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

func key(personID id.PersonID) string {
	return keyPrefix + personID.String()
}

func (d *RedisDirectory) available() bool {
	return d.breaker == nil || d.breaker.Allow()
}

// observe feeds the outcome of a Redis call to the breaker. redis.Nil is a
// healthy answer.
func (d *RedisDirectory) observe(ctx context.Context, err error) {
	if d.breaker == nil {
		return
	}
	if err == nil || errors.Is(err, redis.Nil) {
		if _, change := d.breaker.RecordSuccess(); change.Closed {
			d.logger.InfoContext(ctx, "person cache recovered", "breaker", d.breaker.Name())
		}
		return
	}
	if _, change := d.breaker.RecordFailure(); change.Opened {
		d.logger.WarnContext(ctx, "person cache disabled after repeated failures", "breaker", d.breaker.Name())
	}
}

func (d *RedisDirectory) Get(ctx context.Context, personID id.PersonID) (*models.Person, error) {
	if !d.available() {
		d.metrics.IncrementMiss()
		return d.next.Get(ctx, personID)
	}

	raw, err := d.client.Get(ctx, key(personID)).Bytes()
	d.observe(ctx, err)
	switch {
	case err == nil:
		var p models.Person
		if jsonErr := json.Unmarshal(raw, &p); jsonErr == nil {
			d.metrics.IncrementHit()
			return &p, nil
		}
		d.metrics.IncrementError()
	case errors.Is(err, redis.Nil):
	default:
		d.metrics.IncrementError()
		d.logger.WarnContext(ctx, "person cache read failed", "person_id", personID.String(), "error", err)
	}

	d.metrics.IncrementMiss()
	p, err := d.next.Get(ctx, personID)
	if err != nil {
		return nil, err
	}
	if !d.available() {
		return p, nil
	}
	if raw, err := json.Marshal(p); err == nil {
		err = d.client.Set(ctx, key(personID), raw, d.ttl).Err()
		d.observe(ctx, err)
		if err != nil {
			d.metrics.IncrementError()
			d.logger.WarnContext(ctx, "person cache write failed", "person_id", personID.String(), "error", err)
		}
	}
	return p, nil
}

// Save writes through to the store and evicts the cached entry.
func (d *RedisDirectory) Save(ctx context.Context, p *models.Person) error {
	if err := d.next.Save(ctx, p); err != nil {
		return err
	}
	if p != nil {
		err := d.client.Del(ctx, key(p.ID)).Err()
		d.observe(ctx, err)
		if err != nil {
			d.metrics.IncrementError()
			d.logger.WarnContext(ctx, "person cache evict failed", "person_id", p.ID.String(), "error", err)
		}
	}
	return nil
}
