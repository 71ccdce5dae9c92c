// Package publisher emits access events to an audit store. In async mode a
// full buffer drops the event rather than slowing the request down.
package publisher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	id "trs/pkg/domain"
	"trs/pkg/platform/audit"
)

const writeTimeout = 5 * time.Second

var ErrClosed = errors.New("audit publisher closed")

type Publisher struct {
	store  audit.Store
	logger *slog.Logger
	now    func() time.Time

	buffer  chan audit.Event
	done    chan struct{}
	closed  atomic.Bool
	once    sync.Once
	dropped atomic.Int64
	mu      sync.RWMutex
}

type Option func(*Publisher)

// WithAsyncBuffer makes Emit non-blocking with a buffer of size n.
func WithAsyncBuffer(n int) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.buffer = make(chan audit.Event, n)
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithNow(now func() time.Time) Option {
	return func(p *Publisher) {
		p.now = now
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.buffer != nil {
		go p.drain()
	} else {
		close(p.done)
	}
	return p
}

// Emit fills in ID and Timestamp when unset and hands event to the store.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now()
	}
	event.Timestamp = event.Timestamp.UTC()

	if p.buffer == nil {
		return p.store.Append(ctx, event)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed.Load() {
		return ErrClosed
	}
	select {
	case p.buffer <- event:
	default:
		p.dropped.Add(1)
		p.logger.WarnContext(ctx, "audit buffer full, dropping event",
			"action", string(event.Action),
			"person_id", event.PersonID.String(),
		)
	}
	return nil
}

func (p *Publisher) List(ctx context.Context, personID id.PersonID, limit int) ([]audit.Event, error) {
	return p.store.ListByPerson(ctx, personID, limit)
}

// Dropped is the number of events lost to a full buffer.
func (p *Publisher) Dropped() int64 { return p.dropped.Load() }

// Close stops accepting events and waits for the buffer to drain.
func (p *Publisher) Close() {
	p.once.Do(func() {
		if p.buffer == nil {
			return
		}
		p.mu.Lock()
		p.closed.Store(true)
		close(p.buffer)
		p.mu.Unlock()
	})
	<-p.done
}

func (p *Publisher) drain() {
	defer close(p.done)
	for event := range p.buffer {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := p.store.Append(ctx, event); err != nil {
			p.logger.Error("failed to persist audit event",
				"event_id", event.ID.String(),
				"action", string(event.Action),
				"error", err,
			)
		}
		cancel()
	}
}
