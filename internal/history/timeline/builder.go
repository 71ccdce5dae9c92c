// Package timeline renders a person's events into display-ready items. The
// builder dispatches on event kind to a registered renderer; events it cannot
// decode or render are skipped and logged, never fatal.
package timeline

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"

	"trs/internal/history/events"
	"trs/internal/history/legacy"
	"trs/internal/history/metrics"
	"trs/internal/history/models"
	"trs/internal/history/visibility"
	id "trs/pkg/domain"
)

// DefaultTimeZone is the display zone for timestamps.
const DefaultTimeZone = "Europe/London"

// Reference is the read-only reference data renderers resolve against.
type Reference interface {
	visibility.AlertTypes
	TrainingProvider(id uuid.UUID) (legacy.TrainingProvider, bool)
	TryResolveEstablishment(code string) (legacy.TrainingProvider, bool)
	TryResolveMqSpecialism(code string) (models.MqSpecialism, bool)
	RouteType(id uuid.UUID) (legacy.RouteType, bool)
	TrainingSubject(id uuid.UUID) (string, bool)
	InductionExemptionReason(id uuid.UUID) (string, bool)
	Country(code string) (string, bool)
}

// RenderContext is what a renderer knows besides the event itself.
type RenderContext struct {
	// PersonID is whose history is being rendered. One event can appear in
	// several histories and read differently in each.
	PersonID id.PersonID
	Ref      Reference
}

// Renderer produces the kind-specific part of an item: heading, fields and
// visibility. It reports false when the payload is not the type it expects.
type Renderer interface {
	Render(rc RenderContext, env events.Envelope) (Item, bool)
}

type RendererFunc func(rc RenderContext, env events.Envelope) (Item, bool)

func (f RendererFunc) Render(rc RenderContext, env events.Envelope) (Item, bool) { return f(rc, env) }

// renderAs adapts a typed render function.
func renderAs[P events.Payload](fn func(rc RenderContext, p P) Item) Renderer {
	return RendererFunc(func(rc RenderContext, env events.Envelope) (Item, bool) {
		p, ok := env.Payload.(P)
		if !ok {
			return Item{}, false
		}
		return fn(rc, p), true
	})
}

// Skip reasons reported to metrics and logs.
const (
	SkipUnknownKind     = "unknown_kind"
	SkipDecodeError     = "decode_error"
	SkipNoRenderer      = "no_renderer"
	SkipPayloadMismatch = "payload_mismatch"
)

type Builder struct {
	ref       Reference
	renderers map[events.Kind]Renderer
	location  *time.Location
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

type Option func(*Builder)

func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Builder) {
		b.metrics = m
	}
}

// WithLocation sets the display time zone.
func WithLocation(loc *time.Location) Option {
	return func(b *Builder) {
		if loc != nil {
			b.location = loc
		}
	}
}

// WithRenderer adds or replaces the renderer for kind.
func WithRenderer(kind events.Kind, r Renderer) Option {
	return func(b *Builder) {
		b.renderers[kind] = r
	}
}

// LoadLocation resolves a display time zone name. The tz database is compiled
// in, so this does not depend on the host.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultTimeZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("load display time zone %q: %w", name, err)
	}
	return loc, nil
}

func NewBuilder(ref Reference, opts ...Option) *Builder {
	b := &Builder{
		ref:       ref,
		renderers: defaultRenderers(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.location == nil {
		loc, err := LoadLocation(DefaultTimeZone)
		if err != nil {
			loc = time.UTC
		}
		b.location = loc
	}
	return b
}

// Location returns the display time zone.
func (b *Builder) Location() *time.Location { return b.location }

// Build renders envs for personID in chronological order, oldest first. envs
// is not modified.
func (b *Builder) Build(ctx context.Context, personID id.PersonID, envs []events.Envelope) []Item {
	ordered := slices.Clone(envs)
	events.SortChronological(ordered)

	rc := RenderContext{PersonID: personID, Ref: b.ref}
	items := make([]Item, 0, len(ordered))
	for _, env := range ordered {
		item, ok := b.render(ctx, rc, env)
		if !ok {
			continue
		}
		items = append(items, item)
	}
	return items
}

func (b *Builder) render(ctx context.Context, rc RenderContext, env events.Envelope) (Item, bool) {
	if unknown, ok := env.Payload.(events.UnknownPayload); ok {
		reason := SkipUnknownKind
		if events.DefaultRegistry.Known(unknown.RawKind) {
			reason = SkipDecodeError
		}
		b.skip(ctx, env, reason, unknown.Err)
		return Item{}, false
	}

	renderer, ok := b.renderers[env.Kind()]
	if !ok {
		b.skip(ctx, env, SkipNoRenderer, nil)
		return Item{}, false
	}
	item, ok := renderer.Render(rc, env)
	if !ok {
		b.skip(ctx, env, SkipPayloadMismatch, nil)
		return Item{}, false
	}

	item.EventID = env.EventID
	item.Sequence = env.Sequence
	item.Kind = env.Kind()
	item.AggregateKey = env.AggregateKey
	item.OccurredAt = env.CreatedAt.UTC()
	item.Timestamp = FormatTimestamp(env.CreatedAt, b.location)
	if env.RaisedBy != nil {
		item.RaisedBy = env.RaisedBy.DisplayName()
	}
	if r, ok := env.Payload.(events.Reasoned); ok {
		reason := r.Reason()
		item.Reason = reason.Reason
		item.ReasonDetail = reason.ReasonDetail
		item.Evidence = reason.Evidence
	}
	return item, true
}

func (b *Builder) skip(ctx context.Context, env events.Envelope, reason string, err error) {
	b.metrics.IncrementSkipped(reason)
	attrs := []any{
		"event_id", env.EventID.String(),
		"kind", env.Kind().String(),
		"person_id", env.PersonID.String(),
		"reason", reason,
	}
	if err != nil {
		attrs = append(attrs, "error", err)
	}
	b.logger.WarnContext(ctx, "skipping event in change history", attrs...)
}

func defaultRenderers() map[events.Kind]Renderer {
	r := make(map[events.Kind]Renderer)
	registerAlertRenderers(r)
	registerPersonRenderers(r)
	registerMandatoryQualificationRenderers(r)
	registerRouteRenderers(r)
	registerInductionRenderers(r)
	registerSupportTaskRenderers(r)
	return r
}
