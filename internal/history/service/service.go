// Package service holds the two entry points into the change history: the
// Recorder that domain actions call to append events inside their transaction,
// and the read Service that assembles a person's visible timeline.
package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"trs/internal/history/events"
	"trs/internal/history/metrics"
	"trs/internal/history/timeline"
	"trs/internal/history/visibility"
	"trs/internal/person"
	personmodels "trs/internal/person/models"
	id "trs/pkg/domain"
	dErrors "trs/pkg/domain-errors"
	"trs/pkg/platform/sentinel"
)

const tracerName = "trs/history"

// EventLoader reads a person's events, oldest first.
type EventLoader interface {
	LoadAllForPerson(ctx context.Context, personID id.PersonID) ([]events.Envelope, error)
}

// ChangeHistory is a person's timeline as seen by one caller.
type ChangeHistory struct {
	Person *personmodels.Person
	// Items are newest first.
	Items []timeline.Item
	// HasHiddenOpenAlerts reports that at least one currently open alert was
	// withheld from this caller.
	HasHiddenOpenAlerts bool
	Hidden              int
}

// Service builds change histories.
type Service struct {
	events  EventLoader
	people  person.Directory
	builder *timeline.Builder
	types   visibility.AlertTypes
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(loader EventLoader, people person.Directory, builder *timeline.Builder, ref timeline.Reference, opts ...Option) *Service {
	s := &Service{
		events:  loader,
		people:  people,
		builder: builder,
		types:   ref,
		logger:  slog.Default(),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetChangeHistory returns personID's timeline filtered to what caps may see.
// An unknown person is a not-found error and no partial history is returned.
func (s *Service) GetChangeHistory(ctx context.Context, personID id.PersonID, caps visibility.Capabilities) (*ChangeHistory, error) {
	start := time.Now()
	defer s.metrics.ObserveTimelineBuild(start)

	ctx, span := s.tracer.Start(ctx, "history.get_change_history",
		trace.WithAttributes(attribute.String("trs.person_id", personID.String())))
	defer span.End()

	if !caps.Has(visibility.CapabilityRecordView) {
		err := dErrors.New(dErrors.CodeForbidden, "not permitted to view this record")
		markSpan(span, err)
		return nil, err
	}

	var (
		p    *personmodels.Person
		envs []events.Envelope
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		p, err = s.people.Get(gctx, personID)
		return err
	})
	g.Go(func() error {
		var err error
		envs, err = s.events.LoadAllForPerson(gctx, personID)
		return err
	})
	if err := g.Wait(); err != nil {
		err = translateLoadError(err, personID)
		markSpan(span, err)
		return nil, err
	}

	items := s.builder.Build(ctx, personID, envs)
	visible, hidden := visibility.Filter(items, caps)
	s.metrics.AddRedacted(hidden)

	slices.SortStableFunc(visible, newestFirst)

	history := &ChangeHistory{
		Person:              p,
		Items:               visible,
		HasHiddenOpenAlerts: visibility.HasHiddenOpenAlerts(envs, caps, s.types),
		Hidden:              hidden,
	}
	span.SetAttributes(
		attribute.Int("trs.events", len(envs)),
		attribute.Int("trs.items", len(visible)),
		attribute.Int("trs.hidden", hidden),
	)
	s.logger.DebugContext(ctx, "change history built",
		"person_id", personID.String(),
		"events", len(envs),
		"visible", len(visible),
		"hidden", hidden,
	)
	return history, nil
}

// newestFirst orders by OccurredAt descending; items at the same instant keep
// reverse append order.
func newestFirst(a, b timeline.Item) int {
	if c := b.OccurredAt.Compare(a.OccurredAt); c != 0 {
		return c
	}
	switch {
	case a.Sequence > b.Sequence:
		return -1
	case a.Sequence < b.Sequence:
		return 1
	}
	return 0
}

func translateLoadError(err error, personID id.PersonID) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, "person "+personID.String()+" not found")
	case errors.Is(err, context.DeadlineExceeded):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "loading change history timed out")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load change history")
	}
}

func markSpan(span trace.Span, err error) {
	if err == nil {
		span.SetStatus(codes.Ok, "")
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
