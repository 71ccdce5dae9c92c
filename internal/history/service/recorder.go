package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"slices"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"trs/internal/history/events"
	"trs/internal/history/metrics"
	"trs/internal/history/store"
	dErrors "trs/pkg/domain-errors"
	"trs/pkg/platform/clock"
	"trs/pkg/platform/sentinel"
	"trs/pkg/platform/tx"
)

// Recorder is the write path. Domain actions call Record with the ctx of their
// own transaction so the event and the entity change commit together.
type Recorder struct {
	store   store.Store
	runner  tx.Runner
	clock   clock.Clock
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

type RecorderOption func(*Recorder)

func WithRecorderLogger(logger *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		r.logger = logger
	}
}

func WithRecorderMetrics(m *metrics.Metrics) RecorderOption {
	return func(r *Recorder) {
		r.metrics = m
	}
}

func WithClock(c clock.Clock) RecorderOption {
	return func(r *Recorder) {
		r.clock = c
	}
}

// WithTxRunner sets the commit boundary used by RunInTx.
func WithTxRunner(runner tx.Runner) RecorderOption {
	return func(r *Recorder) {
		r.runner = runner
	}
}

func NewRecorder(s store.Store, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		store:  s,
		clock:  clock.System{},
		logger: slog.Default(),
		tracer: otel.Tracer(tracerName),
	}
	if runner, ok := s.(tx.Runner); ok {
		r.runner = runner
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunInTx runs a domain action. If fn fails nothing it wrote, events
// included, is committed.
func (r *Recorder) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if r.runner == nil {
		return fn(ctx)
	}
	return r.runner.RunInTx(ctx, fn)
}

// Record validates env and appends it. A zero CreatedAt is stamped from the
// clock. The stored envelope is returned.
func (r *Recorder) Record(ctx context.Context, env events.Envelope) (events.Envelope, error) {
	ctx, span := r.tracer.Start(ctx, "history.record",
		trace.WithAttributes(
			attribute.String("trs.event_kind", string(env.Kind())),
			attribute.String("trs.person_id", env.PersonID.String()),
		))
	defer span.End()

	if env.CreatedAt.IsZero() {
		env.CreatedAt = r.clock.Now().UTC()
	}
	if err := events.Validate(env); err != nil {
		r.metrics.IncrementAppendFailures()
		err = dErrors.Wrap(err, dErrors.CodeValidation, "invalid "+string(env.Kind()))
		markSpan(span, err)
		return events.Envelope{}, err
	}

	if err := r.checkSequence(ctx, env); err != nil {
		r.metrics.IncrementAppendFailures()
		markSpan(span, err)
		return events.Envelope{}, err
	}

	if err := r.store.Append(ctx, env); err != nil {
		r.metrics.IncrementAppendFailures()
		r.logger.ErrorContext(ctx, "failed to append event",
			"event_id", env.EventID.String(),
			"kind", string(env.Kind()),
			"person_id", env.PersonID.String(),
			"error", err,
		)
		if errors.Is(err, sentinel.ErrConflict) {
			err = dErrors.Wrap(err, dErrors.CodeConflict, "event "+env.EventID.String()+" already recorded")
		} else {
			err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to record event")
		}
		markSpan(span, err)
		return events.Envelope{}, err
	}

	r.metrics.IncrementAppended(string(env.Kind()))
	markSpan(span, nil)
	return env, nil
}

// checkSequence rejects a create for an aggregate that is already live.
func (r *Recorder) checkSequence(ctx context.Context, env events.Envelope) error {
	staged, ok := env.Payload.(events.Staged)
	if !ok || staged.Lifecycle() != events.LifecycleCreate || env.AggregateKey == nil {
		return nil
	}
	existing, err := r.store.LoadAllForPerson(ctx, env.PersonID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load events for sequence check")
	}
	// Anomalies already stored on other aggregates are not this create's
	// concern; verify reports them.
	key := *env.AggregateKey
	same := slices.DeleteFunc(existing, func(e events.Envelope) bool {
		return e.AggregateKey == nil || *e.AggregateKey != key
	})
	candidate := env
	candidate.Sequence = math.MaxInt64
	if err := events.ValidateSequence(append(same, candidate)); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvariantViolation, "aggregate "+env.AggregateKey.String()+" is already live")
	}
	return nil
}
