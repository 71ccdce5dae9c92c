package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"trs/internal/history/service"
	"trs/internal/history/visibility"
	id "trs/pkg/domain"
	dErrors "trs/pkg/domain-errors"
	"trs/pkg/platform/audit"
	"trs/pkg/platform/httputil"
	"trs/pkg/platform/middleware/metadata"
	"trs/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service,FileLinker

// Service is the read side of the change history.
type Service interface {
	GetChangeHistory(ctx context.Context, personID id.PersonID, caps visibility.Capabilities) (*service.ChangeHistory, error)
}

// FileLinker turns an evidence file id into a download URL.
type FileLinker interface {
	FileURL(ctx context.Context, fileID uuid.UUID) (string, error)
}

// Auditor records who viewed a record.
type Auditor interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Handler serves a person's change history.
type Handler struct {
	service Service
	files   FileLinker
	auditor Auditor
	logger  *slog.Logger
}

type Option func(*Handler)

// WithFileLinker adds download URLs to evidence in responses.
func WithFileLinker(files FileLinker) Option {
	return func(h *Handler) {
		h.files = files
	}
}

func WithAuditor(a Auditor) Option {
	return func(h *Handler) {
		h.auditor = a
	}
}

func New(service Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{service: service, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the change history endpoint on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/persons/{personId}/change-history", h.HandleGetChangeHistory)
}

// HandleGetChangeHistory handles GET /persons/{personId}/change-history.
func (h *Handler) HandleGetChangeHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	personID, err := id.ParsePersonID(chi.URLParam(r, "personId"))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid person id"))
		return
	}

	caps := visibility.CapabilitiesForRoles(requestcontext.Roles(ctx))
	if !caps.Has(visibility.CapabilityRecordView) {
		h.audit(ctx, audit.Event{
			Action:   audit.ActionChangeHistoryDenied,
			PersonID: personID,
			Reason:   "missing " + string(visibility.CapabilityRecordView),
		})
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "not permitted to view this record"))
		return
	}
	history, err := h.service.GetChangeHistory(ctx, personID, caps)
	if err != nil {
		level := slog.LevelWarn
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			level = slog.LevelError
		}
		h.logger.Log(ctx, level, "change history request failed",
			"request_id", requestID,
			"user_id", userID.String(),
			"person_id", personID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	resp := FromChangeHistory(history)
	h.linkEvidence(ctx, resp)
	h.audit(ctx, audit.Event{
		Action:      audit.ActionChangeHistoryViewed,
		PersonID:    personID,
		ItemsShown:  len(resp.Items),
		ItemsHidden: history.Hidden,
	})

	h.logger.InfoContext(ctx, "change history served",
		"request_id", requestID,
		"user_id", userID.String(),
		"person_id", personID.String(),
		"items", len(resp.Items),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// audit stamps the caller onto event and emits it. Failures are logged only.
func (h *Handler) audit(ctx context.Context, event audit.Event) {
	if h.auditor == nil {
		return
	}
	event.UserID = requestcontext.UserID(ctx)
	event.UserName = requestcontext.UserName(ctx)
	event.RequestID = requestcontext.RequestID(ctx)
	event.ClientIP = metadata.GetClientIP(ctx)
	event.Timestamp = requestcontext.Now(ctx)
	if err := h.auditor.Emit(ctx, event); err != nil {
		h.logger.WarnContext(ctx, "failed to record access",
			"action", string(event.Action),
			"person_id", event.PersonID.String(),
			"error", err,
		)
	}
}

// linkEvidence fills evidence URLs. A failed lookup leaves the URL empty.
func (h *Handler) linkEvidence(ctx context.Context, resp *ChangeHistoryResponse) {
	if h.files == nil {
		return
	}
	for i := range resp.Items {
		ev := resp.Items[i].Evidence
		if ev == nil {
			continue
		}
		url, err := h.files.FileURL(ctx, ev.FileID)
		if err != nil {
			h.logger.WarnContext(ctx, "evidence link unavailable",
				"file_id", ev.FileID.String(),
				"error", err,
			)
			continue
		}
		ev.URL = url
	}
}
