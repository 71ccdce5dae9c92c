package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	id "trs/pkg/domain"
	dErrors "trs/pkg/domain-errors"
	"trs/pkg/platform/audit"
	"trs/pkg/platform/httputil"
)

const (
	defaultAccessLimit = 50
	maxAccessLimit     = 500
)

type AccessLister interface {
	List(ctx context.Context, personID id.PersonID, limit int) ([]audit.Event, error)
}

// AccessLog serves the record access trail to administrators.
type AccessLog struct {
	lister AccessLister
}

func NewAccessLog(lister AccessLister) *AccessLog {
	return &AccessLog{lister: lister}
}

func (a *AccessLog) Register(r chi.Router) {
	r.Get("/persons/{personId}/access-log", a.HandleList)
}

type AccessEntryResponse struct {
	ID          string    `json:"id"`
	Action      string    `json:"action"`
	Category    string    `json:"category"`
	UserID      string    `json:"user_id,omitempty"`
	UserName    string    `json:"user_name,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
	ClientIP    string    `json:"client_ip,omitempty"`
	ItemsShown  int       `json:"items_shown"`
	ItemsHidden int       `json:"items_hidden"`
	Reason      string    `json:"reason,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type AccessLogResponse struct {
	PersonID string                `json:"person_id"`
	Entries  []AccessEntryResponse `json:"entries"`
}

// HandleList handles GET /persons/{personId}/access-log?limit=n.
func (a *AccessLog) HandleList(w http.ResponseWriter, r *http.Request) {
	personID, err := id.ParsePersonID(chi.URLParam(r, "personId"))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid person id"))
		return
	}
	limit := defaultAccessLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 || limit > maxAccessLimit {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be between 1 and "+strconv.Itoa(maxAccessLimit)))
			return
		}
	}

	events, err := a.lister.List(r.Context(), personID, limit)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load access log"))
		return
	}
	resp := AccessLogResponse{PersonID: personID.String(), Entries: make([]AccessEntryResponse, 0, len(events))}
	for _, e := range events {
		entry := AccessEntryResponse{
			ID:          e.ID.String(),
			Action:      string(e.Action),
			Category:    string(e.Category()),
			UserName:    e.UserName,
			RequestID:   e.RequestID,
			ClientIP:    e.ClientIP,
			ItemsShown:  e.ItemsShown,
			ItemsHidden: e.ItemsHidden,
			Reason:      e.Reason,
			OccurredAt:  e.Timestamp,
		}
		if !e.UserID.IsNil() {
			entry.UserID = e.UserID.String()
		}
		resp.Entries = append(resp.Entries, entry)
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}
