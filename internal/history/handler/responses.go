package handler

import (
	"time"

	"github.com/google/uuid"

	"trs/internal/history/service"
	"trs/internal/history/timeline"
)

// ChangeHistoryResponse is the HTTP response for GET /persons/{personId}/change-history.
type ChangeHistoryResponse struct {
	PersonID            string         `json:"person_id"`
	TRN                 string         `json:"trn"`
	Name                string         `json:"name"`
	HasHiddenOpenAlerts bool           `json:"has_hidden_open_alerts"`
	Items               []ItemResponse `json:"items"`
}

type ItemResponse struct {
	EventID      string            `json:"event_id"`
	Kind         string            `json:"kind"`
	Heading      string            `json:"heading"`
	RaisedBy     string            `json:"raised_by"`
	Timestamp    string            `json:"timestamp"`
	OccurredAt   time.Time         `json:"occurred_at"`
	Fields       []FieldResponse   `json:"fields"`
	Reason       *string           `json:"reason,omitempty"`
	ReasonDetail *string           `json:"reason_detail,omitempty"`
	Evidence     *EvidenceResponse `json:"evidence,omitempty"`
}

type FieldResponse struct {
	Label    string  `json:"label"`
	Value    string  `json:"value"`
	Previous *string `json:"previous,omitempty"`
}

type EvidenceResponse struct {
	FileID uuid.UUID `json:"file_id"`
	Name   string    `json:"name"`
	URL    string    `json:"url,omitempty"`
}

// FromChangeHistory converts a service result to its HTTP form.
func FromChangeHistory(h *service.ChangeHistory) *ChangeHistoryResponse {
	resp := &ChangeHistoryResponse{
		HasHiddenOpenAlerts: h.HasHiddenOpenAlerts,
		Items:               make([]ItemResponse, 0, len(h.Items)),
	}
	if h.Person != nil {
		resp.PersonID = h.Person.ID.String()
		resp.TRN = h.Person.TRN.String()
		resp.Name = h.Person.FullName()
	}
	for _, item := range h.Items {
		resp.Items = append(resp.Items, fromItem(item))
	}
	return resp
}

func fromItem(item timeline.Item) ItemResponse {
	out := ItemResponse{
		EventID:      item.EventID.String(),
		Kind:         string(item.Kind),
		Heading:      item.Heading,
		RaisedBy:     item.RaisedBy,
		Timestamp:    item.Timestamp,
		OccurredAt:   item.OccurredAt.UTC(),
		Fields:       make([]FieldResponse, 0, len(item.Fields)),
		Reason:       item.Reason,
		ReasonDetail: item.ReasonDetail,
	}
	for _, f := range item.Fields {
		out.Fields = append(out.Fields, FieldResponse{Label: f.Label, Value: f.Value, Previous: f.Previous})
	}
	if item.Evidence != nil {
		out.Evidence = &EvidenceResponse{FileID: item.Evidence.FileID, Name: item.Evidence.Name}
	}
	return out
}
