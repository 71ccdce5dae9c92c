package models

import "github.com/google/uuid"

// SanctionCode is the legacy sanction reference carried on alerts that came
// from DQT.
type SanctionCode struct {
	Value string `json:"value"`
	Name  string `json:"name"`
}

type Alert struct {
	AlertID         uuid.UUID     `json:"alert_id"`
	AlertTypeID     *uuid.UUID    `json:"alert_type_id"`
	Details         *string       `json:"details"`
	ExternalLink    *string       `json:"external_link"`
	StartDate       *Date         `json:"start_date"`
	EndDate         *Date         `json:"end_date"`
	DqtSpent        *bool         `json:"dqt_spent,omitempty"`
	DqtSanctionCode *SanctionCode `json:"dqt_sanction_code,omitempty"`
}

// IsOpen reports whether the alert has no end date.
func (a Alert) IsOpen() bool { return a.EndDate == nil }
