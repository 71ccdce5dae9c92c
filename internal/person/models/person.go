package models

import (
	"strings"

	historymodels "trs/internal/history/models"
	id "trs/pkg/domain"
)

type Status string

const (
	StatusActive      Status = "active"
	StatusDeactivated Status = "deactivated"
)

// Person is the directory entry for a teaching record holder.
type Person struct {
	ID         id.PersonID `json:"person_id"`
	TRN        id.TRN      `json:"trn"`
	FirstName  string      `json:"first_name"`
	MiddleName string      `json:"middle_name,omitempty"`
	LastName   string      `json:"last_name"`
	Status     Status      `json:"status"`
}

func (p Person) FullName() string {
	return strings.Join(strings.Fields(p.FirstName+" "+p.MiddleName+" "+p.LastName), " ")
}

func (p Person) IsActive() bool {
	return p.Status != StatusDeactivated
}

func middleName(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}

// Summary is the form embedded in merge events.
func (p Person) Summary() historymodels.PersonSummary {
	return historymodels.PersonSummary{
		PersonID:   p.ID,
		TRN:        p.TRN,
		FirstName:  p.FirstName,
		MiddleName: middleName(p.MiddleName),
		LastName:   p.LastName,
	}
}
