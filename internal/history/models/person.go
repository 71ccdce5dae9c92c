package models

import (
	"strings"

	"github.com/google/uuid"

	id "trs/pkg/domain"
)

type Gender string

const (
	GenderMale         Gender = "Male"
	GenderFemale       Gender = "Female"
	GenderOther        Gender = "Other"
	GenderNotAvailable Gender = "NotAvailable"
)

func (g Gender) Display() string {
	if g == GenderNotAvailable {
		return "Not available"
	}
	return string(g)
}

type PersonDetails struct {
	FirstName               string  `json:"first_name"`
	MiddleName              *string `json:"middle_name"`
	LastName                string  `json:"last_name"`
	DateOfBirth             *Date   `json:"date_of_birth"`
	EmailAddress            *string `json:"email_address"`
	NationalInsuranceNumber *string `json:"national_insurance_number"`
	Gender                  *Gender `json:"gender"`
}

// FullName joins the non-empty name parts.
func (p PersonDetails) FullName() string {
	return joinName(p.FirstName, Value(p.MiddleName), p.LastName)
}

// PersonSummary identifies a party to a merge.
type PersonSummary struct {
	PersonID   id.PersonID `json:"person_id"`
	TRN        id.TRN      `json:"trn"`
	FirstName  string      `json:"first_name"`
	MiddleName *string     `json:"middle_name"`
	LastName   string      `json:"last_name"`
}

func (p PersonSummary) FullName() string {
	return joinName(p.FirstName, Value(p.MiddleName), p.LastName)
}

func joinName(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " ")
}

// File is an opaque reference into the evidence file service.
type File struct {
	FileID uuid.UUID `json:"file_id"`
	Name   string    `json:"name"`
}

// ChangeReasonInfo is the optional reason, detail and evidence attached to a
// change by the user who made it.
type ChangeReasonInfo struct {
	Reason       *string `json:"reason"`
	ReasonDetail *string `json:"reason_detail"`
	Evidence     *File   `json:"evidence"`
}

func (c ChangeReasonInfo) IsEmpty() bool {
	return c.Reason == nil && c.ReasonDetail == nil && c.Evidence == nil
}
