package events

import (
	"errors"

	"trs/internal/history/changes"
	"trs/internal/history/models"
	id "trs/pkg/domain"
)

type PersonCreated struct {
	TRN     id.TRN               `json:"trn"`
	Details models.PersonDetails `json:"details"`
	reason
}

type PersonDetailsUpdated struct {
	Details    models.PersonDetails         `json:"details"`
	OldDetails models.PersonDetails         `json:"old_details"`
	Changes    changes.PersonDetailsChanges `json:"changes"`
	reason
}

// PersonsMerged folds SecondaryPerson into PrimaryPerson. Details is the
// surviving record after the merge, OldDetails the primary before it and
// SecondaryDetails the discarded record. Changes flags the fields the primary
// took from the secondary.
type PersonsMerged struct {
	PrimaryPerson    models.PersonSummary         `json:"primary_person"`
	SecondaryPerson  models.PersonSummary         `json:"secondary_person"`
	Details          models.PersonDetails         `json:"details"`
	OldDetails       models.PersonDetails         `json:"old_details"`
	SecondaryDetails models.PersonDetails         `json:"secondary_details"`
	Changes          changes.PersonDetailsChanges `json:"changes"`
	Comments         *string                      `json:"comments"`
	reason
}

func (PersonCreated) Kind() Kind        { return KindPersonCreated }
func (PersonDetailsUpdated) Kind() Kind { return KindPersonDetailsUpdated }
func (PersonsMerged) Kind() Kind        { return KindPersonsMerged }

func (p PersonDetailsUpdated) Validate() error {
	return checkChanges(p.Kind(), p.Changes, changes.DiffPersonDetails(p.OldDetails, p.Details))
}

func (p PersonsMerged) Validate() error {
	if p.PrimaryPerson.PersonID == p.SecondaryPerson.PersonID {
		return errors.New("persons merged: primary and secondary are the same person")
	}
	return checkChanges(p.Kind(), p.Changes, changes.DiffPersonDetails(p.OldDetails, p.Details))
}
