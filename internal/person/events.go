package person

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"trs/internal/history/events"
	historymodels "trs/internal/history/models"
	"trs/internal/person/models"
	id "trs/pkg/domain"
	"trs/pkg/platform/sentinel"
)

// EventLoader is the read side of the event store.
type EventLoader interface {
	LoadAllForPerson(ctx context.Context, personID id.PersonID) ([]events.Envelope, error)
}

// EventDirectory derives people from their own history. A person exists once
// a PersonCreated event, or a merge naming them, has been recorded. Backends
// without a persons table use it so imported histories can be read back.
type EventDirectory struct {
	events EventLoader
}

func NewEventDirectory(loader EventLoader) *EventDirectory {
	return &EventDirectory{events: loader}
}

func (d *EventDirectory) Get(ctx context.Context, personID id.PersonID) (*models.Person, error) {
	envs, err := d.events.LoadAllForPerson(ctx, personID)
	if err != nil {
		return nil, fmt.Errorf("load events for person %s: %w", personID, err)
	}
	envs = slices.Clone(envs)
	slices.SortStableFunc(envs, func(a, b events.Envelope) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Sequence, b.Sequence)
	})

	var p *models.Person
	for _, env := range envs {
		switch payload := env.Payload.(type) {
		case events.PersonCreated:
			if env.PersonID != personID {
				continue
			}
			p = &models.Person{ID: personID, TRN: payload.TRN, Status: models.StatusActive}
			applyDetails(p, payload.Details)
		case events.PersonDetailsUpdated:
			if p != nil && env.PersonID == personID {
				applyDetails(p, payload.Details)
			}
		case events.PersonsMerged:
			switch personID {
			case payload.PrimaryPerson.PersonID:
				if p == nil {
					p = fromSummary(payload.PrimaryPerson)
				}
				applyDetails(p, payload.Details)
			case payload.SecondaryPerson.PersonID:
				if p == nil {
					p = fromSummary(payload.SecondaryPerson)
				}
				p.Status = models.StatusDeactivated
			}
		}
	}
	if p == nil {
		return nil, sentinel.ErrNotFound
	}
	return p, nil
}

func applyDetails(p *models.Person, d historymodels.PersonDetails) {
	p.FirstName = d.FirstName
	p.MiddleName = historymodels.Value(d.MiddleName)
	p.LastName = d.LastName
}

func fromSummary(s historymodels.PersonSummary) *models.Person {
	return &models.Person{
		ID:         s.PersonID,
		TRN:        s.TRN,
		FirstName:  s.FirstName,
		MiddleName: historymodels.Value(s.MiddleName),
		LastName:   s.LastName,
		Status:     models.StatusActive,
	}
}
