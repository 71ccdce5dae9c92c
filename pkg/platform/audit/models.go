// Package audit records who looked at which teacher record. It is separate
// from the change history itself: reads never produce history events.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	id "trs/pkg/domain"
)

// Category decides retention. Compliance entries are kept for the life of
// the record; security entries feed alerting.
type Category string

const (
	CategoryCompliance Category = "compliance"
	CategorySecurity   Category = "security"
)

type Action string

const (
	ActionChangeHistoryViewed Action = "change_history_viewed"
	ActionChangeHistoryDenied Action = "change_history_denied"
)

var actionCategories = map[Action]Category{
	ActionChangeHistoryViewed: CategoryCompliance,
	ActionChangeHistoryDenied: CategorySecurity,
}

// Category returns the category for a, CategorySecurity when unknown.
func (a Action) Category() Category {
	if c, ok := actionCategories[a]; ok {
		return c
	}
	return CategorySecurity
}

// Event is one access to a person's record.
type Event struct {
	ID        uuid.UUID
	Timestamp time.Time
	Action    Action
	PersonID  id.PersonID
	UserID    id.UserID
	UserName  string
	RequestID string
	ClientIP  string
	// ItemsShown and ItemsHidden are the timeline counts after filtering.
	ItemsShown  int
	ItemsHidden int
	Reason      string
}

func (e Event) Category() Category { return e.Action.Category() }

type Store interface {
	Append(ctx context.Context, event Event) error
	// ListByPerson returns events for personID, newest first.
	ListByPerson(ctx context.Context, personID id.PersonID, limit int) ([]Event, error)
}
