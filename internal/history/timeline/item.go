package timeline

import (
	"time"

	"github.com/google/uuid"

	"trs/internal/history/events"
	"trs/internal/history/models"
	"trs/internal/history/visibility"
	id "trs/pkg/domain"
)

// Item is the display-ready projection of one event, before visibility
// filtering.
type Item struct {
	EventID      id.EventID
	Sequence     int64
	Kind         events.Kind
	AggregateKey *uuid.UUID
	OccurredAt   time.Time
	Heading      string
	RaisedBy     string
	Timestamp    string
	Fields       []Field
	Reason       *string
	ReasonDetail *string
	Evidence     *models.File
	Visibility   visibility.Requirement
}

func (i Item) VisibilityRequirement() visibility.Requirement { return i.Visibility }

// Field is one rendered value. Previous is set only for before/after pairs.
type Field struct {
	Label    string
	Value    string
	Previous *string
}

// Field returns the field with the given label.
func (i Item) Field(label string) (Field, bool) {
	for _, f := range i.Fields {
		if f.Label == label {
			return f, true
		}
	}
	return Field{}, false
}
