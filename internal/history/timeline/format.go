package timeline

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"trs/internal/history/models"
)

const (
	// NoneText renders an absent value.
	NoneText = "None"
	// NotProvidedText renders a reference that could not be resolved.
	NotProvidedText = "Not provided"

	TimestampLayout = "2 January 2006 at 3:04pm"
)

// FormatTimestamp renders t in loc the way history entries show it.
func FormatTimestamp(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(TimestampLayout)
}

// value is a rendered snapshot field; present is false when the underlying
// value is absent.
type value struct {
	text    string
	present bool
}

func absent() value             { return value{text: NoneText} }
func present(text string) value { return value{text: text, present: true} }
func unresolved() value         { return value{text: NotProvidedText, present: true} }

func stringValue(s *string) value {
	if s == nil {
		return absent()
	}
	return present(*s)
}

func dateValue(d *models.Date) value {
	if d == nil {
		return absent()
	}
	return present(d.Display())
}

func boolValue(b *bool) value {
	if b == nil {
		return absent()
	}
	if *b {
		return present("Yes")
	}
	return present("No")
}

func lookupValue(id *uuid.UUID, lookup func(uuid.UUID) (string, bool)) value {
	if id == nil {
		return absent()
	}
	if name, ok := lookup(*id); ok {
		return present(name)
	}
	return unresolved()
}

func listValue(ids []uuid.UUID, lookup func(uuid.UUID) (string, bool)) value {
	if len(ids) == 0 {
		return absent()
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		name, ok := lookup(id)
		if !ok {
			return unresolved()
		}
		names = append(names, name)
	}
	return present(strings.Join(names, ", "))
}

type displayer interface {
	~string
	Display() string
}

func enumValue[E displayer](e *E) value {
	if e == nil {
		return absent()
	}
	return present((*e).Display())
}

// fieldDesc describes how one logical field of snapshot S is labelled,
// rendered and matched against a change set of type F. mask may span several
// flags that render as one field.
type fieldDesc[S any, F any] struct {
	mask    F
	label   string
	heading string
	render  func(Reference, S) value
}

type changeSet[F any] interface {
	HasAny(F) bool
}

// snapshotFields renders every non-absent field of s.
func snapshotFields[S any, F any](ref Reference, descs []fieldDesc[S, F], s S) []Field {
	var out []Field
	for _, d := range descs {
		v := d.render(ref, s)
		if !v.present {
			continue
		}
		out = append(out, Field{Label: d.label, Value: v.text})
	}
	return out
}

// changedFields renders a before/after pair for every field flagged in c.
func changedFields[S any, F changeSet[F]](ref Reference, descs []fieldDesc[S, F], old, new S, c F) []Field {
	var out []Field
	for _, d := range descs {
		if !c.HasAny(d.mask) {
			continue
		}
		prev := d.render(ref, old).text
		out = append(out, Field{Label: d.label, Value: d.render(ref, new).text, Previous: &prev})
	}
	return out
}

// changeHeading names the single changed field, or falls back to generic when
// more than one field changed. Flags grouped under one desc count once.
func changeHeading[S any, F changeSet[F]](descs []fieldDesc[S, F], c F, generic string) string {
	var matched []fieldDesc[S, F]
	for _, d := range descs {
		if c.HasAny(d.mask) {
			matched = append(matched, d)
		}
	}
	if len(matched) == 1 && matched[0].heading != "" {
		return matched[0].heading
	}
	return generic
}
