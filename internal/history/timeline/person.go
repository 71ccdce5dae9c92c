package timeline

import (
	"fmt"

	"trs/internal/history/changes"
	"trs/internal/history/events"
	"trs/internal/history/models"
)

var personDetailsFields = []fieldDesc[models.PersonDetails, changes.PersonDetailsChanges]{
	{mask: changes.PersonDetailsNameChanges, label: "Name", heading: "Name changed", render: func(_ Reference, p models.PersonDetails) value {
		if name := p.FullName(); name != "" {
			return present(name)
		}
		return absent()
	}},
	{mask: changes.PersonDetailsChangesDateOfBirth, label: "Date of birth", heading: "Date of birth changed", render: func(_ Reference, p models.PersonDetails) value {
		return dateValue(p.DateOfBirth)
	}},
	{mask: changes.PersonDetailsChangesEmailAddress, label: "Email address", heading: "Email address changed", render: func(_ Reference, p models.PersonDetails) value {
		return stringValue(p.EmailAddress)
	}},
	{mask: changes.PersonDetailsChangesNationalInsuranceNumber, label: "National Insurance number", heading: "National Insurance number changed", render: func(_ Reference, p models.PersonDetails) value {
		return stringValue(p.NationalInsuranceNumber)
	}},
	{mask: changes.PersonDetailsChangesGender, label: "Gender", heading: "Gender changed", render: func(_ Reference, p models.PersonDetails) value {
		return enumValue(p.Gender)
	}},
}

func registerPersonRenderers(r map[events.Kind]Renderer) {
	r[events.KindPersonCreated] = renderAs(func(rc RenderContext, p events.PersonCreated) Item {
		fields := []Field{{Label: "TRN", Value: p.TRN.String()}}
		return Item{
			Heading: "Record created",
			Fields:  append(fields, snapshotFields(rc.Ref, personDetailsFields, p.Details)...),
		}
	})
	r[events.KindPersonDetailsUpdated] = renderAs(func(rc RenderContext, p events.PersonDetailsUpdated) Item {
		return Item{
			Heading: changeHeading(personDetailsFields, p.Changes, "Personal details changed"),
			Fields:  changedFields(rc.Ref, personDetailsFields, p.OldDetails, p.Details, p.Changes),
		}
	})
	r[events.KindPersonsMerged] = renderAs(renderPersonsMerged)
}

// renderPersonsMerged reads differently from each side of the merge.
func renderPersonsMerged(rc RenderContext, p events.PersonsMerged) Item {
	if rc.PersonID == p.SecondaryPerson.PersonID {
		return Item{
			Heading: fmt.Sprintf("Record merged into TRN %s and deactivated", p.PrimaryPerson.TRN),
			Fields: []Field{
				{Label: "Merged into", Value: mergePartyLabel(p.PrimaryPerson)},
			},
		}
	}

	fields := []Field{{Label: "Merged with", Value: mergePartyLabel(p.SecondaryPerson)}}
	fields = append(fields, changedFields(rc.Ref, personDetailsFields, p.OldDetails, p.Details, p.Changes)...)
	if p.Comments != nil {
		fields = append(fields, Field{Label: "Comments", Value: *p.Comments})
	}
	return Item{
		Heading: fmt.Sprintf("Record merged with TRN %s", p.SecondaryPerson.TRN),
		Fields:  fields,
	}
}

func mergePartyLabel(p models.PersonSummary) string {
	if name := p.FullName(); name != "" {
		return fmt.Sprintf("%s (TRN %s)", name, p.TRN)
	}
	return "TRN " + p.TRN.String()
}
