package timeline

import (
	"trs/internal/history/changes"
	"trs/internal/history/events"
	"trs/internal/history/models"
)

var inductionFields = []fieldDesc[models.Induction, changes.InductionChanges]{
	{mask: changes.InductionChangesStatus, label: "Induction status", heading: "Induction status changed",
		render: func(_ Reference, i models.Induction) value { return present(i.Status.Display()) }},
	{mask: changes.InductionChangesStartDate, label: "Start date", heading: "Induction start date changed",
		render: func(_ Reference, i models.Induction) value { return dateValue(i.StartDate) }},
	{mask: changes.InductionChangesCompletedDate, label: "Completed date", heading: "Induction completed date changed",
		render: func(_ Reference, i models.Induction) value { return dateValue(i.CompletedDate) }},
	{mask: changes.InductionChangesExemptionReasons, label: "Exemption reasons", heading: "Induction exemption reasons changed",
		render: func(ref Reference, i models.Induction) value {
			return listValue(i.ExemptionReasonIDs, ref.InductionExemptionReason)
		}},
}

func registerInductionRenderers(r map[events.Kind]Renderer) {
	r[events.KindInductionCreated] = renderAs(func(rc RenderContext, p events.InductionCreated) Item {
		return Item{Heading: "Induction created", Fields: snapshotFields(rc.Ref, inductionFields, p.Induction)}
	})
	r[events.KindInductionUpdated] = renderAs(func(rc RenderContext, p events.InductionUpdated) Item {
		return Item{
			Heading: changeHeading(inductionFields, p.Changes, "Induction changed"),
			Fields:  changedFields(rc.Ref, inductionFields, p.OldInduction, p.Induction, p.Changes),
		}
	})
	r[events.KindInductionDeleted] = renderAs(func(rc RenderContext, p events.InductionDeleted) Item {
		return Item{Heading: "Induction deleted", Fields: snapshotFields(rc.Ref, inductionFields, p.Induction)}
	})
	r[events.KindInductionDqtImported] = renderAs(func(rc RenderContext, p events.InductionDqtImported) Item {
		return Item{Heading: "Induction imported", Fields: snapshotFields(rc.Ref, inductionFields, p.Induction)}
	})
}
