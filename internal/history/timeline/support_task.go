package timeline

import (
	"trs/internal/history/changes"
	"trs/internal/history/events"
	"trs/internal/history/models"
)

var supportTaskFields = []fieldDesc[models.SupportTask, changes.SupportTaskChanges]{
	{mask: changes.SupportTaskChangesStatus, label: "Status",
		render: func(_ Reference, t models.SupportTask) value { return present(string(t.Status)) }},
	{mask: changes.SupportTaskChangesOutcome, label: "Outcome",
		render: func(_ Reference, t models.SupportTask) value { return stringValue(t.Outcome) }},
}

func registerSupportTaskRenderers(r map[events.Kind]Renderer) {
	r[events.KindSupportTaskUpdated] = renderAs(func(rc RenderContext, p events.SupportTaskUpdated) Item {
		heading := "Support task updated"
		if p.Changes.Has(changes.SupportTaskChangesStatus) && p.SupportTask.Status == models.SupportTaskStatusClosed {
			heading = "Support task completed"
		}
		fields := []Field{{
			Label: "Support task",
			Value: p.SupportTask.TaskType.Title() + " (" + p.SupportTask.SupportTaskReference + ")",
		}}
		fields = append(fields, changedFields(rc.Ref, supportTaskFields, p.OldSupportTask, p.SupportTask, p.Changes)...)
		if p.Comments != nil {
			fields = append(fields, Field{Label: "Comments", Value: *p.Comments})
		}
		return Item{Heading: heading, Fields: fields}
	})
}
