package timeline

import (
	"fmt"

	"trs/internal/history/changes"
	"trs/internal/history/events"
	"trs/internal/history/models"
	"trs/internal/history/visibility"
)

var alertFields = []fieldDesc[models.Alert, changes.AlertChanges]{
	{mask: changes.AlertChangesAlertType, label: "Alert type", heading: "Alert type changed", render: alertTypeValue},
	{mask: changes.AlertChangesDetails, label: "Details", heading: "Alert details changed", render: func(_ Reference, a models.Alert) value {
		return stringValue(a.Details)
	}},
	{mask: changes.AlertChangesExternalLink, label: "Link", heading: "Alert link changed", render: func(_ Reference, a models.Alert) value {
		return stringValue(a.ExternalLink)
	}},
	{mask: changes.AlertChangesStartDate, label: "Start date", heading: "Alert start date changed", render: func(_ Reference, a models.Alert) value {
		return dateValue(a.StartDate)
	}},
	{mask: changes.AlertChangesEndDate, label: "End date", render: func(_ Reference, a models.Alert) value {
		return dateValue(a.EndDate)
	}},
	{mask: changes.AlertChangesDqtSpent, label: "Spent", heading: "Alert spent status changed", render: func(_ Reference, a models.Alert) value {
		return boolValue(a.DqtSpent)
	}},
	{mask: changes.AlertChangesDqtSanctionCode, label: "Sanction code", heading: "Alert sanction code changed", render: func(_ Reference, a models.Alert) value {
		if a.DqtSanctionCode == nil {
			return absent()
		}
		return present(fmt.Sprintf("%s - %s", a.DqtSanctionCode.Value, a.DqtSanctionCode.Name))
	}},
}

// alertTypeValue prefers the current type id and falls back to the legacy
// sanction code.
func alertTypeValue(ref Reference, a models.Alert) value {
	switch {
	case a.AlertTypeID != nil:
		if at, ok := ref.AlertType(*a.AlertTypeID); ok {
			return present(at.Name)
		}
		return unresolved()
	case a.DqtSanctionCode != nil:
		if at, ok := ref.TryResolveSanctionCode(a.DqtSanctionCode.Value); ok {
			return present(at.Name)
		}
		return unresolved()
	default:
		return absent()
	}
}

// alertRequirement is the strictest requirement across the given snapshots,
// so a type change cannot expose a DBS alert through its other side.
func alertRequirement(ref Reference, alerts ...models.Alert) visibility.Requirement {
	req := visibility.RequirementNone
	for _, a := range alerts {
		req = max(req, visibility.RequirementForAlert(a, ref))
	}
	return req
}

// alertUpdatedHeading applies the end date tie-break before the generic
// single-field rule.
func alertUpdatedHeading(p events.AlertUpdated) string {
	if p.Changes == changes.AlertChangesEndDate {
		switch {
		case p.OldAlert.EndDate == nil && p.Alert.EndDate != nil:
			return "Alert closed"
		case p.OldAlert.EndDate != nil && p.Alert.EndDate == nil:
			return "Alert re-opened"
		default:
			return "Alert end date changed"
		}
	}
	return changeHeading(alertFields, p.Changes, "Alert changed")
}

func alertSnapshotItem(ref Reference, heading string, a models.Alert) Item {
	return Item{
		Heading:    heading,
		Fields:     snapshotFields(ref, alertFields, a),
		Visibility: alertRequirement(ref, a),
	}
}

func registerAlertRenderers(r map[events.Kind]Renderer) {
	r[events.KindAlertCreated] = renderAs(func(rc RenderContext, p events.AlertCreated) Item {
		return alertSnapshotItem(rc.Ref, "Alert added", p.Alert)
	})
	r[events.KindAlertUpdated] = renderAs(func(rc RenderContext, p events.AlertUpdated) Item {
		return Item{
			Heading:    alertUpdatedHeading(p),
			Fields:     changedFields(rc.Ref, alertFields, p.OldAlert, p.Alert, p.Changes),
			Visibility: alertRequirement(rc.Ref, p.OldAlert, p.Alert),
		}
	})
	r[events.KindAlertDeleted] = renderAs(func(rc RenderContext, p events.AlertDeleted) Item {
		return alertSnapshotItem(rc.Ref, "Alert deleted", p.Alert)
	})
	r[events.KindAlertMigrated] = renderAs(func(rc RenderContext, p events.AlertMigrated) Item {
		return Item{
			Heading:    "Alert migrated",
			Fields:     changedFields(rc.Ref, alertFields, p.OldAlert, p.Alert, p.Changes),
			Visibility: alertRequirement(rc.Ref, p.OldAlert, p.Alert),
		}
	})
	r[events.KindAlertDqtImported] = renderAs(func(rc RenderContext, p events.AlertDqtImported) Item {
		return alertSnapshotItem(rc.Ref, "Alert imported", p.Alert)
	})
	r[events.KindAlertDqtDeactivated] = renderAs(func(rc RenderContext, p events.AlertDqtDeactivated) Item {
		return alertSnapshotItem(rc.Ref, "Alert deactivated", p.Alert)
	})
	r[events.KindAlertDqtReactivated] = renderAs(func(rc RenderContext, p events.AlertDqtReactivated) Item {
		return alertSnapshotItem(rc.Ref, "Alert reactivated", p.Alert)
	})
}
