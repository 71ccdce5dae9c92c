package timeline

import (
	"trs/internal/history/changes"
	"trs/internal/history/events"
	"trs/internal/history/models"
)

// The provider and specialism fields each cover the current value and its
// legacy code; a change to either renders as one field.
var mandatoryQualificationFields = []fieldDesc[models.MandatoryQualification, changes.MandatoryQualificationChanges]{
	{
		mask:    changes.MandatoryQualificationChangesProvider | changes.MandatoryQualificationChangesDqtEstablishmentCode,
		label:   "Training provider",
		heading: "Mandatory qualification provider changed",
		render:  mqProviderValue,
	},
	{
		mask:    changes.MandatoryQualificationChangesSpecialism | changes.MandatoryQualificationChangesDqtSpecialismCode,
		label:   "Specialism",
		heading: "Mandatory qualification specialism changed",
		render:  mqSpecialismValue,
	},
	{
		mask:    changes.MandatoryQualificationChangesStatus,
		label:   "Status",
		heading: "Mandatory qualification status changed",
		render: func(_ Reference, mq models.MandatoryQualification) value {
			return enumValue(mq.Status)
		},
	},
	{
		mask:    changes.MandatoryQualificationChangesStartDate,
		label:   "Start date",
		heading: "Mandatory qualification start date changed",
		render: func(_ Reference, mq models.MandatoryQualification) value {
			return dateValue(mq.StartDate)
		},
	},
	{
		mask:    changes.MandatoryQualificationChangesEndDate,
		label:   "End date",
		heading: "Mandatory qualification end date changed",
		render: func(_ Reference, mq models.MandatoryQualification) value {
			return dateValue(mq.EndDate)
		},
	},
}

func mqProviderValue(ref Reference, mq models.MandatoryQualification) value {
	switch {
	case mq.ProviderID != nil:
		if p, ok := ref.TrainingProvider(*mq.ProviderID); ok {
			return present(p.Name)
		}
		return unresolved()
	case mq.DqtMqEstablishmentCode != nil:
		if p, ok := ref.TryResolveEstablishment(*mq.DqtMqEstablishmentCode); ok {
			return present(p.Name)
		}
		return unresolved()
	default:
		return absent()
	}
}

func mqSpecialismValue(ref Reference, mq models.MandatoryQualification) value {
	switch {
	case mq.Specialism != nil:
		return present(mq.Specialism.Display())
	case mq.DqtSpecialismCode != nil:
		if s, ok := ref.TryResolveMqSpecialism(*mq.DqtSpecialismCode); ok {
			return present(s.Display())
		}
		return unresolved()
	default:
		return absent()
	}
}

func mqSnapshotItem(ref Reference, heading string, mq models.MandatoryQualification) Item {
	return Item{Heading: heading, Fields: snapshotFields(ref, mandatoryQualificationFields, mq)}
}

func registerMandatoryQualificationRenderers(r map[events.Kind]Renderer) {
	r[events.KindMandatoryQualificationCreated] = renderAs(func(rc RenderContext, p events.MandatoryQualificationCreated) Item {
		return mqSnapshotItem(rc.Ref, "Mandatory qualification added", p.MandatoryQualification)
	})
	r[events.KindMandatoryQualificationUpdated] = renderAs(func(rc RenderContext, p events.MandatoryQualificationUpdated) Item {
		return Item{
			Heading: changeHeading(mandatoryQualificationFields, p.Changes, "Mandatory qualification changed"),
			Fields: changedFields(rc.Ref, mandatoryQualificationFields,
				p.OldMandatoryQualification, p.MandatoryQualification, p.Changes),
		}
	})
	r[events.KindMandatoryQualificationDeleted] = renderAs(func(rc RenderContext, p events.MandatoryQualificationDeleted) Item {
		return mqSnapshotItem(rc.Ref, "Mandatory qualification deleted", p.MandatoryQualification)
	})
	r[events.KindMandatoryQualificationMigrated] = renderAs(func(rc RenderContext, p events.MandatoryQualificationMigrated) Item {
		return Item{
			Heading: "Mandatory qualification migrated",
			Fields: changedFields(rc.Ref, mandatoryQualificationFields,
				p.OldMandatoryQualification, p.MandatoryQualification, p.Changes),
		}
	})
	r[events.KindMandatoryQualificationDqtImported] = renderAs(func(rc RenderContext, p events.MandatoryQualificationDqtImported) Item {
		return mqSnapshotItem(rc.Ref, "Mandatory qualification imported", p.MandatoryQualification)
	})
	r[events.KindMandatoryQualificationDqtDeactivated] = renderAs(func(rc RenderContext, p events.MandatoryQualificationDqtDeactivated) Item {
		return mqSnapshotItem(rc.Ref, "Mandatory qualification deactivated", p.MandatoryQualification)
	})
	r[events.KindMandatoryQualificationDqtReactivated] = renderAs(func(rc RenderContext, p events.MandatoryQualificationDqtReactivated) Item {
		return mqSnapshotItem(rc.Ref, "Mandatory qualification reactivated", p.MandatoryQualification)
	})
}
