package timeline

import (
	"github.com/google/uuid"

	"trs/internal/history/changes"
	"trs/internal/history/events"
	"trs/internal/history/models"
)

type routeDesc = fieldDesc[models.RouteToProfessionalStatus, changes.RouteToProfessionalStatusChanges]

var routeFields = []routeDesc{
	{mask: changes.RouteToProfessionalStatusChangesRouteType, label: "Route type", heading: "Route type changed",
		render: func(ref Reference, rt models.RouteToProfessionalStatus) value {
			if t, ok := ref.RouteType(rt.RouteTypeID); ok {
				return present(t.Name)
			}
			return unresolved()
		}},
	{mask: changes.RouteToProfessionalStatusChangesStatus, label: "Status", heading: "Route status changed",
		render: func(_ Reference, rt models.RouteToProfessionalStatus) value {
			return present(rt.Status.Display())
		}},
	{mask: changes.RouteToProfessionalStatusChangesHoldsFrom, label: "Professional status date", heading: "Professional status date changed",
		render: func(_ Reference, rt models.RouteToProfessionalStatus) value {
			return dateValue(rt.HoldsFrom)
		}},
	{mask: changes.RouteToProfessionalStatusChangesTrainingStartDate, label: "Start date", heading: "Training start date changed",
		render: func(_ Reference, rt models.RouteToProfessionalStatus) value {
			return dateValue(rt.TrainingStartDate)
		}},
	{mask: changes.RouteToProfessionalStatusChangesTrainingEndDate, label: "End date", heading: "Training end date changed",
		render: func(_ Reference, rt models.RouteToProfessionalStatus) value {
			return dateValue(rt.TrainingEndDate)
		}},
	{mask: changes.RouteToProfessionalStatusChangesTrainingSubjects, label: "Subjects", heading: "Training subjects changed",
		render: func(ref Reference, rt models.RouteToProfessionalStatus) value {
			return listValue(rt.TrainingSubjectIDs, ref.TrainingSubject)
		}},
	{mask: changes.RouteToProfessionalStatusChangesTrainingProvider, label: "Training provider", heading: "Training provider changed",
		render: func(ref Reference, rt models.RouteToProfessionalStatus) value {
			return lookupValue(rt.TrainingProviderID, func(id uuid.UUID) (string, bool) {
				p, ok := ref.TrainingProvider(id)
				return p.Name, ok
			})
		}},
	{mask: changes.RouteToProfessionalStatusChangesTrainingCountry, label: "Country of training", heading: "Training country changed",
		render: func(ref Reference, rt models.RouteToProfessionalStatus) value {
			if rt.TrainingCountryID == nil {
				return absent()
			}
			if name, ok := ref.Country(*rt.TrainingCountryID); ok {
				return present(name)
			}
			return unresolved()
		}},
	{mask: changes.RouteToProfessionalStatusChangesExemptFromInduction, label: "Exempt from induction", heading: "Induction exemption changed",
		render: func(_ Reference, rt models.RouteToProfessionalStatus) value {
			return boolValue(rt.ExemptFromInduction)
		}},
}

// routeUpdatedHeading gives the award of professional status its own heading
// whatever else changed alongside it.
func routeUpdatedHeading(p events.RouteToProfessionalStatusUpdated) string {
	if p.Changes.Has(changes.RouteToProfessionalStatusChangesStatus) &&
		p.Route.Status == models.RouteStatusHolds &&
		p.OldRoute.Status != models.RouteStatusHolds {
		return "Professional status awarded"
	}
	return changeHeading(routeFields, p.Changes, "Route to professional status changed")
}

func registerRouteRenderers(r map[events.Kind]Renderer) {
	r[events.KindRouteToProfessionalStatusCreated] = renderAs(func(rc RenderContext, p events.RouteToProfessionalStatusCreated) Item {
		return Item{
			Heading: "Route to professional status added",
			Fields:  snapshotFields(rc.Ref, routeFields, p.Route),
		}
	})
	r[events.KindRouteToProfessionalStatusUpdated] = renderAs(func(rc RenderContext, p events.RouteToProfessionalStatusUpdated) Item {
		return Item{
			Heading: routeUpdatedHeading(p),
			Fields:  changedFields(rc.Ref, routeFields, p.OldRoute, p.Route, p.Changes),
		}
	})
	r[events.KindRouteToProfessionalStatusDeleted] = renderAs(func(rc RenderContext, p events.RouteToProfessionalStatusDeleted) Item {
		return Item{
			Heading: "Route to professional status deleted",
			Fields:  snapshotFields(rc.Ref, routeFields, p.Route),
		}
	})
}
