package events

import (
	"trs/internal/history/changes"
	"trs/internal/history/models"
)

// Constructors build envelopes whose change sets are derived from the
// snapshots, so callers cannot supply a change set that disagrees with them.

func NewAlertCreated(h Header, alert models.Alert, r models.ChangeReasonInfo) Envelope {
	return New(h, AlertCreated{Alert: alert, reason: reason{r}})
}

func NewAlertUpdated(h Header, old, updated models.Alert, r models.ChangeReasonInfo) Envelope {
	return New(h, AlertUpdated{
		Alert:    updated,
		OldAlert: old,
		Changes:  changes.DiffAlert(old, updated),
		reason:   reason{r},
	})
}

func NewAlertDeleted(h Header, alert models.Alert, r models.ChangeReasonInfo) Envelope {
	return New(h, AlertDeleted{Alert: alert, reason: reason{r}})
}

func NewAlertMigrated(h Header, legacy, migrated models.Alert) Envelope {
	return New(h, AlertMigrated{
		Alert:    migrated,
		OldAlert: legacy,
		Changes:  changes.DiffAlert(legacy, migrated),
	})
}

func NewAlertDqtImported(h Header, alert models.Alert) Envelope {
	return New(h, AlertDqtImported{Alert: alert})
}

func NewAlertDqtDeactivated(h Header, alert models.Alert) Envelope {
	return New(h, AlertDqtDeactivated{Alert: alert})
}

func NewAlertDqtReactivated(h Header, alert models.Alert) Envelope {
	return New(h, AlertDqtReactivated{Alert: alert})
}

func NewPersonCreated(h Header, p models.PersonSummary, details models.PersonDetails, r models.ChangeReasonInfo) Envelope {
	h.PersonID = p.PersonID
	return New(h, PersonCreated{TRN: p.TRN, Details: details, reason: reason{r}})
}

func NewPersonDetailsUpdated(h Header, old, updated models.PersonDetails, r models.ChangeReasonInfo) Envelope {
	return New(h, PersonDetailsUpdated{
		Details:    updated,
		OldDetails: old,
		Changes:    changes.DiffPersonDetails(old, updated),
		reason:     reason{r},
	})
}

// NewPersonsMerged records the merge on the primary person and relates it to
// the secondary so it appears in both histories.
func NewPersonsMerged(
	h Header,
	primary, secondary models.PersonSummary,
	oldDetails, details, secondaryDetails models.PersonDetails,
	comments *string,
	r models.ChangeReasonInfo,
) Envelope {
	h.PersonID = primary.PersonID
	return New(h, PersonsMerged{
		PrimaryPerson:    primary,
		SecondaryPerson:  secondary,
		Details:          details,
		OldDetails:       oldDetails,
		SecondaryDetails: secondaryDetails,
		Changes:          changes.DiffPersonDetails(oldDetails, details),
		Comments:         comments,
		reason:           reason{r},
	}, secondary.PersonID)
}

func NewMandatoryQualificationCreated(h Header, mq models.MandatoryQualification, r models.ChangeReasonInfo) Envelope {
	return New(h, MandatoryQualificationCreated{MandatoryQualification: mq, reason: reason{r}})
}

func NewMandatoryQualificationUpdated(h Header, old, updated models.MandatoryQualification, r models.ChangeReasonInfo) Envelope {
	return New(h, MandatoryQualificationUpdated{
		MandatoryQualification:    updated,
		OldMandatoryQualification: old,
		Changes:                   changes.DiffMandatoryQualification(old, updated),
		reason:                    reason{r},
	})
}

func NewMandatoryQualificationDeleted(h Header, mq models.MandatoryQualification, r models.ChangeReasonInfo) Envelope {
	return New(h, MandatoryQualificationDeleted{MandatoryQualification: mq, reason: reason{r}})
}

func NewMandatoryQualificationMigrated(h Header, legacy, migrated models.MandatoryQualification) Envelope {
	return New(h, MandatoryQualificationMigrated{
		MandatoryQualification:    migrated,
		OldMandatoryQualification: legacy,
		Changes:                   changes.DiffMandatoryQualification(legacy, migrated),
	})
}

func NewMandatoryQualificationDqtImported(h Header, mq models.MandatoryQualification) Envelope {
	return New(h, MandatoryQualificationDqtImported{MandatoryQualification: mq})
}

func NewMandatoryQualificationDqtDeactivated(h Header, mq models.MandatoryQualification) Envelope {
	return New(h, MandatoryQualificationDqtDeactivated{MandatoryQualification: mq})
}

func NewMandatoryQualificationDqtReactivated(h Header, mq models.MandatoryQualification) Envelope {
	return New(h, MandatoryQualificationDqtReactivated{MandatoryQualification: mq})
}

func NewRouteToProfessionalStatusCreated(h Header, route models.RouteToProfessionalStatus, r models.ChangeReasonInfo) Envelope {
	return New(h, RouteToProfessionalStatusCreated{Route: route, reason: reason{r}})
}

func NewRouteToProfessionalStatusUpdated(h Header, old, updated models.RouteToProfessionalStatus, r models.ChangeReasonInfo) Envelope {
	return New(h, RouteToProfessionalStatusUpdated{
		Route:    updated,
		OldRoute: old,
		Changes:  changes.DiffRouteToProfessionalStatus(old, updated),
		reason:   reason{r},
	})
}

func NewRouteToProfessionalStatusDeleted(h Header, route models.RouteToProfessionalStatus, r models.ChangeReasonInfo) Envelope {
	return New(h, RouteToProfessionalStatusDeleted{Route: route, reason: reason{r}})
}

func NewInductionCreated(h Header, induction models.Induction, r models.ChangeReasonInfo) Envelope {
	return New(h, InductionCreated{Induction: induction, reason: reason{r}})
}

func NewInductionUpdated(h Header, old, updated models.Induction, r models.ChangeReasonInfo) Envelope {
	return New(h, InductionUpdated{
		Induction:    updated,
		OldInduction: old,
		Changes:      changes.DiffInduction(old, updated),
		reason:       reason{r},
	})
}

func NewInductionDeleted(h Header, induction models.Induction, r models.ChangeReasonInfo) Envelope {
	return New(h, InductionDeleted{Induction: induction, reason: reason{r}})
}

func NewInductionDqtImported(h Header, induction models.Induction) Envelope {
	return New(h, InductionDqtImported{Induction: induction})
}

func NewSupportTaskUpdated(h Header, old, updated models.SupportTask, comments *string) Envelope {
	return New(h, SupportTaskUpdated{
		SupportTask:    updated,
		OldSupportTask: old,
		Changes:        changes.DiffSupportTask(old, updated),
		Comments:       comments,
	})
}
