package events

// Kind discriminates the payload shape and renderer of an event.
type Kind string

const (
	KindAlertCreated        Kind = "AlertCreatedEvent"
	KindAlertUpdated        Kind = "AlertUpdatedEvent"
	KindAlertDeleted        Kind = "AlertDeletedEvent"
	KindAlertMigrated       Kind = "AlertMigratedEvent"
	KindAlertDqtImported    Kind = "AlertDqtImportedEvent"
	KindAlertDqtDeactivated Kind = "AlertDqtDeactivatedEvent"
	KindAlertDqtReactivated Kind = "AlertDqtReactivatedEvent"

	KindPersonCreated        Kind = "PersonCreatedEvent"
	KindPersonDetailsUpdated Kind = "PersonDetailsUpdatedEvent"
	KindPersonsMerged        Kind = "PersonsMergedEvent"

	KindMandatoryQualificationCreated        Kind = "MandatoryQualificationCreatedEvent"
	KindMandatoryQualificationUpdated        Kind = "MandatoryQualificationUpdatedEvent"
	KindMandatoryQualificationDeleted        Kind = "MandatoryQualificationDeletedEvent"
	KindMandatoryQualificationMigrated       Kind = "MandatoryQualificationMigratedEvent"
	KindMandatoryQualificationDqtImported    Kind = "MandatoryQualificationDqtImportedEvent"
	KindMandatoryQualificationDqtDeactivated Kind = "MandatoryQualificationDqtDeactivatedEvent"
	KindMandatoryQualificationDqtReactivated Kind = "MandatoryQualificationDqtReactivatedEvent"

	KindRouteToProfessionalStatusCreated Kind = "RouteToProfessionalStatusCreatedEvent"
	KindRouteToProfessionalStatusUpdated Kind = "RouteToProfessionalStatusUpdatedEvent"
	KindRouteToProfessionalStatusDeleted Kind = "RouteToProfessionalStatusDeletedEvent"

	KindInductionCreated     Kind = "InductionCreatedEvent"
	KindInductionUpdated     Kind = "InductionUpdatedEvent"
	KindInductionDeleted     Kind = "InductionDeletedEvent"
	KindInductionDqtImported Kind = "InductionDqtImportedEvent"

	KindSupportTaskUpdated Kind = "SupportTaskUpdatedEvent"
)

func (k Kind) String() string { return string(k) }

// Lifecycle classifies an event's effect on its aggregate.
type Lifecycle int

const (
	LifecycleNone Lifecycle = iota
	LifecycleCreate
	LifecycleUpdate
	LifecycleDelete
)
