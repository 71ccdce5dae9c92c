package events

import (
	"github.com/google/uuid"

	"trs/internal/history/changes"
	"trs/internal/history/models"
)

type MandatoryQualificationCreated struct {
	MandatoryQualification models.MandatoryQualification `json:"mandatory_qualification"`
	reason
}

type MandatoryQualificationUpdated struct {
	MandatoryQualification    models.MandatoryQualification         `json:"mandatory_qualification"`
	OldMandatoryQualification models.MandatoryQualification         `json:"old_mandatory_qualification"`
	Changes                   changes.MandatoryQualificationChanges `json:"changes"`
	reason
}

type MandatoryQualificationDeleted struct {
	MandatoryQualification models.MandatoryQualification `json:"mandatory_qualification"`
	reason
}

type MandatoryQualificationMigrated struct {
	MandatoryQualification    models.MandatoryQualification         `json:"mandatory_qualification"`
	OldMandatoryQualification models.MandatoryQualification         `json:"old_mandatory_qualification"`
	Changes                   changes.MandatoryQualificationChanges `json:"changes"`
}

type MandatoryQualificationDqtImported struct {
	MandatoryQualification models.MandatoryQualification `json:"mandatory_qualification"`
}

type MandatoryQualificationDqtDeactivated struct {
	MandatoryQualification models.MandatoryQualification `json:"mandatory_qualification"`
}

type MandatoryQualificationDqtReactivated struct {
	MandatoryQualification models.MandatoryQualification `json:"mandatory_qualification"`
}

func (MandatoryQualificationCreated) Kind() Kind { return KindMandatoryQualificationCreated }
func (MandatoryQualificationUpdated) Kind() Kind { return KindMandatoryQualificationUpdated }
func (MandatoryQualificationDeleted) Kind() Kind { return KindMandatoryQualificationDeleted }
func (MandatoryQualificationMigrated) Kind() Kind {
	return KindMandatoryQualificationMigrated
}
func (MandatoryQualificationDqtImported) Kind() Kind {
	return KindMandatoryQualificationDqtImported
}
func (MandatoryQualificationDqtDeactivated) Kind() Kind {
	return KindMandatoryQualificationDqtDeactivated
}
func (MandatoryQualificationDqtReactivated) Kind() Kind {
	return KindMandatoryQualificationDqtReactivated
}

func (p MandatoryQualificationCreated) AggregateKey() uuid.UUID {
	return p.MandatoryQualification.QualificationID
}
func (p MandatoryQualificationUpdated) AggregateKey() uuid.UUID {
	return p.MandatoryQualification.QualificationID
}
func (p MandatoryQualificationDeleted) AggregateKey() uuid.UUID {
	return p.MandatoryQualification.QualificationID
}
func (p MandatoryQualificationMigrated) AggregateKey() uuid.UUID {
	return p.MandatoryQualification.QualificationID
}
func (p MandatoryQualificationDqtImported) AggregateKey() uuid.UUID {
	return p.MandatoryQualification.QualificationID
}
func (p MandatoryQualificationDqtDeactivated) AggregateKey() uuid.UUID {
	return p.MandatoryQualification.QualificationID
}
func (p MandatoryQualificationDqtReactivated) AggregateKey() uuid.UUID {
	return p.MandatoryQualification.QualificationID
}

func (MandatoryQualificationCreated) Lifecycle() Lifecycle        { return LifecycleCreate }
func (MandatoryQualificationUpdated) Lifecycle() Lifecycle        { return LifecycleUpdate }
func (MandatoryQualificationDeleted) Lifecycle() Lifecycle        { return LifecycleDelete }
func (MandatoryQualificationMigrated) Lifecycle() Lifecycle       { return LifecycleUpdate }
func (MandatoryQualificationDqtImported) Lifecycle() Lifecycle    { return LifecycleCreate }
func (MandatoryQualificationDqtDeactivated) Lifecycle() Lifecycle { return LifecycleDelete }
func (MandatoryQualificationDqtReactivated) Lifecycle() Lifecycle { return LifecycleCreate }

func (p MandatoryQualificationUpdated) Validate() error {
	return checkChanges(p.Kind(), p.Changes,
		changes.DiffMandatoryQualification(p.OldMandatoryQualification, p.MandatoryQualification))
}

func (p MandatoryQualificationMigrated) Validate() error {
	return checkChanges(p.Kind(), p.Changes,
		changes.DiffMandatoryQualification(p.OldMandatoryQualification, p.MandatoryQualification))
}

type RouteToProfessionalStatusCreated struct {
	Route models.RouteToProfessionalStatus `json:"route_to_professional_status"`
	reason
}

type RouteToProfessionalStatusUpdated struct {
	Route    models.RouteToProfessionalStatus         `json:"route_to_professional_status"`
	OldRoute models.RouteToProfessionalStatus         `json:"old_route_to_professional_status"`
	Changes  changes.RouteToProfessionalStatusChanges `json:"changes"`
	reason
}

type RouteToProfessionalStatusDeleted struct {
	Route models.RouteToProfessionalStatus `json:"route_to_professional_status"`
	reason
}

func (RouteToProfessionalStatusCreated) Kind() Kind { return KindRouteToProfessionalStatusCreated }
func (RouteToProfessionalStatusUpdated) Kind() Kind { return KindRouteToProfessionalStatusUpdated }
func (RouteToProfessionalStatusDeleted) Kind() Kind { return KindRouteToProfessionalStatusDeleted }

func (p RouteToProfessionalStatusCreated) AggregateKey() uuid.UUID { return p.Route.QualificationID }
func (p RouteToProfessionalStatusUpdated) AggregateKey() uuid.UUID { return p.Route.QualificationID }
func (p RouteToProfessionalStatusDeleted) AggregateKey() uuid.UUID { return p.Route.QualificationID }

func (RouteToProfessionalStatusCreated) Lifecycle() Lifecycle { return LifecycleCreate }
func (RouteToProfessionalStatusUpdated) Lifecycle() Lifecycle { return LifecycleUpdate }
func (RouteToProfessionalStatusDeleted) Lifecycle() Lifecycle { return LifecycleDelete }

func (p RouteToProfessionalStatusUpdated) Validate() error {
	return checkChanges(p.Kind(), p.Changes, changes.DiffRouteToProfessionalStatus(p.OldRoute, p.Route))
}

type InductionCreated struct {
	Induction models.Induction `json:"induction"`
	reason
}

type InductionUpdated struct {
	Induction    models.Induction         `json:"induction"`
	OldInduction models.Induction         `json:"old_induction"`
	Changes      changes.InductionChanges `json:"changes"`
	reason
}

type InductionDeleted struct {
	Induction models.Induction `json:"induction"`
	reason
}

type InductionDqtImported struct {
	Induction models.Induction `json:"induction"`
}

func (InductionCreated) Kind() Kind     { return KindInductionCreated }
func (InductionUpdated) Kind() Kind     { return KindInductionUpdated }
func (InductionDeleted) Kind() Kind     { return KindInductionDeleted }
func (InductionDqtImported) Kind() Kind { return KindInductionDqtImported }

func (p InductionCreated) AggregateKey() uuid.UUID     { return p.Induction.InductionID }
func (p InductionUpdated) AggregateKey() uuid.UUID     { return p.Induction.InductionID }
func (p InductionDeleted) AggregateKey() uuid.UUID     { return p.Induction.InductionID }
func (p InductionDqtImported) AggregateKey() uuid.UUID { return p.Induction.InductionID }

func (InductionCreated) Lifecycle() Lifecycle     { return LifecycleCreate }
func (InductionUpdated) Lifecycle() Lifecycle     { return LifecycleUpdate }
func (InductionDeleted) Lifecycle() Lifecycle     { return LifecycleDelete }
func (InductionDqtImported) Lifecycle() Lifecycle { return LifecycleCreate }

func (p InductionUpdated) Validate() error {
	return checkChanges(p.Kind(), p.Changes, changes.DiffInduction(p.OldInduction, p.Induction))
}

type SupportTaskUpdated struct {
	SupportTask    models.SupportTask         `json:"support_task"`
	OldSupportTask models.SupportTask         `json:"old_support_task"`
	Changes        changes.SupportTaskChanges `json:"changes"`
	Comments       *string                    `json:"comments"`
}

func (SupportTaskUpdated) Kind() Kind { return KindSupportTaskUpdated }

func (p SupportTaskUpdated) Validate() error {
	return checkChanges(p.Kind(), p.Changes, changes.DiffSupportTask(p.OldSupportTask, p.SupportTask))
}
