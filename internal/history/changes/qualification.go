package changes

import "trs/internal/history/models"

type MandatoryQualificationChanges uint32

const MandatoryQualificationChangesNone MandatoryQualificationChanges = 0

const (
	MandatoryQualificationChangesProvider MandatoryQualificationChanges = 1 << iota
	MandatoryQualificationChangesSpecialism
	MandatoryQualificationChangesStatus
	MandatoryQualificationChangesStartDate
	MandatoryQualificationChangesEndDate
	MandatoryQualificationChangesDqtEstablishmentCode
	MandatoryQualificationChangesDqtSpecialismCode
)

var mqChangeNames = []string{
	"Provider", "Specialism", "Status", "StartDate", "EndDate", "DqtEstablishmentCode", "DqtSpecialismCode",
}

func DiffMandatoryQualification(old, new models.MandatoryQualification) MandatoryQualificationChanges {
	var c MandatoryQualificationChanges
	if !models.EqualPtr(old.ProviderID, new.ProviderID) {
		c |= MandatoryQualificationChangesProvider
	}
	if !models.EqualPtr(old.Specialism, new.Specialism) {
		c |= MandatoryQualificationChangesSpecialism
	}
	if !models.EqualPtr(old.Status, new.Status) {
		c |= MandatoryQualificationChangesStatus
	}
	if !models.EqualPtr(old.StartDate, new.StartDate) {
		c |= MandatoryQualificationChangesStartDate
	}
	if !models.EqualPtr(old.EndDate, new.EndDate) {
		c |= MandatoryQualificationChangesEndDate
	}
	if !models.EqualPtr(old.DqtMqEstablishmentCode, new.DqtMqEstablishmentCode) {
		c |= MandatoryQualificationChangesDqtEstablishmentCode
	}
	if !models.EqualPtr(old.DqtSpecialismCode, new.DqtSpecialismCode) {
		c |= MandatoryQualificationChangesDqtSpecialismCode
	}
	return c
}

func (c MandatoryQualificationChanges) Has(f MandatoryQualificationChanges) bool {
	return hasAll(c, f)
}
func (c MandatoryQualificationChanges) HasAny(mask MandatoryQualificationChanges) bool {
	return hasAny(c, mask)
}
func (c MandatoryQualificationChanges) Count() int                             { return count(c) }
func (c MandatoryQualificationChanges) Flags() []MandatoryQualificationChanges { return split(c) }
func (c MandatoryQualificationChanges) String() string                         { return describe(c, mqChangeNames) }

type RouteToProfessionalStatusChanges uint32

const RouteToProfessionalStatusChangesNone RouteToProfessionalStatusChanges = 0

const (
	RouteToProfessionalStatusChangesRouteType RouteToProfessionalStatusChanges = 1 << iota
	RouteToProfessionalStatusChangesStatus
	RouteToProfessionalStatusChangesHoldsFrom
	RouteToProfessionalStatusChangesTrainingStartDate
	RouteToProfessionalStatusChangesTrainingEndDate
	RouteToProfessionalStatusChangesTrainingSubjects
	RouteToProfessionalStatusChangesTrainingProvider
	RouteToProfessionalStatusChangesTrainingCountry
	RouteToProfessionalStatusChangesExemptFromInduction
)

var routeChangeNames = []string{
	"RouteType", "Status", "HoldsFrom", "TrainingStartDate", "TrainingEndDate",
	"TrainingSubjects", "TrainingProvider", "TrainingCountry", "ExemptFromInduction",
}

func DiffRouteToProfessionalStatus(old, new models.RouteToProfessionalStatus) RouteToProfessionalStatusChanges {
	var c RouteToProfessionalStatusChanges
	if old.RouteTypeID != new.RouteTypeID {
		c |= RouteToProfessionalStatusChangesRouteType
	}
	if old.Status != new.Status {
		c |= RouteToProfessionalStatusChangesStatus
	}
	if !models.EqualPtr(old.HoldsFrom, new.HoldsFrom) {
		c |= RouteToProfessionalStatusChangesHoldsFrom
	}
	if !models.EqualPtr(old.TrainingStartDate, new.TrainingStartDate) {
		c |= RouteToProfessionalStatusChangesTrainingStartDate
	}
	if !models.EqualPtr(old.TrainingEndDate, new.TrainingEndDate) {
		c |= RouteToProfessionalStatusChangesTrainingEndDate
	}
	if !models.EqualSlice(old.TrainingSubjectIDs, new.TrainingSubjectIDs) {
		c |= RouteToProfessionalStatusChangesTrainingSubjects
	}
	if !models.EqualPtr(old.TrainingProviderID, new.TrainingProviderID) {
		c |= RouteToProfessionalStatusChangesTrainingProvider
	}
	if !models.EqualPtr(old.TrainingCountryID, new.TrainingCountryID) {
		c |= RouteToProfessionalStatusChangesTrainingCountry
	}
	if !models.EqualPtr(old.ExemptFromInduction, new.ExemptFromInduction) {
		c |= RouteToProfessionalStatusChangesExemptFromInduction
	}
	return c
}

func (c RouteToProfessionalStatusChanges) Has(f RouteToProfessionalStatusChanges) bool {
	return hasAll(c, f)
}
func (c RouteToProfessionalStatusChanges) HasAny(mask RouteToProfessionalStatusChanges) bool {
	return hasAny(c, mask)
}
func (c RouteToProfessionalStatusChanges) Count() int { return count(c) }
func (c RouteToProfessionalStatusChanges) Flags() []RouteToProfessionalStatusChanges {
	return split(c)
}
func (c RouteToProfessionalStatusChanges) String() string { return describe(c, routeChangeNames) }

type InductionChanges uint32

const InductionChangesNone InductionChanges = 0

const (
	InductionChangesStatus InductionChanges = 1 << iota
	InductionChangesStartDate
	InductionChangesCompletedDate
	InductionChangesExemptionReasons
)

var inductionChangeNames = []string{"Status", "StartDate", "CompletedDate", "ExemptionReasons"}

func DiffInduction(old, new models.Induction) InductionChanges {
	var c InductionChanges
	if old.Status != new.Status {
		c |= InductionChangesStatus
	}
	if !models.EqualPtr(old.StartDate, new.StartDate) {
		c |= InductionChangesStartDate
	}
	if !models.EqualPtr(old.CompletedDate, new.CompletedDate) {
		c |= InductionChangesCompletedDate
	}
	if !models.EqualSlice(old.ExemptionReasonIDs, new.ExemptionReasonIDs) {
		c |= InductionChangesExemptionReasons
	}
	return c
}

func (c InductionChanges) Has(f InductionChanges) bool       { return hasAll(c, f) }
func (c InductionChanges) HasAny(mask InductionChanges) bool { return hasAny(c, mask) }
func (c InductionChanges) Count() int                        { return count(c) }
func (c InductionChanges) Flags() []InductionChanges         { return split(c) }
func (c InductionChanges) String() string                    { return describe(c, inductionChangeNames) }

type SupportTaskChanges uint32

const SupportTaskChangesNone SupportTaskChanges = 0

const (
	SupportTaskChangesStatus SupportTaskChanges = 1 << iota
	SupportTaskChangesOutcome
)

var supportTaskChangeNames = []string{"Status", "Outcome"}

func DiffSupportTask(old, new models.SupportTask) SupportTaskChanges {
	var c SupportTaskChanges
	if old.Status != new.Status {
		c |= SupportTaskChangesStatus
	}
	if !models.EqualPtr(old.Outcome, new.Outcome) {
		c |= SupportTaskChangesOutcome
	}
	return c
}

func (c SupportTaskChanges) Has(f SupportTaskChanges) bool       { return hasAll(c, f) }
func (c SupportTaskChanges) HasAny(mask SupportTaskChanges) bool { return hasAny(c, mask) }
func (c SupportTaskChanges) Count() int                          { return count(c) }
func (c SupportTaskChanges) Flags() []SupportTaskChanges         { return split(c) }
func (c SupportTaskChanges) String() string                      { return describe(c, supportTaskChangeNames) }
