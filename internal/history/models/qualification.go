package models

import "github.com/google/uuid"

type MqSpecialism string

const (
	MqSpecialismHearing      MqSpecialism = "Hearing"
	MqSpecialismVisual       MqSpecialism = "Visual"
	MqSpecialismMultiSensory MqSpecialism = "MultiSensory"
)

func (s MqSpecialism) Display() string {
	switch s {
	case MqSpecialismMultiSensory:
		return "Multi-sensory"
	default:
		return string(s)
	}
}

type MqStatus string

const (
	MqStatusInProgress MqStatus = "InProgress"
	MqStatusPassed     MqStatus = "Passed"
	MqStatusFailed     MqStatus = "Failed"
)

func (s MqStatus) Display() string {
	if s == MqStatusInProgress {
		return "In progress"
	}
	return string(s)
}

type MandatoryQualification struct {
	QualificationID        uuid.UUID     `json:"qualification_id"`
	ProviderID             *uuid.UUID    `json:"provider_id"`
	Specialism             *MqSpecialism `json:"specialism"`
	Status                 *MqStatus     `json:"status"`
	StartDate              *Date         `json:"start_date"`
	EndDate                *Date         `json:"end_date"`
	DqtMqEstablishmentCode *string       `json:"dqt_mq_establishment_code,omitempty"`
	DqtSpecialismCode      *string       `json:"dqt_specialism_code,omitempty"`
}

type RouteStatus string

const (
	RouteStatusInTraining      RouteStatus = "InTraining"
	RouteStatusDeferred        RouteStatus = "Deferred"
	RouteStatusUnderAssessment RouteStatus = "UnderAssessment"
	RouteStatusWithdrawn       RouteStatus = "Withdrawn"
	RouteStatusFailed          RouteStatus = "Failed"
	RouteStatusHolds           RouteStatus = "Holds"
)

func (s RouteStatus) Display() string {
	switch s {
	case RouteStatusInTraining:
		return "In training"
	case RouteStatusUnderAssessment:
		return "Under assessment"
	default:
		return string(s)
	}
}

type RouteToProfessionalStatus struct {
	QualificationID     uuid.UUID   `json:"qualification_id"`
	RouteTypeID         uuid.UUID   `json:"route_type_id"`
	Status              RouteStatus `json:"status"`
	HoldsFrom           *Date       `json:"holds_from"`
	TrainingStartDate   *Date       `json:"training_start_date"`
	TrainingEndDate     *Date       `json:"training_end_date"`
	TrainingSubjectIDs  []uuid.UUID `json:"training_subject_ids"`
	TrainingProviderID  *uuid.UUID  `json:"training_provider_id"`
	TrainingCountryID   *string     `json:"training_country_id"`
	ExemptFromInduction *bool       `json:"exempt_from_induction"`
}

type InductionStatus string

const (
	InductionStatusNone               InductionStatus = "None"
	InductionStatusRequiredToComplete InductionStatus = "RequiredToComplete"
	InductionStatusExempt             InductionStatus = "Exempt"
	InductionStatusInProgress         InductionStatus = "InProgress"
	InductionStatusPassed             InductionStatus = "Passed"
	InductionStatusFailed             InductionStatus = "Failed"
	InductionStatusFailedInWales      InductionStatus = "FailedInWales"
)

func (s InductionStatus) Display() string {
	switch s {
	case InductionStatusRequiredToComplete:
		return "Required to complete"
	case InductionStatusInProgress:
		return "In progress"
	case InductionStatusFailedInWales:
		return "Failed in Wales"
	default:
		return string(s)
	}
}

type Induction struct {
	InductionID        uuid.UUID       `json:"induction_id"`
	Status             InductionStatus `json:"status"`
	StartDate          *Date           `json:"start_date"`
	CompletedDate      *Date           `json:"completed_date"`
	ExemptionReasonIDs []uuid.UUID     `json:"exemption_reason_ids"`
}
