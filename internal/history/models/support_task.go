package models

type SupportTaskType string

const (
	SupportTaskTypeConnectOneLoginUser          SupportTaskType = "ConnectOneLoginUser"
	SupportTaskTypeChangeNameRequest            SupportTaskType = "ChangeNameRequest"
	SupportTaskTypeChangeDateOfBirthRequest     SupportTaskType = "ChangeDateOfBirthRequest"
	SupportTaskTypeAPITrnRequest                SupportTaskType = "ApiTrnRequest"
	SupportTaskTypeTrnRequestManualChecksNeeded SupportTaskType = "TrnRequestManualChecksNeeded"
)

var supportTaskTitles = map[SupportTaskType]string{
	SupportTaskTypeConnectOneLoginUser:          "Connect GOV.UK One Login user to a teaching record",
	SupportTaskTypeChangeNameRequest:            "Change name request",
	SupportTaskTypeChangeDateOfBirthRequest:     "Change date of birth request",
	SupportTaskTypeAPITrnRequest:                "TRN request from API",
	SupportTaskTypeTrnRequestManualChecksNeeded: "TRN request manual checks needed",
}

func (t SupportTaskType) Title() string {
	if title, ok := supportTaskTitles[t]; ok {
		return title
	}
	return string(t)
}

type SupportTaskStatus string

const (
	SupportTaskStatusOpen   SupportTaskStatus = "Open"
	SupportTaskStatusClosed SupportTaskStatus = "Closed"
)

type SupportTask struct {
	SupportTaskReference string            `json:"support_task_reference"`
	TaskType             SupportTaskType   `json:"task_type"`
	Status               SupportTaskStatus `json:"status"`
	Outcome              *string           `json:"outcome"`
}
