package changes

import "trs/internal/history/models"

type AlertChanges uint32

const AlertChangesNone AlertChanges = 0

const (
	AlertChangesAlertType AlertChanges = 1 << iota
	AlertChangesDetails
	AlertChangesExternalLink
	AlertChangesStartDate
	AlertChangesEndDate
	AlertChangesDqtSpent
	AlertChangesDqtSanctionCode
)

var alertChangeNames = []string{
	"AlertType", "Details", "ExternalLink", "StartDate", "EndDate", "DqtSpent", "DqtSanctionCode",
}

// DiffAlert flags every field that differs between old and new.
func DiffAlert(old, new models.Alert) AlertChanges {
	var c AlertChanges
	if !models.EqualPtr(old.AlertTypeID, new.AlertTypeID) {
		c |= AlertChangesAlertType
	}
	if !models.EqualPtr(old.Details, new.Details) {
		c |= AlertChangesDetails
	}
	if !models.EqualPtr(old.ExternalLink, new.ExternalLink) {
		c |= AlertChangesExternalLink
	}
	if !models.EqualPtr(old.StartDate, new.StartDate) {
		c |= AlertChangesStartDate
	}
	if !models.EqualPtr(old.EndDate, new.EndDate) {
		c |= AlertChangesEndDate
	}
	if !models.EqualPtr(old.DqtSpent, new.DqtSpent) {
		c |= AlertChangesDqtSpent
	}
	if !models.EqualPtr(old.DqtSanctionCode, new.DqtSanctionCode) {
		c |= AlertChangesDqtSanctionCode
	}
	return c
}

func (c AlertChanges) Has(f AlertChanges) bool       { return hasAll(c, f) }
func (c AlertChanges) HasAny(mask AlertChanges) bool { return hasAny(c, mask) }
func (c AlertChanges) Count() int                    { return count(c) }
func (c AlertChanges) Flags() []AlertChanges         { return split(c) }
func (c AlertChanges) String() string                { return describe(c, alertChangeNames) }
