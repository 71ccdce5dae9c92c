// Package visibility decides which timeline items a caller may see. Every
// function here is pure: capabilities are derived from the roles presented on
// the current request and never cached.
package visibility

import (
	"github.com/google/uuid"

	"trs/internal/history/legacy"
	"trs/internal/history/models"
)

type Capability string

const (
	CapabilityRecordView    Capability = "record:view"
	CapabilityAlertsView    Capability = "alerts:view"
	CapabilityAlertsViewDbs Capability = "alerts:view-dbs"
)

// Role names as issued in the caller's token.
const (
	RoleViewer              = "Viewer"
	RoleRecordManager       = "RecordManager"
	RoleAlertsManagerTra    = "AlertsManagerTra"
	RoleAlertsManagerTraDbs = "AlertsManagerTraDbs"
	RoleAccessManager       = "AccessManager"
	RoleAdministrator       = "Administrator"
)

var roleCapabilities = map[string][]Capability{
	RoleViewer:              {CapabilityRecordView},
	RoleRecordManager:       {CapabilityRecordView, CapabilityAlertsView},
	RoleAlertsManagerTra:    {CapabilityRecordView, CapabilityAlertsView},
	RoleAlertsManagerTraDbs: {CapabilityRecordView, CapabilityAlertsView, CapabilityAlertsViewDbs},
	RoleAccessManager:       {CapabilityRecordView},
	RoleAdministrator:       {CapabilityRecordView, CapabilityAlertsView, CapabilityAlertsViewDbs},
}

// Capabilities is an immutable capability set.
type Capabilities struct {
	set map[Capability]struct{}
}

func NewCapabilities(caps ...Capability) Capabilities {
	set := make(map[Capability]struct{}, len(caps))
	for _, c := range caps {
		set[c] = struct{}{}
	}
	return Capabilities{set: set}
}

// CapabilitiesForRoles unions the capabilities of each known role. Unknown
// roles grant nothing.
func CapabilitiesForRoles(roles []string) Capabilities {
	var caps []Capability
	for _, r := range roles {
		caps = append(caps, roleCapabilities[r]...)
	}
	return NewCapabilities(caps...)
}

func (c Capabilities) Has(capability Capability) bool {
	_, ok := c.set[capability]
	return ok
}

func (c Capabilities) Len() int { return len(c.set) }

// Requirement is the capability an item demands.
type Requirement int

const (
	RequirementNone Requirement = iota
	RequirementAlerts
	RequirementDbsAlerts
)

func (r Requirement) String() string {
	switch r {
	case RequirementAlerts:
		return "alerts"
	case RequirementDbsAlerts:
		return "dbs_alerts"
	default:
		return "none"
	}
}

// CanView reports whether caps satisfy req.
func CanView(caps Capabilities, req Requirement) bool {
	switch req {
	case RequirementNone:
		return true
	case RequirementAlerts:
		return caps.Has(CapabilityAlertsView)
	case RequirementDbsAlerts:
		return caps.Has(CapabilityAlertsViewDbs)
	default:
		return false
	}
}

// AlertTypes is the reference lookup needed to classify an alert.
type AlertTypes interface {
	AlertType(id uuid.UUID) (legacy.AlertType, bool)
	TryResolveSanctionCode(code string) (legacy.AlertType, bool)
}

// RequirementForAlert classifies an alert by its type. An alert whose type
// cannot be resolved is treated as DBS.
func RequirementForAlert(alert models.Alert, types AlertTypes) Requirement {
	if at, ok := resolveAlertType(alert, types); ok && !at.IsDbs {
		return RequirementAlerts
	}
	return RequirementDbsAlerts
}

func resolveAlertType(alert models.Alert, types AlertTypes) (legacy.AlertType, bool) {
	if alert.AlertTypeID != nil {
		return types.AlertType(*alert.AlertTypeID)
	}
	if alert.DqtSanctionCode != nil {
		return types.TryResolveSanctionCode(alert.DqtSanctionCode.Value)
	}
	return legacy.AlertType{}, false
}

// Restricted is anything carrying a visibility requirement.
type Restricted interface {
	VisibilityRequirement() Requirement
}

// Filter returns the items caps may see, preserving order. Whole items are
// removed; fields are never partially redacted.
func Filter[T Restricted](items []T, caps Capabilities) (visible []T, hidden int) {
	visible = make([]T, 0, len(items))
	for _, item := range items {
		if CanView(caps, item.VisibilityRequirement()) {
			visible = append(visible, item)
			continue
		}
		hidden++
	}
	return visible, hidden
}
