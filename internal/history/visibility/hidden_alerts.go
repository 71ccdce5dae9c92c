package visibility

import (
	"slices"

	"github.com/google/uuid"

	"trs/internal/history/events"
	"trs/internal/history/models"
)

type alertSnapshotter interface {
	Snapshot() models.Alert
}

// CurrentAlerts folds the alert events in envs into the latest snapshot per
// alert. Deleted and deactivated alerts are dropped.
func CurrentAlerts(envs []events.Envelope) map[uuid.UUID]models.Alert {
	ordered := slices.Clone(envs)
	events.SortChronological(ordered)

	current := make(map[uuid.UUID]models.Alert)
	for _, env := range ordered {
		snap, ok := env.Payload.(alertSnapshotter)
		if !ok {
			continue
		}
		alert := snap.Snapshot()
		if staged, ok := env.Payload.(events.Staged); ok && staged.Lifecycle() == events.LifecycleDelete {
			delete(current, alert.AlertID)
			continue
		}
		current[alert.AlertID] = alert
	}
	return current
}

// HasHiddenOpenAlerts reports whether the person has at least one open alert
// that caps cannot see. It signals that information is withheld without
// saying what.
func HasHiddenOpenAlerts(envs []events.Envelope, caps Capabilities, types AlertTypes) bool {
	for _, alert := range CurrentAlerts(envs) {
		if !alert.IsOpen() {
			continue
		}
		if !CanView(caps, RequirementForAlert(alert, types)) {
			return true
		}
	}
	return false
}
