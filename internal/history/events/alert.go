package events

import (
	"github.com/google/uuid"

	"trs/internal/history/changes"
	"trs/internal/history/models"
)

type AlertCreated struct {
	Alert models.Alert `json:"alert"`
	reason
}

type AlertUpdated struct {
	Alert    models.Alert         `json:"alert"`
	OldAlert models.Alert         `json:"old_alert"`
	Changes  changes.AlertChanges `json:"changes"`
	reason
}

type AlertDeleted struct {
	Alert models.Alert `json:"alert"`
	reason
}

// AlertMigrated records the conversion of a legacy alert. OldAlert is the
// snapshot as it stood in DQT.
type AlertMigrated struct {
	Alert    models.Alert         `json:"alert"`
	OldAlert models.Alert         `json:"old_alert"`
	Changes  changes.AlertChanges `json:"changes"`
}

type AlertDqtImported struct {
	Alert models.Alert `json:"alert"`
}

type AlertDqtDeactivated struct {
	Alert models.Alert `json:"alert"`
}

type AlertDqtReactivated struct {
	Alert models.Alert `json:"alert"`
}

func (AlertCreated) Kind() Kind        { return KindAlertCreated }
func (AlertUpdated) Kind() Kind        { return KindAlertUpdated }
func (AlertDeleted) Kind() Kind        { return KindAlertDeleted }
func (AlertMigrated) Kind() Kind       { return KindAlertMigrated }
func (AlertDqtImported) Kind() Kind    { return KindAlertDqtImported }
func (AlertDqtDeactivated) Kind() Kind { return KindAlertDqtDeactivated }
func (AlertDqtReactivated) Kind() Kind { return KindAlertDqtReactivated }

func (p AlertCreated) AggregateKey() uuid.UUID        { return p.Alert.AlertID }
func (p AlertUpdated) AggregateKey() uuid.UUID        { return p.Alert.AlertID }
func (p AlertDeleted) AggregateKey() uuid.UUID        { return p.Alert.AlertID }
func (p AlertMigrated) AggregateKey() uuid.UUID       { return p.Alert.AlertID }
func (p AlertDqtImported) AggregateKey() uuid.UUID    { return p.Alert.AlertID }
func (p AlertDqtDeactivated) AggregateKey() uuid.UUID { return p.Alert.AlertID }
func (p AlertDqtReactivated) AggregateKey() uuid.UUID { return p.Alert.AlertID }

func (AlertCreated) Lifecycle() Lifecycle        { return LifecycleCreate }
func (AlertUpdated) Lifecycle() Lifecycle        { return LifecycleUpdate }
func (AlertDeleted) Lifecycle() Lifecycle        { return LifecycleDelete }
func (AlertMigrated) Lifecycle() Lifecycle       { return LifecycleUpdate }
func (AlertDqtImported) Lifecycle() Lifecycle    { return LifecycleCreate }
func (AlertDqtDeactivated) Lifecycle() Lifecycle { return LifecycleDelete }
func (AlertDqtReactivated) Lifecycle() Lifecycle { return LifecycleCreate }

func (p AlertUpdated) Validate() error {
	return checkChanges(p.Kind(), p.Changes, changes.DiffAlert(p.OldAlert, p.Alert))
}

func (p AlertMigrated) Validate() error {
	return checkChanges(p.Kind(), p.Changes, changes.DiffAlert(p.OldAlert, p.Alert))
}

// Snapshot returns the alert state after the event.
func (p AlertCreated) Snapshot() models.Alert        { return p.Alert }
func (p AlertUpdated) Snapshot() models.Alert        { return p.Alert }
func (p AlertDeleted) Snapshot() models.Alert        { return p.Alert }
func (p AlertMigrated) Snapshot() models.Alert       { return p.Alert }
func (p AlertDqtImported) Snapshot() models.Alert    { return p.Alert }
func (p AlertDqtDeactivated) Snapshot() models.Alert { return p.Alert }
func (p AlertDqtReactivated) Snapshot() models.Alert { return p.Alert }
