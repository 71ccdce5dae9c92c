// Package legacy translates reference codes from the predecessor system (DQT)
// and reference identifiers into display data. The tables are loaded once and
// never change for the life of the process, so a Bridge is safe for
// concurrent use without locking.
package legacy

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"trs/internal/history/models"
)

//go:embed reference.yaml
var embeddedReference []byte

type AlertType struct {
	ID       uuid.UUID
	Name     string
	Category string
	IsDbs    bool
	Inactive bool
}

type TrainingProvider struct {
	ID   uuid.UUID
	Name string
}

type RouteType struct {
	ID   uuid.UUID
	Name string
}

type referenceFile struct {
	AlertTypes []struct {
		ID               uuid.UUID `yaml:"id"`
		Name             string    `yaml:"name"`
		Category         string    `yaml:"category"`
		IsDbs            bool      `yaml:"is_dbs"`
		Inactive         bool      `yaml:"inactive"`
		DqtSanctionCodes []string  `yaml:"dqt_sanction_codes"`
	} `yaml:"alert_types"`
	TrainingProviders []struct {
		ID                    uuid.UUID `yaml:"id"`
		Name                  string    `yaml:"name"`
		DqtEstablishmentCodes []string  `yaml:"dqt_establishment_codes"`
	} `yaml:"training_providers"`
	MqSpecialisms []struct {
		DqtCode    string              `yaml:"dqt_code"`
		Specialism models.MqSpecialism `yaml:"specialism"`
	} `yaml:"mq_specialisms"`
	RouteTypes                []namedID `yaml:"route_types"`
	TrainingSubjects          []namedID `yaml:"training_subjects"`
	InductionExemptionReasons []namedID `yaml:"induction_exemption_reasons"`
	Countries                 []struct {
		ID   string `yaml:"id"`
		Name string `yaml:"name"`
	} `yaml:"countries"`
}

type namedID struct {
	ID   uuid.UUID `yaml:"id"`
	Name string    `yaml:"name"`
}

// Bridge holds the lookup tables. The zero value resolves nothing.
type Bridge struct {
	alertTypes         map[uuid.UUID]AlertType
	sanctionCodes      map[string]uuid.UUID
	providers          map[uuid.UUID]TrainingProvider
	establishmentCodes map[string]uuid.UUID
	mqSpecialisms      map[string]models.MqSpecialism
	routeTypes         map[uuid.UUID]RouteType
	subjects           map[uuid.UUID]string
	exemptionReasons   map[uuid.UUID]string
	countries          map[string]string
}

var defaultBridge = sync.OnceValues(func() (*Bridge, error) {
	return Parse(embeddedReference)
})

// Default returns the bridge built from the reference data compiled into the
// binary.
func Default() (*Bridge, error) {
	return defaultBridge()
}

// Load returns the embedded bridge, or the one at path when path is set.
func Load(path string) (*Bridge, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference data: %w", err)
	}
	defer f.Close()
	return Read(f)
}

func Read(r io.Reader) (*Bridge, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read reference data: %w", err)
	}
	return Parse(data)
}

// Parse builds a bridge from YAML. Duplicate identifiers or codes are
// rejected so that a lookup can never depend on file order.
func Parse(data []byte) (*Bridge, error) {
	var file referenceFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse reference data: %w", err)
	}

	b := &Bridge{
		alertTypes:         make(map[uuid.UUID]AlertType, len(file.AlertTypes)),
		sanctionCodes:      make(map[string]uuid.UUID),
		providers:          make(map[uuid.UUID]TrainingProvider, len(file.TrainingProviders)),
		establishmentCodes: make(map[string]uuid.UUID),
		mqSpecialisms:      make(map[string]models.MqSpecialism, len(file.MqSpecialisms)),
		routeTypes:         make(map[uuid.UUID]RouteType, len(file.RouteTypes)),
		subjects:           make(map[uuid.UUID]string, len(file.TrainingSubjects)),
		exemptionReasons:   make(map[uuid.UUID]string, len(file.InductionExemptionReasons)),
		countries:          make(map[string]string, len(file.Countries)),
	}

	var errs []error
	dup := func(table string, key any) {
		errs = append(errs, fmt.Errorf("%s: duplicate %v", table, key))
	}

	for _, at := range file.AlertTypes {
		if _, ok := b.alertTypes[at.ID]; ok {
			dup("alert_types", at.ID)
		}
		b.alertTypes[at.ID] = AlertType{ID: at.ID, Name: at.Name, Category: at.Category, IsDbs: at.IsDbs, Inactive: at.Inactive}
		for _, code := range at.DqtSanctionCodes {
			if _, ok := b.sanctionCodes[code]; ok {
				dup("dqt_sanction_codes", code)
			}
			b.sanctionCodes[code] = at.ID
		}
	}
	for _, p := range file.TrainingProviders {
		if _, ok := b.providers[p.ID]; ok {
			dup("training_providers", p.ID)
		}
		b.providers[p.ID] = TrainingProvider{ID: p.ID, Name: p.Name}
		for _, code := range p.DqtEstablishmentCodes {
			if _, ok := b.establishmentCodes[code]; ok {
				dup("dqt_establishment_codes", code)
			}
			b.establishmentCodes[code] = p.ID
		}
	}
	for _, s := range file.MqSpecialisms {
		if _, ok := b.mqSpecialisms[s.DqtCode]; ok {
			dup("mq_specialisms", s.DqtCode)
		}
		b.mqSpecialisms[s.DqtCode] = s.Specialism
	}
	for _, rt := range file.RouteTypes {
		if _, ok := b.routeTypes[rt.ID]; ok {
			dup("route_types", rt.ID)
		}
		b.routeTypes[rt.ID] = RouteType(rt)
	}
	for _, s := range file.TrainingSubjects {
		if _, ok := b.subjects[s.ID]; ok {
			dup("training_subjects", s.ID)
		}
		b.subjects[s.ID] = s.Name
	}
	for _, r := range file.InductionExemptionReasons {
		if _, ok := b.exemptionReasons[r.ID]; ok {
			dup("induction_exemption_reasons", r.ID)
		}
		b.exemptionReasons[r.ID] = r.Name
	}
	for _, c := range file.Countries {
		if _, ok := b.countries[c.ID]; ok {
			dup("countries", c.ID)
		}
		b.countries[c.ID] = c.Name
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid reference data: %w", err)
	}
	return b, nil
}

func (b *Bridge) AlertType(id uuid.UUID) (AlertType, bool) {
	at, ok := b.alertTypes[id]
	return at, ok
}

// TryResolveSanctionCode maps a DQT sanction code to its alert type. Retired
// codes that were never mapped report false.
func (b *Bridge) TryResolveSanctionCode(code string) (AlertType, bool) {
	id, ok := b.sanctionCodes[code]
	if !ok {
		return AlertType{}, false
	}
	return b.AlertType(id)
}

func (b *Bridge) TrainingProvider(id uuid.UUID) (TrainingProvider, bool) {
	p, ok := b.providers[id]
	return p, ok
}

// TryResolveEstablishment maps a DQT MQ establishment code to a provider.
func (b *Bridge) TryResolveEstablishment(code string) (TrainingProvider, bool) {
	id, ok := b.establishmentCodes[code]
	if !ok {
		return TrainingProvider{}, false
	}
	return b.TrainingProvider(id)
}

func (b *Bridge) TryResolveMqSpecialism(code string) (models.MqSpecialism, bool) {
	s, ok := b.mqSpecialisms[code]
	return s, ok
}

func (b *Bridge) RouteType(id uuid.UUID) (RouteType, bool) {
	rt, ok := b.routeTypes[id]
	return rt, ok
}

func (b *Bridge) TrainingSubject(id uuid.UUID) (string, bool) {
	name, ok := b.subjects[id]
	return name, ok
}

func (b *Bridge) InductionExemptionReason(id uuid.UUID) (string, bool) {
	name, ok := b.exemptionReasons[id]
	return name, ok
}

func (b *Bridge) Country(code string) (string, bool) {
	name, ok := b.countries[code]
	return name, ok
}
