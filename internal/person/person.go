// Package person is the directory the change history reads to confirm a
// person exists and to label the response. Writes to person records belong
// to the owning domain actions; this package only stores what they save.
package person

import (
	"context"

	"trs/internal/person/models"
	id "trs/pkg/domain"
)

// Directory looks up people by id. Missing people yield sentinel.ErrNotFound.
type Directory interface {
	Get(ctx context.Context, personID id.PersonID) (*models.Person, error)
}

// Store is a Directory that can also be written.
type Store interface {
	Directory
	Save(ctx context.Context, p *models.Person) error
}
