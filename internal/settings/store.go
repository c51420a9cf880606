package settings

import (
	"context"

	"github.com/adminconsole/admin-console/internal/db/models"
)

// Store is the persistence contract of settings records.
type Store interface {
	// List returns the records whose category is one of categories.
	List(ctx context.Context, categories ...string) ([]models.Setting, error)
	// Create inserts a record; the store assigns the id.
	Create(ctx context.Context, record models.Setting) (*models.Setting, error)
	// Update replaces the value of the record with the given id.
	Update(ctx context.Context, id uint64, value string) (*models.Setting, error)
	// Delete removes the record with the given id.
	Delete(ctx context.Context, id uint64) error
}
