// Package crud holds the pieces shared by every entity resource:
// the repository contract, a generic service and gin handlers.
package crud

import (
	"context"
	"errors"

	"furrymatch-backend/internal/shared/pagination"
)

// ErrNotFound is returned by repositories when no row matches.
var ErrNotFound = errors.New("entity not found")

// Entity is implemented by pointer model types (*model.Owner, ...).
// Merge copies every non-nil field of patch onto the receiver.
type Entity[E any] interface {
	GetID() *int64
	SetID(id *int64)
	Validate() error
	Merge(patch E)
}

// Repository is the persistence contract of an entity.
type Repository[E Entity[E]] interface {
	// Create inserts e and returns it with its new id.
	Create(ctx context.Context, e E) (E, error)
	// Update replaces the row with e's id. ErrNotFound if absent.
	Update(ctx context.Context, e E) (E, error)
	FindByID(ctx context.Context, id int64) (E, error)
	FindAll(ctx context.Context, p pagination.Pageable) ([]E, int64, error)
	// DeleteByID is a no-op for an absent id.
	DeleteByID(ctx context.Context, id int64) error
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// EntityService is what a Resource delegates to.
type EntityService[E Entity[E]] interface {
	Save(ctx context.Context, e E) (E, error)
	Update(ctx context.Context, e E) (E, error)
	// PartialUpdate reports found=false when the row vanished before the merge.
	PartialUpdate(ctx context.Context, patch E) (E, bool, error)
	FindAll(ctx context.Context, p pagination.Pageable) (pagination.Page[E], error)
	FindOne(ctx context.Context, id int64) (E, error)
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}
