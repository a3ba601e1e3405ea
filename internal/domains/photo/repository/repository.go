package repository

import (
	"context"

	"furrymatch-backend/internal/domains/photo/model"
	"furrymatch-backend/internal/shared/crud"
)

type Repository interface {
	crud.Repository[*model.Photo]

	// ReplaceContent stores c on the photo and returns the updated row
	// with the object keys it referenced before. ErrNotFound if absent.
	ReplaceContent(ctx context.Context, id int64, c model.Content) (*model.Photo, []string, error)

	// ObjectKeys, PetObjectKeys and OwnerObjectKeys collect the stored
	// object keys of one photo, of a pet's photos, of an owner's pets' photos.
	ObjectKeys(ctx context.Context, id int64) ([]string, error)
	PetObjectKeys(ctx context.Context, petID int64) ([]string, error)
	OwnerObjectKeys(ctx context.Context, ownerID int64) ([]string, error)

	// ExistingIDs returns the subset of ids that still have a row.
	ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error)
}
