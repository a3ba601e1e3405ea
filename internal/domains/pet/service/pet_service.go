package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"furrymatch-backend/internal/domains/pet/model"
	"furrymatch-backend/internal/domains/pet/repository"
	"furrymatch-backend/internal/shared/apperror"
	"furrymatch-backend/internal/shared/crud"
	"furrymatch-backend/internal/shared/pagination"
)

// OwnerChecker reports whether an owner exists (implemented by the owner service).
type OwnerChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// PhotoObjects gives access to the stored images of a pet's photos.
type PhotoObjects interface {
	PetObjectKeys(ctx context.Context, petID int64) ([]string, error)
	ScheduleObjectDeletion(ctx context.Context, keys []string) error
}

type PetService struct {
	*crud.Service[*model.Pet]
	repo   repository.Repository
	owners OwnerChecker
	photos PhotoObjects
}

func NewPetService(repo repository.Repository, owners OwnerChecker, photos PhotoObjects) *PetService {
	return &PetService{
		Service: crud.NewService[*model.Pet](model.EntityName, repo),
		repo:    repo,
		owners:  owners,
		photos:  photos,
	}
}

// Delete removes the pet (its photos cascade) and queues the removal of
// the photo objects.
func (s *PetService) Delete(ctx context.Context, id int64) error {
	keys, err := s.photos.PetObjectKeys(ctx, id)
	if err != nil {
		return fmt.Errorf("collect photo objects of pet %d: %w", id, err)
	}

	if err := s.Service.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.photos.ScheduleObjectDeletion(ctx, keys); err != nil {
		log.Ctx(ctx).Error().Err(err).Int64("pet_id", id).Msg("Failed to schedule photo object deletion")
	}
	return nil
}

// FindAllByOwner pages over the pets of one owner. An unknown owner is
// reported as NotFound rather than as an empty page.
func (s *PetService) FindAllByOwner(ctx context.Context, ownerID int64, p pagination.Pageable) (pagination.Page[*model.Pet], error) {
	log.Ctx(ctx).Debug().Int64("owner_id", ownerID).Msg("Request to get the pets of an owner")

	ok, err := s.owners.Exists(ctx, ownerID)
	if err != nil {
		return pagination.Page[*model.Pet]{}, err
	}
	if !ok {
		return pagination.Page[*model.Pet]{}, apperror.NotFound("owner", "Owner not found")
	}

	pets, total, err := s.repo.FindAllByOwner(ctx, ownerID, p)
	if err != nil {
		return pagination.Page[*model.Pet]{}, fmt.Errorf("list pets of owner %d: %w", ownerID, err)
	}
	return pagination.NewPage(pets, p, total), nil
}
