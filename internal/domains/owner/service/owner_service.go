package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"furrymatch-backend/internal/domains/owner/model"
	"furrymatch-backend/internal/shared/apperror"
	"furrymatch-backend/internal/shared/crud"
	"furrymatch-backend/internal/shared/security"
)

// AccountDeleter removes the account of a login (implemented by the user service).
type AccountDeleter interface {
	DeleteUser(ctx context.Context, login string) error
}

// PhotoObjects gives access to the stored images of an owner's pets,
// which the database cascade would otherwise orphan.
type PhotoObjects interface {
	OwnerObjectKeys(ctx context.Context, ownerID int64) ([]string, error)
	ScheduleObjectDeletion(ctx context.Context, keys []string) error
}

type evictor interface {
	EvictAll(ctx context.Context)
}

// OwnerService is the generic entity service plus the owner specific
// behaviour: account linking on create and the account-deleting delete.
type OwnerService struct {
	*crud.Service[*model.Owner]
	repo     crud.Repository[*model.Owner]
	accounts AccountDeleter
	photos   PhotoObjects
}

func NewOwnerService(repo crud.Repository[*model.Owner], accounts AccountDeleter, photos PhotoObjects) *OwnerService {
	return &OwnerService{
		Service:  crud.NewService[*model.Owner](model.EntityName, repo),
		repo:     repo,
		accounts: accounts,
		photos:   photos,
	}
}

// Save links a new owner to the caller's account unless a user id was given.
func (s *OwnerService) Save(ctx context.Context, o *model.Owner) (*model.Owner, error) {
	if o.UserID == nil {
		if p, ok := security.PrincipalFrom(ctx); ok {
			uid := p.UserID
			o.UserID = &uid
		}
	}
	return s.Service.Save(ctx, o)
}

// DeleteWithAccount deletes the owner, then the account of the current
// caller, and returns that caller's login. Image objects of the owner's
// photos are scheduled for removal once both deletions succeeded.
func (s *OwnerService) DeleteWithAccount(ctx context.Context, id int64) (string, error) {
	login, ok := security.CurrentLogin(ctx)
	if !ok {
		return "", apperror.Unauthorized("no authenticated user")
	}

	keys, err := s.photos.OwnerObjectKeys(ctx, id)
	if err != nil {
		return "", fmt.Errorf("collect photo objects of owner %d: %w", id, err)
	}

	// step 1: the owner row (pets and photos cascade)
	if err := s.Service.Delete(ctx, id); err != nil {
		return "", err
	}

	// step 2: the caller's account
	if err := s.accounts.DeleteUser(ctx, login); err != nil {
		return "", fmt.Errorf("delete account %s: %w", login, err)
	}

	// owners.user_id is SET NULL by the account delete; cached rows may be stale.
	if e, ok := s.repo.(evictor); ok {
		e.EvictAll(ctx)
	}

	if len(keys) > 0 {
		if err := s.photos.ScheduleObjectDeletion(ctx, keys); err != nil {
			log.Ctx(ctx).Error().Err(err).Int64("owner_id", id).Int("objects", len(keys)).
				Msg("Failed to schedule photo object deletion")
		}
	}

	log.Ctx(ctx).Info().Int64("owner_id", id).Str("login", login).Msg("Deleted owner and account")
	return login, nil
}
