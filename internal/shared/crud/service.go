package crud

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"furrymatch-backend/internal/shared/apperror"
	"furrymatch-backend/internal/shared/pagination"
)

// Service implements EntityService on top of a Repository.
// Entity services embed it and override what differs.
type Service[E Entity[E]] struct {
	name string
	repo Repository[E]
}

func NewService[E Entity[E]](entityName string, repo Repository[E]) *Service[E] {
	return &Service[E]{name: entityName, repo: repo}
}

func (s *Service[E]) EntityName() string { return s.name }

func (s *Service[E]) Save(ctx context.Context, e E) (E, error) {
	log.Ctx(ctx).Debug().Str("entity", s.name).Msg("Request to save")

	if err := e.Validate(); err != nil {
		var zero E
		return zero, apperror.Validation(s.name, err)
	}

	saved, err := s.repo.Create(ctx, e)
	if err != nil {
		var zero E
		return zero, fmt.Errorf("create %s: %w", s.name, err)
	}
	return saved, nil
}

// Update fully replaces the stored row; the write is last-write-wins.
func (s *Service[E]) Update(ctx context.Context, e E) (E, error) {
	log.Ctx(ctx).Debug().Str("entity", s.name).Msg("Request to update")

	if err := e.Validate(); err != nil {
		var zero E
		return zero, apperror.Validation(s.name, err)
	}

	updated, err := s.repo.Update(ctx, e)
	if err != nil {
		var zero E
		return zero, fmt.Errorf("update %s: %w", s.name, err)
	}
	return updated, nil
}

// PartialUpdate reads the stored row, merges the non-nil fields of patch
// and writes the result back.
func (s *Service[E]) PartialUpdate(ctx context.Context, patch E) (E, bool, error) {
	log.Ctx(ctx).Debug().Str("entity", s.name).Msg("Request to partially update")

	var zero E
	id := patch.GetID()
	if id == nil {
		return zero, false, apperror.IDNull(s.name)
	}

	existing, err := s.repo.FindByID(ctx, *id)
	if errors.Is(err, ErrNotFound) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("load %s: %w", s.name, err)
	}

	existing.Merge(patch)
	if err := existing.Validate(); err != nil {
		return zero, false, apperror.Validation(s.name, err)
	}

	updated, err := s.repo.Update(ctx, existing)
	if errors.Is(err, ErrNotFound) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("update %s: %w", s.name, err)
	}
	return updated, true, nil
}

func (s *Service[E]) FindAll(ctx context.Context, p pagination.Pageable) (pagination.Page[E], error) {
	log.Ctx(ctx).Debug().Str("entity", s.name).Int("page", p.Page).Int("size", p.Size).Msg("Request to get all")

	items, total, err := s.repo.FindAll(ctx, p)
	if err != nil {
		return pagination.Page[E]{}, fmt.Errorf("list %s: %w", s.name, err)
	}
	return pagination.NewPage(items, p, total), nil
}

// FindOne returns an error wrapping ErrNotFound when absent.
func (s *Service[E]) FindOne(ctx context.Context, id int64) (E, error) {
	log.Ctx(ctx).Debug().Str("entity", s.name).Int64("id", id).Msg("Request to get")

	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		var zero E
		return zero, fmt.Errorf("get %s %d: %w", s.name, id, err)
	}
	return e, nil
}

func (s *Service[E]) Delete(ctx context.Context, id int64) error {
	log.Ctx(ctx).Debug().Str("entity", s.name).Int64("id", id).Msg("Request to delete")

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete %s %d: %w", s.name, id, err)
	}
	return nil
}

func (s *Service[E]) Exists(ctx context.Context, id int64) (bool, error) {
	ok, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("check %s %d: %w", s.name, id, err)
	}
	return ok, nil
}
