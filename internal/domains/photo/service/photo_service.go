package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"furrymatch-backend/internal/domains/photo/model"
	"furrymatch-backend/internal/domains/photo/repository"
	"furrymatch-backend/internal/infrastructure/queue"
	"furrymatch-backend/internal/infrastructure/storage"
	"furrymatch-backend/internal/shared/apperror"
	"furrymatch-backend/internal/shared/crud"
)

// PhotoService manages photo metadata and the image objects behind it.
// Objects are never removed inline: removal is queued as photo:delete_objects.
type PhotoService struct {
	*crud.Service[*model.Photo]
	repo   repository.Repository
	store  storage.ObjectStore
	images *storage.ImageProcessor
	tasks  queue.Enqueuer
}

func NewPhotoService(
	repo repository.Repository,
	store storage.ObjectStore,
	images *storage.ImageProcessor,
	tasks queue.Enqueuer,
) *PhotoService {
	return &PhotoService{
		Service: crud.NewService[*model.Photo](model.EntityName, repo),
		repo:    repo,
		store:   store,
		images:  images,
		tasks:   tasks,
	}
}

func clearContent(p *model.Photo) {
	p.ContentType = nil
	p.ObjectKey = nil
	p.ThumbnailKey = nil
	p.SizeBytes = nil
	p.UploadedAt = nil
}

// Save ignores client supplied content fields.
func (s *PhotoService) Save(ctx context.Context, p *model.Photo) (*model.Photo, error) {
	clearContent(p)
	return s.Service.Save(ctx, p)
}

// Update replaces petId and caption and keeps the stored content fields.
func (s *PhotoService) Update(ctx context.Context, p *model.Photo) (*model.Photo, error) {
	if p.ID != nil {
		stored, err := s.repo.FindByID(ctx, *p.ID)
		if err != nil {
			return nil, fmt.Errorf("load photo: %w", err)
		}
		p.ContentType = stored.ContentType
		p.ObjectKey = stored.ObjectKey
		p.ThumbnailKey = stored.ThumbnailKey
		p.SizeBytes = stored.SizeBytes
		p.UploadedAt = stored.UploadedAt
	}
	return s.Service.Update(ctx, p)
}

// Delete removes the row and queues the removal of its objects.
func (s *PhotoService) Delete(ctx context.Context, id int64) error {
	keys, err := s.repo.ObjectKeys(ctx, id)
	if err != nil {
		return fmt.Errorf("collect objects of photo %d: %w", id, err)
	}

	if err := s.Service.Delete(ctx, id); err != nil {
		return err
	}

	s.scheduleQuietly(ctx, keys)
	return nil
}

func (s *PhotoService) PetObjectKeys(ctx context.Context, petID int64) ([]string, error) {
	return s.repo.PetObjectKeys(ctx, petID)
}

func (s *PhotoService) OwnerObjectKeys(ctx context.Context, ownerID int64) ([]string, error) {
	return s.repo.OwnerObjectKeys(ctx, ownerID)
}

// ScheduleObjectDeletion enqueues a photo:delete_objects task for keys.
func (s *PhotoService) ScheduleObjectDeletion(ctx context.Context, keys []string) error {
	return queue.EnqueueDeleteObjects(ctx, s.tasks, keys)
}

func (s *PhotoService) scheduleQuietly(ctx context.Context, keys []string) {
	if err := s.ScheduleObjectDeletion(ctx, keys); err != nil {
		log.Ctx(ctx).Error().Err(err).Strs("keys", keys).Msg("Failed to schedule photo object deletion")
	}
}

// UploadContent validates the image, stores the original and its
// thumbnail, then points the photo at them. Objects the photo referenced
// before and no longer does are queued for deletion.
func (s *PhotoService) UploadContent(ctx context.Context, id int64, data []byte) (*model.Photo, error) {
	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("check photo %d: %w", id, err)
	}
	if !exists {
		return nil, apperror.NotFound(model.EntityName, "Photo not found")
	}

	format, err := s.images.ValidateImage(data)
	if err != nil {
		return nil, apperror.BadRequest(model.EntityName, "invalidimage", err.Error())
	}

	thumb, err := s.images.Thumbnail(data)
	if err != nil {
		return nil, apperror.BadRequest(model.EntityName, "invalidimage", err.Error())
	}

	content := model.Content{
		ContentType:  format.ContentType,
		ObjectKey:    model.OriginalKey(id, format.Extension),
		ThumbnailKey: model.ThumbnailKey(id),
		SizeBytes:    int64(len(data)),
	}

	if err := s.store.Upload(ctx, content.ObjectKey, data, content.ContentType); err != nil {
		return nil, fmt.Errorf("upload original of photo %d: %w", id, err)
	}
	if err := s.store.Upload(ctx, content.ThumbnailKey, thumb, "image/jpeg"); err != nil {
		return nil, fmt.Errorf("upload thumbnail of photo %d: %w", id, err)
	}

	updated, previous, err := s.repo.ReplaceContent(ctx, id, content)
	if errors.Is(err, crud.ErrNotFound) {
		// deleted while uploading
		s.scheduleQuietly(ctx, []string{content.ObjectKey, content.ThumbnailKey})
		return nil, apperror.NotFound(model.EntityName, "Photo not found")
	}
	if err != nil {
		return nil, fmt.Errorf("store content of photo %d: %w", id, err)
	}

	var stale []string
	for _, k := range previous {
		if k != content.ObjectKey && k != content.ThumbnailKey {
			stale = append(stale, k)
		}
	}
	s.scheduleQuietly(ctx, stale)

	log.Ctx(ctx).Info().Int64("photo_id", id).Str("content_type", content.ContentType).
		Int64("size", content.SizeBytes).Msg("Stored photo content")
	return updated, nil
}

// Content returns the bytes and content type of a variant.
func (s *PhotoService) Content(ctx context.Context, id int64, variant string) ([]byte, string, error) {
	if variant != model.VariantOriginal && variant != model.VariantThumbnail {
		return nil, "", apperror.BadRequest(model.EntityName, "invalidvariant", "variant must be original or thumbnail")
	}

	p, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, "", err
	}

	key := p.Key(variant)
	if key == "" {
		return nil, "", apperror.NotFound(model.EntityName, "No content uploaded")
	}

	data, contentType, err := s.store.Download(ctx, key)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, "", apperror.NotFound(model.EntityName, "No content uploaded")
	}
	if err != nil {
		return nil, "", fmt.Errorf("download %s: %w", key, err)
	}
	return data, contentType, nil
}

// DeleteObjects removes keys from storage. Run by the worker.
func (s *PhotoService) DeleteObjects(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.store.RemoveObjects(ctx, keys)
}

// SweepOrphans removes objects under prefix whose photo row no longer
// exists and returns how many were removed. Keys that do not follow the
// photos/<id>/... layout are left alone.
func (s *PhotoService) SweepOrphans(ctx context.Context, prefix string) (int, error) {
	keys, err := s.store.ListKeys(ctx, prefix)
	if err != nil {
		return 0, err
	}

	byID := map[int64][]string{}
	ids := make([]int64, 0)
	for _, k := range keys {
		id, ok := photoIDFromKey(k)
		if !ok {
			continue
		}
		if _, seen := byID[id]; !seen {
			ids = append(ids, id)
		}
		byID[id] = append(byID[id], k)
	}

	existing, err := s.repo.ExistingIDs(ctx, ids)
	if err != nil {
		return 0, err
	}

	var orphans []string
	for _, id := range ids {
		if !existing[id] {
			orphans = append(orphans, byID[id]...)
		}
	}
	if err := s.DeleteObjects(ctx, orphans); err != nil {
		return 0, err
	}
	return len(orphans), nil
}

func photoIDFromKey(key string) (int64, bool) {
	parts := strings.SplitN(key, "/", 3)
	if len(parts) != 3 || parts[0] != "photos" {
		return 0, false
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
