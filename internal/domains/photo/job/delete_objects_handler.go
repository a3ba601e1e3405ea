package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"furrymatch-backend/internal/shared"
)

// ObjectCleaner is implemented by the photo service.
type ObjectCleaner interface {
	DeleteObjects(ctx context.Context, keys []string) error
	SweepOrphans(ctx context.Context, prefix string) (int, error)
}

// DeleteObjectsHandler processes photo:delete_objects tasks.
type DeleteObjectsHandler struct {
	cleaner ObjectCleaner
}

func NewDeleteObjectsHandler(cleaner ObjectCleaner) *DeleteObjectsHandler {
	return &DeleteObjectsHandler{cleaner: cleaner}
}

func (h *DeleteObjectsHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.DeleteObjectsPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal DeleteObjects payload")
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	if len(payload.Keys) == 0 {
		return nil
	}

	log.Info().Strs("keys", payload.Keys).Msg("Deleting photo objects")

	if err := h.cleaner.DeleteObjects(ctx, payload.Keys); err != nil {
		log.Error().Err(err).Strs("keys", payload.Keys).Msg("Failed to delete photo objects")
		return fmt.Errorf("delete objects: %w", err)
	}

	log.Info().Int("count", len(payload.Keys)).Msg("Photo objects deleted successfully")
	return nil
}
