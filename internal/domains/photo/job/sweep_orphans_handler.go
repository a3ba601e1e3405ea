package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"furrymatch-backend/internal/shared"
)

// SweepOrphansHandler processes the scheduled photo:sweep_orphans task.
type SweepOrphansHandler struct {
	cleaner ObjectCleaner
}

func NewSweepOrphansHandler(cleaner ObjectCleaner) *SweepOrphansHandler {
	return &SweepOrphansHandler{cleaner: cleaner}
}

func (h *SweepOrphansHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.SweepOrphansPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.Prefix == "" {
		return fmt.Errorf("empty sweep prefix: %w", asynq.SkipRetry)
	}

	removed, err := h.cleaner.SweepOrphans(ctx, payload.Prefix)
	if err != nil {
		log.Error().Err(err).Str("prefix", payload.Prefix).Msg("Failed to sweep orphan photo objects")
		return fmt.Errorf("sweep orphans: %w", err)
	}

	log.Info().Str("prefix", payload.Prefix).Int("removed", removed).Msg("Swept orphan photo objects")
	return nil
}
