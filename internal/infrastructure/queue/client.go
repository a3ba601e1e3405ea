package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"furrymatch-backend/internal/config"
	"furrymatch-backend/internal/shared"
)

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// RedisOpt is the asynq connection shared by client, server and scheduler.
func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Host,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

func NewClient(cfg config.RedisConfig) *asynq.Client {
	return asynq.NewClient(RedisOpt(cfg))
}

// NewDeleteObjectsTask builds a photo:delete_objects task for keys.
func NewDeleteObjectsTask(keys []string) (*asynq.Task, error) {
	payload, err := json.Marshal(shared.DeleteObjectsPayload{Keys: keys})
	if err != nil {
		return nil, fmt.Errorf("marshal delete objects payload: %w", err)
	}
	return asynq.NewTask(shared.TypePhotoDeleteObjects, payload,
		asynq.Queue(shared.QueuePhoto),
		asynq.MaxRetry(5),
		asynq.Timeout(time.Minute),
	), nil
}

// EnqueueDeleteObjects schedules the removal of keys. An empty list is a no-op.
func EnqueueDeleteObjects(ctx context.Context, q Enqueuer, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	task, err := NewDeleteObjectsTask(keys)
	if err != nil {
		return err
	}
	if _, err := q.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("enqueue %s: %w", shared.TypePhotoDeleteObjects, err)
	}
	return nil
}
