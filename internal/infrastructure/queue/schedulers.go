package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"furrymatch-backend/internal/config"
	"furrymatch-backend/internal/shared"
	"furrymatch-backend/pkg/logger"
)

// PhotoKeyPrefix is the storage prefix every photo object lives under.
const PhotoKeyPrefix = "photos/"

type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(cfg config.RedisConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		RedisOpt(cfg),
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{scheduler: scheduler}
}

func (s *Scheduler) RegisterJobs() error {
	return s.registerSweepOrphansJob()
}

// Daily at 3 AM: removes stored objects whose photo row is gone, e.g.
// after a failed photo:delete_objects task ran out of retries.
func (s *Scheduler) registerSweepOrphansJob() error {
	payload, err := json.Marshal(shared.SweepOrphansPayload{Prefix: PhotoKeyPrefix})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypePhotoSweepOrphans, payload)

	_, err = s.scheduler.Register(
		"0 3 * * *",
		task,
		asynq.Queue(shared.QueueLow),
		asynq.MaxRetry(1),
		asynq.Timeout(10*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register SweepOrphans job", err)
		return err
	}

	logger.Info("Registered SweepOrphans: daily at 3 AM", map[string]interface{}{})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
