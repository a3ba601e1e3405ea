package main

import (
	"github.com/hibiken/asynq"

	"furrymatch-backend/internal/domains/photo/job"
	"furrymatch-backend/internal/shared"
	"furrymatch-backend/pkg/container"
)

// HandlerRegistry holds every task handler of the worker.
type HandlerRegistry struct {
	deleteObjects *job.DeleteObjectsHandler
	sweepOrphans  *job.SweepOrphansHandler
}

func newHandlerRegistry(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		deleteObjects: job.NewDeleteObjectsHandler(c.PhotoService),
		sweepOrphans:  job.NewSweepOrphansHandler(c.PhotoService),
	}
}

func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypePhotoDeleteObjects, h.deleteObjects.ProcessTask)
	mux.HandleFunc(shared.TypePhotoSweepOrphans, h.sweepOrphans.ProcessTask)
}
