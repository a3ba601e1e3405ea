package shared

// Background task types handled by cmd/worker.
const (
	TypePhotoDeleteObjects = "photo:delete_objects"
	TypePhotoSweepOrphans  = "photo:sweep_orphans"
)

// Queue names and their worker priorities.
const (
	QueueDefault = "default"
	QueuePhoto   = "photo"
	QueueLow     = "low"
)

// QueuePriorities is the weighted queue map of the worker server.
var QueuePriorities = map[string]int{
	QueuePhoto:   6,
	QueueDefault: 3,
	QueueLow:     1,
}

// DeleteObjectsPayload lists the storage keys to remove.
type DeleteObjectsPayload struct {
	Keys []string `json:"keys"`
}

// SweepOrphansPayload limits the orphan sweep to a key prefix.
type SweepOrphansPayload struct {
	Prefix string `json:"prefix"`
}
