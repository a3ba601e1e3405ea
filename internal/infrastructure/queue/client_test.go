package queue

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"furrymatch-backend/internal/shared"
)

type recordingEnqueuer struct {
	tasks []*asynq.Task
}

func (r *recordingEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	r.tasks = append(r.tasks, task)
	return &asynq.TaskInfo{Type: task.Type()}, nil
}

func TestEnqueueDeleteObjects(t *testing.T) {
	q := &recordingEnqueuer{}

	require.NoError(t, EnqueueDeleteObjects(context.Background(), q, []string{"photos/1/original.jpg", "photos/1/thumbnail.jpg"}))
	require.Len(t, q.tasks, 1)

	task := q.tasks[0]
	assert.Equal(t, shared.TypePhotoDeleteObjects, task.Type())
	assert.JSONEq(t, `{"keys":["photos/1/original.jpg","photos/1/thumbnail.jpg"]}`, string(task.Payload()))

	var p shared.DeleteObjectsPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Len(t, p.Keys, 2)
}

func TestEnqueueDeleteObjects_Empty(t *testing.T) {
	q := &recordingEnqueuer{}

	require.NoError(t, EnqueueDeleteObjects(context.Background(), q, nil))
	assert.Empty(t, q.tasks)
}
