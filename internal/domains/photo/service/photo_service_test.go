package service

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"furrymatch-backend/internal/domains/photo/model"
	"furrymatch-backend/internal/domains/photo/phototest"
	"furrymatch-backend/internal/infrastructure/storage"
	"furrymatch-backend/internal/shared"
	"furrymatch-backend/internal/shared/apperror"
)

type taskRecorder struct {
	keys [][]string
}

func (r *taskRecorder) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	var p shared.DeleteObjectsPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return nil, err
	}
	r.keys = append(r.keys, p.Keys)
	return &asynq.TaskInfo{Type: task.Type()}, nil
}

type fixture struct {
	svc   *PhotoService
	repo  *phototest.Repository
	store *phototest.Store
	tasks *taskRecorder
}

func newFixture() fixture {
	repo := phototest.NewRepository()
	store := phototest.NewStore()
	tasks := &taskRecorder{}
	return fixture{
		svc:   NewPhotoService(repo, store, storage.NewImageProcessor(), tasks),
		repo:  repo,
		store: store,
		tasks: tasks,
	}
}

func (f fixture) photo(t *testing.T, petID int64) *model.Photo {
	t.Helper()
	p, err := f.svc.Save(context.Background(), &model.Photo{PetID: &petID})
	require.NoError(t, err)
	return p
}

func img(w, h int) image.Image {
	m := image.NewRGBA(image.Rect(0, 0, w, h))
	m.Set(0, 0, color.RGBA{G: 255, A: 255})
	return m
}

func pngBytes(t *testing.T) []byte {
	var b bytes.Buffer
	require.NoError(t, png.Encode(&b, img(600, 400)))
	return b.Bytes()
}

func jpegBytes(t *testing.T) []byte {
	var b bytes.Buffer
	require.NoError(t, jpeg.Encode(&b, img(40, 40), nil))
	return b.Bytes()
}

func TestSave_IgnoresContentFields(t *testing.T) {
	f := newFixture()
	key := "photos/9/original.png"
	pet := int64(1)

	p, err := f.svc.Save(context.Background(), &model.Photo{PetID: &pet, ObjectKey: &key})
	require.NoError(t, err)
	assert.Nil(t, p.ObjectKey)
	assert.False(t, p.HasContent())
}

func TestUploadContent(t *testing.T) {
	f := newFixture()
	p := f.photo(t, 1)
	id := *p.ID

	updated, err := f.svc.UploadContent(context.Background(), id, pngBytes(t))
	require.NoError(t, err)

	assert.Equal(t, "image/png", *updated.ContentType)
	assert.Equal(t, model.OriginalKey(id, "png"), *updated.ObjectKey)
	assert.Equal(t, model.ThumbnailKey(id), *updated.ThumbnailKey)
	assert.NotNil(t, updated.UploadedAt)
	assert.ElementsMatch(t, []string{"photos/1/original.png", "photos/1/thumbnail.jpg"}, f.store.Keys())
	assert.Empty(t, f.tasks.keys)

	data, contentType, err := f.svc.Content(context.Background(), id, model.VariantThumbnail)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", contentType)
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, storage.ThumbnailSize, cfg.Width)
}

func TestUploadContent_ReplacingSchedulesStaleKeys(t *testing.T) {
	f := newFixture()
	id := *f.photo(t, 1).ID

	_, err := f.svc.UploadContent(context.Background(), id, pngBytes(t))
	require.NoError(t, err)
	_, err = f.svc.UploadContent(context.Background(), id, jpegBytes(t))
	require.NoError(t, err)

	// the thumbnail key is reused and overwritten in place
	assert.Equal(t, [][]string{{"photos/1/original.png"}}, f.tasks.keys)
}

func TestUploadContent_Rejections(t *testing.T) {
	f := newFixture()
	id := *f.photo(t, 1).ID

	_, err := f.svc.UploadContent(context.Background(), id, []byte("GIF89a not really"))
	assert.Equal(t, apperror.KindBadRequest, apperror.From(err).Kind)

	_, err = f.svc.UploadContent(context.Background(), 404, pngBytes(t))
	assert.Equal(t, apperror.KindNotFound, apperror.From(err).Kind)

	assert.Empty(t, f.store.Keys())
}

func TestContent_NoUpload(t *testing.T) {
	f := newFixture()
	id := *f.photo(t, 1).ID

	_, _, err := f.svc.Content(context.Background(), id, model.VariantOriginal)
	assert.Equal(t, apperror.KindNotFound, apperror.From(err).Kind)

	_, _, err = f.svc.Content(context.Background(), id, "large")
	assert.Equal(t, apperror.KindBadRequest, apperror.From(err).Kind)
}

func TestUpdate_KeepsContent(t *testing.T) {
	f := newFixture()
	id := *f.photo(t, 1).ID
	_, err := f.svc.UploadContent(context.Background(), id, pngBytes(t))
	require.NoError(t, err)

	caption := "Sunny day"
	pet := int64(1)
	updated, err := f.svc.Update(context.Background(), &model.Photo{ID: &id, PetID: &pet, Caption: &caption})
	require.NoError(t, err)

	assert.Equal(t, "Sunny day", *updated.Caption)
	assert.True(t, updated.HasContent())
}

func TestDelete_SchedulesObjects(t *testing.T) {
	f := newFixture()
	id := *f.photo(t, 1).ID
	_, err := f.svc.UploadContent(context.Background(), id, pngBytes(t))
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(context.Background(), id))

	assert.Equal(t, 0, f.repo.Len())
	require.Len(t, f.tasks.keys, 1)
	assert.ElementsMatch(t, []string{"photos/1/original.png", "photos/1/thumbnail.jpg"}, f.tasks.keys[0])
	// objects stay until the worker runs
	assert.Len(t, f.store.Keys(), 2)

	require.NoError(t, f.svc.DeleteObjects(context.Background(), f.tasks.keys[0]))
	assert.Empty(t, f.store.Keys())
}

func TestDelete_WithoutContent(t *testing.T) {
	f := newFixture()
	id := *f.photo(t, 1).ID

	require.NoError(t, f.svc.Delete(context.Background(), id))
	assert.Empty(t, f.tasks.keys)
}

func TestOwnerObjectKeys(t *testing.T) {
	f := newFixture()
	f.repo.PetOwners = map[int64]int64{1: 7, 2: 8}
	mine := *f.photo(t, 1).ID
	other := *f.photo(t, 2).ID
	_, err := f.svc.UploadContent(context.Background(), mine, pngBytes(t))
	require.NoError(t, err)
	_, err = f.svc.UploadContent(context.Background(), other, pngBytes(t))
	require.NoError(t, err)

	keys, err := f.svc.OwnerObjectKeys(context.Background(), 7)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"photos/1/original.png", "photos/1/thumbnail.jpg"}, keys)
}

func TestSweepOrphans(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	id := *f.photo(t, 1).ID
	_, err := f.svc.UploadContent(ctx, id, pngBytes(t))
	require.NoError(t, err)

	require.NoError(t, f.store.Upload(ctx, "photos/77/original.jpg", []byte("x"), "image/jpeg"))
	require.NoError(t, f.store.Upload(ctx, "photos/77/thumbnail.jpg", []byte("x"), "image/jpeg"))
	require.NoError(t, f.store.Upload(ctx, "photos/readme.txt", []byte("x"), "text/plain"))

	removed, err := f.svc.SweepOrphans(ctx, "photos/")
	require.NoError(t, err)

	assert.Equal(t, 2, removed)
	assert.ElementsMatch(t, []string{"photos/1/original.png", "photos/1/thumbnail.jpg", "photos/readme.txt"}, f.store.Keys())
}
