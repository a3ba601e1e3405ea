package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"furrymatch-backend/internal/domains/pet/model"
	"furrymatch-backend/internal/domains/pet/service"
	"furrymatch-backend/internal/shared/crud/crudtest"
	"furrymatch-backend/internal/shared/pagination"
	"furrymatch-backend/internal/shared/response"
)

type memoryPets struct {
	*crudtest.MemoryRepository[*model.Pet]
}

func (m memoryPets) FindAllByOwner(_ context.Context, ownerID int64, p pagination.Pageable) ([]*model.Pet, int64, error) {
	return m.FindWhere(p, func(pet *model.Pet) bool {
		return pet.OwnerID != nil && *pet.OwnerID == ownerID
	})
}

type knownOwners map[int64]bool

func (k knownOwners) Exists(_ context.Context, id int64) (bool, error) { return k[id], nil }

type recordingPhotos struct {
	keys      map[int64][]string
	scheduled [][]string
}

func (r *recordingPhotos) PetObjectKeys(_ context.Context, petID int64) ([]string, error) {
	return r.keys[petID], nil
}

func (r *recordingPhotos) ScheduleObjectDeletion(_ context.Context, keys []string) error {
	r.scheduled = append(r.scheduled, keys)
	return nil
}

var photos *recordingPhotos

func setup(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := memoryPets{crudtest.NewMemoryRepository(model.New)}
	photos = &recordingPhotos{keys: map[int64][]string{1: {"photos/5/original.png", "photos/5/thumbnail.jpg"}}}
	svc := service.NewPetService(repo, knownOwners{1: true, 2: true}, photos)
	h := NewPetHandler(svc, response.NewAlerts("furrymatchApp"))

	r := gin.New()
	h.RegisterRoutes(r.Group("/api"))
	return r
}

func do(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func pet(name string, owner int64) map[string]interface{} {
	return map[string]interface{}{"name": name, "petType": "CAT", "ownerId": owner, "weight": "3.5"}
}

func TestCreatePet(t *testing.T) {
	r := setup(t)

	w := do(r, http.MethodPost, "/api/pets", pet("Tom", 1))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/api/pets/1", w.Header().Get("Location"))
	assert.Equal(t, "furrymatchApp.pet.created", w.Header().Get("X-furrymatchApp-alert"))

	var got model.Pet
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "3.5", got.Weight.String())
}

func TestCreatePet_Invalid(t *testing.T) {
	r := setup(t)

	w := do(r, http.MethodPost, "/api/pets", map[string]interface{}{"name": "Tom", "petType": "DRAGON"})

	require.Equal(t, http.StatusBadRequest, w.Code)
	var problem response.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Contains(t, problem.FieldErrors, "petType")
	assert.Contains(t, problem.FieldErrors, "ownerId")
}

func TestListByOwner(t *testing.T) {
	r := setup(t)
	for _, p := range []map[string]interface{}{pet("Tom", 1), pet("Felix", 2), pet("Kitty", 1)} {
		require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/api/pets", p).Code)
	}

	w := do(r, http.MethodGet, "/api/owners/1/pets?size=1", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-Total-Count"))
	assert.Contains(t, w.Header().Get("Link"), `rel="next"`)

	var pets []model.Pet
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pets))
	require.Len(t, pets, 1)
	assert.Equal(t, "Tom", *pets[0].Name)
}

func TestListByOwner_UnknownOwner(t *testing.T) {
	r := setup(t)

	w := do(r, http.MethodGet, "/api/owners/9/pets", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPatchPet_KeepsOtherFields(t *testing.T) {
	r := setup(t)
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/api/pets", pet("Tom", 1)).Code)

	w := do(r, http.MethodPatch, "/api/pets/1", map[string]interface{}{"id": 1, "breed": "Siamese"})

	require.Equal(t, http.StatusOK, w.Code)
	var got model.Pet
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Siamese", *got.Breed)
	assert.Equal(t, "Tom", *got.Name)
	assert.Equal(t, model.PetTypeCat, *got.PetType)
}

func TestDeletePet_SchedulesPhotoObjects(t *testing.T) {
	r := setup(t)
	require.Equal(t, http.StatusCreated, do(r, http.MethodPost, "/api/pets", pet("Tom", 1)).Code)

	w := do(r, http.MethodDelete, "/api/pets/1", nil)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "furrymatchApp.pet.deleted", w.Header().Get("X-furrymatchApp-alert"))
	assert.Equal(t, [][]string{{"photos/5/original.png", "photos/5/thumbnail.jpg"}}, photos.scheduled)
}
