package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"furrymatch-backend/internal/domains/owner/model"
	"furrymatch-backend/internal/domains/owner/service"
	"furrymatch-backend/internal/shared/crud/crudtest"
	"furrymatch-backend/internal/shared/middleware"
	"furrymatch-backend/internal/shared/response"
	"furrymatch-backend/pkg/jwt"
)

type recordingAccounts struct{ deleted []string }

func (r *recordingAccounts) DeleteUser(_ context.Context, login string) error {
	r.deleted = append(r.deleted, login)
	return nil
}

type noPhotos struct{}

func (noPhotos) OwnerObjectKeys(context.Context, int64) ([]string, error) { return nil, nil }
func (noPhotos) ScheduleObjectDeletion(context.Context, []string) error   { return nil }

type fixture struct {
	router   *gin.Engine
	repo     *crudtest.MemoryRepository[*model.Owner]
	accounts *recordingAccounts
	token    string
}

func setup(t *testing.T) fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := jwt.NewManager("owner-test", time.Hour)
	token, err := tokens.GenerateAccessToken(5, "jane", "jane@example.com")
	require.NoError(t, err)

	repo := crudtest.NewMemoryRepository(model.New)
	accounts := &recordingAccounts{}
	h := NewOwnerHandler(service.NewOwnerService(repo, accounts, noPhotos{}), response.NewAlerts("furrymatchApp"))

	r := gin.New()
	h.RegisterRoutes(r.Group("/api", middleware.AuthMiddleware(tokens)))
	return fixture{router: r, repo: repo, accounts: accounts, token: token}
}

func (f fixture) do(method, path string, body interface{}, auth bool) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

var janeBody = map[string]string{"firstName": "Jane", "lastName": "Doe", "email": "jane@example.com"}

func TestCreateOwner(t *testing.T) {
	f := setup(t)

	w := f.do(http.MethodPost, "/api/owners", janeBody, true)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/api/owners/1", w.Header().Get("Location"))
	assert.Equal(t, "furrymatchApp.owner.created", w.Header().Get("X-furrymatchApp-alert"))

	var got model.Owner
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.NotNil(t, got.UserID)
	assert.Equal(t, int64(5), *got.UserID)
}

func TestOwnerRoutesRequireAuth(t *testing.T) {
	f := setup(t)

	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodGet, "/api/owners", nil, false).Code)
	assert.Equal(t, http.StatusUnauthorized, f.do(http.MethodDelete, "/api/owners/1", nil, false).Code)
}

func TestDeleteOwner_DeletesAccount(t *testing.T) {
	f := setup(t)
	require.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/api/owners", janeBody, true).Code)

	w := f.do(http.MethodDelete, "/api/owners/1", nil, true)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "userManagement.deleted", w.Header().Get("X-furrymatchApp-alert"))
	assert.Equal(t, "jane", w.Header().Get("X-furrymatchApp-params"))
	assert.Equal(t, 0, f.repo.Len())
	assert.Equal(t, []string{"jane"}, f.accounts.deleted)
}

func TestExportOwners(t *testing.T) {
	f := setup(t)
	require.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/api/owners", janeBody, true).Code)

	w := f.do(http.MethodGet, "/api/owners/export", nil, true)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, "1", w.Header().Get("X-Total-Count"))

	book, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer book.Close()
	rows, err := book.GetRows("Owners")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, "Jane", rows[1][1])
}

func TestPatchOwner(t *testing.T) {
	f := setup(t)
	require.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/api/owners", janeBody, true).Code)

	w := f.do(http.MethodPatch, "/api/owners/1", map[string]interface{}{"id": 1, "city": "Lyon"}, true)

	require.Equal(t, http.StatusOK, w.Code)
	var got model.Owner
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Lyon", *got.City)
	assert.Equal(t, "Jane", *got.FirstName)
}
