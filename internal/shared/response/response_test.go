package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"furrymatch-backend/internal/shared/apperror"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newContext(path string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, path, nil)
	return c, w
}

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) Problem {
	t.Helper()
	var p Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	return p
}

func TestAlerts_EntityCreated(t *testing.T) {
	c, w := newContext("/api/owners")
	NewAlerts("furrymatchApp").EntityCreated(c, "owner", "12")

	assert.Equal(t, "furrymatchApp.owner.created", w.Header().Get("X-furrymatchApp-alert"))
	assert.Equal(t, "12", w.Header().Get("X-furrymatchApp-params"))
}

func TestAlerts_AlertEscapesParam(t *testing.T) {
	c, w := newContext("/api/owners/1")
	NewAlerts("app").Alert(c, "userManagement.deleted", "jane doe")

	assert.Equal(t, "userManagement.deleted", w.Header().Get("X-app-alert"))
	assert.Equal(t, "jane+doe", w.Header().Get("X-app-params"))
}

func TestAlerts_ErrorIDExists(t *testing.T) {
	c, w := newContext("/api/owners")
	NewAlerts("app").Error(c, apperror.IDExists("owner"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, ContentTypeProblem, w.Header().Get("Content-Type"))
	assert.Equal(t, "error.idexists", w.Header().Get("X-app-error"))
	assert.Equal(t, "owner", w.Header().Get("X-app-params"))

	p := decodeProblem(t, w)
	assert.Equal(t, "idexists", p.ErrorKey)
	assert.Equal(t, "owner", p.EntityName)
	assert.Equal(t, "error.idexists", p.Message)
	assert.Equal(t, "/api/owners", p.Instance)
}

func TestAlerts_ErrorValidation(t *testing.T) {
	c, w := newContext("/api/pets")
	err := apperror.Validation("pet", validation.Errors{"name": errors.New("cannot be blank")})
	NewAlerts("app").Error(c, err)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	p := decodeProblem(t, w)
	assert.Equal(t, ProblemTypeValidation, p.Type)
	assert.Equal(t, map[string]interface{}{"name": "cannot be blank"}, p.FieldErrors)
}

func TestAlerts_ErrorInternalHidesCause(t *testing.T) {
	c, w := newContext("/api/pets")
	NewAlerts("app").Error(c, errors.New("connection refused on 10.0.0.3"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.3")
	assert.Empty(t, w.Header().Get("X-app-error"))
}

func TestUnauthorized(t *testing.T) {
	c, w := newContext("/api/account")
	Unauthorized(c, "missing token")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, c.IsAborted())
	p := decodeProblem(t, w)
	assert.Equal(t, "Unauthorized", p.Title)
	assert.Equal(t, "missing token", p.Detail)
}
