package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"furrymatch-backend/internal/domains/user"
	"furrymatch-backend/internal/shared/apperror"
	"furrymatch-backend/internal/shared/response"
	"furrymatch-backend/internal/shared/security"
	"furrymatch-backend/internal/shared/validation"
)

// UserHandler serves the account endpoints.
type UserHandler struct {
	service user.Service
	alerts  *response.Alerts
}

func NewUserHandler(service user.Service, alerts *response.Alerts) *UserHandler {
	return &UserHandler{service: service, alerts: alerts}
}

// RegisterPublicRoutes mounts the endpoints reachable without a token.
func (h *UserHandler) RegisterPublicRoutes(g *gin.RouterGroup) {
	g.POST("/register", h.Register)
	g.POST("/authenticate", h.Authenticate)
}

// RegisterRoutes mounts the endpoints that need an authenticated caller.
func (h *UserHandler) RegisterRoutes(g *gin.RouterGroup) {
	g.GET("/account", h.GetAccount)
}

// Register handles POST /api/register
func (h *UserHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if !h.bind(c, &req) {
		return
	}
	log.Ctx(c.Request.Context()).Debug().Str("login", req.Login).Msg("REST request to register account")

	dto, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.alerts.Alert(c, "userManagement.created", dto.Login)
	c.JSON(http.StatusCreated, dto)
}

// Authenticate handles POST /api/authenticate
func (h *UserHandler) Authenticate(c *gin.Context) {
	var req user.LoginRequest
	if !h.bind(c, &req) {
		return
	}

	token, err := h.service.Authenticate(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Authorization", "Bearer "+token.IDToken)
	c.JSON(http.StatusOK, token)
}

// GetAccount handles GET /api/account
func (h *UserHandler) GetAccount(c *gin.Context) {
	login, ok := security.CurrentLogin(c.Request.Context())
	if !ok {
		response.Unauthorized(c, "not authenticated")
		return
	}

	dto, err := h.service.GetAccount(c.Request.Context(), login)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// handleError maps account errors onto problem responses.
func (h *UserHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, user.ErrLoginAlreadyExists):
		err = apperror.Conflict(user.EntityName, "loginexists", "Login name already used!")
	case errors.Is(err, user.ErrEmailAlreadyExists):
		err = apperror.Conflict(user.EntityName, "emailexists", "Email is already in use!")
	case errors.Is(err, user.ErrInvalidCredentials),
		errors.Is(err, user.ErrUserNotActivated):
		err = apperror.Unauthorized(err.Error())
	case errors.Is(err, user.ErrUserNotFound):
		// token outlived its account
		err = apperror.Unauthorized("account no longer exists")
	}
	h.alerts.Error(c, err)
}

func (h *UserHandler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		if fields := validation.FieldErrors(err); fields != nil {
			h.alerts.Error(c, &apperror.Error{
				Kind:       apperror.KindBadRequest,
				EntityName: user.EntityName,
				ErrorKey:   apperror.KeyValidation,
				Message:    "Method argument not valid",
				Details:    fields,
				Err:        err,
			})
			return false
		}
		h.alerts.Error(c, apperror.BadRequest(user.EntityName, "invalidbody", "Invalid request body"))
		return false
	}
	return true
}
