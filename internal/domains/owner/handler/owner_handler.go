package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"furrymatch-backend/internal/domains/owner/model"
	"furrymatch-backend/internal/domains/owner/service"
	"furrymatch-backend/internal/shared/crud"
	"furrymatch-backend/internal/shared/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// OwnerHandler serves /api/owners. Everything but delete and export is
// the generic resource.
type OwnerHandler struct {
	*crud.Resource[*model.Owner]
	service *service.OwnerService
	alerts  *response.Alerts
}

func NewOwnerHandler(svc *service.OwnerService, alerts *response.Alerts) *OwnerHandler {
	return &OwnerHandler{
		Resource: crud.NewResource[*model.Owner](model.EntityName, "/api/owners", svc, model.New, alerts),
		service:  svc,
		alerts:   alerts,
	}
}

func (h *OwnerHandler) RegisterRoutes(api *gin.RouterGroup) {
	owners := api.Group("/owners")
	{
		owners.GET("/export", h.Export)
		owners.POST("", h.Create)
		owners.PUT("/:id", h.Update)
		owners.PATCH("/:id", h.PartialUpdate)
		owners.GET("", h.List)
		owners.GET("/:id", h.Get)
		owners.DELETE("/:id", h.Delete)
	}
}

// Delete handles DELETE /api/owners/:id. It removes the owner and the
// account of the caller, answering with the userManagement.deleted alert.
func (h *OwnerHandler) Delete(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	log.Ctx(c.Request.Context()).Debug().Int64("id", id).Msg("REST request to delete Owner")

	login, err := h.service.DeleteWithAccount(c.Request.Context(), id)
	if err != nil {
		h.Fail(c, err)
		return
	}

	h.alerts.Alert(c, "userManagement.deleted", login)
	c.Status(http.StatusNoContent)
}

// Export handles GET /api/owners/export
func (h *OwnerHandler) Export(c *gin.Context) {
	f, count, err := h.service.ExportToExcel(c.Request.Context())
	if err != nil {
		h.Fail(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", `attachment; filename="owners.xlsx"`)
	c.Header("X-Total-Count", strconv.Itoa(count))
	c.Status(http.StatusOK)

	if err := f.Write(c.Writer); err != nil {
		log.Ctx(c.Request.Context()).Error().Err(err).Msg("Failed to stream owner export")
	}
}
