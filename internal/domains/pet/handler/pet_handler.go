package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"furrymatch-backend/internal/domains/pet/model"
	"furrymatch-backend/internal/domains/pet/service"
	"furrymatch-backend/internal/shared/crud"
	"furrymatch-backend/internal/shared/response"
)

type PetHandler struct {
	*crud.Resource[*model.Pet]
	service *service.PetService
}

func NewPetHandler(svc *service.PetService, alerts *response.Alerts) *PetHandler {
	return &PetHandler{
		Resource: crud.NewResource[*model.Pet](model.EntityName, "/api/pets", svc, model.New, alerts),
		service:  svc,
	}
}

func (h *PetHandler) RegisterRoutes(api *gin.RouterGroup) {
	h.Register(api.Group("/pets"))
	api.GET("/owners/:id/pets", h.ListByOwner)
}

// ListByOwner handles GET /api/owners/:id/pets
func (h *PetHandler) ListByOwner(c *gin.Context) {
	ownerID, ok := h.PathID(c)
	if !ok {
		return
	}
	p, ok := h.Pageable(c)
	if !ok {
		return
	}
	log.Ctx(c.Request.Context()).Debug().Int64("owner_id", ownerID).Msg("REST request to get the pets of an owner")

	page, err := h.service.FindAllByOwner(c.Request.Context(), ownerID, p)
	if err != nil {
		h.Fail(c, err)
		return
	}
	crud.WritePage(c, page, p)
}
