package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"furrymatch-backend/internal/domains/photo/model"
	"furrymatch-backend/internal/domains/photo/service"
	"furrymatch-backend/internal/infrastructure/storage"
	"furrymatch-backend/internal/shared/apperror"
	"furrymatch-backend/internal/shared/crud"
	"furrymatch-backend/internal/shared/response"
)

const (
	formFileField = "file"
	// multipartOverhead covers boundaries and part headers around the file.
	multipartOverhead = 64 << 10
)

type PhotoHandler struct {
	*crud.Resource[*model.Photo]
	service *service.PhotoService
	alerts  *response.Alerts
	maxSize int64
}

func NewPhotoHandler(svc *service.PhotoService, alerts *response.Alerts, maxSize int64) *PhotoHandler {
	return &PhotoHandler{
		Resource: crud.NewResource[*model.Photo](model.EntityName, "/api/photos", svc, model.New, alerts),
		service:  svc,
		alerts:   alerts,
		maxSize:  maxSize,
	}
}

func (h *PhotoHandler) RegisterRoutes(api *gin.RouterGroup) {
	photos := api.Group("/photos")
	h.Register(photos)
	photos.PUT("/:id/content", h.UploadContent)
	photos.GET("/:id/content", h.GetContent)
}

// UploadContent handles PUT /api/photos/:id/content (multipart, field "file").
func (h *PhotoHandler) UploadContent(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	log.Ctx(c.Request.Context()).Debug().Int64("id", id).Msg("REST request to upload Photo content")

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxSize+multipartOverhead)

	fh, err := c.FormFile(formFileField)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.Fail(c, h.tooLarge())
		return
	}
	if err != nil {
		h.Fail(c, apperror.BadRequest(model.EntityName, "filerequired", "multipart field 'file' is required"))
		return
	}
	if fh.Size > h.maxSize {
		h.Fail(c, h.tooLarge())
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.Fail(c, apperror.BadRequest(model.EntityName, "invalidimage", "cannot read upload"))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxSize+1))
	if err != nil {
		h.Fail(c, apperror.BadRequest(model.EntityName, "invalidimage", "cannot read upload"))
		return
	}

	updated, err := h.service.UploadContent(c.Request.Context(), id, data)
	if err != nil {
		h.Fail(c, err)
		return
	}

	h.alerts.EntityUpdated(c, model.EntityName, strconv.FormatInt(id, 10))
	c.JSON(http.StatusOK, updated)
}

func (h *PhotoHandler) tooLarge() error {
	return apperror.BadRequest(model.EntityName, "invalidimage", "image exceeds "+storage.FormatSize(h.maxSize))
}

// GetContent handles GET /api/photos/:id/content?variant=original|thumbnail
func (h *PhotoHandler) GetContent(c *gin.Context) {
	id, ok := h.PathID(c)
	if !ok {
		return
	}
	variant := c.DefaultQuery("variant", model.VariantOriginal)

	data, contentType, err := h.service.Content(c.Request.Context(), id, variant)
	if err != nil {
		h.Fail(c, err)
		return
	}

	c.Header("Cache-Control", "private, max-age=300")
	c.Data(http.StatusOK, contentType, data)
}
