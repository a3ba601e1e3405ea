package crud

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"furrymatch-backend/internal/shared/apperror"
	"furrymatch-backend/internal/shared/pagination"
	"furrymatch-backend/internal/shared/response"
)

// Resource exposes an EntityService over REST:
//
//	POST   /<entities>        create
//	PUT    /<entities>/:id    full update
//	PATCH  /<entities>/:id    partial update
//	GET    /<entities>        paged list
//	GET    /<entities>/:id    single
//	DELETE /<entities>/:id    delete
type Resource[E Entity[E]] struct {
	entity  string
	baseURL string
	service EntityService[E]
	newFn   func() E
	alerts  *response.Alerts
}

// NewResource builds the handlers. baseURL is the public collection
// path, e.g. "/api/owners", used for Location headers.
func NewResource[E Entity[E]](entity, baseURL string, service EntityService[E], newFn func() E, alerts *response.Alerts) *Resource[E] {
	return &Resource[E]{
		entity:  entity,
		baseURL: baseURL,
		service: service,
		newFn:   newFn,
		alerts:  alerts,
	}
}

// Register mounts every route of the contract on g.
func (r *Resource[E]) Register(g *gin.RouterGroup) {
	g.POST("", r.Create)
	g.PUT("/:id", r.Update)
	g.PATCH("/:id", r.PartialUpdate)
	g.GET("", r.List)
	g.GET("/:id", r.Get)
	g.DELETE("/:id", r.Delete)
}

func (r *Resource[E]) Create(c *gin.Context) {
	e := r.newFn()
	if err := c.ShouldBindJSON(e); err != nil {
		r.Fail(c, apperror.BadRequest(r.entity, "invalidbody", err.Error()))
		return
	}
	log.Ctx(c.Request.Context()).Debug().Str("entity", r.entity).Msg("REST request to save")

	if e.GetID() != nil {
		r.Fail(c, apperror.IDExists(r.entity))
		return
	}

	saved, err := r.service.Save(c.Request.Context(), e)
	if err != nil {
		r.Fail(c, err)
		return
	}

	id := strconv.FormatInt(*saved.GetID(), 10)
	c.Header("Location", r.baseURL+"/"+id)
	r.alerts.EntityCreated(c, r.entity, id)
	c.JSON(http.StatusCreated, saved)
}

func (r *Resource[E]) Update(c *gin.Context) {
	id, ok := r.PathID(c)
	if !ok {
		return
	}

	e := r.newFn()
	if err := c.ShouldBindJSON(e); err != nil {
		r.Fail(c, apperror.BadRequest(r.entity, "invalidbody", err.Error()))
		return
	}
	log.Ctx(c.Request.Context()).Debug().Str("entity", r.entity).Int64("id", id).Msg("REST request to update")

	// The path id wins over whatever the body carried.
	e.SetID(&id)
	if !r.checkIdentity(c, id, e) {
		return
	}

	updated, err := r.service.Update(c.Request.Context(), e)
	if err != nil {
		r.Fail(c, err)
		return
	}

	r.alerts.EntityUpdated(c, r.entity, strconv.FormatInt(id, 10))
	c.JSON(http.StatusOK, updated)
}

// PartialUpdate accepts application/json and application/merge-patch+json.
// patchContentTypes are the bodies PATCH accepts, both read as JSON merge patch.
var patchContentTypes = map[string]bool{
	gin.MIMEJSON:                   true,
	"application/merge-patch+json": true,
}

func (r *Resource[E]) PartialUpdate(c *gin.Context) {
	id, ok := r.PathID(c)
	if !ok {
		return
	}

	if ct := c.ContentType(); !patchContentTypes[ct] {
		r.Fail(c, apperror.BadRequest(r.entity, "unsupportedmediatype", "Content-Type "+strconv.Quote(ct)+" is not supported").
			WithStatus(http.StatusUnsupportedMediaType))
		return
	}

	patch := r.newFn()
	if err := c.ShouldBindJSON(patch); err != nil {
		r.Fail(c, apperror.BadRequest(r.entity, "invalidbody", err.Error()))
		return
	}
	log.Ctx(c.Request.Context()).Debug().Str("entity", r.entity).Int64("id", id).Msg("REST request to partial update")

	if !r.checkIdentity(c, id, patch) {
		return
	}

	merged, found, err := r.service.PartialUpdate(c.Request.Context(), patch)
	if err != nil {
		r.Fail(c, err)
		return
	}
	if !found {
		r.Fail(c, apperror.NotFound(r.entity, "Entity not found"))
		return
	}

	r.alerts.EntityUpdated(c, r.entity, strconv.FormatInt(id, 10))
	c.JSON(http.StatusOK, merged)
}

func (r *Resource[E]) List(c *gin.Context) {
	p, ok := r.Pageable(c)
	if !ok {
		return
	}
	log.Ctx(c.Request.Context()).Debug().Str("entity", r.entity).Msg("REST request to get a page")

	page, err := r.service.FindAll(c.Request.Context(), p)
	if err != nil {
		r.Fail(c, err)
		return
	}

	WritePage(c, page, p)
}

func (r *Resource[E]) Get(c *gin.Context) {
	id, ok := r.PathID(c)
	if !ok {
		return
	}
	log.Ctx(c.Request.Context()).Debug().Str("entity", r.entity).Int64("id", id).Msg("REST request to get")

	e, err := r.service.FindOne(c.Request.Context(), id)
	if err != nil {
		r.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (r *Resource[E]) Delete(c *gin.Context) {
	id, ok := r.PathID(c)
	if !ok {
		return
	}
	log.Ctx(c.Request.Context()).Debug().Str("entity", r.entity).Int64("id", id).Msg("REST request to delete")

	if err := r.service.Delete(c.Request.Context(), id); err != nil {
		r.Fail(c, err)
		return
	}

	r.alerts.EntityDeleted(c, r.entity, strconv.FormatInt(id, 10))
	c.Status(http.StatusNoContent)
}

// checkIdentity runs the guards shared by update and patch: the body must
// carry an id, equal to the path id, of a row that exists.
func (r *Resource[E]) checkIdentity(c *gin.Context, id int64, e E) bool {
	bodyID := e.GetID()
	if bodyID == nil {
		r.Fail(c, apperror.IDNull(r.entity))
		return false
	}
	if *bodyID != id {
		r.Fail(c, apperror.IDInvalid(r.entity))
		return false
	}

	exists, err := r.service.Exists(c.Request.Context(), id)
	if err != nil {
		r.Fail(c, err)
		return false
	}
	if !exists {
		r.Fail(c, apperror.IDNotFound(r.entity))
		return false
	}
	return true
}

// PathID parses the :id parameter, answering 400 when it is not a number.
func (r *Resource[E]) PathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		r.Fail(c, apperror.BadRequest(r.entity, apperror.KeyIDInvalid, "Invalid ID"))
		return 0, false
	}
	return id, true
}

// Pageable parses the page request, answering 400 on malformed parameters.
func (r *Resource[E]) Pageable(c *gin.Context) (pagination.Pageable, bool) {
	p, err := pagination.Parse(c.Request.URL.Query())
	if err != nil {
		r.Fail(c, apperror.BadRequest(r.entity, "pagination", err.Error()))
		return p, false
	}
	return p, true
}

// Fail maps service errors to problem responses.
func (r *Resource[E]) Fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		err = apperror.NotFound(r.entity, "Entity not found")
	case errors.Is(err, pagination.ErrUnknownSortProperty):
		err = apperror.BadRequest(r.entity, "sort", err.Error())
	}
	r.alerts.Error(c, err)
}

// WritePage answers 200 with the page content and pagination headers.
func WritePage[T any](c *gin.Context, page pagination.Page[T], p pagination.Pageable) {
	pagination.SetHeaders(c.Writer.Header(), c.Request.URL, page, p)
	c.JSON(http.StatusOK, page.Content)
}
