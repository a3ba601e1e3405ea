package response

import (
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"furrymatch-backend/internal/shared/apperror"
)

// Alerts writes the X-<app>-alert / X-<app>-error headers the frontend
// turns into notifications. Messages are translation keys such as
// "furrymatchApp.owner.created".
type Alerts struct {
	app string
}

func NewAlerts(applicationName string) *Alerts {
	return &Alerts{app: applicationName}
}

func (a *Alerts) AlertHeader() string  { return "X-" + a.app + "-alert" }
func (a *Alerts) ErrorHeader() string  { return "X-" + a.app + "-error" }
func (a *Alerts) ParamsHeader() string { return "X-" + a.app + "-params" }

// Alert sets a raw alert message with one parameter.
func (a *Alerts) Alert(c *gin.Context, message, param string) {
	c.Header(a.AlertHeader(), message)
	c.Header(a.ParamsHeader(), url.QueryEscape(param))
}

func (a *Alerts) EntityCreated(c *gin.Context, entity, param string) {
	a.Alert(c, a.app+"."+entity+".created", param)
}

func (a *Alerts) EntityUpdated(c *gin.Context, entity, param string) {
	a.Alert(c, a.app+"."+entity+".updated", param)
}

func (a *Alerts) EntityDeleted(c *gin.Context, entity, param string) {
	a.Alert(c, a.app+"."+entity+".deleted", param)
}

// Failure sets the error headers for an entity level failure.
func (a *Alerts) Failure(c *gin.Context, entity, errorKey string) {
	c.Header(a.ErrorHeader(), "error."+errorKey)
	c.Header(a.ParamsHeader(), entity)
}

// Error renders err as a problem response. Untyped errors become a 500
// whose cause is logged, never sent to the client.
func (a *Alerts) Error(c *gin.Context, err error) {
	appErr := apperror.From(err)
	status := appErr.HTTPStatus()

	if appErr.Kind == apperror.KindInternal {
		log.Error().
			Err(appErr.Err).
			Str("request_id", c.GetString("request_id")).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
		InternalServerError(c)
		return
	}

	if appErr.EntityName != "" {
		a.Failure(c, appErr.EntityName, appErr.ErrorKey)
	}

	p := Problem{
		Type:       ProblemTypeDefault,
		Status:     status,
		Detail:     appErr.Message,
		EntityName: appErr.EntityName,
		ErrorKey:   appErr.ErrorKey,
		Message:    "error." + appErr.ErrorKey,
	}
	if appErr.Details != nil {
		p.Type = ProblemTypeValidation
		p.FieldErrors = appErr.Details
	}
	WriteProblem(c, p)
}
