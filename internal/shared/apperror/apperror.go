package apperror

import (
	"errors"
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindNotFound
	KindConflict
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// Error keys shared by every entity resource.
const (
	KeyIDExists   = "idexists"
	KeyIDNull     = "idnull"
	KeyIDInvalid  = "idinvalid"
	KeyIDNotFound = "idnotfound"
	KeyValidation = "validation"
)

// Error is the typed error handlers translate into problem responses.
type Error struct {
	Kind       Kind
	EntityName string
	ErrorKey   string
	Message    string
	// Details is rendered as fieldErrors, e.g. ozzo validation.Errors.
	Details interface{}
	Err     error

	status int
}

func (e *Error) Error() string {
	msg := e.Message
	if e.EntityName != "" || e.ErrorKey != "" {
		msg = fmt.Sprintf("%s [%s.%s]", msg, e.EntityName, e.ErrorKey)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// WithStatus overrides the HTTP status derived from Kind.
func (e *Error) WithStatus(status int) *Error {
	e.status = status
	return e
}

// HTTPStatus maps the error to a response status.
func (e *Error) HTTPStatus() int {
	if e.status != 0 {
		return e.status
	}
	switch e.Kind {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func BadRequest(entity, key, message string) *Error {
	return &Error{Kind: KindBadRequest, EntityName: entity, ErrorKey: key, Message: message}
}

func NotFound(entity, message string) *Error {
	return &Error{Kind: KindNotFound, EntityName: entity, ErrorKey: "notfound", Message: message}
}

func Conflict(entity, key, message string) *Error {
	return &Error{Kind: KindConflict, EntityName: entity, ErrorKey: key, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, ErrorKey: "unauthorized", Message: message}
}

// Internal hides err from clients; it is only logged.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, ErrorKey: "internalServerError", Message: "Internal server error", Err: err}
}

// IDExists is raised when a new entity already carries an identifier.
// Answered with 400, the status clients of the resource contract expect.
func IDExists(entity string) *Error {
	return Conflict(entity, KeyIDExists, "A new "+entity+" cannot already have an ID").
		WithStatus(http.StatusBadRequest)
}

func IDNull(entity string) *Error {
	return BadRequest(entity, KeyIDNull, "Invalid id")
}

func IDInvalid(entity string) *Error {
	return BadRequest(entity, KeyIDInvalid, "Invalid ID")
}

// IDNotFound is the existence check of update and patch, answered with 400.
func IDNotFound(entity string) *Error {
	e := &Error{Kind: KindNotFound, EntityName: entity, ErrorKey: KeyIDNotFound, Message: "Entity not found"}
	return e.WithStatus(http.StatusBadRequest)
}

// Validation converts an ozzo validation result into a BadRequest.
// Internal validator failures stay internal.
func Validation(entity string, err error) *Error {
	var internal validation.InternalError
	if errors.As(err, &internal) {
		return Internal(err)
	}
	var fields validation.Errors
	if errors.As(err, &fields) {
		return &Error{
			Kind:       KindBadRequest,
			EntityName: entity,
			ErrorKey:   KeyValidation,
			Message:    "Method argument not valid",
			Details:    fields,
			Err:        err,
		}
	}
	return &Error{Kind: KindBadRequest, EntityName: entity, ErrorKey: KeyValidation, Message: err.Error(), Err: err}
}

// From returns err as *Error, treating anything untyped as internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
