package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const ContentTypeProblem = "application/problem+json"

// Problem types for RFC 7807 responses.
const (
	ProblemTypeDefault      = "https://furrymatch.app/problems/problem-with-message"
	ProblemTypeValidation   = "https://furrymatch.app/problems/constraint-violation"
	ProblemTypeUnauthorized = "https://furrymatch.app/problems/unauthorized"
	ProblemTypeRateLimited  = "https://furrymatch.app/problems/rate-limited"
	ProblemTypeInternal     = "https://furrymatch.app/problems/internal-error"
)

// Problem is an RFC 7807 body extended with the fields the frontend
// uses to build translated error toasts.
type Problem struct {
	Type        string      `json:"type"`
	Title       string      `json:"title"`
	Status      int         `json:"status"`
	Detail      string      `json:"detail,omitempty"`
	Instance    string      `json:"instance,omitempty"`
	Message     string      `json:"message,omitempty"`
	EntityName  string      `json:"entityName,omitempty"`
	ErrorKey    string      `json:"errorKey,omitempty"`
	FieldErrors interface{} `json:"fieldErrors,omitempty"`
}

// WriteProblem writes p and aborts the handler chain.
func WriteProblem(c *gin.Context, p Problem) {
	if p.Instance == "" {
		p.Instance = c.Request.URL.Path
	}
	if p.Title == "" {
		p.Title = http.StatusText(p.Status)
	}
	c.Header("Content-Type", ContentTypeProblem)
	c.AbortWithStatusJSON(p.Status, p)
}

func BadRequest(c *gin.Context, detail string) {
	WriteProblem(c, Problem{Type: ProblemTypeDefault, Status: http.StatusBadRequest, Detail: detail, Message: "error.http.400"})
}

func Unauthorized(c *gin.Context, detail string) {
	WriteProblem(c, Problem{Type: ProblemTypeUnauthorized, Status: http.StatusUnauthorized, Detail: detail, Message: "error.http.401"})
}

func NotFound(c *gin.Context, detail string) {
	WriteProblem(c, Problem{Type: ProblemTypeDefault, Status: http.StatusNotFound, Detail: detail, Message: "error.http.404"})
}

func TooManyRequests(c *gin.Context, detail string) {
	WriteProblem(c, Problem{Type: ProblemTypeRateLimited, Status: http.StatusTooManyRequests, Detail: detail, Message: "error.http.429"})
}

func InternalServerError(c *gin.Context) {
	WriteProblem(c, Problem{Type: ProblemTypeInternal, Status: http.StatusInternalServerError, Message: "error.http.500"})
}
