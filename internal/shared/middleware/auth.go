package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"furrymatch-backend/internal/shared/response"
	"furrymatch-backend/internal/shared/security"
	"furrymatch-backend/pkg/jwt"
)

// Gin context keys set by AuthMiddleware.
const (
	ContextUserID = "userID"
	ContextLogin  = "login"
)

// AuthMiddleware requires a valid "Authorization: Bearer <token>" header.
// The principal is stored both in the gin context and in the request
// context, where services read it with security.CurrentLogin.
func AuthMiddleware(tokens *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Unauthorized(c, "invalid authorization header format")
			return
		}

		claims, err := tokens.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			log.Ctx(c.Request.Context()).Debug().Err(err).Msg("rejected token")
			response.Unauthorized(c, "invalid token")
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextLogin, claims.Login())

		ctx := security.WithPrincipal(c.Request.Context(), security.Principal{
			UserID: claims.UserID,
			Login:  claims.Login(),
		})
		ctx = log.Ctx(ctx).With().Str("login", claims.Login()).Logger().WithContext(ctx)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
