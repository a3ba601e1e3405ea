package main

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"furrymatch-backend/internal/shared/middleware"
	"furrymatch-backend/internal/shared/validation"
	"furrymatch-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.RegisterCustomValidators(v)
	} else {
		log.Warn().Msg("Gin validator engine is not go-playground/validator, custom rules not registered")
	}

	cfg := c.Config
	metrics := middleware.NewMetrics()

	router := gin.New()
	// nil trusts no proxy, so forwarding headers cannot pick the client IP.
	if err := router.SetTrustedProxies(cfg.App.TrustedProxies); err != nil {
		log.Fatal().Err(err).Strs("trusted_proxies", cfg.App.TrustedProxies).Msg("Invalid TRUSTED_PROXIES")
	}
	router.Use(
		middleware.RequestID(),
		middleware.ClientIP(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.CORS(cfg.App.CORSOrigins, cfg.App.ClientAppName),
		metrics.Middleware(),
	)

	router.GET("/health", healthCheckHandler(cfg.App.Version, healthChecks(c)...))
	router.GET("/metrics", metrics.Handler())

	api := router.Group("/api", middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	c.UserHandler.RegisterPublicRoutes(api)

	secured := api.Group("", middleware.AuthMiddleware(c.JWTManager))
	c.UserHandler.RegisterRoutes(secured)
	c.OwnerHandler.RegisterRoutes(secured)
	c.PetHandler.RegisterRoutes(secured)
	c.PhotoHandler.RegisterRoutes(secured)

	return router
}

func healthChecks(c *container.Container) []healthCheck {
	checks := []healthCheck{
		{
			name:     "database",
			critical: true,
			check:    c.DB.HealthCheck,
			stats:    func() (any, error) { return c.DB.Stats() },
		},
		{name: "storage", critical: true, check: c.Storage.HealthCheck},
	}
	if c.Redis != nil {
		checks = append(checks, healthCheck{name: "redis", check: c.Redis.HealthCheck})
	}
	return checks
}
