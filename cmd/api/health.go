package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

type healthCheck struct {
	name string
	// critical dependencies turn the endpoint into a 503 when they fail.
	critical bool
	check    func(ctx context.Context) error
	// stats, when set, is reported under "stats" next to the status.
	stats func() (any, error)
}

func healthCheckHandler(version string, checks ...healthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()

		status := "ok"
		code := http.StatusOK
		services := gin.H{}
		stats := gin.H{}

		for _, hc := range checks {
			if err := hc.check(ctx); err != nil {
				services[hc.name] = "error: " + err.Error()
				status = "degraded"
				if hc.critical {
					code = http.StatusServiceUnavailable
				}
				continue
			}
			services[hc.name] = "ok"
			if hc.stats != nil {
				if s, err := hc.stats(); err == nil {
					stats[hc.name] = s
				}
			}
		}

		body := gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   version,
			"services":  services,
		}
		if len(stats) > 0 {
			body["stats"] = stats
		}
		c.JSON(code, body)
	}
}
