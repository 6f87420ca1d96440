package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Version is reported by /health.
const Version = "1.0.0"

// Pinger is satisfied by the ledger service.
type Pinger interface {
	Ping(ctx context.Context) error
}

func Health(p Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status, code := "healthy", http.StatusOK
		if err := p.Ping(ctx); err != nil {
			_ = c.Error(err)
			status, code = "unhealthy", http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":  status,
			"version": Version,
			"time":    time.Now().Format(time.RFC3339),
		})
	}
}
