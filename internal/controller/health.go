package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"focusdock/internal/cache"
	"focusdock/internal/database"
)

// Health returns 200 if the process is alive. Used by load balancers.
func Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// Ready returns 200 if the backing services this instance is configured with
// are reachable. Used by K8s readiness probes.
func Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if db := database.DB(ctx); db != nil {
		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database ping failed"})
			return
		}
	}
	if rc := cache.Client(ctx); rc != nil {
		if err := rc.Ping(ctx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "redis ping failed"})
			return
		}
	}
	c.String(http.StatusOK, "OK")
}
