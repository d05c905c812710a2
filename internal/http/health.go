package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tigon-bot-backend/internal/common/logger"
	"tigon-bot-backend/internal/platform/redis"
)

// NewHealthServer exposes the liveness/readiness probes the deployment polls.
// Readiness fails when Redis is unreachable, since every store sits on it.
func NewHealthServer(rdb *redis.Client, port int, debug bool) *http.Server {
	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := rdb.Ping(ctx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}
}

// Serve runs the server until it fails or is shut down.
func Serve(srv *http.Server) {
	logger.Info().Str("addr", srv.Addr).Msg("Health server listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("Health server stopped")
	}
}
