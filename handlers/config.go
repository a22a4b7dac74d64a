package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ragpanel/ragpanel/backend/go-services/internal/config"
)

// RegisterConfig exposes the runtime switches the panel frontend needs:
// which backend the proxy talks to and whether the mock surface is active.
func RegisterConfig(r gin.IRouter, cfg *config.Config) {
	r.GET("/config", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"backend_url": cfg.Backend.BaseURL,
			"mock_mode":   cfg.Backend.MockMode,
		})
	})
}
