package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ragpanel/ragpanel/backend/go-services/pkg/logger"
)

func (h *Handler) listModels(c *gin.Context) {
	search := strings.TrimSpace(c.Query("search"))
	models, err := h.catalog(c.Request.Context(), search)
	if err != nil {
		logger.Errorf("model catalog search=%q: %v", search, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, models)
}

func (h *Handler) assignModel(c *gin.Context) {
	project := c.Param("project")
	modelID := strings.TrimSpace(c.Query("model_id"))
	if modelID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "model_id is required"})
		return
	}

	if err := h.store.AssignModel(c.Request.Context(), project, modelID); err != nil {
		logger.Errorf("assign model %s to project %s: %v", modelID, project, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"project_id": project, "model_id": modelID})
}
