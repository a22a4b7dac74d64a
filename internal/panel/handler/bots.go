package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ragpanel/ragpanel/backend/go-services/internal/panel"
	"github.com/ragpanel/ragpanel/backend/go-services/internal/panel/repository"
	"github.com/ragpanel/ragpanel/backend/go-services/pkg/logger"
)

func (h *Handler) listBots(c *gin.Context) {
	bots, err := h.store.Bots(c.Request.Context())
	if err != nil {
		logger.Errorf("list bots: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, bots)
}

func (h *Handler) startBot(c *gin.Context) {
	h.setBotActive(c, true)
}

func (h *Handler) stopBot(c *gin.Context) {
	h.setBotActive(c, false)
}

func (h *Handler) setBotActive(c *gin.Context, active bool) {
	project := c.Param("project")
	b, err := h.store.SetBotActive(c.Request.Context(), project, active)
	if err != nil {
		if err == repository.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "no bot for project"})
			return
		}
		logger.Errorf("set bot active project=%s: %v", project, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, b)
}

type verifyBotReq struct {
	Token string `json:"token"`
}

// verifyBot is an idempotent upsert: an existing bot record gets its
// credentials and display fields overwritten and is marked active, otherwise
// a new record is synthesized for the project.
func (h *Handler) verifyBot(c *gin.Context) {
	project := c.Param("project")

	var req verifyBotReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}
	token := strings.TrimSpace(req.Token)

	projectName, err := h.store.ProjectName(c.Request.Context(), project)
	if err != nil {
		if err != repository.ErrNotFound {
			logger.Errorf("project lookup %s: %v", project, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		projectName = "Unknown project"
	}

	username := botUsername(project)
	b := panel.Bot{
		ProjectID:   project,
		ProjectName: projectName,
		Token:       token,
		Username:    username,
		URL:         "https://t.me/" + username,
		FirstName:   projectName + " Bot",
		Active:      true,
		VerifiedAt:  time.Now().UTC(),
	}
	out, err := h.store.UpsertBot(c.Request.Context(), b)
	if err != nil {
		logger.Errorf("upsert bot project=%s: %v", project, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, out)
}

func botUsername(project string) string {
	s := strings.ToLower(strings.ReplaceAll(project, "-", "_"))
	return s + "_assistant_bot"
}
