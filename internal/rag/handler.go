package rag

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ragpanel/ragpanel/backend/go-services/pkg/logger"
	"github.com/ragpanel/ragpanel/backend/go-services/pkg/metrics"
)

var collectionActions = map[string]bool{
	"create": true,
	"delete": true,
}

// Handler validates inbound requests and forwards them to the RAG backend,
// relaying the backend's status and JSON body. Validation failures never
// reach the backend.
type Handler struct {
	client *Client
}

func NewHandler(client *Client) *Handler {
	return &Handler{client: client}
}

func (h *Handler) Register(r gin.IRouter) {
	rag := r.Group("/rag")
	rag.POST("/collections/:action", h.collections)
	rag.POST("/diagnostics", h.diagnostics)
	rag.POST("/reprocess-documents", h.reprocessDocuments)
}

type collectionsReq struct {
	ProjectID string `json:"project_id"`
}

func (h *Handler) collections(c *gin.Context) {
	action := c.Param("action")
	if !collectionActions[action] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "action must be create or delete"})
		return
	}

	var req collectionsReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ProjectID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "project_id is required"})
		return
	}

	// backend collection API names the field "project"
	h.forward(c, "collections", "/collections/"+action, gin.H{"project": req.ProjectID})
}

type diagnosticsReq struct {
	ProjectID string `json:"project_id"`
	UserID    string `json:"user_id"`
	Question  string `json:"question"`
}

func (h *Handler) diagnostics(c *gin.Context) {
	var req diagnosticsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	switch {
	case strings.TrimSpace(req.ProjectID) == "":
		c.JSON(http.StatusBadRequest, gin.H{"error": "project_id is required"})
		return
	case strings.TrimSpace(req.UserID) == "":
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	case strings.TrimSpace(req.Question) == "":
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}

	h.forward(c, "diagnostics", "/diagnostics", gin.H{
		"project_id": req.ProjectID,
		"user_id":    req.UserID,
		"question":   req.Question,
	})
}

func (h *Handler) reprocessDocuments(c *gin.Context) {
	var req collectionsReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.ProjectID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "project_id is required"})
		return
	}

	h.forward(c, "reprocess", "/reprocess-documents", gin.H{"project": req.ProjectID})
}

// forward performs the single outbound call and relays status + body.
func (h *Handler) forward(c *gin.Context, route, path string, payload interface{}) {
	auth := c.GetHeader("Authorization")

	status, body, err := h.client.PostJSON(c.Request.Context(), path, auth, payload)
	if err != nil {
		logger.Errorf("proxy %s: %v", path, err)
		metrics.UpstreamRequests.WithLabelValues(route, "transport_error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	metrics.UpstreamRequests.WithLabelValues(route, fmt.Sprintf("%dxx", status/100)).Inc()
	if len(body) == 0 {
		c.Status(status)
		return
	}
	c.Data(status, "application/json", body)
}
