package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ragpanel/ragpanel/backend/go-services/internal/panel"
	"github.com/ragpanel/ragpanel/backend/go-services/internal/panel/repository"
	"github.com/ragpanel/ragpanel/backend/go-services/pkg/logger"
)

// listUsers returns the project's users; an unknown project yields an empty
// array, not an error.
func (h *Handler) listUsers(c *gin.Context) {
	project := c.Param("project")
	users, err := h.store.UsersByProject(c.Request.Context(), project)
	if err != nil {
		logger.Errorf("list users project=%s: %v", project, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, users)
}

type createUserReq struct {
	Phone    string `json:"phone"`
	Username string `json:"username"`
}

func (h *Handler) createUser(c *gin.Context) {
	project := c.Param("project")

	var req createUserReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Phone) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "phone is required"})
		return
	}

	u := panel.User{
		ProjectID: project,
		Phone:     strings.TrimSpace(req.Phone),
		Username:  strings.TrimSpace(req.Username),
		Status:    panel.UserStatusActive,
	}
	if err := h.store.CreateUser(c.Request.Context(), &u); err != nil {
		logger.Errorf("create user project=%s: %v", project, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *Handler) updateUser(c *gin.Context) {
	id := c.Param("id")

	var patch panel.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	u, err := h.store.UpdateUser(c.Request.Context(), id, patch)
	if err != nil {
		if err == repository.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		logger.Errorf("update user %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, u)
}

type setStatusReq struct {
	Status string `json:"status"`
}

func (h *Handler) setUserStatus(c *gin.Context) {
	id := c.Param("id")

	var req setStatusReq
	if err := c.ShouldBindJSON(&req); err != nil || !panel.ValidUserStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be active or blocked"})
		return
	}

	u, err := h.store.SetUserStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		if err == repository.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		logger.Errorf("set user status %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) deleteUser(c *gin.Context) {
	id := c.Param("id")
	if err := h.store.DeleteUser(c.Request.Context(), id); err != nil {
		if err == repository.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		logger.Errorf("delete user %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.Status(http.StatusNoContent)
}
