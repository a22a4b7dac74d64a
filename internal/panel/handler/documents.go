package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ragpanel/ragpanel/backend/go-services/internal/panel"
	"github.com/ragpanel/ragpanel/backend/go-services/internal/panel/repository"
	"github.com/ragpanel/ragpanel/backend/go-services/pkg/logger"
)

func (h *Handler) listDocuments(c *gin.Context) {
	project := c.Param("project")
	docs, err := h.store.DocumentsByProject(c.Request.Context(), project)
	if err != nil {
		logger.Errorf("list documents project=%s: %v", project, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, docs)
}

// uploadDocument records a knowledge-base file for a project; when object
// storage is configured the payload is stored under "<project>/<name>".
func (h *Handler) uploadDocument(c *gin.Context) {
	project := c.Param("project")

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	doc := panel.Document{
		ProjectID: project,
		Name:      fh.Filename,
		Size:      fh.Size,
	}
	if h.blobs != nil {
		f, err := fh.Open()
		if err != nil {
			logger.Errorf("open upload %s: %v", fh.Filename, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		defer f.Close()
		key := project + "/" + fh.Filename
		contentType := fh.Header.Get("Content-Type")
		if err := h.blobs.UploadFile(c.Request.Context(), key, f, fh.Size, contentType); err != nil {
			logger.Errorf("store upload %s: %v", key, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		doc.FileKey = key
	}

	if err := h.store.CreateDocument(c.Request.Context(), &doc); err != nil {
		logger.Errorf("create document project=%s: %v", project, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, doc)
}

// deleteDocument removes the record (scanning all project scopes) and then
// drops the stored blob best-effort; a storage failure never fails the
// request once the record is gone.
func (h *Handler) deleteDocument(c *gin.Context) {
	id := c.Param("id")
	doc, err := h.store.DeleteDocument(c.Request.Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
			return
		}
		logger.Errorf("delete document %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	if h.blobs != nil && doc.FileKey != "" {
		if err := h.blobs.RemoveFile(c.Request.Context(), doc.FileKey); err != nil {
			logger.Warnf("blob cleanup for %s (%s): %v", id, doc.FileKey, err)
		}
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) downloadDocument(c *gin.Context) {
	id := c.Param("id")
	doc, err := h.store.GetDocument(c.Request.Context(), id)
	if err != nil {
		if err == repository.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
			return
		}
		logger.Errorf("get document %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if h.blobs == nil || doc.FileKey == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "no stored file for document"})
		return
	}
	url, err := h.blobs.GetPresignedURL(c.Request.Context(), doc.FileKey, 15*time.Minute)
	if err != nil {
		logger.Errorf("presign %s: %v", doc.FileKey, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, url)
}
