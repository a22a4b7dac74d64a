package handler

import (
	"context"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ragpanel/ragpanel/backend/go-services/internal/panel"
	"github.com/ragpanel/ragpanel/backend/go-services/internal/panel/repository"
)

// BlobStore is the slice of object storage the document handlers need.
type BlobStore interface {
	UploadFile(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	RemoveFile(ctx context.Context, key string) error
	GetPresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// CatalogFunc resolves the model catalog for a search query. The default
// reads the store; real-mode deployments plug in a cached backend fetch.
type CatalogFunc func(ctx context.Context, search string) ([]panel.Model, error)

// Handler serves the /mock admin surface on top of a Store.
type Handler struct {
	store   repository.Store
	blobs   BlobStore
	catalog CatalogFunc
}

func New(store repository.Store) *Handler {
	h := &Handler{store: store}
	h.catalog = store.Models
	return h
}

// WithBlobStore enables best-effort blob cleanup and presigned downloads.
func (h *Handler) WithBlobStore(b BlobStore) *Handler {
	h.blobs = b
	return h
}

// WithCatalog overrides the model catalog source.
func (h *Handler) WithCatalog(fn CatalogFunc) *Handler {
	h.catalog = fn
	return h
}

// Register mounts the mock admin routes.
func (h *Handler) Register(r gin.IRouter) {
	mock := r.Group("/mock")

	mock.GET("/bots/info", h.listBots)
	mock.POST("/bots/:project/start", h.startBot)
	mock.POST("/bots/:project/stop", h.stopBot)
	mock.POST("/bots/:project/verify", h.verifyBot)

	mock.GET("/users/project/:project", h.listUsers)
	mock.POST("/users/project/:project", h.createUser)
	mock.PATCH("/users/:id", h.updateUser)
	mock.DELETE("/users/:id", h.deleteUser)
	mock.PATCH("/users/:id/status", h.setUserStatus)

	mock.GET("/documents/project/:project", h.listDocuments)
	mock.POST("/documents/project/:project", h.uploadDocument)
	mock.DELETE("/documents/:id", h.deleteDocument)
	mock.GET("/documents/:id/download", h.downloadDocument)

	mock.GET("/models/available", h.listModels)
	mock.PATCH("/models/project/:project", h.assignModel)
}
