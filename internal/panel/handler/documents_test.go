package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ragpanel/ragpanel/backend/go-services/internal/panel"
	"github.com/ragpanel/ragpanel/backend/go-services/internal/panel/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBlobStore records calls instead of talking to object storage.
type fakeBlobStore struct {
	uploaded map[string][]byte
	removed  []string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{uploaded: make(map[string][]byte)}
}

func (f *fakeBlobStore) UploadFile(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	b, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.uploaded[key] = b
	return nil
}

func (f *fakeBlobStore) RemoveFile(ctx context.Context, key string) error {
	f.removed = append(f.removed, key)
	return nil
}

func (f *fakeBlobStore) GetPresignedURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	return "https://blobs.example.com/" + key + "?signed=1", nil
}

func multipartUpload(t *testing.T, r *gin.Engine, path, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListDocuments(t *testing.T) {
	r := newTestRouter(repository.NewSeededMemoryStore())

	w := doJSON(t, r, http.MethodGet, "/mock/documents/project/p1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var docs []panel.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &docs))
	assert.Len(t, docs, 2)

	w = doJSON(t, r, http.MethodGet, "/mock/documents/project/empty", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestUploadDocumentStoresBlobAndRecord(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := repository.NewSeededMemoryStore()
	blobs := newFakeBlobStore()
	r := gin.New()
	New(store).WithBlobStore(blobs).Register(r)

	w := multipartUpload(t, r, "/mock/documents/project/p2", "notes.txt", []byte("hello"))
	require.Equal(t, http.StatusCreated, w.Code)

	var doc panel.Document
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "p2", doc.ProjectID)
	assert.Equal(t, "notes.txt", doc.Name)
	assert.Equal(t, int64(5), doc.Size)
	assert.Equal(t, "p2/notes.txt", doc.FileKey)
	assert.Equal(t, []byte("hello"), blobs.uploaded["p2/notes.txt"])
}

func TestUploadDocumentRequiresFile(t *testing.T) {
	r := newTestRouter(repository.NewSeededMemoryStore())

	w := doJSON(t, r, http.MethodPost, "/mock/documents/project/p1", gin.H{"name": "x"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "file is required")
}

func TestDeleteDocumentCleansBlob(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := repository.NewSeededMemoryStore()
	blobs := newFakeBlobStore()
	r := gin.New()
	New(store).WithBlobStore(blobs).Register(r)

	w := doJSON(t, r, http.MethodDelete, "/mock/documents/doc_seed_1", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"p1/faq.pdf"}, blobs.removed)

	w = doJSON(t, r, http.MethodDelete, "/mock/documents/doc_seed_1", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownloadDocumentRedirectsToPresignedURL(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := repository.NewSeededMemoryStore()
	r := gin.New()
	New(store).WithBlobStore(newFakeBlobStore()).Register(r)

	w := doJSON(t, r, http.MethodGet, "/mock/documents/doc_seed_1/download", nil)
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "https://blobs.example.com/p1/faq.pdf?signed=1", w.Header().Get("Location"))
}

func TestDownloadDocumentWithoutBlobStore(t *testing.T) {
	r := newTestRouter(repository.NewSeededMemoryStore())

	w := doJSON(t, r, http.MethodGet, "/mock/documents/doc_seed_1/download", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "no stored file")
}
