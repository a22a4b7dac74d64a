package rag

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backendRecorder is a stand-in backend that counts calls and captures the
// last request it saw.
type backendRecorder struct {
	server     *httptest.Server
	calls      atomic.Int64
	lastPath   string
	lastAuth   string
	lastBody   []byte
	respStatus int
	respBody   string
}

func newBackendRecorder(status int, body string) *backendRecorder {
	b := &backendRecorder{respStatus: status, respBody: body}
	b.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.calls.Add(1)
		b.lastPath = r.URL.Path
		b.lastAuth = r.Header.Get("Authorization")
		b.lastBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(b.respStatus)
		w.Write([]byte(b.respBody))
	}))
	return b
}

func newProxyRouter(baseURL string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(NewClient(baseURL)).Register(r)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}, auth string) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestDiagnosticsForwardsAndRelays(t *testing.T) {
	backend := newBackendRecorder(http.StatusOK, `{"answer":"because"}`)
	defer backend.server.Close()
	r := newProxyRouter(backend.server.URL)

	w := postJSON(t, r, "/rag/diagnostics", gin.H{
		"project_id": "p1",
		"user_id":    "u1",
		"question":   "why?",
	}, "Bearer secret-token")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"answer":"because"}`, w.Body.String())
	assert.Equal(t, int64(1), backend.calls.Load())
	assert.Equal(t, "/diagnostics", backend.lastPath)
	assert.Equal(t, "Bearer secret-token", backend.lastAuth)
	assert.JSONEq(t, `{"project_id":"p1","user_id":"u1","question":"why?"}`, string(backend.lastBody))
}

func TestDiagnosticsValidationNeverReachesBackend(t *testing.T) {
	backend := newBackendRecorder(http.StatusOK, `{}`)
	defer backend.server.Close()
	r := newProxyRouter(backend.server.URL)

	cases := []struct {
		body    gin.H
		wantErr string
	}{
		{gin.H{"user_id": "u1", "question": "q"}, "project_id is required"},
		{gin.H{"project_id": "p1", "question": "q"}, "user_id is required"},
		{gin.H{"project_id": "p1", "user_id": "u1"}, "question is required"},
		{gin.H{"project_id": "p1", "user_id": "u1", "question": "  "}, "question is required"},
	}
	for _, tc := range cases {
		w := postJSON(t, r, "/rag/diagnostics", tc.body, "")
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), tc.wantErr)
	}
	assert.Equal(t, int64(0), backend.calls.Load())
}

func TestCollectionsActions(t *testing.T) {
	backend := newBackendRecorder(http.StatusCreated, `{"collection":"p1"}`)
	defer backend.server.Close()
	r := newProxyRouter(backend.server.URL)

	w := postJSON(t, r, "/rag/collections/create", gin.H{"project_id": "p1"}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/collections/create", backend.lastPath)
	assert.JSONEq(t, `{"project":"p1"}`, string(backend.lastBody))

	w = postJSON(t, r, "/rag/collections/delete", gin.H{"project_id": "p1"}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/collections/delete", backend.lastPath)
}

func TestCollectionsRejectsUnknownAction(t *testing.T) {
	backend := newBackendRecorder(http.StatusOK, `{}`)
	defer backend.server.Close()
	r := newProxyRouter(backend.server.URL)

	w := postJSON(t, r, "/rag/collections/rename", gin.H{"project_id": "p1"}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "action must be create or delete")

	w = postJSON(t, r, "/rag/collections/create", gin.H{}, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "project_id is required")

	assert.Equal(t, int64(0), backend.calls.Load())
}

func TestReprocessDocumentsForwards(t *testing.T) {
	backend := newBackendRecorder(http.StatusAccepted, `{"queued":true}`)
	defer backend.server.Close()
	r := newProxyRouter(backend.server.URL)

	w := postJSON(t, r, "/rag/reprocess-documents", gin.H{"project_id": "p2"}, "")
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.JSONEq(t, `{"queued":true}`, w.Body.String())
	assert.Equal(t, "/reprocess-documents", backend.lastPath)
	assert.JSONEq(t, `{"project":"p2"}`, string(backend.lastBody))
}

func TestBackendErrorStatusIsRelayedVerbatim(t *testing.T) {
	backend := newBackendRecorder(http.StatusBadGateway, `{"detail":"vector store down"}`)
	defer backend.server.Close()
	r := newProxyRouter(backend.server.URL)

	w := postJSON(t, r, "/rag/diagnostics", gin.H{
		"project_id": "p1", "user_id": "u1", "question": "q",
	}, "")
	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.JSONEq(t, `{"detail":"vector store down"}`, w.Body.String())
	// a relayed error is still a single attempt
	assert.Equal(t, int64(1), backend.calls.Load())
}

func TestTransportErrorBecomes500(t *testing.T) {
	backend := newBackendRecorder(http.StatusOK, `{}`)
	backend.server.Close() // nothing listening anymore
	r := newProxyRouter(backend.server.URL)

	w := postJSON(t, r, "/rag/diagnostics", gin.H{
		"project_id": "p1", "user_id": "u1", "question": "q",
	}, "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}
