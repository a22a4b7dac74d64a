package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ragpanel/ragpanel/backend/go-services/internal/panel"
	"github.com/ragpanel/ragpanel/backend/go-services/internal/panel/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(store repository.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	New(store).Register(r)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Buffer
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewBuffer(b)
	} else {
		rd = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateUserThenList(t *testing.T) {
	r := newTestRouter(repository.NewSeededMemoryStore())

	w := doJSON(t, r, http.MethodPost, "/mock/users/project/p1", gin.H{"phone": "+1000"})
	require.Equal(t, http.StatusCreated, w.Code)

	var created panel.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "p1", created.ProjectID)
	assert.Equal(t, "+1000", created.Phone)
	assert.Equal(t, panel.UserStatusActive, created.Status)

	w = doJSON(t, r, http.MethodGet, "/mock/users/project/p1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var users []panel.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 4)
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	assert.Contains(t, ids, created.ID)
}

func TestCreateUserRequiresPhone(t *testing.T) {
	r := newTestRouter(repository.NewSeededMemoryStore())

	w := doJSON(t, r, http.MethodPost, "/mock/users/project/p1", gin.H{"username": "nophone"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "phone is required")
}

func TestListUsersUnknownProjectIsEmptyArray(t *testing.T) {
	r := newTestRouter(repository.NewSeededMemoryStore())

	w := doJSON(t, r, http.MethodGet, "/mock/users/project/no-such-project", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestUpdateUserPartialPatch(t *testing.T) {
	store := repository.NewSeededMemoryStore()
	r := newTestRouter(store)

	w := doJSON(t, r, http.MethodPatch, "/mock/users/usr_seed_1", gin.H{"username": "renamed"})
	require.Equal(t, http.StatusOK, w.Code)

	var u panel.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
	assert.Equal(t, "renamed", u.Username)
	assert.Equal(t, "+79990000001", u.Phone) // untouched

	w = doJSON(t, r, http.MethodPatch, "/mock/users/missing", gin.H{"username": "x"})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetUserStatusTransitions(t *testing.T) {
	r := newTestRouter(repository.NewSeededMemoryStore())

	w := doJSON(t, r, http.MethodPatch, "/mock/users/usr_seed_1/status", gin.H{"status": "blocked"})
	require.Equal(t, http.StatusOK, w.Code)
	var u panel.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
	assert.Equal(t, panel.UserStatusBlocked, u.Status)

	// only active and blocked are accepted
	w = doJSON(t, r, http.MethodPatch, "/mock/users/usr_seed_1/status", gin.H{"status": "archived"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "status must be active or blocked")

	w = doJSON(t, r, http.MethodPatch, "/mock/users/missing/status", gin.H{"status": "active"})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteUser(t *testing.T) {
	r := newTestRouter(repository.NewSeededMemoryStore())

	w := doJSON(t, r, http.MethodDelete, "/mock/users/usr_seed_2", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodGet, "/mock/users/project/p1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var users []panel.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	for _, u := range users {
		assert.NotEqual(t, "usr_seed_2", u.ID)
	}

	w = doJSON(t, r, http.MethodDelete, "/mock/users/usr_seed_2", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
