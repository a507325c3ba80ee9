package feedback_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"feedback-service/internal/feedback"
	"feedback-service/internal/metrics"
	"feedback-service/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSessionStore maps fixed tokens to usernames for tests.
type fakeSessionStore struct {
	sessions map[string]string
}

func (f *fakeSessionStore) Create(ctx context.Context, username string) (string, error) {
	token := username + "-token"
	f.sessions[token] = username
	return token, nil
}

func (f *fakeSessionStore) Get(ctx context.Context, token string) (string, error) {
	return f.sessions[token], nil
}

func (f *fakeSessionStore) Delete(ctx context.Context, token string) error {
	delete(f.sessions, token)
	return nil
}

func newRouter(t *testing.T, repo *mockRepo) chi.Router {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	handler := feedback.NewHandler(feedback.NewService(repo), logger, metrics.NewMock(), nil)

	store := &fakeSessionStore{sessions: map[string]string{
		"alice-token": "alice",
		"bob-token":   "bob",
	}}

	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		r.Use(session.Middleware(store, logger))
		handler.RegisterRoutes(r)
	})
	return router
}

func doJSON(t *testing.T, router chi.Router, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandler_Create(t *testing.T) {
	t.Run("owner creates feedback", func(t *testing.T) {
		repo := newMockRepo()
		router := newRouter(t, repo)

		w := doJSON(t, router, http.MethodPost, "/api/users/alice/feedback", "alice-token",
			map[string]string{"title": "Hi", "content": "Hello"})

		require.Equal(t, http.StatusCreated, w.Code)

		var f feedback.Feedback
		require.NoError(t, json.NewDecoder(w.Body).Decode(&f))
		assert.Equal(t, "alice", f.Username)
		assert.Equal(t, "Hi", f.Title)
		assert.NotZero(t, f.ID)
	})

	t.Run("creating under someone else's profile is denied", func(t *testing.T) {
		repo := newMockRepo()
		router := newRouter(t, repo)

		w := doJSON(t, router, http.MethodPost, "/api/users/alice/feedback", "bob-token",
			map[string]string{"title": "Hi", "content": "Hello"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Empty(t, repo.rows)
	})

	t.Run("validation failure", func(t *testing.T) {
		repo := newMockRepo()
		router := newRouter(t, repo)

		w := doJSON(t, router, http.MethodPost, "/api/users/alice/feedback", "alice-token",
			map[string]string{"title": "", "content": ""})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("no session", func(t *testing.T) {
		repo := newMockRepo()
		router := newRouter(t, repo)

		w := doJSON(t, router, http.MethodPost, "/api/users/alice/feedback", "",
			map[string]string{"title": "Hi", "content": "Hello"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestHandler_GetUpdateDelete(t *testing.T) {
	repo := newMockRepo()
	router := newRouter(t, repo)

	w := doJSON(t, router, http.MethodPost, "/api/users/alice/feedback", "alice-token",
		map[string]string{"title": "Hi", "content": "Hello"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created feedback.Feedback
	require.NoError(t, json.NewDecoder(w.Body).Decode(&created))
	path := fmt.Sprintf("/api/feedback/%d", created.ID)

	t.Run("owner reads", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, path, "alice-token", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("other user cannot read", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, path, "bob-token", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("other user cannot update and the row is unchanged", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPut, path, "bob-token",
			map[string]string{"title": "Hacked", "content": "Pwned"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		f, err := repo.Get(context.Background(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Hi", f.Title)
	})

	t.Run("other user cannot delete", func(t *testing.T) {
		w := doJSON(t, router, http.MethodDelete, path, "bob-token", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, repo.rows, created.ID)
	})

	t.Run("owner updates in place", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPut, path, "alice-token",
			map[string]string{"title": "New", "content": "Body"})
		require.Equal(t, http.StatusOK, w.Code)

		var f feedback.Feedback
		require.NoError(t, json.NewDecoder(w.Body).Decode(&f))
		assert.Equal(t, created.ID, f.ID)
		assert.Equal(t, "New", f.Title)
	})

	t.Run("owner deletes", func(t *testing.T) {
		w := doJSON(t, router, http.MethodDelete, path, "alice-token", nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, repo.rows)
	})

	t.Run("deleting again still responds 204", func(t *testing.T) {
		w := doJSON(t, router, http.MethodDelete, path, "alice-token", nil)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("reading the deleted id responds 404", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, path, "alice-token", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("updating the deleted id responds 404", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPut, path, "alice-token",
			map[string]string{"title": "New", "content": "Body"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/api/feedback/not-a-number", "alice-token", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
