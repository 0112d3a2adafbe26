package app

import (
	"ai_tutor_backend/internal/config"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		Server:   config.ServerConfig{Port: "0", Mode: gin.TestMode},
		Database: config.DatabaseConfig{Driver: "sqlite", DSN: filepath.Join(dir, "app.db")},
		JWT:      config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
		Log:      config.LogConfig{File: filepath.Join(dir, "app.log")},
		Storage:  config.StorageConfig{Type: "local", LocalPath: filepath.Join(dir, "uploads")},
		CORS:     config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
		Generation: config.GenerationConfig{
			IncludeHomework: true,
		},
	}
	a, err := NewApp(cfg, "")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = a.Stop(context.Background())
		if sqlDB, err := a.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return a
}

func doJSON(t *testing.T, a *App, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)

	var out map[string]interface{}
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &out)
	}
	return w, out
}

func signup(t *testing.T, a *App, email string) string {
	t.Helper()
	w, body := doJSON(t, a, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name": "Tester", "email": email, "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return body["token"].(string)
}

func TestAuthFlow(t *testing.T) {
	a := newTestApp(t)

	w, body := doJSON(t, a, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name": "Ada", "email": "ada@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "User created successfully", body["message"])
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "ada@example.com", user["email"])
	assert.NotContains(t, user, "password")

	w, body = doJSON(t, a, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name": "Ada", "email": "ADA@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "already exists")

	w, _ = doJSON(t, a, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name": "Short", "email": "short@example.com", "password": "123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = doJSON(t, a, http.MethodPost, "/api/auth/signin", "", gin.H{
		"email": "ada@example.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid email or password", body["error"])

	w, body = doJSON(t, a, http.MethodPost, "/api/auth/signin", "", gin.H{
		"email": "ada@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Login successful", body["message"])
	assert.NotEmpty(t, body["token"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	a := newTestApp(t)

	w, body := doJSON(t, a, http.MethodGet, "/api/user/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Authentication required", body["error"])

	w, body = doJSON(t, a, http.MethodGet, "/api/course/list", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid token", body["error"])
}

func TestHealthReportsComponents(t *testing.T) {
	a := newTestApp(t)

	w, body := doJSON(t, a, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	components := body["components"].(map[string]interface{})
	assert.Equal(t, "up", components["database"])
	assert.Equal(t, "not configured", components["ai"])
	assert.Equal(t, "not configured", components["videoSearch"])
}

func TestAuthenticatedRoutesWithoutAI(t *testing.T) {
	a := newTestApp(t)
	token := signup(t, a, "learner@example.com")

	w, body := doJSON(t, a, http.MethodPost, "/api/course/generate", token, gin.H{
		"topic": "Go", "difficulty": "beginner", "duration": 2,
	})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "AI service not configured", body["error"])

	w, _ = doJSON(t, a, http.MethodPost, "/api/course/generate", token, gin.H{"topic": "Go"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = doJSON(t, a, http.MethodGet, "/api/course/list", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), body["totalCourses"])

	w, body = doJSON(t, a, http.MethodGet, "/api/course/42", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Course not found", body["error"])

	w, body = doJSON(t, a, http.MethodGet, "/api/homework/42", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Chapter not found", body["error"])

	w, body = doJSON(t, a, http.MethodGet, "/api/user/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := body["stats"].(map[string]interface{})
	assert.Equal(t, float64(0), stats["totalCourses"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "learner", user["username"])
}

func TestCORSAllowListReload(t *testing.T) {
	a := newTestApp(t)

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/health", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodGet)
		w := httptest.NewRecorder()
		a.Router.ServeHTTP(w, req)
		return w
	}

	w := preflight("http://localhost:5173")
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	w = preflight("https://tutor.example.com")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	for _, cb := range a.configCallbacks {
		cb(&config.Config{CORS: config.CORSConfig{AllowedOrigins: []string{"https://tutor.example.com/"}}})
	}

	w = preflight("https://tutor.example.com")
	assert.Equal(t, "https://tutor.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}
