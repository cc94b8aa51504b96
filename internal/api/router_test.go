package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mealflow/internal/infrastructure/config"
)

func routerConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Debug:   true,
			Version: "1.0.0",
			Env:     "test",
		},
		Server: config.ServerConfig{Port: 8080},
		Groq: config.GroqConfig{
			Model:   "llama3-70b-8192",
			Timeout: time.Minute,
			BaseURL: "https://api.groq.com/openai/v1",
		},
	}
}

func newTestRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router, err := SetupRouter(routerConfig(), nil)
	require.NoError(t, err)
	return router
}

func TestWelcomeRoute(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message": "Welcome to the MealFlow API!"}`, w.Body.String())
}

func TestHealthRoutes(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/health", "/ready", "/live"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, "path %s", path)
	}
}

func TestGenerateRoutesExist(t *testing.T) {
	router := newTestRouter(t)

	// no API key configured, so generation fails downstream of routing
	body := `{"family_members":[{"name":"Asha","dietary_preference":"veg"}],"mealType":"dinner","dayOfWeek":"Monday"}`
	for _, path := range []string{"/api/v1/meal/generate", "/generate_meal"} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.NotEqual(t, http.StatusNotFound, w.Code, "path %s", path)
		assert.Equal(t, http.StatusInternalServerError, w.Code, "path %s", path)
		assert.Contains(t, w.Body.String(), "CLIENT_UNAVAILABLE", "path %s", path)
	}
}

func TestUnknownRoute(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
