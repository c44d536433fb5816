package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/fitbook-backend/internal/config"
	"github.com/stemsi/fitbook-backend/internal/handler"
	"github.com/stemsi/fitbook-backend/internal/middleware"
	"github.com/stemsi/fitbook-backend/internal/validator"
	"github.com/stretchr/testify/assert"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	validator.Setup()
	cfg := &config.Config{GinMode: gin.TestMode}
	log := zerolog.Nop()

	// Services are never reached by the requests below.
	handlers := &Handlers{
		Class:   handler.NewClassHandler(nil, log),
		Booking: handler.NewBookingHandler(nil, log),
		WS:      handler.NewWSHandler(nil, nil, log, nil),
	}
	return SetupRouter(handlers, middleware.NewRateLimiter(60, 1, log), cfg, log)
}

func TestRouter_Health(t *testing.T) {
	r := testRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_UnknownRoute(t *testing.T) {
	r := testRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ROUTE_NOT_FOUND")
}

func TestRouter_BookIsRateLimitedAndUncached(t *testing.T) {
	r := testRouter(t)

	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/book", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	first := post()
	assert.Equal(t, http.StatusUnprocessableEntity, first.Code)
	assert.Equal(t, "no-store", first.Header().Get("Cache-Control"))

	assert.Equal(t, http.StatusTooManyRequests, post().Code)
}
