package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/fitbook-backend/internal/model"
	"github.com/stemsi/fitbook-backend/internal/response"
	"github.com/stemsi/fitbook-backend/internal/validator"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Setup()
}

type mockClassLister struct {
	mock.Mock
}

func (m *mockClassLister) ListAvailable(ctx context.Context, tzName string) ([]model.ClassSession, *time.Location, error) {
	args := m.Called(ctx, tzName)
	classes, _ := args.Get(0).([]model.ClassSession)
	loc, _ := args.Get(1).(*time.Location)
	return classes, loc, args.Error(2)
}

type mockBooker struct {
	mock.Mock
}

func (m *mockBooker) Book(ctx context.Context, req model.BookingRequest) (model.BookingResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(model.BookingResult), args.Error(1)
}

func (m *mockBooker) ListByEmail(ctx context.Context, email string) ([]model.Booking, error) {
	args := m.Called(ctx, email)
	bookings, _ := args.Get(0).([]model.Booking)
	return bookings, args.Error(1)
}

// envelope mirrors response.Response with raw data for per-test decoding.
type envelope struct {
	Data     json.RawMessage     `json:"data"`
	Error    *response.ErrorBody `json:"error"`
	Metadata response.Metadata   `json:"metadata"`
}

func newTestRouter(classes ClassLister, bookings Booker) *gin.Engine {
	r := gin.New()
	r.Use(response.RequestIDMiddleware())
	if classes != nil {
		r.GET("/classes", NewClassHandler(classes, zerolog.Nop()).ListClasses)
	}
	if bookings != nil {
		h := NewBookingHandler(bookings, zerolog.Nop())
		r.POST("/book", h.CreateBooking)
		r.GET("/bookings", h.ListBookings)
	}
	return r
}

func do(t *testing.T, r http.Handler, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}
