package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/fitbook-backend/internal/config"
	"github.com/stemsi/fitbook-backend/internal/handler"
	"github.com/stemsi/fitbook-backend/internal/middleware"
	"github.com/stemsi/fitbook-backend/internal/response"
)

// classListMaxAge bounds how long clients may reuse a class listing.
const classListMaxAge = 5

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Class   *handler.ClassHandler
	Booking *handler.BookingHandler
	WS      *handler.WSHandler
}

// SetupRouter configures all Gin routes with appropriate middlewares.
func SetupRouter(
	handlers *Handlers,
	limiter *middleware.RateLimiter,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "X-Timezone"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Request ID first so logs, panics and envelopes all carry it.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Brotli())

	router.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	})

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── Classes ───────────────────────────────────────────────────────
	router.GET("/classes", middleware.CacheControl(classListMaxAge), handlers.Class.ListClasses)

	// ─── Bookings ──────────────────────────────────────────────────────
	bookings := router.Group("")
	bookings.Use(middleware.NoStore())
	{
		bookings.POST("/book", limiter.Middleware(), handlers.Booking.CreateBooking)
		bookings.GET("/bookings", handlers.Booking.ListBookings)
	}

	// ─── Realtime ──────────────────────────────────────────────────────
	router.GET("/ws/classes/availability", handlers.WS.AvailabilityStream)

	return router
}
