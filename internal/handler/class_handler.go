package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/fitbook-backend/internal/model"
	"github.com/stemsi/fitbook-backend/internal/response"
)

// ClassLister is the read side of the class catalog.
type ClassLister interface {
	ListAvailable(ctx context.Context, tzName string) ([]model.ClassSession, *time.Location, error)
}

// ClassHandler serves the public class listing.
type ClassHandler struct {
	classService ClassLister
	log          zerolog.Logger
}

// NewClassHandler creates a new ClassHandler.
func NewClassHandler(classService ClassLister, log zerolog.Logger) *ClassHandler {
	return &ClassHandler{
		classService: classService,
		log:          log.With().Str("component", "class_handler").Logger(),
	}
}

// ClassView is a class as shown to clients, with its start time rendered
// in the requested zone.
type ClassView struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	DateTime       string `json:"date_time"`
	Instructor     string `json:"instructor"`
	AvailableSlots int    `json:"available_slots"`
}

// ListClasses godoc
// GET /classes?tz=Europe/London
// Lists upcoming classes that still have free slots. Unknown zones fall back to UTC.
func (h *ClassHandler) ListClasses(c *gin.Context) {
	classes, loc, err := h.classService.ListAvailable(c.Request.Context(), c.Query("tz"))
	if err != nil {
		internalError(c, h.log, err, "List classes failed")
		return
	}

	views := make([]ClassView, 0, len(classes))
	for _, cl := range classes {
		views = append(views, ClassView{
			ID:             cl.ID,
			Name:           cl.Name,
			DateTime:       cl.StartsAt.Format(time.RFC3339),
			Instructor:     cl.Instructor,
			AvailableSlots: cl.AvailableSlots,
		})
	}

	c.Header("X-Timezone", loc.String())
	response.Success(c, http.StatusOK, views)
}

// internalError logs err against the request id and sends a generic 500.
func internalError(c *gin.Context, log zerolog.Logger, err error, msg string) {
	log.Error().
		Err(err).
		Str("request_id", c.GetString(response.ContextKeyRequestID)).
		Msg(msg)
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}
