package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/fitbook-backend/internal/response"
)

// Recovery turns a handler panic into a 500 envelope and logs the stack.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Interface("panic", err).
					Str("request_id", c.GetString(response.ContextKeyRequestID)).
					Str("stack", string(debug.Stack())).
					Msg("Panic recovered")
				response.AbortFail(c, http.StatusInternalServerError, response.ErrInternal)
			}
		}()

		c.Next()
	}
}
