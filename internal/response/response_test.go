package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(t *testing.T, h gin.HandlerFunc, header http.Header) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", h)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestSuccess_Envelope(t *testing.T) {
	w, body := serve(t, func(c *gin.Context) {
		Success(c, http.StatusOK, gin.H{"status": "ok"})
	}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, body.Error)
	assert.Equal(t, map[string]interface{}{"status": "ok"}, body.Data)
	assert.NotEmpty(t, body.Metadata.RequestID)
	assert.Equal(t, body.Metadata.RequestID, w.Header().Get("X-Request-ID"))
}

func TestFailWithFields(t *testing.T) {
	w, body := serve(t, func(c *gin.Context) {
		FailWithFields(c, http.StatusUnprocessableEntity, ErrValidation, map[string]string{"email": "required"})
	}, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, ErrValidation, body.Error.Code)
	assert.Equal(t, GetMessage(ErrValidation), body.Error.Message)
	assert.Equal(t, "required", body.Error.Fields["email"])
	assert.Nil(t, body.Data)
}

func TestRequestID_Propagated(t *testing.T) {
	w, body := serve(t, func(c *gin.Context) {
		Fail(c, http.StatusConflict, ErrAlreadyBooked)
	}, http.Header{"X-Request-Id": []string{"req-123"}})

	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "req-123", body.Metadata.RequestID)
	assert.Equal(t, ErrAlreadyBooked, body.Error.Code)
}

func TestGetMessage_UnknownCode(t *testing.T) {
	assert.Equal(t, "An unexpected error occurred.", GetMessage(ErrCode("NOPE")))
}

func TestRequestID_RejectsMalformedClientID(t *testing.T) {
	for _, id := range []string{"has space", "new\tline", strings.Repeat("a", maxRequestIDLen+1), `"quoted"`} {
		t.Run(id, func(t *testing.T) {
			w, body := serve(t, func(c *gin.Context) {
				Success(c, http.StatusOK, nil)
			}, http.Header{"X-Request-Id": []string{id}})

			got := w.Header().Get("X-Request-ID")
			assert.NotEqual(t, id, got)
			_, err := uuid.Parse(got)
			assert.NoError(t, err)
			assert.Equal(t, got, body.Metadata.RequestID)
		})
	}
}
