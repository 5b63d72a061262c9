package server_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/mailform/internal/server"
	"github.com/dmitrymomot/mailform/pkg/logger"
)

func TestAsHTTPError(t *testing.T) {
	t.Parallel()

	cause := errors.New("multipart: NextPart: EOF")
	he := server.ErrInternal("Failed to send email", server.WithError(cause))
	wrapped := fmt.Errorf("dispatch: %w", he)

	got, ok := server.AsHTTPError(wrapped)
	require.True(t, ok)
	assert.Same(t, he, got)
	assert.Equal(t, http.StatusInternalServerError, got.StatusCode())
	assert.Equal(t, "Failed to send email", got.Error())
	assert.ErrorIs(t, wrapped, cause)

	assert.True(t, server.IsHTTPError(wrapped))
	assert.False(t, server.IsHTTPError(cause))
	_, ok = server.AsHTTPError(nil)
	assert.False(t, ok)
}

func TestErrorConstructors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  *server.HTTPError
		code int
	}{
		{server.ErrBadRequest("bad"), http.StatusBadRequest},
		{server.ErrNotFound("missing"), http.StatusNotFound},
		{server.ErrMethodNotAllowed("nope"), http.StatusMethodNotAllowed},
		{server.ErrInternal("broken"), http.StatusInternalServerError},
		{server.NewHTTPError(http.StatusTeapot, "tea"), http.StatusTeapot},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.code, tt.err.Code, tt.err.Message)
		assert.Nil(t, tt.err.Unwrap())
	}
}

func TestJSONErrorHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name:     "http error keeps code and message",
			err:      server.ErrBadRequest("at least one recipient is required"),
			wantCode: http.StatusBadRequest,
			wantBody: `{"error":"at least one recipient is required"}`,
		},
		{
			name:     "internal error hides cause",
			err:      server.ErrInternal("Failed to send email", server.WithError(errors.New("secret detail"))),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"Failed to send email"}`,
		},
		{
			name:     "plain error uses fallback",
			err:      errors.New("connection reset"),
			wantCode: http.StatusInternalServerError,
			wantBody: `{"error":"Failed to send email"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			c := server.NewContext(rec, httptest.NewRequest(http.MethodPost, "/api/send", nil), logger.NewNope())

			require.NoError(t, server.JSONErrorHandler("Failed to send email")(c, tt.err))
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
		})
	}
}
