package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceError(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Internal("failed to save task", cause)

	assert.Equal(t, "[INTERNAL] failed to save task: disk full", err.Error())
	assert.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("handler: %w", NotFound("task %s not found", "t1"))
	assert.Equal(t, ErrCodeNotFound, GetCodeFromError(wrapped, ErrCodeInternal))
	assert.Equal(t, ErrCodeInternal, GetCodeFromError(cause, ErrCodeInternal))

	err = InvalidArgument("title is required").WithContext("field", "title")
	assert.Equal(t, "[INVALID_ARGUMENT] title is required", err.Error())
	assert.Equal(t, "title", err.Context["field"])
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want int
	}{
		{ErrCodeInvalidArgument, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeFailedPrecondition, http.StatusConflict},
		{ErrCodeRateLimitExceeded, http.StatusTooManyRequests},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrorCode("UNKNOWN"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.HTTPStatus())
		})
	}
}
