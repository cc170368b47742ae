package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cause := errors.New("unexpected EOF")

	tests := []struct {
		name    string
		err     error
		message string
		status  int
	}{
		{"invalid body", &ErrInvalidBody{Cause: cause}, "invalid request body: unexpected EOF", http.StatusBadRequest},
		{"validation", &ErrValidation{Field: "content", Message: "required"}, "validation error: content - required", http.StatusBadRequest},
		{"too large", &ErrBodyTooLarge{Limit: 10}, "request body exceeds 10 bytes", http.StatusRequestEntityTooLarge},
		{"not found", &ErrNotFound{Resource: "report"}, "report not found", http.StatusNotFound},
		{"unavailable", &ErrUnavailable{Feature: "reports"}, "reports is not available on this server", http.StatusServiceUnavailable},
		{"other", fmt.Errorf("boom"), "boom", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Error())
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}

func TestErrInvalidBody_Unwrap(t *testing.T) {
	cause := errors.New("bad json")
	assert.ErrorIs(t, &ErrInvalidBody{Cause: cause}, cause)
}
