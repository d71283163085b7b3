package apperrors

import (
	"net/http"
	"testing"
)

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    *Error
		status int
		code   string
	}{
		{"validation", Validation("text too short"), http.StatusBadRequest, "validation_error"},
		{"capacity", Capacity("task limit reached"), http.StatusBadRequest, "capacity_exceeded"},
		{"boundary", Boundary("already at the top"), http.StatusBadRequest, "boundary"},
		{"not found", NotFound("todo not found"), http.StatusNotFound, "not_found"},
		{"unauthorized default", Unauthorized(""), http.StatusUnauthorized, "unauthorized"},
		{"conflict", Conflict("order_conflict", "concurrent move", nil), http.StatusConflict, "order_conflict"},
		{"internal default", Internal(""), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Status != tc.status {
				t.Fatalf("status = %d, want %d", tc.err.Status, tc.status)
			}
			if tc.err.Code != tc.code {
				t.Fatalf("code = %q, want %q", tc.err.Code, tc.code)
			}
			if tc.err.Error() == "" {
				t.Fatal("empty message")
			}
		})
	}
}
