package ledger

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", ErrNotFound, http.StatusNotFound},
		{"forbidden", ErrForbidden, http.StatusForbidden},
		{"invalid input", ErrInvalidInput, http.StatusBadRequest},
		{"invalid state", ErrInvalidState, http.StatusUnprocessableEntity},
		{"conflict", ErrConflict, http.StatusConflict},
		{"wrapped not found", fmt.Errorf("group 7: %w", ErrNotFound), http.StatusNotFound},
		{"wrapped forbidden", fmt.Errorf("expense 3: %w", ErrForbidden), http.StatusForbidden},
		{"unknown error", errors.New("driver: bad connection"), http.StatusInternalServerError},
		{"nil error", nil, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusCode(tt.err); got != tt.want {
				t.Errorf("StatusCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
