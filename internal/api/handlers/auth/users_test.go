package auth

import (
	"errors"
	"testing"
)

func TestDuplicateSignupMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			"username key collision",
			errors.New("Error 1062 (23000): Duplicate entry 'alice' for key 'users.username'"),
			"username already exists",
		},
		{
			"email key collision",
			errors.New("Error 1062 (23000): Duplicate entry 'alice@example.com' for key 'users.email'"),
			"email already in use",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := duplicateSignupMessage(tt.err); got != tt.want {
				t.Errorf("duplicateSignupMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
