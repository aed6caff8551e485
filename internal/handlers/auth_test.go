package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     string
	}{
		{"valid", "Sunshine#9", ""},
		{"too short", "Ab1!", "Password must be at least 8 characters long"},
		{"no uppercase", "sunshine#9", "Password must contain at least one uppercase letter"},
		{"no lowercase", "SUNSHINE#9", "Password must contain at least one lowercase letter"},
		{"no digit", "Sunshine#!", "Password must contain at least one number"},
		{"no special", "Sunshine99", "Password must contain at least one special character (!@#$%^&*)"},
		{"special outside allowed set", "Sunshine9?", "Password must contain at least one special character (!@#$%^&*)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validatePassword(tt.password))
		})
	}
}
