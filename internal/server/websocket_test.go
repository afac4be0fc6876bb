package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoopbackOrigin(t *testing.T) {
	tests := []struct {
		origin  string
		allowed bool
	}{
		{"http://localhost", true},
		{"http://localhost:5173", true},
		{"https://localhost:7680", true},
		{"http://127.0.0.1:7680", true},
		{"http://[::1]:7680", true},
		// Hostname must match whole, not as a prefix
		{"http://localhost.evil.com", false},
		{"http://localhost.evil.com:80", false},
		{"https://example.com", false},
		{"file:///etc/passwd", false},
		{"not a url", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, loopbackOrigin(tt.origin), "origin %q", tt.origin)
	}
}
