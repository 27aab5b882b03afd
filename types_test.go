package conduit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithAttrs(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		args     []any
		expected string
	}{
		{
			name:     "no attributes",
			msg:      "plain message",
			expected: "plain message",
		},
		{
			name:     "single pair",
			msg:      "auth resolution rejected token",
			args:     []any{"error", "token is malformed"},
			expected: "auth resolution rejected token error=token is malformed",
		},
		{
			name:     "multiple pairs",
			msg:      "shutting down",
			args:     []any{"addr", "127.0.0.1:8080", "timeout", 10},
			expected: "shutting down addr=127.0.0.1:8080 timeout=10",
		},
		{
			name:     "dangling key",
			msg:      "oops",
			args:     []any{"key"},
			expected: "oops key=(missing)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, withAttrs(tt.msg, tt.args))
		})
	}
}
