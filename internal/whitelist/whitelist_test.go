package whitelist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestChecker_IsTrusted(t *testing.T) {
	checker := NewChecker([]string{" Example.com ", "bank.test", ""}, zap.NewNop())

	tests := []struct {
		from     string
		expected bool
	}{
		{"alice@example.com", true},
		{"ALICE@EXAMPLE.COM", true},
		{"Alice <alice@example.com>", true},
		{"bob@bank.test", true},
		{"bob@sub.bank.test", false},
		{"mallory@examp1e.com", false},
		{"no-at-sign", false},
		{"trailing@", false},
	}

	for _, tt := range tests {
		t.Run(tt.from, func(t *testing.T) {
			assert.Equal(t, tt.expected, checker.IsTrusted(tt.from))
		})
	}
}

func TestChecker_Empty(t *testing.T) {
	assert.False(t, NewChecker(nil, zap.NewNop()).IsTrusted("a@example.com"))
}
