package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestParseBrowseDuration(t *testing.T) {
	logger := zap.NewNop()

	cases := []struct {
		name string
		raw  string
		want time.Duration
	}{
		{"blank draws random", "", 0},
		{"valid duration", "90s", 90 * time.Second},
		{"valid with unit mix", "1m30s", 90 * time.Second},
		{"below the floor draws random", "2s", 0},
		{"unparseable draws random", "ninety", 0},
		{"bare number draws random", "90", 0},
		{"negative draws random", "-10s", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, parseBrowseDuration(tc.raw, logger))
		})
	}
}
