package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetupLogger(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		env      string
		enabled  slog.Level
		disabled slog.Level
	}{
		{env: envLocal, enabled: slog.LevelDebug, disabled: slog.LevelDebug - 1},
		{env: envDev, enabled: slog.LevelInfo, disabled: slog.LevelDebug},
		{env: envProd, enabled: slog.LevelWarn, disabled: slog.LevelInfo},
		{env: "unknown", enabled: slog.LevelError, disabled: slog.LevelWarn},
	}

	for _, tc := range testCases {
		t.Run(tc.env, func(t *testing.T) {
			logger := setupLogger(tc.env)

			assert.True(t, logger.Enabled(ctx, tc.enabled))
			assert.False(t, logger.Enabled(ctx, tc.disabled))
		})
	}
}
