package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		level       string
		enabled     zapcore.Level
		disabled    zapcore.Level
	}{
		{"development default", "development", "", zapcore.DebugLevel, zapcore.DebugLevel - 1},
		{"production default", "production", "", zapcore.InfoLevel, zapcore.DebugLevel},
		{"explicit level", "production", "warn", zapcore.WarnLevel, zapcore.InfoLevel},
		{"bad level ignored", "production", "loud", zapcore.InfoLevel, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLogger(tt.environment, tt.level)
			require.NoError(t, err)

			assert.True(t, l.Core().Enabled(tt.enabled))
			assert.False(t, l.Core().Enabled(tt.disabled))
		})
	}
}
