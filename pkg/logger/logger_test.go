package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInit(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		debug   bool
		want    zapcore.Level
		wantErr bool
	}{
		{"nivel por defecto", "", false, zapcore.InfoLevel, false},
		{"debug en desarrollo", "debug", true, zapcore.DebugLevel, false},
		{"warn en producción", "warn", false, zapcore.WarnLevel, false},
		{"nivel desconocido", "verbose", false, zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Init(tt.level, tt.debug)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, Logger().Core().Enabled(tt.want))
			assert.False(t, Logger().Core().Enabled(tt.want-1))
		})
	}
}
