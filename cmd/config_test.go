package cmd

import (
	"log/slog"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  slog.Level
	}{
		{"empty falls back", "", slog.LevelWarn},
		{"debug", "debug", slog.LevelDebug},
		{"info", "info", slog.LevelInfo},
		{"warn", "warn", slog.LevelWarn},
		{"warning", "warning", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"mixed case", "DeBuG", slog.LevelDebug},
		{"numeric", "-4", slog.LevelDebug},
		{"garbage falls back", "chatty", slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSlogLevel(tt.value, slog.LevelWarn))
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	assert.Equal(t, defaultReportsDir, viper.GetString(outputFlagName))
	assert.Equal(t, defaultMaxValueBits, viper.GetInt(maxValueBitsConfigKey))
	assert.Equal(t, defaultParallel, viper.GetInt(parallelConfigKey))
	assert.Equal(t, currentConfigVersion, viper.GetInt(configVersionKey))
	assert.Equal(t, defaultLogFilename, viper.GetString(logFilenameKey))
}

func TestConfigureLogger_SetsDefaultLogger(t *testing.T) {
	logPath := t.TempDir() + "/sema-test.log"

	configureLogger(logPath, true)

	assert.NotNil(t, globalLogger)
	assert.Same(t, globalLogger, slog.Default())
	assert.True(t, slog.Default().Enabled(t.Context(), slog.LevelDebug))

	configureLogger(logPath, false)
	assert.False(t, slog.Default().Enabled(t.Context(), slog.LevelDebug))
}
