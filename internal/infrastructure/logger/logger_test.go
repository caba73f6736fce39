package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestPresets(t *testing.T) {
	t.Run("default is console on stdout", func(t *testing.T) {
		cfg := DefaultConfig()
		assert.Equal(t, "info", cfg.Level)
		assert.Equal(t, "console", cfg.Format)
		assert.Equal(t, "stdout", cfg.Output)
	})

	t.Run("production is json on stdout", func(t *testing.T) {
		cfg := ProductionConfig()
		assert.Equal(t, "info", cfg.Level)
		assert.Equal(t, "json", cfg.Format)
		assert.Equal(t, "stdout", cfg.Output)
	})
}

func TestNew(t *testing.T) {
	t.Run("builds from presets", func(t *testing.T) {
		for _, cfg := range []*Config{DefaultConfig(), ProductionConfig()} {
			log, err := New(cfg)
			require.NoError(t, err)
			assert.NotNil(t, log)
		}
	})

	t.Run("appends to a file destination", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "migrate.log")

		log, err := New(&Config{Level: "debug", Format: "json", Output: path})
		require.NoError(t, err)

		log.Info("applied migrations", zap.Uint("version", 3))
		require.NoError(t, Sync(log))

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "applied migrations")
	})

	t.Run("unopenable destination fails the build", func(t *testing.T) {
		_, err := New(&Config{Level: "info", Format: "json", Output: t.TempDir()})
		assert.Error(t, err)
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"unknown", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.level))
		})
	}
}

func TestBuildEncoder(t *testing.T) {
	t.Run("json lines carry the structured fields", func(t *testing.T) {
		var buf bytes.Buffer
		core := zapcore.NewCore(
			buildEncoder(&Config{Format: "json"}),
			zapcore.AddSync(&buf),
			zapcore.InfoLevel,
		)
		log := zap.New(core)

		log.Info("executed operation", zap.String("type", "arrival"))

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "executed operation", line["msg"])
		assert.Equal(t, "info", line["level"])
		assert.Equal(t, "arrival", line["type"])
	})

	t.Run("console format is line oriented", func(t *testing.T) {
		var buf bytes.Buffer
		core := zapcore.NewCore(
			buildEncoder(&Config{Format: "console"}),
			zapcore.AddSync(&buf),
			zapcore.InfoLevel,
		)
		log := zap.New(core)

		log.Info("cancelled operation tree")
		assert.Contains(t, buf.String(), "cancelled operation tree")
	})
}

func TestLevelGating(t *testing.T) {
	var buf bytes.Buffer
	core := zapcore.NewCore(
		buildEncoder(&Config{Format: "json"}),
		zapcore.AddSync(&buf),
		parseLevel("info"),
	)
	log := zap.New(core)

	log.Debug("sql trace")
	assert.False(t, strings.Contains(buf.String(), "sql trace"))

	log.Info("planned revert")
	assert.True(t, strings.Contains(buf.String(), "planned revert"))
}
