package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(level LogLevel) (*ForgeLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{
		Level:  level,
		Format: "json",
		Output: &buf,
	})
	return logger, &buf
}

func TestLoggerEmitsStructuredFields(t *testing.T) {
	logger, buf := newTestLogger(LevelInfo)

	logger.Info(context.Background(), "assets generated", "count", 3)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "assets generated", record["msg"])
	assert.Equal(t, float64(3), record["count"])
}

func TestLoggerLevelFiltering(t *testing.T) {
	logger, buf := newTestLogger(LevelWarn)

	logger.Debug(context.Background(), "noise")
	logger.Info(context.Background(), "more noise")
	assert.Zero(t, buf.Len())

	logger.Warn(context.Background(), errors.New("slow install"), "dependency install took a while")
	assert.Contains(t, buf.String(), "slow install")
}

func TestWithComponentAndFields(t *testing.T) {
	logger, buf := newTestLogger(LevelInfo)

	derived := logger.WithComponent("toolchain").With("tool", "npx")
	derived.Info(context.Background(), "resolved")

	out := buf.String()
	assert.Contains(t, out, `"component":"toolchain"`)
	assert.Contains(t, out, `"tool":"npx"`)
}

func TestErrorIncludesErrorField(t *testing.T) {
	logger, buf := newTestLogger(LevelInfo)

	logger.Error(context.Background(), errors.New("exit status 2"), "bundler failed")

	assert.Contains(t, buf.String(), "exit status 2")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  LogLevel
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"Warning", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
		{"fatal", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestStageLoggerRecordsDuration(t *testing.T) {
	logger, buf := newTestLogger(LevelInfo)

	stage := logger.StartStage("generate")
	d := stage.End(context.Background())

	assert.GreaterOrEqual(t, d.Nanoseconds(), int64(0))
	lines := strings.TrimSpace(buf.String())
	assert.Contains(t, lines, `"stage":"generate"`)
	assert.Contains(t, lines, "duration_ms")
}
