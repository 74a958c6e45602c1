package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "debug", "json")
	logger.Debug("hello", "k", "v")

	assert.True(t, strings.HasPrefix(buf.String(), "{"))
	assert.Contains(t, buf.String(), `"k":"v"`)
}

func TestNew_TextFormatRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn", "text")
	logger.Info("quiet")
	logger.Warn("loud")

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), "loud")
}

func TestRedactURL(t *testing.T) {
	assert.Equal(t, "postgres://app@db:5432/market", RedactURL("postgres://app:s3cret@db:5432/market"))
	assert.Equal(t, "redis://localhost:6379", RedactURL("redis://localhost:6379"))
	assert.Equal(t, "", RedactURL(""))
}

func TestSanitizeError(t *testing.T) {
	dsn := "postgres://app:s3cret@db/market"
	err := errors.New("dial " + dsn + " failed; password=hunter2")

	got := SanitizeError(err, dsn)
	assert.NotContains(t, got, "s3cret")
	assert.NotContains(t, got, "hunter2")
	assert.Contains(t, got, "password=redacted")
	assert.Equal(t, "", SanitizeError(nil))
}
