package logger_test

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/chatkit/core/logger"
)

func TestAttrs(t *testing.T) {
	t.Run("nil error produces empty attr", func(t *testing.T) {
		assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
		assert.False(t, logger.Error(errors.New("boom")).Equal(slog.Attr{}))
	})

	t.Run("empty strings produce empty attrs", func(t *testing.T) {
		assert.True(t, logger.Component("").Equal(slog.Attr{}))
		assert.True(t, logger.UserID("").Equal(slog.Attr{}))
		assert.True(t, logger.ConnectionID("").Equal(slog.Attr{}))
	})

	t.Run("keys", func(t *testing.T) {
		assert.Equal(t, "component", logger.Component("ws").Key)
		assert.Equal(t, "user_id", logger.UserID("u1").Key)
		assert.Equal(t, "connection_id", logger.ConnectionID("c1").Key)
		assert.Equal(t, "duration", logger.Duration(time.Second).Key)
		assert.Equal(t, "count", logger.Count(3).Key)
	})
}

func TestNew(t *testing.T) {
	t.Run("json output", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithJSONFormatter())
		log.Info("hello", logger.Component("test"))

		out := buf.String()
		assert.Contains(t, out, `"component":"test"`)
		assert.Contains(t, out, `"msg":"hello"`)
	})

	t.Run("development preset", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(logger.WithDevelopment("chatkit"), logger.WithOutput(&buf))
		log.Debug("debug message")

		out := buf.String()
		assert.Contains(t, out, "debug message", "debug level is enabled")
		assert.Contains(t, out, "service=chatkit")
	})

	t.Run("level filtering", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.New(logger.WithOutput(&buf), logger.WithLevel(slog.LevelWarn))
		log.Info("dropped")
		log.Warn("kept")

		out := buf.String()
		assert.False(t, strings.Contains(out, "dropped"))
		assert.Contains(t, out, "kept")
	})
}
