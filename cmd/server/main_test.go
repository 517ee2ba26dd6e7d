package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/exercise-tracker/internal/config"
)

func TestNewLogger(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := newLogger(&buf, &config.Config{LogLevel: "info", LogFormat: "JSON"})
		require.NoError(t, err)

		logger.Debug("hidden")
		logger.Info("shown", "k", "v")

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "shown", line["msg"])
		assert.Equal(t, "v", line["k"])
	})

	t.Run("text at debug", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := newLogger(&buf, &config.Config{LogLevel: "debug", LogFormat: "text"})
		require.NoError(t, err)

		logger.Debug("visible")
		assert.Contains(t, buf.String(), "msg=visible")
	})

	t.Run("bad level", func(t *testing.T) {
		_, err := newLogger(&bytes.Buffer{}, &config.Config{LogLevel: "loud"})
		assert.Error(t, err)
	})
}
