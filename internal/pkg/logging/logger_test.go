package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"labconsole/internal/pkg/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("json output carries component and level", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := logging.New(&buf, "debug", logging.FormatJSON)
		require.NoError(t, err)

		logging.Component(logger, "draft-store").Debug().Int64("orderTestId", 1).Msg("draft updated")

		var line map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
		assert.Equal(t, "debug", line["level"])
		assert.Equal(t, "draft-store", line["component"])
		assert.Equal(t, "draft updated", line["message"])
		assert.Contains(t, line, "time")
	})

	t.Run("level filters lower events", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := logging.New(&buf, "warn", logging.FormatJSON)
		require.NoError(t, err)

		logger.Info().Msg("ignored")
		assert.Zero(t, buf.Len())
	})

	t.Run("empty level defaults to info", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := logging.New(&buf, "", logging.FormatJSON)
		require.NoError(t, err)

		logger.Debug().Msg("ignored")
		logger.Info().Msg("kept")
		assert.Contains(t, buf.String(), "kept")
		assert.NotContains(t, buf.String(), "ignored")
	})

	t.Run("unknown level is rejected", func(t *testing.T) {
		_, err := logging.New(&bytes.Buffer{}, "loud", logging.FormatJSON)
		require.Error(t, err)
	})

	t.Run("console format is not json", func(t *testing.T) {
		var buf bytes.Buffer
		logger, err := logging.New(&buf, "info", logging.FormatConsole)
		require.NoError(t, err)

		logger.Info().Msg("hello")
		assert.Contains(t, buf.String(), "hello")
		assert.False(t, json.Valid(buf.Bytes()))
	})
}
