package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_JSON(t *testing.T) {
	req := require.New(t)
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "debug", "json")
	logger.Debug("hello", "room_id", 1)

	var line map[string]any
	req.NoError(json.Unmarshal(buf.Bytes(), &line))
	req.Equal("hello", line["msg"])
	req.Equal("DEBUG", line["level"])
	req.EqualValues(1, line["room_id"])
}

func TestNewWithWriter_LevelFilters(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "warn", "text")
	logger.Info("dropped")
	require.Empty(t, buf.String())

	logger.Warn("kept")
	require.Contains(t, buf.String(), "kept")
}

func TestNewWithWriter_Silent(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "silent", "text")
	logger.Error("nothing")
	require.Empty(t, buf.String())
}
