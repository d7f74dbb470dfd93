package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWithConfig_JSON(t *testing.T) {
	require.NoError(t, InitWithConfig("debug", "json", "stderr", ""))

	var buf bytes.Buffer
	SetOutput(&buf)
	WithField("course_id", 3).Debug("registering")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "registering", entry["msg"])
	assert.Equal(t, "debug", entry["level"])
	assert.EqualValues(t, 3, entry["course_id"])
}

func TestInitWithConfig_LevelFilters(t *testing.T) {
	require.NoError(t, InitWithConfig("warn", "text", "stdout", ""))

	var buf bytes.Buffer
	SetOutput(&buf)
	Info("hidden")
	Warn("shown %d", 1)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown 1")
}

func TestInitWithConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "portal.log")
	require.NoError(t, InitWithConfig("info", "json", "file", path))
	Info("to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestInitWithConfig_Invalid(t *testing.T) {
	assert.Error(t, InitWithConfig("loud", "json", "stderr", ""))
	assert.Error(t, InitWithConfig("info", "xml", "stderr", ""))
	assert.Error(t, InitWithConfig("info", "json", "file", ""))
	assert.Error(t, InitWithConfig("info", "json", "syslog", ""))
}
