package logging

import (
	"bytes"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_Levels(t *testing.T) {
	t.Parallel()

	var quiet bytes.Buffer
	logger := New(&quiet, false, Console)
	logger.Debug("hidden")
	logger.Warn("shown")
	assert.NotContains(t, quiet.String(), "hidden")
	assert.Contains(t, quiet.String(), "WARN")
	assert.Contains(t, quiet.String(), "shown")

	var verbose bytes.Buffer
	New(&verbose, true, Console).Debug("details")
	assert.Contains(t, verbose.String(), "details")
}

func TestNew_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	New(&buf, true, JSON).Debug("read", zap.String("path", "data.csv"))

	var entry map[string]any
	require.NoError(t, jsoniter.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "read", entry["msg"])
	assert.Equal(t, "data.csv", entry["path"])
	assert.Equal(t, "debug", entry["level"])
}
