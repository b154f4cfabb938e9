package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLoggerMethods(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	l := NewZerologLogger("test")
	require.NotNil(t, l)
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"k": 1})
	l.Infof("info %s", "test")
	l.Warnf("warn")
	l.Errorf("error")
}

func TestZerologLoggerComponentField(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	var buf bytes.Buffer
	l := NewZerologLoggerWithWriter("registry", &buf)
	l.Infof("registered %s", "core.config")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "registry", line["component"])
	assert.Equal(t, "registered core.config", line["message"])
	assert.Equal(t, "info", line["level"])
}

func TestZerologLoggerLevelFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	var buf bytes.Buffer
	l := NewZerologLoggerWithWriter("registry", &buf)
	l.Debugw("rejected", map[string]any{"api": "core.config"})
	assert.True(t, strings.Contains(buf.String(), `"api":"core.config"`))

	buf.Reset()
	t.Setenv("LOG_LEVEL", "warn")
	l = NewZerologLoggerWithWriter("registry", &buf)
	l.Infof("hidden")
	assert.Empty(t, buf.String())
}
