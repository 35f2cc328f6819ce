package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]log.Level{
		"debug": log.DebugLevel,
		"DEBUG": log.DebugLevel,
		"info":  log.InfoLevel,
		"warn":  log.WarnLevel,
		"error": log.ErrorLevel,
		"fatal": log.FatalLevel,
		"":      log.InfoLevel,
		"loud":  log.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestConfigureWritesToFile(t *testing.T) {
	saved := Logger
	defer func() { Logger = saved; output = os.Stderr }()

	path := filepath.Join(t.TempDir(), "hrsim.log")
	require.NoError(t, Configure("debug", path))
	assert.Equal(t, log.DebugLevel, Logger.GetLevel())

	Debug("engine created", "variant", "hindmarsh_rose")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "engine created")
	assert.Contains(t, string(data), "hindmarsh_rose")
}

func TestConfigureBadPath(t *testing.T) {
	saved := Logger
	defer func() { Logger = saved }()

	err := Configure("info", filepath.Join(t.TempDir(), "missing", "dir", "x.log"))
	assert.Error(t, err)
}

func TestStyledLoggerFollowsGlobal(t *testing.T) {
	saved := Logger
	defer func() { Logger = saved; output = os.Stderr }()

	var buf bytes.Buffer
	SetOutput(&buf)
	Logger.SetLevel(log.WarnLevel)

	l := NewStyledLogger("host")
	assert.Equal(t, log.WarnLevel, l.GetLevel())

	l.Info("hidden")
	l.Warn("shown")
	out := buf.String()
	assert.False(t, strings.Contains(out, "hidden"))
	assert.Contains(t, out, "shown")
}
