package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLoggerWritesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, InitLogger(LogOption{Format: "json", LogDir: dir, Level: "debug"}))

	Infof("[Test] hello %d", 42)
	Sync()

	data, err := os.ReadFile(filepath.Join(dir, defaultLogFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "[Test] hello 42")
}

func TestInitLoggerRejectsBadOption(t *testing.T) {
	assert.Error(t, InitLogger(LogOption{Level: "loud"}))
	assert.Error(t, InitLogger(LogOption{Format: "xml"}))
	assert.NoError(t, InitLogger(LogOption{}))
}
