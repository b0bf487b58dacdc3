package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitLogger_WritesConsoleAndFile(t *testing.T) {
	dir := t.TempDir()
	var console bytes.Buffer

	logger, err := InitLogger("test", Options{Dir: dir, Console: zapcore.AddSync(&console)})
	require.NoError(t, err)

	logger.Debug("debug detail")
	logger.Info("scheduling started")
	_ = logger.Sync()

	assert.Contains(t, console.String(), "scheduling started")
	assert.NotContains(t, console.String(), "debug detail")

	files, err := filepath.Glob(filepath.Join(dir, "test_*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"debug detail"`)
	assert.Contains(t, string(data), `"env":"test"`)
	assert.Contains(t, string(data), `"timestamp"`)
}

func TestInitLogger_Verbose(t *testing.T) {
	var console bytes.Buffer

	logger, err := InitLogger("test", Options{Dir: t.TempDir(), Verbose: true, Console: zapcore.AddSync(&console)})
	require.NoError(t, err)

	logger.Debug("debug detail")
	_ = logger.Sync()

	assert.Contains(t, console.String(), "debug detail")
}

func TestInitLogger_BadDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	_, err := InitLogger("test", Options{Dir: filepath.Join(file, "logs")})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create logs directory")
}

func TestLogFileName(t *testing.T) {
	started := time.Date(2025, 7, 7, 9, 30, 0, 0, time.UTC)

	assert.Equal(t, "prod_2025-07-07_09-30-00.log", LogFileName("prod", started))
	assert.Equal(t, "default_2025-07-07_09-30-00.log", LogFileName("", started))
}
