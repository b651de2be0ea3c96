package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug": zapcore.DebugLevel,
		"info":  zapcore.InfoLevel,
		"warn":  zapcore.WarnLevel,
		"error": zapcore.ErrorLevel,
		"panic": zapcore.PanicLevel,
		"fatal": zapcore.FatalLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok)
		require.Equal(t, lvl, got)
	}

	_, ok := ParseLogLevel("unknown")
	require.False(t, ok)
}

// TestFromContext_FallsBackToGlobal ensures a bare context yields the global logger.
func TestFromContext_FallsBackToGlobal(t *testing.T) {
	t.Parallel()

	require.Same(t, Logger(), FromContext(context.Background()))
}

// TestWithName_StoresNamedLogger ensures WithName stores a distinct logger in the context.
func TestWithName_StoresNamedLogger(t *testing.T) {
	t.Parallel()

	ctx := WithName(context.Background(), "labkit-test")
	require.NotSame(t, Logger(), FromContext(ctx))
}

// TestWithFile_CreatesLogFile ensures the file tee option creates and writes the log file.
func TestWithFile_CreatesLogFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "labkit.log")

	opt, err := WithFile(path)
	require.NoError(t, err)

	l := New(defaultLevel, opt)
	l.Info("file sink smoke test")
	require.NoError(t, l.Sync())

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(contents), "file sink smoke test")
}
