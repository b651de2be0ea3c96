package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// logFilePermissions restricts log files to the current user.
const logFilePermissions = 0o600

// WithFile returns a zap option that duplicates every log entry into the file
// at the provided path. Entries are appended, so repeated runs accumulate in
// the same file. The file core logs at debug level regardless of the console
// level, keeping a complete trail on disk while the console stays quiet.
func WithFile(path string) (zap.Option, error) {
	file, err := os.OpenFile(
		filepath.Clean(path),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY,
		logFilePermissions,
	)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	fileCore := zapcore.NewCore(
		newConsoleEncoder(false),
		zapcore.AddSync(file),
		zap.NewAtomicLevelAt(zap.DebugLevel),
	)

	return zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, fileCore)
	}), nil
}
