// Package logging configures the application logger. The TUI owns
// stdout, so logs always go to a file under the config directory.
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New opens a zap logger writing to dir/sargam.log, truncating the
// previous run's log. debug lowers the level to Debug.
func New(dir string, debug bool) (*zap.Logger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(filepath.Join(dir, "sargam.log"),
		os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, err
	}

	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(f),
		level,
	)
	return zap.New(core), nil
}
