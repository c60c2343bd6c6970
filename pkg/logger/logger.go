// Package logger provides opinionated logging capabilities for ragchat
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a console logger writing to out. Colored levels are only
// used when out is a terminal-facing stream.
func NewLogger(debug bool, out io.Writer) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	if out == os.Stderr || out == os.Stdout {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	// Set log level
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(out),
		level,
	)

	return zap.New(core, zap.AddCaller())
}

// NewFileLogger opens (or creates) path for appending and logs into it.
// The returned close func releases the file after syncing the logger.
func NewFileLogger(debug bool, path string) (*zap.Logger, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	l := NewLogger(debug, f)
	closer := func() error {
		_ = l.Sync()
		return f.Close()
	}

	return l, closer, nil
}

// WithAction returns a context whose logger carries an "action" field
// describing the flow in progress.
func WithAction(ctx context.Context, base *zap.Logger, action string) context.Context {
	l := ctxzap.Extract(ctx)
	if l.Core() == zapcore.NewNopCore() && base != nil {
		l = base
	}
	return ctxzap.ToContext(ctx, l.With(zap.String("action", action)))
}
