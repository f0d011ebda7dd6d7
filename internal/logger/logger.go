// Package logger builds the console's zap logger.
package logger

import (
	"os"

	"github.com/bloomhouse/admin-console/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger writes to stdout, as JSON in production or when asked and as colored console
// text otherwise. A configured File adds a size-rotated JSON copy.
func NewLogger(cfg *config.LoggingConfig, app *config.AppConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	enabled := zap.NewAtomicLevelAt(level)

	var stdout zapcore.Encoder
	if cfg.Format == "json" || app.Environment == "production" {
		stdout = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		enc := zap.NewDevelopmentEncoderConfig()
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
		stdout = zapcore.NewConsoleEncoder(enc)
	}

	cores := []zapcore.Core{zapcore.NewCore(stdout, zapcore.Lock(os.Stdout), enabled)}
	if cfg.File != "" {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(&lumberjack.Logger{
				Filename:   cfg.File,
				MaxSize:    cfg.MaxSizeMB,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAgeDays,
			}),
			enabled,
		))
	}

	return zap.New(zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(zap.String("app", app.Name), zap.String("environment", app.Environment)),
	), nil
}

// WithRequest tags entries with the request they belong to
func WithRequest(l *zap.Logger, method, path, requestID string) *zap.Logger {
	return l.With(
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("path", path),
	)
}

// WithUser tags entries with the signed-in staff member
func WithUser(l *zap.Logger, userID, displayName string) *zap.Logger {
	return l.With(zap.String("staff_id", userID), zap.String("staff_name", displayName))
}
