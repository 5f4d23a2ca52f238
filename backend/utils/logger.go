package utils

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LoggerConfig configures InitLogger.
type LoggerConfig struct {
	// Format is "console" or "json".
	Format string
	// Level is a zap level name, "info" when empty.
	Level string
	// File enables a rotating JSON log file next to the console output.
	File string
}

// InitLogger builds the application logger. The console core always exists,
// a lumberjack file core is teed in when File is set.
func InitLogger(config ...LoggerConfig) *zap.SugaredLogger {
	var cfg LoggerConfig
	if len(config) > 0 {
		cfg = config[0]
	}

	level := zap.InfoLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
			level = zap.InfoLevel
		}
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var consoleEncoder zapcore.Encoder
	if cfg.Format == "json" {
		consoleEncoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		consoleEncoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), level),
	}

	if cfg.File != "" {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig),
			zapcore.AddSync(&lumberjack.Logger{
				Filename:   cfg.File,
				MaxSize:    100, // MB
				MaxBackups: 30,
				MaxAge:     90, // days
			}),
			level,
		))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
	return logger.Sugar().Named("mitra")
}

// NopLogger is used by tests and by components built without a logger.
func NopLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
