package logger

import (
	"log"
	"os"

	"go.uber.org/zap"
)

const (
	logEnvKey     = "LOG_ENV"
	defaultLogEnv = "dev"
)

var logger *zap.Logger

func init() {
	if err := Init(os.Getenv(logEnvKey)); err != nil {
		log.Fatal("logger init", err)
	}
}

// Init replaces the package logger. env is "dev" (default) or "prod".
func Init(env string) error {
	if env == "" {
		env = defaultLogEnv
	}

	var (
		l   *zap.Logger
		err error
	)
	switch env {
	case "prod":
		l, err = zap.NewProduction()
	case "nop":
		l = zap.NewNop()
	default:
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return err
	}

	logger = l
	return nil
}

func Info(msg string, fields ...zap.Field) {
	logger.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	logger.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	logger.Error(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	logger.Fatal(msg, fields...)
}

// Sync flushes buffered entries; call before exit.
func Sync() {
	_ = logger.Sync()
}
