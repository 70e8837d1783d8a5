package logger

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/quran-reader-bot/internal/config"
)

// New builds the application logger. Every entry carries the environment and storage driver.
func New(cfg *config.Config) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)

	if cfg.Env == "production" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return l.With(
		zap.String("env", cfg.Env),
		zap.String("storage", cfg.Storage.Driver),
	), nil
}
