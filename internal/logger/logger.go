package logger

import (
	"go.uber.org/zap"
)

// NewNamed creates a named zap logger appropriate for the environment:
// human-readable in development, JSON elsewhere.
func NewNamed(env, name string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "development" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	log, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return log.Named(name), nil
}
