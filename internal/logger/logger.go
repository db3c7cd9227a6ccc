// Package logger owns the process-wide zap logger and its Echo helpers.
package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu  sync.RWMutex
	log *zap.Logger
)

// Init builds the global logger.  Production uses structured JSON, every
// other environment a human-readable console encoder.  An unknown level
// falls back to info.
func Init(production bool, level string) (*zap.Logger, error) {
	var cfg zap.Config
	if production {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.OutputPaths = []string{"stdout"}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level.SetLevel(lvl)

	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	Set(l)
	return l, nil
}

// Set replaces the global logger.  Tests use it to install zap.NewNop or an
// observer.
func Set(l *zap.Logger) {
	mu.Lock()
	log = l
	mu.Unlock()
}

// Get returns the global logger, creating a production logger on first use
// if Init was never called.
func Get() *zap.Logger {
	mu.RLock()
	l := log
	mu.RUnlock()
	if l != nil {
		return l
	}
	mu.Lock()
	defer mu.Unlock()
	if log == nil {
		fallback, err := zap.NewProduction()
		if err != nil {
			panic("failed to create fallback logger: " + err.Error())
		}
		log = fallback
	}
	return log
}
