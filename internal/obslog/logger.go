// Package obslog provides the categorized, config-driven structured logging
// used across the kernel. Every Session owns one logger tagged with its id;
// components log through it rather than through the standard log package.
package obslog

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category names a subsystem for log correlation, mirroring the kind of
// per-subsystem tagging a production kernel uses to keep query-engine noise
// separable from ingestion noise.
type Category string

const (
	CategoryIngest    Category = "ingest"
	CategoryVocab     Category = "vocab"
	CategoryKB        Category = "kb"
	CategoryReason    Category = "reason"
	CategoryQuery     Category = "query"
	CategoryMeta      Category = "meta"
	CategorySession   Category = "session"
)

// Config controls verbosity and output shape. JSON is intended for
// machine-consumed logs (e.g. piping to a log aggregator); when false,
// logs use zap's human-readable console encoder.
type Config struct {
	Debug bool   `yaml:"debug"`
	JSON  bool   `yaml:"json"`
	Level string `yaml:"level"`
}

// DefaultConfig returns production-sane defaults: info level, console output.
func DefaultConfig() Config {
	return Config{Debug: false, JSON: false, Level: "info"}
}

// New builds a *zap.Logger from cfg, tagged with the given session id and
// category-capable fields attached lazily via With(...).
func New(cfg Config, sessionID string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if !cfg.JSON {
		zcfg = zap.NewDevelopmentConfig()
	}
	if cfg.Debug {
		zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else if lvl, err := zapcore.ParseLevel(levelOrDefault(cfg.Level)); err == nil {
		zcfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("session", sessionID)), nil
}

func levelOrDefault(level string) string {
	if level == "" {
		return "info"
	}
	return level
}

// For attaches a Category field, used at call sites instead of re-deriving a
// child logger per call: `obslog.For(logger, obslog.CategoryQuery).Debug(...)`.
func For(logger *zap.Logger, cat Category) *zap.Logger {
	return logger.With(zap.String("category", string(cat)))
}

// noop is shared by callers (primarily tests) that want a logger without
// configuring zap; avoids every package reimplementing this.
var (
	noopOnce sync.Once
	noop     *zap.Logger
)

// Noop returns a logger that discards everything.
func Noop() *zap.Logger {
	noopOnce.Do(func() { noop = zap.NewNop() })
	return noop
}
