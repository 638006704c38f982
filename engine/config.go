package engine

import (
	"log/slog"

	"fusion-engine/internal/resolve"
)

// Config configures a model build.
type Config struct {
	// PackageOrder lists packages from least to most overriding.
	PackageOrder []string
	// Entrypoints maps a package to the resource its includes start at.
	Entrypoints map[string]string
	// StrictInheritance fails the build on conflicting inheritance
	// declarations instead of reporting a warning.
	StrictInheritance bool
	// MaxCopyDepth bounds copy redirection chains.
	MaxCopyDepth int
	// SkipCopyValidation defers copy cycle detection from the build to the
	// first query that reaches the cycle.
	SkipCopyValidation bool
	// Logger receives build logs. Nil means slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns the default build configuration.
func DefaultConfig() Config {
	return Config{
		MaxCopyDepth: resolve.DefaultMaxDepth,
	}
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}

	return c.Logger
}
