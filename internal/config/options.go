// Package config provides configuration types for process-backed streams.
package config

import (
	"log/slog"
	"time"

	"github.com/wagiedev/procstream-go/internal/metrics"
)

// DefaultBinary is the converter executable used when Options.Binary is empty.
const DefaultBinary = "gifsicle"

// Options configures the behavior of a Stream.
type Options struct {
	// Logger is the slog logger for debug output.
	// If nil, logging is disabled (silent operation).
	Logger *slog.Logger

	// Binary is the executable name searched for on PATH.
	// Defaults to DefaultBinary.
	Binary string

	// BinaryPath is an explicit executable path that skips every other
	// discovery strategy.
	BinaryPath string

	// FallbackPaths are checked, in order, after the PATH lookup fails.
	// If nil, a set of common installation directories is used.
	FallbackPaths []string

	// MinimumVersion enables a `--version` check during discovery.
	// A lower version only logs a warning.
	MinimumVersion string

	// Env is appended to the current process environment for the child.
	Env map[string]string

	// Cwd is the working directory of the child process.
	Cwd string

	// Timeout kills the child and fails the stream if it has not
	// terminated within this duration of being spawned. Zero disables it.
	Timeout time.Duration

	// Stderr receives each line the child writes to stderr.
	Stderr func(string)

	// Handler receives data, end and error events.
	Handler Handler

	// Metrics records stream lifecycle metrics. If nil, nothing is recorded.
	Metrics metrics.Recorder
}

// BinaryName returns the configured binary name or DefaultBinary.
func (o *Options) BinaryName() string {
	if o == nil || o.Binary == "" {
		return DefaultBinary
	}

	return o.Binary
}
