package procstream

import (
	"log/slog"
	"time"

	"github.com/wagiedev/procstream-go/internal/metrics"
)

// Option configures StreamOptions using the functional options pattern.
type Option func(*StreamOptions)

// applyOptions applies functional options to a StreamOptions struct.
func applyOptions(opts []Option) *StreamOptions {
	options := &StreamOptions{}
	for _, opt := range opts {
		opt(options)
	}

	return options
}

// WithLogger sets the logger for debug output.
// If not set, logging is disabled (silent operation).
func WithLogger(logger *slog.Logger) Option {
	return func(o *StreamOptions) {
		o.Logger = logger
	}
}

// WithBinary sets the converter executable name looked up on PATH
// (default "gifsicle").
func WithBinary(name string) Option {
	return func(o *StreamOptions) {
		o.Binary = name
	}
}

// WithBinaryPath sets the explicit path to the converter executable.
// No other location is searched when it is set.
func WithBinaryPath(path string) Option {
	return func(o *StreamOptions) {
		o.BinaryPath = path
	}
}

// WithFallbackPaths replaces the locations checked after the PATH lookup.
// Use it to point at a vendored binary.
func WithFallbackPaths(paths ...string) Option {
	return func(o *StreamOptions) {
		o.FallbackPaths = paths
	}
}

// WithMinimumVersion logs a warning when the converter reports an older
// version through --version.
func WithMinimumVersion(version string) Option {
	return func(o *StreamOptions) {
		o.MinimumVersion = version
	}
}

// WithEnv adds environment variables for the converter process.
func WithEnv(env map[string]string) Option {
	return func(o *StreamOptions) {
		o.Env = env
	}
}

// WithCwd sets the working directory for the converter process.
func WithCwd(cwd string) Option {
	return func(o *StreamOptions) {
		o.Cwd = cwd
	}
}

// WithTimeout fails the stream with TimeoutError and kills the converter if
// it is still running d after being spawned.
func WithTimeout(d time.Duration) Option {
	return func(o *StreamOptions) {
		o.Timeout = d
	}
}

// WithStderr sets a callback receiving each line of converter stderr.
func WithStderr(fn func(string)) Option {
	return func(o *StreamOptions) {
		o.Stderr = fn
	}
}

// WithHandler subscribes h to the stream events. It must be set before the
// first write, which is why it is a construction option.
func WithHandler(h Handler) Option {
	return func(o *StreamOptions) {
		o.Handler = h
	}
}

// WithMetrics records lifecycle metrics into r.
func WithMetrics(r metrics.Recorder) Option {
	return func(o *StreamOptions) {
		o.Metrics = r
	}
}
