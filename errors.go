package procstream

import "github.com/wagiedev/procstream-go/internal/errors"

// Re-export error types from internal package

// BinaryNotFoundError indicates the converter executable could not be located.
type BinaryNotFoundError = errors.BinaryNotFoundError

// SpawnError indicates the operating system failed to start or run the process.
type SpawnError = errors.SpawnError

// ProcessError indicates the process exited with a non-zero exit code.
type ProcessError = errors.ProcessError

// EmptyOutputError indicates the process produced no output.
type EmptyOutputError = errors.EmptyOutputError

// TimeoutError indicates the process was killed by the watchdog.
type TimeoutError = errors.TimeoutError

// StreamError is the base interface for all stream errors.
type StreamError = errors.StreamError

// Re-export sentinel errors from internal package.
var (
	// ErrStreamEnded indicates the stream no longer accepts input.
	ErrStreamEnded = errors.ErrStreamEnded

	// ErrNoOutput is wrapped by EmptyOutputError.
	ErrNoOutput = errors.ErrNoOutput

	// ErrTimeout is wrapped by TimeoutError.
	ErrTimeout = errors.ErrTimeout
)
