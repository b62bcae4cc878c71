package errors

import (
	"errors"
	"fmt"
	"time"
)

// StreamError is the base interface for all errors that terminate a stream.
type StreamError interface {
	error
	IsStreamError() bool
}

// Compile-time verification that all error types implement StreamError.
var (
	_ StreamError = (*BinaryNotFoundError)(nil)
	_ StreamError = (*SpawnError)(nil)
	_ StreamError = (*ProcessError)(nil)
	_ StreamError = (*EmptyOutputError)(nil)
	_ StreamError = (*TimeoutError)(nil)
)

// Sentinel errors for commonly checked conditions.
var (
	// ErrStreamEnded indicates the stream reached its terminal state and
	// no longer accepts input.
	ErrStreamEnded = errors.New("stream ended")

	// ErrNoOutput is wrapped by EmptyOutputError.
	ErrNoOutput = errors.New("stdout ended without emitting any data")

	// ErrTimeout is wrapped by TimeoutError.
	ErrTimeout = errors.New("process timed out")
)

// BinaryNotFoundError indicates the converter executable could not be located.
type BinaryNotFoundError struct {
	Binary        string
	SearchedPaths []string
}

func (e *BinaryNotFoundError) Error() string {
	return fmt.Sprintf("unable to locate the %s binary file, searched: %v", e.Binary, e.SearchedPaths)
}

// IsStreamError implements StreamError.
func (e *BinaryNotFoundError) IsStreamError() bool { return true }

// SpawnError indicates the operating system refused to start the process,
// or reported an error while it was running.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Path, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// IsStreamError implements StreamError.
func (e *SpawnError) IsStreamError() bool { return true }

// ProcessError indicates the process exited with a non-zero exit code.
type ProcessError struct {
	Binary   string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("the %s process exited with a non-zero exit code: %d: %s", e.Binary, e.ExitCode, e.Stderr)
	}

	return fmt.Sprintf("the %s process exited with a non-zero exit code: %d", e.Binary, e.ExitCode)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// IsStreamError implements StreamError.
func (e *ProcessError) IsStreamError() bool { return true }

// EmptyOutputError indicates the process closed stdout without producing
// a single byte. A silent run is never a valid conversion, even when the
// exit code is zero.
type EmptyOutputError struct {
	Binary string
}

func (e *EmptyOutputError) Error() string {
	return fmt.Sprintf("%s: %v", e.Binary, ErrNoOutput)
}

func (e *EmptyOutputError) Unwrap() error {
	return ErrNoOutput
}

// IsStreamError implements StreamError.
func (e *EmptyOutputError) IsStreamError() bool { return true }

// TimeoutError indicates the watchdog killed a process that ran too long.
type TimeoutError struct {
	Binary  string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("the %s process did not finish within %s", e.Binary, e.Timeout)
}

func (e *TimeoutError) Unwrap() error {
	return ErrTimeout
}

// IsStreamError implements StreamError.
func (e *TimeoutError) IsStreamError() bool { return true }
