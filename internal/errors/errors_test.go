package errors

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBinaryNotFoundError(t *testing.T) {
	err := &BinaryNotFoundError{
		Binary:        "gifsicle",
		SearchedPaths: []string{"$PATH", "/usr/bin/gifsicle"},
	}

	require.Equal(
		t,
		"unable to locate the gifsicle binary file, searched: [$PATH /usr/bin/gifsicle]",
		err.Error(),
	)
	require.True(t, err.IsStreamError())
}

func TestSpawnError(t *testing.T) {
	root := errors.New("permission denied")
	err := &SpawnError{Path: "/usr/bin/gifsicle", Err: root}

	require.Equal(t, "failed to start /usr/bin/gifsicle: permission denied", err.Error())
	require.ErrorIs(t, err, root)
	require.True(t, err.IsStreamError())
}

func TestProcessError_WithStderr(t *testing.T) {
	root := errors.New("exit status 1")
	err := &ProcessError{
		Binary:   "gifsicle",
		ExitCode: 1,
		Stderr:   "gifsicle: <stdin>: not a GIF",
		Err:      root,
	}

	require.Equal(
		t,
		"the gifsicle process exited with a non-zero exit code: 1: gifsicle: <stdin>: not a GIF",
		err.Error(),
	)
	require.ErrorIs(t, err, root)
	require.True(t, err.IsStreamError())
}

func TestProcessError_WithoutStderr(t *testing.T) {
	err := &ProcessError{Binary: "gif2webp", ExitCode: 2}

	require.Equal(t, "the gif2webp process exited with a non-zero exit code: 2", err.Error())
	require.NoError(t, err.Unwrap())
}

func TestEmptyOutputError(t *testing.T) {
	err := &EmptyOutputError{Binary: "gifsicle"}

	require.Equal(t, "gifsicle: stdout ended without emitting any data", err.Error())
	require.ErrorIs(t, err, ErrNoOutput)
	require.True(t, err.IsStreamError())
}

func TestTimeoutError(t *testing.T) {
	err := &TimeoutError{Binary: "gifsicle", Timeout: 3 * time.Second}

	require.Equal(t, "the gifsicle process did not finish within 3s", err.Error())
	require.ErrorIs(t, err, ErrTimeout)

	streamErr, ok := errors.AsType[StreamError](error(err))
	require.True(t, ok)
	require.True(t, streamErr.IsStreamError())
}
