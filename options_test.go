package procstream

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestApplyOptions(t *testing.T) {
	stderr := func(string) {}
	handler := HandlerFuncs{}

	options := applyOptions([]Option{
		WithLogger(NopLogger()),
		WithBinary("gif2webp"),
		WithBinaryPath("/opt/bin/gif2webp"),
		WithFallbackPaths("/vendor/gif2webp"),
		WithMinimumVersion("1.3.0"),
		WithEnv(map[string]string{"TMPDIR": "/tmp"}),
		WithCwd("/work"),
		WithTimeout(time.Minute),
		WithStderr(stderr),
		WithHandler(handler),
	})

	require.NotNil(t, options.Logger)
	require.Equal(t, "gif2webp", options.BinaryName())
	require.Equal(t, "/opt/bin/gif2webp", options.BinaryPath)
	require.Equal(t, []string{"/vendor/gif2webp"}, options.FallbackPaths)
	require.Equal(t, "1.3.0", options.MinimumVersion)
	require.Equal(t, map[string]string{"TMPDIR": "/tmp"}, options.Env)
	require.Equal(t, "/work", options.Cwd)
	require.Equal(t, time.Minute, options.Timeout)
	require.NotNil(t, options.Stderr)
	require.Equal(t, handler, options.Handler)
}

func TestApplyOptions_Defaults(t *testing.T) {
	options := applyOptions(nil)

	require.Equal(t, DefaultBinary, options.BinaryName())
	require.Nil(t, options.FallbackPaths)
	require.Zero(t, options.Timeout)
}

func TestNew_DoesNotSpawn(t *testing.T) {
	s := New([]string{"-O3"}, WithBinaryPath("/nonexistent/gifsicle"))
	defer s.Destroy()

	require.False(t, s.Ended())
	require.Equal(t, []string{"-O3"}, s.Args())
}

func TestNewPrometheusRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()

	recorder, err := NewPrometheusRecorder(reg)
	require.NoError(t, err)

	recorder.StreamStarted(DefaultBinary)

	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)

	options := applyOptions([]Option{WithMetrics(recorder)})
	require.Equal(t, recorder, options.Metrics)
}

func TestErrorReExports(t *testing.T) {
	err := error(&EmptyOutputError{Binary: DefaultBinary})

	require.ErrorIs(t, err, ErrNoOutput)

	streamErr, ok := errors.AsType[StreamError](err)
	require.True(t, ok)
	require.True(t, streamErr.IsStreamError())
}
