package main

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeGifsicle echoes its arguments followed by its input.
func fakeGifsicle(t *testing.T) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("Test requires a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "gifsicle")
	script := "#!/bin/sh\nprintf '%s|' \"$*\"\nexec cat\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))

	return path
}

func TestRootCmd_StdinToStdout(t *testing.T) {
	var stdout, stderr bytes.Buffer

	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader("GIF89a"))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--gifsicle", fakeGifsicle(t), "--width", "320", "-O", "3", "-", "-"})

	require.NoError(t, cmd.Execute())
	require.Equal(t, "--resize-width 320 -O3|GIF89a", stdout.String())
	require.Empty(t, stderr.String())
}

func TestRootCmd_Files(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.gif")
	output := filepath.Join(dir, "out.gif")

	require.NoError(t, os.WriteFile(input, []byte("GIF89a"), 0o600))

	cmd := newRootCmd()
	cmd.SetArgs([]string{"--gifsicle", fakeGifsicle(t), "--width", "10", "--height", "10", input, output})

	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	require.Equal(t, "--resize 10x10|GIF89a", string(data))
}

func TestRootCmd_MissingInput(t *testing.T) {
	var stderr bytes.Buffer

	cmd := newRootCmd()
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"/nonexistent/in.gif", "-"})

	err := cmd.Execute()
	require.Error(t, err)
	require.Contains(t, stderr.String(), "open input")
}

func TestRootCmd_BinaryNotFound(t *testing.T) {
	var stderr bytes.Buffer

	cmd := newRootCmd()
	cmd.SetIn(strings.NewReader("GIF89a"))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--gifsicle", "/nonexistent/gifsicle", "-", "-"})

	err := cmd.Execute()
	require.Error(t, err)
	require.Contains(t, stderr.String(), "unable to locate the gifsicle binary file")
}

func TestRootCmd_RequiresTwoArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"only-one"})

	require.Error(t, cmd.Execute())
}
