package engine

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgs(t *testing.T) {
	args := Args(ExportRequest{EnginePath: "/opt/godot", Preset: `"Linux/X11"`, OutputPath: "out/linux-x11/Gamev1.0.0"})
	assert.Equal(t, []string{"--export", "--no-window", "Linux/X11", "out/linux-x11/Gamev1.0.0"}, args)
}

func TestBinaryRunnerMissingEngine(t *testing.T) {
	r := &BinaryRunner{}
	_, err := r.RunExport(context.Background(), ExportRequest{EnginePath: filepath.Join(t.TempDir(), "godot")})
	require.ErrorIs(t, err, ErrEngineNotFound)

	_, err = r.RunExport(context.Background(), ExportRequest{})
	require.ErrorIs(t, err, ErrEngineNotFound)

	_, err = r.RunExport(context.Background(), ExportRequest{EnginePath: t.TempDir()})
	require.ErrorIs(t, err, ErrEngineNotFound)
}

// writeFakeEngine creates a shell script standing in for the engine binary.
func writeFakeEngine(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake engine script requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "godot")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

func TestBinaryRunnerPassesArgumentsAndExitCode(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "args.txt")
	engine := writeFakeEngine(t, `for a in "$@"; do echo "$a" >> "`+argsFile+`"; done
echo exporting
exit 3`)

	var stdout bytes.Buffer
	r := &BinaryRunner{Stdout: &stdout, Stderr: &stdout}
	res, err := r.RunExport(context.Background(), ExportRequest{EnginePath: engine, Preset: `"Windows Desktop"`, OutputPath: "out/game.exe"})
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, stdout.String(), "exporting")

	data, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Equal(t, []string{"--export", "--no-window", "Windows Desktop", "out/game.exe"},
		strings.Split(strings.TrimSpace(string(data)), "\n"))
}

func TestBinaryRunnerTimeout(t *testing.T) {
	engine := writeFakeEngine(t, "sleep 5")
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := (&BinaryRunner{}).RunExport(ctx, ExportRequest{EnginePath: engine, Preset: "Linux"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExportFailed))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestBinaryRunnerCancelledBeforeStart(t *testing.T) {
	engine := writeFakeEngine(t, "exit 0")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&BinaryRunner{}).RunExport(ctx, ExportRequest{EnginePath: engine, Preset: "Linux"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, errors.Is(err, ErrEngineNotFound), "cancellation is not a launch failure")
}

func TestBinaryRunnerCheckEngine(t *testing.T) {
	var _ Checker = (*BinaryRunner)(nil)
	r := NewBinaryRunner()

	require.ErrorIs(t, r.CheckEngine(""), ErrEngineNotFound)
	require.ErrorIs(t, r.CheckEngine(filepath.Join(t.TempDir(), "godot")), ErrEngineNotFound)
	require.ErrorIs(t, r.CheckEngine(t.TempDir()), ErrEngineNotFound)
	require.NoError(t, r.CheckEngine(writeFakeEngine(t, "exit 0")))
}

func TestRecordingRunner(t *testing.T) {
	out := filepath.Join(t.TempDir(), "linux", "Gamev1.0.0")
	r := &RecordingRunner{ExitCodes: map[string]int{"Broken": 2}}

	res, err := r.RunExport(context.Background(), ExportRequest{Preset: "Linux", OutputPath: out})
	require.NoError(t, err)
	assert.Zero(t, res.ExitCode)
	assert.FileExists(t, out)

	res, err = r.RunExport(context.Background(), ExportRequest{Preset: "Broken"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.ExitCode)

	assert.Len(t, r.Invocations(), 2)
	assert.Equal(t, "Linux", r.Invocations()[0].Preset)
}
