package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/bodot/internal/config"
	"git.home.luguber.info/inful/bodot/internal/engine"
	berrors "git.home.luguber.info/inful/bodot/internal/errors"
)

func runCLI(t *testing.T, g *Global, args ...string) error {
	t.Helper()
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("bodot"),
		kong.Vars{"version": "test"},
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	return kctx.Run(g, cli)
}

func newGlobal(input string) (*Global, *bytes.Buffer) {
	var out bytes.Buffer
	return &Global{Out: &out, In: strings.NewReader(input), Runner: &engine.RecordingRunner{}}, &out
}

func TestConfigCommand(t *testing.T) {
	dir := t.TempDir()
	g, out := newGlobal("")

	require.NoError(t, runCLI(t, g, "-C", dir, "config", "ProjectName", "Dungeon"))
	assert.Contains(t, out.String(), "Configured ProjectName=Dungeon")
	assert.Equal(t, "Dungeon", config.NewStore(dir).Load().ProjectName)

	require.NoError(t, runCLI(t, g, "-C", dir, "config", "godotfilepath", "/opt/godot"))
	assert.Equal(t, "/opt/godot", config.NewStore(dir).Load().EngineBinaryPath)
}

func TestConfigCommandRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing setting", []string{"config"}, "missing config setting"},
		{"missing value", []string{"config", "ProjectName"}, "missing config value"},
		{"unknown setting without value", []string{"config", "Colour"}, "'Colour' is not configurable or it doesn't exist"},
		{"unknown setting", []string{"config", "Colour", "blue"}, "'Colour' is not configurable or it doesn't exist"},
		{"bad number", []string{"config", "MajorVersion", "one"}, "invalid value 'one' for MajorVersion"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			g, _ := newGlobal("")
			err := runCLI(t, g, append([]string{"-C", dir}, tt.args...)...)
			require.Error(t, err)
			assert.True(t, berrors.IsCategory(err, berrors.CategoryValidation))
			assert.Contains(t, err.Error(), tt.want)
			assert.NoFileExists(t, filepath.Join(dir, config.FileName), "rejected input must not write config")
		})
	}
}

func TestConfigCommandListsSettings(t *testing.T) {
	for _, args := range [][]string{{"config"}, {"config", "Colour", "blue"}} {
		dir := t.TempDir()
		g, out := newGlobal("")
		require.Error(t, runCLI(t, g, append([]string{"-C", dir}, args...)...))
		for _, s := range config.Settings() {
			assert.Contains(t, out.String(), s.String())
		}
	}
}

func TestConfigCommandKeepsUnreadableConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.FileName)
	corrupt := []byte("projectName: [unterminated")
	require.NoError(t, os.WriteFile(path, corrupt, 0o644))

	g, _ := newGlobal("")
	err := runCLI(t, g, "-C", dir, "config", "ProjectName", "Dungeon")
	require.Error(t, err)
	assert.True(t, berrors.IsCategory(err, berrors.CategoryConfig))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, corrupt, data)
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	enginePath := filepath.Join(dir, "godot")
	require.NoError(t, os.WriteFile(enginePath, []byte("#!/bin/sh\n"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "builds"), 0o755))

	input := strings.Join([]string{
		"  Dungeon  ",
		"",
		filepath.Join(dir, "missing"),
		enginePath,
		"nowhere",
		"builds",
	}, "\n") + "\n"
	g, out := newGlobal(input)

	require.NoError(t, runCLI(t, g, "-C", dir, "init"))

	p := config.NewStore(dir).Load()
	assert.Equal(t, "Dungeon", p.ProjectName)
	assert.Nil(t, p.MetaVersion)
	assert.Equal(t, enginePath, p.EngineBinaryPath)
	assert.Equal(t, "builds", p.ExportOutputPath)

	text := out.String()
	assert.Contains(t, text, "Could not find a valid godot binary at specified path, please try again")
	assert.Contains(t, text, "Could not find the specified directory, please try again")
	assert.Contains(t, text, "Successfully configured project")
}

func TestInitCommandStopsOnEndOfInput(t *testing.T) {
	dir := t.TempDir()
	g, _ := newGlobal("Dungeon\n")
	err := runCLI(t, g, "-C", dir, "init")
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, config.FileName))
}

func TestInfoCommand(t *testing.T) {
	dir := t.TempDir()
	g, out := newGlobal("")

	require.NoError(t, runCLI(t, g, "-C", dir, "info"))
	text := out.String()
	assert.Contains(t, text, "|---Bodot---|")
	assert.Contains(t, text, "[!] No config found in current directory")
	assert.Contains(t, text, "[!] Godot binary path is invalid")
	assert.Contains(t, text, "Version: 0.0.0")
}

func TestBuildCommand(t *testing.T) {
	dir := t.TempDir()
	p := config.Default()
	p.ProjectName = "Game"
	p.ExportOutputPath = "builds"
	p.HistoryFile = ".bodot/history.db"
	require.NoError(t, config.NewStore(dir).Save(p))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "export_presets.cfg"),
		[]byte("[preset.0]\n\nname=\"Linux\"\nplatform=\"Linux/X11\"\n\n[preset.1]\n\nname=\"Windows_Debug\"\n"), 0o644))

	g, out := newGlobal("")
	metricsFile := filepath.Join(dir, "metrics", "bodot.prom")
	require.NoError(t, runCLI(t, g, "-C", dir, "build", "--zip", "--metrics-file", metricsFile))

	assert.FileExists(t, filepath.Join(dir, "builds", "0.0.0", "linux", "Gamev0.0.0"))
	assert.FileExists(t, filepath.Join(dir, "builds", "0.0.0", "linux", "0.0.0-linux.zip"))
	assert.Equal(t, "1", config.NewStore(dir).Load().PatchVersion)
	assert.Contains(t, out.String(), "Next version: 0.0.1")

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "bodot_build_outcomes_total")

	out.Reset()
	require.NoError(t, runCLI(t, g, "-C", dir, "history"))
	assert.Contains(t, out.String(), "0.0.0")
	assert.Contains(t, out.String(), "BuildCompleted")

	require.NoError(t, runCLI(t, g, "-C", dir, "build"), "the bumped version builds into a fresh root")
	assert.DirExists(t, filepath.Join(dir, "builds", "0.0.1", "linux"))
}

func TestBuildCommandOverwrite(t *testing.T) {
	dir := t.TempDir()
	p := config.Default()
	p.ProjectName = "Game"
	p.AutoIncrementPatch = false
	require.NoError(t, config.NewStore(dir).Save(p))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "export_presets.cfg"), []byte("name=\"Web\"\n"), 0o644))

	g, _ := newGlobal("")
	require.NoError(t, runCLI(t, g, "-C", dir, "build"))

	err := runCLI(t, g, "-C", dir, "build")
	require.Error(t, err)
	assert.True(t, berrors.IsCategory(err, berrors.CategoryPrecondition))

	require.NoError(t, runCLI(t, g, "-C", dir, "build", "--overwrite"))
}

func TestHistoryCommandRequiresHistoryFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, config.NewStore(dir).Save(config.Default()))
	g, _ := newGlobal("")
	err := runCLI(t, g, "-C", dir, "history")
	require.Error(t, err)
	assert.True(t, berrors.IsCategory(err, berrors.CategoryConfig))
}

func TestParseLogLevel(t *testing.T) {
	t.Setenv(config.EnvLogLevel, "")
	assert.Equal(t, "INFO", parseLogLevel(false).String())
	assert.Equal(t, "DEBUG", parseLogLevel(true).String())

	t.Setenv(config.EnvLogLevel, "warn")
	assert.Equal(t, "WARN", parseLogLevel(true).String())
}
