package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/bodot/internal/config"
	"git.home.luguber.info/inful/bodot/internal/console"
	"git.home.luguber.info/inful/bodot/internal/engine"
)

// LogFileName is where logs are appended when the project sets useLog.
const LogFileName = "bodot.log"

// Global carries process-level collaborators shared by every command.
// Zero values fall back to the real process streams and the engine binary.
type Global struct {
	Context context.Context
	Logger  *slog.Logger
	Out     io.Writer
	In      io.Reader
	Runner  engine.Runner
}

func (g *Global) ctx() context.Context {
	if g.Context == nil {
		return context.Background()
	}
	return g.Context
}

func (g *Global) out() io.Writer {
	if g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

func (g *Global) in() io.Reader {
	if g.In == nil {
		return os.Stdin
	}
	return g.In
}

// CLI definition & global flags.
type CLI struct {
	Dir     string           `short:"C" help:"Project directory" default:"." type:"existingdir"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Info    InfoCmd    `cmd:"" help:"Show the current project configuration"`
	Init    InitCmd    `cmd:"" help:"Interactively create the project configuration"`
	Config  ConfigCmd  `cmd:"" help:"Set a single configuration value"`
	Build   BuildCmd   `cmd:"" help:"Export every preset into a versioned build folder"`
	History HistoryCmd `cmd:"" help:"List recorded builds"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	slog.SetDefault(newLogger(os.Stderr, parseLogLevel(c.Verbose)))
	return nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// parseLogLevel honors BODOT_LOG_LEVEL over the verbose flag.
func parseLogLevel(verbose bool) slog.Level {
	switch strings.ToLower(os.Getenv(config.EnvLogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// projectEnv is the loaded project shared by the commands that need it.
type projectEnv struct {
	dir     string
	store   *config.Store
	project *config.Project
	printer *console.Printer
	logFile *os.File
}

// openProject loads .env files and the project record from the working
// directory. When the record sets useLog, logs are also appended to bodot.log.
func openProject(g *Global, root *CLI) (*projectEnv, error) {
	dir := root.Dir
	if dir == "" {
		dir = "."
	}
	config.LoadDotEnv(dir)

	store := config.NewStore(dir)
	project := store.Load()
	config.ApplyEnv(project)

	env := &projectEnv{
		dir:     dir,
		store:   store,
		project: project,
		printer: console.New(g.out()),
	}

	if project.UseLog {
		path := filepath.Join(dir, LogFileName)
		// #nosec G304 -- log file lives in the project directory
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		env.logFile = f
		slog.SetDefault(newLogger(io.MultiWriter(os.Stderr, f), parseLogLevel(root.Verbose)))
	}
	return env, nil
}

func (e *projectEnv) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(e.dir, path)
}

func (e *projectEnv) close() {
	if e.logFile != nil {
		_ = e.logFile.Close()
	}
}
