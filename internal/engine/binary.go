package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

// BinaryRunner invokes the engine executable at ExportRequest.EnginePath.
// Deadlines come from the caller's context.
type BinaryRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewBinaryRunner streams the engine's output to the process stdout/stderr.
func NewBinaryRunner() *BinaryRunner {
	return &BinaryRunner{Stdout: os.Stdout, Stderr: os.Stderr}
}

// CheckEngine reports ErrEngineNotFound unless path names an existing file.
func (b *BinaryRunner) CheckEngine(path string) error {
	if path == "" {
		return fmt.Errorf("%w: engine path is not configured", ErrEngineNotFound)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEngineNotFound, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrEngineNotFound, path)
	}
	return nil
}

func (b *BinaryRunner) RunExport(ctx context.Context, req ExportRequest) (ExportResult, error) {
	if err := b.CheckEngine(req.EnginePath); err != nil {
		return ExportResult{}, err
	}

	args := Args(req)
	// #nosec G204 -- engine path comes from the project configuration
	cmd := exec.CommandContext(ctx, req.EnginePath, args...)
	cmd.Stdout = b.Stdout
	cmd.Stderr = b.Stderr
	slog.Debug("Invoking export tool", "engine", req.EnginePath, "args", args)

	start := time.Now()
	err := cmd.Run()
	res := ExportResult{Duration: time.Since(start)}
	if err == nil {
		return res, nil
	}

	if ctx.Err() != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		}
		return res, fmt.Errorf("%w: %w", ErrExportFailed, ctx.Err())
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	return res, fmt.Errorf("%w: %w", ErrEngineNotFound, err)
}
