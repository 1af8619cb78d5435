// Package engine runs the external export tool once per preset.
package engine

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	// ErrEngineNotFound indicates the export tool could not be located or launched.
	ErrEngineNotFound = errors.New("export tool not found")
	// ErrExportFailed indicates the export tool exited with a non-zero status.
	ErrExportFailed = errors.New("export failed")
)

// ExportRequest identifies one export invocation.
type ExportRequest struct {
	EnginePath string
	Preset     string
	OutputPath string
}

// ExportResult is what the runner observed. Interpreting ExitCode is the caller's job.
type ExportResult struct {
	ExitCode int
	Duration time.Duration
}

// Runner abstracts how an export is performed so the build pipeline can be
// exercised without the engine installed.
//
// Contract:
//
//	RunExport blocks until the export finished. A non-zero exit is reported
//	through ExportResult.ExitCode with a nil error; a returned error wrapping
//	ErrEngineNotFound means no export can run at all.
type Runner interface {
	RunExport(ctx context.Context, req ExportRequest) (ExportResult, error)
}

// Checker is implemented by runners that can verify the engine before any
// export starts, so a bad path fails the build without touching the output tree.
type Checker interface {
	CheckEngine(path string) error
}

// Args returns the fixed argument shape passed to the export tool.
// Quotes kept on preset names from the descriptor are dropped since the
// arguments are passed without a shell.
func Args(req ExportRequest) []string {
	return []string{"--export", "--no-window", strings.Trim(req.Preset, `"`), req.OutputPath}
}
