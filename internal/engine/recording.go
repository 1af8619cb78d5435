package engine

import (
	"context"
	"os"
	"path/filepath"
	"sync"
)

// RecordingRunner records invocations instead of launching a process. It
// writes a small placeholder at OutputPath so later pipeline steps see an
// artifact, and returns the exit code configured for the preset.
type RecordingRunner struct {
	mu        sync.Mutex
	Calls     []ExportRequest
	ExitCodes map[string]int   // keyed by preset name
	Errors    map[string]error // keyed by preset name
}

func (r *RecordingRunner) RunExport(_ context.Context, req ExportRequest) (ExportResult, error) {
	r.mu.Lock()
	r.Calls = append(r.Calls, req)
	code := r.ExitCodes[req.Preset]
	err := r.Errors[req.Preset]
	r.mu.Unlock()

	if err != nil {
		return ExportResult{}, err
	}
	if code == 0 && req.OutputPath != "" {
		if mkErr := os.MkdirAll(filepath.Dir(req.OutputPath), 0o755); mkErr != nil {
			return ExportResult{}, mkErr
		}
		if wErr := os.WriteFile(req.OutputPath, []byte("exported "+req.Preset+"\n"), 0o644); wErr != nil {
			return ExportResult{}, wErr
		}
	}
	return ExportResult{ExitCode: code}, nil
}

// Invocations returns a copy of the recorded requests.
func (r *RecordingRunner) Invocations() []ExportRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ExportRequest, len(r.Calls))
	copy(out, r.Calls)
	return out
}
