package build

import (
	"time"

	"git.home.luguber.info/inful/bodot/internal/metrics"
	"git.home.luguber.info/inful/bodot/internal/presets"
)

// PresetResult captures what happened to one preset.
type PresetResult struct {
	Preset   presets.Preset
	Artifact string
	Archive  string // empty unless --zip
	ExitCode int
	Attempts int
	Duration time.Duration
	Copied   []string
	Missing  []string
}

// Succeeded reports whether the export exited cleanly.
func (r PresetResult) Succeeded() bool { return r.ExitCode == 0 }

// Report summarizes a build run. It is returned even when Run fails.
type Report struct {
	BuildID     string
	Version     string
	Root        string
	Commit      string
	Presets     []PresetResult
	Stages      map[string]time.Duration
	PatchBumped bool
	Outcome     metrics.BuildOutcomeLabel
	Started     time.Time
	Duration    time.Duration
}

// Failed returns the presets whose export did not succeed.
func (r *Report) Failed() []PresetResult {
	var out []PresetResult
	for _, p := range r.Presets {
		if !p.Succeeded() {
			out = append(out, p)
		}
	}
	return out
}

func (r *Report) addStage(stage string, d time.Duration) {
	if r.Stages == nil {
		r.Stages = make(map[string]time.Duration)
	}
	r.Stages[stage] += d
}
