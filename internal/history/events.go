package history

import (
	"context"
	"encoding/json"
	"fmt"
)

// Event type names.
const (
	TypeBuildStarted   = "BuildStarted"
	TypePresetExported = "PresetExported"
	TypeBuildCompleted = "BuildCompleted"
	TypeBuildFailed    = "BuildFailed"
)

// MetaVersion is the metadata key carrying the semantic version of the build.
const MetaVersion = "version"

// BuildStarted is recorded once preconditions passed.
type BuildStarted struct {
	Presets   []string `json:"presets"`
	Overwrite bool     `json:"overwrite"`
	Zip       bool     `json:"zip"`
	Commit    string   `json:"commit,omitempty"`
}

// PresetExported is recorded after each export attempt.
type PresetExported struct {
	Preset     string `json:"preset"`
	Slug       string `json:"slug"`
	ExitCode   int    `json:"exit_code"`
	DurationMS int64  `json:"duration_ms"`
	Artifact   string `json:"artifact"`
	Archive    string `json:"archive,omitempty"`
}

// BuildCompleted is recorded when every preset was processed.
type BuildCompleted struct {
	Presets     int   `json:"presets"`
	Failed      int   `json:"failed"`
	DurationMS  int64 `json:"duration_ms"`
	PatchBumped bool  `json:"patch_bumped"`
}

// BuildFailed is recorded when the run stopped early.
type BuildFailed struct {
	Stage string `json:"stage"`
	Error string `json:"error"`
}

// Recorder appends typed events for one build to a Store.
type Recorder struct {
	store   Store
	buildID string
	version string
}

// NewRecorder binds a store to a build.
func NewRecorder(store Store, buildID, version string) *Recorder {
	if store == nil {
		store = NoopStore{}
	}
	return &Recorder{store: store, buildID: buildID, version: version}
}

// Record marshals payload and appends it under eventType.
func (r *Recorder) Record(ctx context.Context, eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	return r.store.Append(ctx, r.buildID, eventType, data, map[string]string{MetaVersion: r.version})
}

// Decode unmarshals an event payload into out.
func Decode(e Event, out any) error {
	if err := json.Unmarshal(e.Payload, out); err != nil {
		return fmt.Errorf("unmarshal %s payload: %w", e.Type, err)
	}
	return nil
}
