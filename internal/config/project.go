package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/mitchellh/go-homedir"
)

// Project is the persisted per-project configuration record (bodot.config).
type Project struct {
	ProjectName        string  `yaml:"projectName"`
	MajorVersion       string  `yaml:"majorVersion"`
	MinorVersion       string  `yaml:"minorVersion"`
	PatchVersion       string  `yaml:"patchVersion"`
	MetaVersion        *string `yaml:"metaVersion,omitempty"`
	AutoIncrementPatch bool    `yaml:"autoIncrementPatch"`
	UseLog             bool    `yaml:"useLog"`
	EngineBinaryPath   string  `yaml:"engineBinaryPath"`
	ExportOutputPath   string  `yaml:"exportOutputPath"`

	FilesToCopyPostBuild       []string `yaml:"filesToCopyPostBuild,omitempty"`
	DirectoriesToCopyPostBuild []string `yaml:"directoriesToCopyPostBuild,omitempty"`

	// ContinueOnExportFailure keeps exporting remaining presets after a failed export.
	ContinueOnExportFailure bool   `yaml:"continueOnExportFailure,omitempty"`
	ExportTimeout           string `yaml:"exportTimeout,omitempty"` // Go duration, empty = unbounded
	ExportRetries           int    `yaml:"exportRetries,omitempty"`
	ExportRetryBackoff      string `yaml:"exportRetryBackoff,omitempty"` // fixed|linear|exponential

	HistoryFile string       `yaml:"historyFile,omitempty"`
	Notify      NotifyConfig `yaml:"notify,omitempty"`

	// process-only overrides from the environment, never persisted
	envEnginePath string
	envExportPath string
}

// NotifyConfig configures build-completion notifications.
type NotifyConfig struct {
	NATSURL string `yaml:"natsUrl,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// DefaultNotifySubject is used when notify.natsUrl is set without a subject.
const DefaultNotifySubject = "bodot.builds"

// Default returns a fresh record with default values.
func Default() *Project {
	return &Project{
		MajorVersion:       "0",
		MinorVersion:       "0",
		PatchVersion:       "0",
		AutoIncrementPatch: true,
	}
}

// normalize restores the version-part invariants after decoding hand-edited files.
func (p *Project) normalize() {
	if p.MajorVersion == "" {
		p.MajorVersion = "0"
	}
	if p.MinorVersion == "" {
		p.MinorVersion = "0"
	}
	if p.PatchVersion == "" {
		p.PatchVersion = "0"
	}
}

// SemanticVersion renders {major}.{minor}.{patch}[-{meta}].
func (p *Project) SemanticVersion() string {
	v := p.MajorVersion + "." + p.MinorVersion + "." + p.PatchVersion
	if p.MetaVersion != nil && *p.MetaVersion != "" {
		v += "-" + *p.MetaVersion
	}
	return v
}

// ExportArtifactName is the base filename of every exported artifact.
func (p *Project) ExportArtifactName() string {
	return p.ProjectName + "v" + p.SemanticVersion()
}

// IncrementPatch adds amount to the patch component. An unparsable patch counts as 0.
func (p *Project) IncrementPatch(amount int) {
	n, err := strconv.Atoi(p.PatchVersion)
	if err != nil {
		n = 0
	}
	p.PatchVersion = strconv.Itoa(n + amount)
}

// ValidateVersion reports whether SemanticVersion is a strict semantic version.
func (p *Project) ValidateVersion() error {
	if _, err := semver.StrictNewVersion(p.SemanticVersion()); err != nil {
		return fmt.Errorf("invalid semantic version %q: %w", p.SemanticVersion(), err)
	}
	return nil
}

// EffectiveEnginePath is the engine path after environment overrides.
func (p *Project) EffectiveEnginePath() string {
	if p.envEnginePath != "" {
		return p.envEnginePath
	}
	return p.EngineBinaryPath
}

// EffectiveExportPath is the export output path after environment overrides.
func (p *Project) EffectiveExportPath() string {
	if p.envExportPath != "" {
		return p.envExportPath
	}
	return p.ExportOutputPath
}

// ResolveEnginePath returns the effective engine binary path with a leading ~ expanded.
func (p *Project) ResolveEnginePath() (string, error) {
	path := p.EffectiveEnginePath()
	if path == "" {
		return "", nil
	}
	return homedir.Expand(path)
}

// ExportTimeoutDuration parses ExportTimeout; empty means no timeout.
func (p *Project) ExportTimeoutDuration() (time.Duration, error) {
	if p.ExportTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(p.ExportTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid exportTimeout %q: %w", p.ExportTimeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid exportTimeout %q: must not be negative", p.ExportTimeout)
	}
	return d, nil
}

// NotifySubject returns the configured subject or the default.
func (p *Project) NotifySubject() string {
	if p.Notify.Subject == "" {
		return DefaultNotifySubject
	}
	return p.Notify.Subject
}
