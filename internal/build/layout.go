package build

import (
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/bodot/internal/config"
)

// Layout resolves every path a build writes to. Paths in the project record
// are relative to the working directory unless absolute.
type Layout struct {
	base         string
	version      string
	artifactName string
}

// NewLayout computes the layout for the project's current version.
func NewLayout(workDir string, p *config.Project) Layout {
	base := p.EffectiveExportPath()
	if !filepath.IsAbs(base) {
		base = filepath.Join(workDir, base)
	}
	return Layout{
		base:         base,
		version:      p.SemanticVersion(),
		artifactName: p.ExportArtifactName(),
	}
}

// Root is {exportOutputPath}/{semanticVersion}.
func (l Layout) Root() string {
	return filepath.Join(l.base, l.version)
}

// PresetDir is the per-preset output folder.
func (l Layout) PresetDir(slug string) string {
	return filepath.Join(l.Root(), slug)
}

// ArtifactPath is the file handed to the export tool. Windows presets get .exe.
func (l Layout) ArtifactPath(slug string) string {
	name := l.artifactName
	if strings.Contains(slug, "windows") {
		name += ".exe"
	}
	return filepath.Join(l.PresetDir(slug), name)
}

// ArchiveName is {semanticVersion}-{slug}.zip.
func (l Layout) ArchiveName(slug string) string {
	return l.version + "-" + slug + ".zip"
}

// ArchiveStagingPath is where the archive is written before it is moved.
// It sits beside the version root so the zip never contains itself.
func (l Layout) ArchiveStagingPath(slug string) string {
	return filepath.Join(l.base, l.ArchiveName(slug))
}

// ArchivePath is the archive's final location inside the preset folder.
func (l Layout) ArchivePath(slug string) string {
	return filepath.Join(l.PresetDir(slug), l.ArchiveName(slug))
}
