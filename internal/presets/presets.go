// Package presets reads the export preset names declared in the engine's
// export_presets.cfg and derives a filesystem-safe slug for each one.
package presets

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FileName is the descriptor written by the engine editor, resolved against the working directory.
const FileName = "export_presets.cfg"

// ErrNoPresetsFound is returned when the descriptor declares no user-facing presets.
var ErrNoPresetsFound = errors.New("no export presets found")

// Preset pairs a preset name, exactly as the engine expects it, with its slug.
type Preset struct {
	Name string
	Slug string
}

// Read extracts presets from descriptor lines in order. A candidate line
// contains "name=" and no underscore; the value is the second "="-separated
// field. Surrounding quotes are kept on Name and only stripped from Slug.
func Read(lines []string) ([]Preset, error) {
	var out []Preset
	for _, line := range lines {
		if !strings.Contains(line, "name=") || strings.Contains(line, "_") {
			continue
		}
		fields := strings.Split(line, "=")
		if len(fields) < 2 || fields[1] == "" {
			continue
		}
		out = append(out, Preset{Name: fields[1], Slug: Slugify(fields[1])})
	}
	if len(out) == 0 {
		return nil, ErrNoPresetsFound
	}
	return out, nil
}

// ReadFile reads the descriptor at path and applies Read. Lines may be of
// any length and may end in CRLF.
func ReadFile(path string) ([]Preset, error) {
	// #nosec G304 -- descriptor path is resolved from the project directory
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read presets: %w", err)
	}
	lines := strings.Split(string(data), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return Read(lines)
}

// Slugify lowercases name, turns spaces into hyphens, drops double quotes and
// turns forward slashes into hyphens, in that order.
func Slugify(name string) string {
	s := cases.Lower(language.Und).String(name)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "\"", "")
	return strings.ReplaceAll(s, "/", "-")
}

// Names returns the preset names in order.
func Names(ps []Preset) []string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.Name
	}
	return names
}
