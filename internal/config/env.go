package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Environment overrides applied on top of the loaded record. They are never persisted.
const (
	EnvEnginePath = "BODOT_ENGINE_PATH"
	EnvExportPath = "BODOT_EXPORT_PATH"
	EnvLogLevel   = "BODOT_LOG_LEVEL"
)

// LoadDotEnv loads .env and .env.local from dir. Existing process variables win.
func LoadDotEnv(dir string) {
	for _, name := range []string{".env", ".env.local"} {
		path := filepath.Join(dir, name)
		if err := godotenv.Load(path); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				slog.Warn("Failed to load environment file", "path", path, "error", err)
			}
			continue
		}
		slog.Debug("Loaded environment variables", "path", path)
	}
}

// ApplyEnv records engine and export path overrides from BODOT_* variables.
// Save never writes them back.
func ApplyEnv(p *Project) {
	p.envEnginePath = os.Getenv(EnvEnginePath)
	p.envExportPath = os.Getenv(EnvExportPath)
}
