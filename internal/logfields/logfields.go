package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPreset     = "preset"
	KeySlug       = "slug"
	KeyVersion    = "version"
	KeyPath       = "path"
	KeyExitCode   = "exit_code"
	KeyAttempt    = "attempt"
	KeySetting    = "setting"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Preset(p string) slog.Attr       { return slog.String(KeyPreset, p) }
func Slug(s string) slog.Attr         { return slog.String(KeySlug, s) }
func Version(v string) slog.Attr      { return slog.String(KeyVersion, v) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func ExitCode(c int) slog.Attr        { return slog.Int(KeyExitCode, c) }
func Attempt(n int) slog.Attr         { return slog.Int(KeyAttempt, n) }
func Setting(s string) slog.Attr      { return slog.String(KeySetting, s) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
