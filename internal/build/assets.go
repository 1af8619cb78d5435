package build

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/otiai10/copy"

	berrors "git.home.luguber.info/inful/bodot/internal/errors"
	"git.home.luguber.info/inful/bodot/internal/logfields"
)

// Asset kinds used as the metrics label for missing post-build assets.
const (
	assetFile      = "file"
	assetDirectory = "directory"
)

func (b *Builder) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(b.opts.WorkDir, path)
}

// copyAssets copies the configured post-build files and directories into the
// preset folder. A missing source is a warning, never a failure.
func (b *Builder) copyAssets(presetDir string, files, dirs []string, res *PresetResult) error {
	for _, file := range files {
		src := b.resolve(file)
		info, err := os.Stat(src)
		if err != nil || info.IsDir() {
			b.missingAsset(assetFile, file, res)
			continue
		}
		dst := filepath.Join(presetDir, filepath.Base(file))
		if err := copy.Copy(src, dst); err != nil {
			return berrors.FileSystemError("copy "+file, err).WithContext("dest", dst)
		}
		b.printer.Success("Copied '" + file + "'")
		res.Copied = append(res.Copied, file)
	}

	for _, dir := range dirs {
		src := b.resolve(dir)
		info, err := os.Stat(src)
		if err != nil || !info.IsDir() {
			b.missingAsset(assetDirectory, dir, res)
			continue
		}
		dst := filepath.Join(presetDir, strings.ReplaceAll(dir, "./", ""))
		opts := copy.Options{
			OnDirExists: func(string, string) copy.DirExistsAction { return copy.Merge },
		}
		if err := copy.Copy(src, dst, opts); err != nil {
			return berrors.FileSystemError("copy "+dir, err).WithContext("dest", dst)
		}
		b.printer.Success("Copied '" + dir + "'")
		res.Copied = append(res.Copied, dir)
	}
	return nil
}

func (b *Builder) missingAsset(kind, path string, res *PresetResult) {
	b.printer.Warn("Cannot copy '" + path + "'. It does not exist.")
	slog.Warn("Post-build asset missing", logfields.Path(path), slog.String("kind", kind))
	b.recorder.IncAssetMissing(kind)
	res.Missing = append(res.Missing, path)
}
