package build

import "errors"

// Stage names used for metrics labels, history events and log attributes.
const (
	StagePreconditions = "preconditions"
	StageLayout        = "layout"
	StageExport        = "export"
	StageAssets        = "assets"
	StageArchive       = "archive"
	StageFinalize      = "finalize"
)

// ErrExportFailed marks a build in which at least one preset did not export.
var ErrExportFailed = errors.New("bodot: export failed")
