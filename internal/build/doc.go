// Package build provides the export pipeline that turns a project's presets
// into a versioned release tree.
//
// A run walks the stages preconditions, layout, then export, assets and
// archive once per preset, and finally finalize. All execution paths (CLI,
// tests) route through Builder.Run.
//
// The package also defines sentinel errors for classifying pipeline
// failures. They are wrapped with context at the call site.
package build
