package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *BodotError {
	return New(CategoryPrecondition, SeverityFatal, "No config found in current directory").
		WithContext("path", path)
}

func ConfigWriteFailed(path string, cause error) *BodotError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "failed to write configuration").
		WithContext("path", path)
}

func ConfigUnreadable(path string, cause error) *BodotError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration file cannot be parsed; fix or remove it").
		WithContext("path", path)
}

// User input errors

func MissingArgument(name string) *BodotError {
	return New(CategoryValidation, SeverityError, "missing config "+name).
		WithContext("argument", name)
}

func UnknownSetting(name string) *BodotError {
	return New(CategoryValidation, SeverityError, "'"+name+"' is not configurable or it doesn't exist").
		WithContext("setting", name)
}

func InvalidValue(setting, value, reason string) *BodotError {
	return New(CategoryValidation, SeverityError, "invalid value '"+value+"' for "+setting+": "+reason).
		WithContext("setting", setting).
		WithContext("value", value)
}

// Build preconditions

func PresetsFileNotFound(path string) *BodotError {
	return New(CategoryPrecondition, SeverityFatal,
		"No export_presets.cfg in current directory. Please configure exports in the godot editor").
		WithContext("path", path)
}

func NoPresetsFound(cause error) *BodotError {
	return Wrap(cause, CategoryPrecondition, SeverityFatal,
		"No export presets could be found. Please configure exports in the godot editor")
}

func OutputExists(root string) *BodotError {
	return New(CategoryPrecondition, SeverityFatal,
		"Build directory "+root+" already exists. Please use the --overwrite option to explicitly overwrite build").
		WithContext("root", root)
}

// Engine errors

func EngineNotFound(path string, cause error) *BodotError {
	return Wrap(cause, CategoryEngine, SeverityFatal, "export tool could not be launched").
		WithContext("engine", path)
}

func ExportFailed(preset string, exitCode int) *BodotError {
	return New(CategoryEngine, SeverityFatal, "export failed for preset "+preset).
		WithContext("preset", preset).
		WithContext("exit_code", exitCode)
}

// Build pipeline errors

func FileSystemError(operation string, cause error) *BodotError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "filesystem operation failed").
		WithContext("operation", operation)
}
