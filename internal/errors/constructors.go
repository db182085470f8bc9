package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *BuildError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func TemplateMissing(kind, path string) *BuildError {
	return New(CategoryConfig, SeverityFatal, "required template not found").
		WithContext("template", kind).
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *BuildError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Build pipeline errors

func BuildFailed(stage string, cause error) *BuildError {
	return Wrap(cause, CategoryRender, SeverityFatal, "build failed").
		WithContext("stage", stage)
}

func WorkspaceError(operation string, cause error) *BuildError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "workspace operation failed").
		WithContext("operation", operation)
}

// Source acquisition errors

func CloneError(repo string, cause error) *BuildError {
	return Wrap(cause, CategorySource, SeverityFatal, "repository clone failed").
		WithContext("repository", repo)
}

func CloneAuthError(repo string, cause error) *BuildError {
	return Wrap(cause, CategorySource, SeverityFatal, "git authentication failed").
		WithContext("repository", repo)
}

func SourceNotFound(path string) *BuildError {
	return New(CategorySource, SeverityFatal, "source tree not found").
		WithContext("path", path)
}

// Internal errors

func InternalError(message string, cause error) *BuildError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
