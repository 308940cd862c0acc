package apperr

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// ErrDraft marks a note that is deliberately left unpublished.
	ErrDraft = errors.New("draft post")
	// ErrVaultMissing is fatal: the configured blog folder does not exist.
	ErrVaultMissing = errors.New("blog folder not found")
	// ErrBuildFailed means at least one note could not be converted.
	ErrBuildFailed = errors.New("build failed")
)
