package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	// ErrArtifactUpload is returned when storing a proposal PDF fails.
	// The underlying transport error is joined so callers can inspect both.
	ErrArtifactUpload = errors.New("artifact upload failed")

	// ErrArtifactList is returned when listing proposal PDFs fails
	ErrArtifactList = errors.New("artifact list failed")

	// ErrArtifactDelete is returned when deleting a proposal PDF fails
	ErrArtifactDelete = errors.New("artifact delete failed")
)
