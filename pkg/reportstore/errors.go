package reportstore

import "errors"

var (
	// ErrInvalidPath is returned for empty paths and traversal attempts.
	ErrInvalidPath = errors.New("invalid path")

	// ErrFileNotFound is returned when a stored report does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrDirectoryNotFound is returned when listing a missing directory.
	ErrDirectoryNotFound = errors.New("directory not found")

	// ErrInvalidConfig is returned when a backend lacks required settings.
	ErrInvalidConfig = errors.New("invalid storage configuration")

	ErrFailedToWriteFile       = errors.New("failed to write file")
	ErrFailedToReadFile        = errors.New("failed to read file")
	ErrFailedToDeleteFile      = errors.New("failed to delete file")
	ErrFailedToCreateDirectory = errors.New("failed to create directory")
	ErrFailedToReadDirectory   = errors.New("failed to read directory")

	// ErrNoReports is returned when publishing a batch that never validated
	// any record.
	ErrNoReports = errors.New("batch has no reports")
)
