package export

import "errors"

var (
	// ErrNotFound marks an input path that does not exist at all.
	ErrNotFound = errors.New("export not found")
	// ErrBadArchive marks an input file that is not a readable zip archive.
	ErrBadArchive = errors.New("invalid export archive")
	// ErrMissingEntry marks a referenced entry that is absent from the export.
	ErrMissingEntry = errors.New("entry missing from export")
)
