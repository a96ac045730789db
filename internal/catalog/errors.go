package catalog

import "errors"

var (
	// ErrDuplicate signals that a source file's content already exists
	// somewhere under the destination root. No file is written.
	ErrDuplicate = errors.New("duplicate of existing file")

	// ErrNotDirectory indicates a path that must be a directory is
	// something else.
	ErrNotDirectory = errors.New("not a directory")

	// ErrTransferFailed indicates the copy or move of a single file
	// failed. The source file is left untouched.
	ErrTransferFailed = errors.New("transfer failed")
)
