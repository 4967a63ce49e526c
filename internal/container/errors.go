package container

import "errors"

// Error kinds surfaced by the container reader. All are non-fatal to the
// reader itself; callers decide whether a missing document matters.
var (
	ErrArchiveOpen       = errors.New("archive open error")
	ErrFileFind          = errors.New("file find error")
	ErrReadContent       = errors.New("read content error")
	ErrInvalidUtf8       = errors.New("invalid utf-8 error")
	ErrMissingManifest   = errors.New("missing manifest")
	ErrAnimationNotFound = errors.New("animation not found")
)
