package preview

import "errors"

// Sentinel errors for preview operations.
var (
	// ErrNoWatchDirs indicates a Watcher was configured without directories.
	ErrNoWatchDirs = errors.New("no directories to watch")

	// ErrWatch indicates the file watcher could not be started.
	ErrWatch = errors.New("cannot watch files")

	// ErrNoRenderer indicates a Server was configured without a render function.
	ErrNoRenderer = errors.New("render function is required")
)
