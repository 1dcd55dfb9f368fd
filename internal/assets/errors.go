package assets

import "errors"

// Sentinel errors for asset operations.
var (
	// ErrScriptNotFound indicates the requested script does not exist.
	ErrScriptNotFound = errors.New("script not found")

	// ErrPageNotFound indicates the requested page does not exist.
	ErrPageNotFound = errors.New("page not found")

	// ErrInvalidAssetName indicates the asset name contains invalid characters
	// such as path separators or traversal sequences.
	ErrInvalidAssetName = errors.New("invalid asset name")

	// ErrPageRender indicates a page template failed to execute.
	ErrPageRender = errors.New("failed to render page")
)
