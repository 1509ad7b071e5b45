package artifact

import "errors"

// Error definitions for the artifact package.
var (
	ErrNotFound    = errors.New("artifact not found")
	ErrInvalidName = errors.New("invalid artifact name")
)
