package backend

import "errors"

// Error definitions for the backend package.
var (
	ErrBinaryNotFound = errors.New("synthesis binary not found")
	ErrEnvFile        = errors.New("failed to load synthesis environment file")
)
