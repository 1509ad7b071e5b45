package job

import "errors"

// Error definitions for the job package.
var (
	ErrNotFound = errors.New("job not found")
)
