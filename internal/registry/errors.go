package registry

import "errors"

var (
	// ErrNameRequired and ErrHostRequired reject registrations missing the
	// two mandatory fields (after trimming).
	ErrNameRequired = errors.New("server name must not be empty")
	ErrHostRequired = errors.New("server host must not be empty")

	// ErrNotFound reports an id that is not in the registry.
	ErrNotFound = errors.New("server not found")

	// ErrPersist wraps failures to write the registry document back to disk.
	ErrPersist = errors.New("failed to persist registry")
)
