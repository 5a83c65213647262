package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedService indicates a service kind with no registered
	// connector.
	ErrUnsupportedService = errors.New("unsupported service")

	// ErrSyncInProgress indicates a run is already active for the
	// connection. Callers must reject new syncs while the active-job marker
	// is set.
	ErrSyncInProgress = errors.New("sync in progress")

	// ErrConnectorValidation indicates connector validation failed.
	// The connection is misconfigured or credentials are invalid.
	ErrConnectorValidation = errors.New("connector validation failed")
)
