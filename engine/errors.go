package engine

import "errors"

// Failure taxonomy for engine start attempts. Each is fatal only to the
// attempt that produced it; the supervisor returns to idle and Start may be
// retried.
var (
	// ErrEngineMissing indicates the worker executable does not exist at the configured path.
	ErrEngineMissing = errors.New("engine executable not found")

	// ErrNoPortAvailable indicates no ephemeral port could be bound for the worker.
	ErrNoPortAvailable = errors.New("no free port available")

	// ErrStartupTimeout indicates the worker never answered its health endpoint.
	ErrStartupTimeout = errors.New("engine did not become healthy in time")
)
