package engine

import (
	"fmt"
	"net"
)

// AllocatePort binds an ephemeral local listener so the operating system
// assigns a free port, then releases it immediately for the engine to claim.
func AllocatePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrNoPortAvailable, err)
	}
	defer l.Close()

	return l.Addr().(*net.TCPAddr).Port, nil
}
