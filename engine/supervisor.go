// Package engine supervises the QuickSeed worker process: it allocates a
// port, launches the executable, polls its health endpoint until ready and
// tears the whole process group down deterministically.
package engine

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/quickplay-cli/quickplay/key"
	"github.com/quickplay-cli/quickplay/log"
	"github.com/quickplay-cli/quickplay/network"
	"github.com/quickplay-cli/quickplay/status"
	"github.com/spf13/viper"
)

// Supervisor owns the lifecycle of the engine process. All mutation of the
// process handle happens here; other components only read the base URL and
// the health state.
type Supervisor struct {
	path string
	sink status.Sink

	// Health probe and teardown tuning. Settable before Start.
	ProbeInterval time.Duration
	ProbeAttempts int
	StopGrace     time.Duration

	allocate func() (int, error)

	mu      sync.Mutex
	cmd     *exec.Cmd
	exited  chan struct{} // closed when the engine process exits
	port    int
	baseURL string
	healthy bool
}

// New creates a supervisor for the engine executable at path.
// Reports go to sink; pass nil to route them to the log layer.
func New(path string, sink status.Sink) *Supervisor {
	if sink == nil {
		sink = status.Log{}
	}

	interval := time.Duration(viper.GetInt(key.EngineHealthInterval)) * time.Second
	if interval <= 0 {
		interval = time.Second
	}
	attempts := viper.GetInt(key.EngineHealthAttempts)
	if attempts <= 0 {
		attempts = 30
	}
	grace := time.Duration(viper.GetInt(key.EngineStopGrace)) * time.Second
	if grace <= 0 {
		grace = 5 * time.Second
	}

	return &Supervisor{
		path:          path,
		sink:          sink,
		ProbeInterval: interval,
		ProbeAttempts: attempts,
		StopGrace:     grace,
		allocate:      AllocatePort,
	}
}

// Start brings the engine up and blocks until it answers its health endpoint.
// A supervisor that is already running treats Start as a successful no-op.
// The port is only allocated after the executable has been verified to exist.
func (s *Supervisor) Start(ctx context.Context) error {
	if s.IsRunning() {
		s.sink.Status("Engine already running")
		return nil
	}

	if _, err := os.Stat(s.path); err != nil {
		s.sink.Status(fmt.Sprintf("Engine binary not found at: %s", s.path))
		return fmt.Errorf("%w: %s", ErrEngineMissing, s.path)
	}

	port, err := s.allocate()
	if err != nil {
		s.sink.Status("No free port available for the engine")
		return err
	}

	cmd := exec.Command(s.path, "--port", strconv.Itoa(port))
	cmd.SysProcAttr = sysProcAttr()
	cmd.Stdout = logWriter{}
	cmd.Stderr = logWriter{}
	cmd.Stdin = nil

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start engine: %w", err)
	}

	// Reap the process to prevent zombies and expose liveness.
	exited := make(chan struct{})
	go func() {
		_ = cmd.Wait()
		close(exited)
	}()

	s.mu.Lock()
	s.cmd = cmd
	s.exited = exited
	s.port = port
	s.baseURL = fmt.Sprintf("http://127.0.0.1:%d", port)
	s.healthy = false
	s.mu.Unlock()

	if err := s.awaitHealthy(ctx, exited); err != nil {
		s.Stop()
		return err
	}

	s.mu.Lock()
	s.healthy = true
	s.mu.Unlock()

	s.sink.Status(fmt.Sprintf("Engine started on port %d", port))
	log.Infof("engine healthy on port %d (pid %d)", port, cmd.Process.Pid)
	return nil
}

// awaitHealthy polls GET /health at fixed intervals until the engine answers,
// the configured attempts are exhausted, the process dies or ctx is cancelled.
func (s *Supervisor) awaitHealthy(ctx context.Context, exited <-chan struct{}) error {
	url := s.BaseURL() + "/health"

	for attempt := 0; attempt < s.ProbeAttempts; attempt++ {
		if s.probe(ctx, url) {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-exited:
			return fmt.Errorf("%w: engine exited during startup", ErrStartupTimeout)
		case <-time.After(s.ProbeInterval):
		}
	}

	return ErrStartupTimeout
}

func (s *Supervisor) probe(ctx context.Context, url string) bool {
	ctx, cancel := context.WithTimeout(ctx, s.ProbeInterval)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}

	resp, err := network.Client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}

// Stop tears the engine down: graceful signal to the process group, bounded
// wait, then force-kill. The handle is released on every path, so Stop is
// idempotent and safe to call on a supervisor that never started.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	cmd := s.cmd
	exited := s.exited
	s.cmd = nil
	s.exited = nil
	s.healthy = false
	s.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return
	}

	terminateProcess(cmd)

	select {
	case <-exited:
	case <-time.After(s.StopGrace):
		_ = killProcess(cmd)
		select {
		case <-exited:
		case <-time.After(time.Second):
		}
	}

	s.sink.Status("Engine stopped")
	log.Infof("engine stopped (pid %d)", cmd.Process.Pid)
}

// IsRunning re-checks process liveness on every call; it never reports a
// cached success.
func (s *Supervisor) IsRunning() bool {
	s.mu.Lock()
	cmd := s.cmd
	exited := s.exited
	s.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return false
	}

	select {
	case <-exited:
		return false
	default:
	}

	return processAlive(cmd)
}

// Healthy reports whether the engine passed its startup health check and the
// process is still alive.
func (s *Supervisor) Healthy() bool {
	s.mu.Lock()
	healthy := s.healthy
	s.mu.Unlock()

	return healthy && s.IsRunning()
}

// BaseURL returns the engine's HTTP endpoint address.
func (s *Supervisor) BaseURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baseURL
}

// Port returns the port assigned to the engine for this run.
func (s *Supervisor) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

// logWriter captures the engine's standard streams into the debug log.
type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	log.Debugf("engine: %s", strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
