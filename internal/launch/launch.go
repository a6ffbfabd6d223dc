// Package launch starts and supervises the notebook server child process.
package launch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
)

// defaultGracePeriod is how long a terminated child may take to exit
// before it is killed.
const defaultGracePeriod = 10 * time.Second

// JupyterArgs builds the fixed notebook server arguments for container
// use: bind all interfaces, no browser, no token (the platform fronts the
// server with its own authentication).
func JupyterArgs(ip string, port int) []string {
	return []string{
		"notebook",
		"--ip=" + ip,
		"--port=" + strconv.Itoa(port),
		"--no-browser",
		"--NotebookApp.token=",
	}
}

// Server runs one notebook server process with inherited stdio.
type Server struct {
	Bin  string
	Args []string

	// GracePeriod overrides the SIGTERM-to-SIGKILL window.
	GracePeriod time.Duration

	// Stdout and Stderr default to the parent's streams.
	Stdout io.Writer
	Stderr io.Writer

	Logger *slog.Logger
}

// Run starts the server and blocks until it exits or the context is
// cancelled. On cancellation the child receives SIGTERM and, after the
// grace period, SIGKILL. The child's exit error is returned as-is; use
// ExitCode to map it to a process exit status.
func (s *Server) Run(ctx context.Context) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cmd := exec.Command(s.Bin, s.Args...)
	cmd.Stdout = s.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = s.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	runID := uuid.NewString()
	logger.Info("starting notebook server", "run_id", runID, "bin", s.Bin, "args", s.Args)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", s.Bin, err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		logger.Info("notebook server exited", "run_id", runID, "code", ExitCode(err))
		return err
	case <-ctx.Done():
	}

	logger.Info("terminating notebook server", "run_id", runID)
	_ = cmd.Process.Signal(syscall.SIGTERM)

	grace := s.GracePeriod
	if grace <= 0 {
		grace = defaultGracePeriod
	}
	timer := time.NewTimer(grace)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-timer.C:
		logger.Warn("grace period elapsed, killing notebook server", "run_id", runID)
		_ = cmd.Process.Kill()
		return <-done
	}
}

// ExitCode derives a process exit code from a wait error. Children killed
// by a signal report code 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code := exitErr.ExitCode(); code >= 0 {
			return code
		}
	}
	return 1
}
