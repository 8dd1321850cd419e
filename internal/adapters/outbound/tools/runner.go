// Package tools adapts the external Python analyzers (radon, bandit, ruff)
// and a small built-in linter to the domain ports.
package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"sync"
	"time"
)

var errTimeout = errors.New("timed out")

// runner executes one external command-line tool. The binary is resolved
// once at construction; a missing binary makes every run a no-op.
type runner struct {
	name    string
	bin     string
	timeout time.Duration
	logger  *slog.Logger
	absent  sync.Once
}

func newRunner(name string, timeoutSeconds int, logger *slog.Logger) *runner {
	if logger == nil {
		logger = slog.Default()
	}
	if timeoutSeconds <= 0 {
		timeoutSeconds = 30
	}
	r := &runner{
		name:    name,
		timeout: time.Duration(timeoutSeconds) * time.Second,
		logger:  logger,
	}
	if path, err := exec.LookPath(name); err == nil {
		r.bin = path
	}
	return r
}

func (r *runner) available() bool {
	if r.bin == "" {
		r.absent.Do(func() {
			r.logger.Warn("tool not installed, skipping", "tool", r.name)
		})
		return false
	}
	return true
}

// run executes the tool and returns its stdout. A non-zero exit status is
// not an error as long as the tool wrote something: linters exit 1 when
// they report findings.
func (r *runner) run(ctx context.Context, args ...string) ([]byte, error) {
	if !r.available() {
		return nil, fmt.Errorf("%s not installed", r.name)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.bin, args...)
	out, err := cmd.Output()
	if ctx.Err() == context.DeadlineExceeded {
		r.logger.Warn("tool timed out", "tool", r.name, "timeout", r.timeout)
		return nil, errTimeout
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(out) > 0 {
			return out, nil
		}
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return out, nil
		}
		r.logger.Warn("tool failed", "tool", r.name, "error", err)
		return nil, err
	}
	return out, nil
}
