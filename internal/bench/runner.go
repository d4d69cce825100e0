// Package bench runs a task's benchmark command and extracts its running time.
package bench

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

var (
	ErrNoCommand = errors.New("no benchmark command configured")
	ErrTimeout   = errors.New("command timed out")
	ErrNoTime    = errors.New("benchmark printed no running time")
)

// waitDelay bounds how long output pipes may stay open after the process is killed.
const waitDelay = 2 * time.Second

type Runner struct {
	Dir string
}

func NewRunner(dir string) *Runner {
	return &Runner{Dir: dir}
}

// BenchmarkEnv is set in the environment of timed runs so benchmark programs
// can tell a timed run from a plain test run.
const BenchmarkEnv = "SEMLA_BENCHMARK=1"

// Run executes command with a wall-clock bound and returns the last number
// printed on stdout, in seconds.
func (r *Runner) Run(ctx context.Context, command []string, timeout time.Duration) (float64, error) {
	out, err := r.exec(ctx, command, timeout, BenchmarkEnv)
	if err != nil {
		return 0, err
	}
	return ParseTime(out)
}

// Check executes command with a wall-clock bound and only requires it to succeed.
// Test programs are run this way before timing.
func (r *Runner) Check(ctx context.Context, command []string, timeout time.Duration) error {
	_, err := r.exec(ctx, command, timeout)
	return err
}

func (r *Runner) exec(ctx context.Context, command []string, timeout time.Duration, env ...string) (string, error) {
	if len(command) == 0 {
		return "", ErrNoCommand
	}
	if _, err := exec.LookPath(command[0]); err != nil {
		return "", fmt.Errorf("%s not found: %w", command[0], err)
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Dir = r.Dir
	cmd.WaitDelay = waitDelay
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w after %s", ErrTimeout, timeout)
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%s failed: %w: %s", command[0], err, strings.TrimSpace(stderr.String()))
	}
	return out.String(), nil
}

// ParseTime returns the last token of output that parses as a positive number.
func ParseTime(output string) (float64, error) {
	fields := strings.Fields(output)
	for i := len(fields) - 1; i >= 0; i-- {
		token := strings.TrimSuffix(fields[i], "s")
		v, err := strconv.ParseFloat(token, 64)
		if err == nil && v > 0 && !math.IsInf(v, 0) {
			return v, nil
		}
	}
	return 0, ErrNoTime
}
