package core

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"syscall"

	"github.com/dlowe-net/repeat/internal/clock"
	"github.com/dlowe-net/repeat/internal/config"
)

// Runner drives the invocation loop for a resolved RunConfig: launch
// the command, evaluate stop conditions, wait out the interval, repeat.
// Invocations are strictly sequential; the runner blocks while the
// child runs.
type Runner struct {
	cfg    *config.RunConfig
	logger *slog.Logger

	// Streams inherited by every child. Tests substitute buffers here;
	// New wires up the process streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// New creates a runner whose children inherit the process streams.
func New(cfg *config.RunConfig, logger *slog.Logger) *Runner {
	return &Runner{
		cfg:    cfg,
		logger: logger,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run invokes the command until a stop condition fires and returns the
// exit code the process should report. A non-nil error means the child
// could not be launched at all; the loop does not continue past it.
func (r *Runner) Run() (int, error) {
	remaining := r.cfg.Times

	var deadline clock.Stamp
	if r.cfg.Precise {
		// Schedule origin. Every precise-mode deadline is an exact
		// multiple of the interval past this single reading, so cadence
		// cannot drift with command execution time.
		deadline = clock.Now()
	}

	for {
		if r.cfg.Precise {
			deadline = deadline.Add(r.cfg.Interval)
		}

		outcome, err := r.invoke()
		if err != nil {
			return 1, err
		}
		r.logger.Debug("command finished",
			"signaled", outcome.Signaled,
			"code", outcome.Code())

		if outcome.Interrupted() {
			return 0, nil
		}
		if r.cfg.StopOnError && outcome.Code() != 0 {
			return outcome.Code(), nil
		}
		if r.cfg.StopOnSuccess && outcome.Code() == 0 {
			return 0, nil
		}
		if remaining > 0 {
			remaining--
			if remaining == 0 {
				return outcome.Code(), nil
			}
		}

		if !r.cfg.Interval.IsZero() {
			if !r.cfg.Precise {
				deadline = clock.Now().Add(r.cfg.Interval)
			}
			clock.SleepUntil(deadline)
		}
	}
}

// invoke launches one child and blocks until it terminates. An error
// return means the launch itself failed; anything the child does after
// starting comes back as an Outcome.
func (r *Runner) invoke() (Outcome, error) {
	cmd := r.command()
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	err := cmd.Run()
	if err == nil {
		return Outcome{}, nil
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return Outcome{}, fmt.Errorf("couldn't run command: %w", err)
	}
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return Outcome{Signaled: true, Signal: ws.Signal()}, nil
	}
	return Outcome{ExitCode: exitErr.ExitCode()}, nil
}

func (r *Runner) command() *exec.Cmd {
	if r.cfg.Mode == config.Direct {
		return exec.Command(r.cfg.Argv[0], r.cfg.Argv[1:]...) // #nosec G204
	}
	if runtime.GOOS == "windows" {
		return exec.Command("cmd", "/C", r.cfg.ShellCommand) // #nosec G204
	}
	return exec.Command(r.cfg.Shell, "-c", r.cfg.ShellCommand) // #nosec G204
}
