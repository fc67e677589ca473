package dispatch

import (
	"context"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"
)

// RunResult captures the outcome of one external training run.
// Created when the process finishes; immutable thereafter.
type RunResult struct {
	ExitCode   int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration is the wall-clock time the external run took.
func (r RunResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Runner executes a single external process to completion.
type Runner interface {
	// Run starts cmd with args and the extra environment entries, waits
	// for it, and returns the result. A process that ran and exited
	// non-zero is a result, not an error; an error means the process
	// could not be started.
	Run(ctx context.Context, cmd string, args []string, env []string) (RunResult, error)
}

// ProcessRunner runs the trainer as a child process. The child inherits
// the launcher's stdio by default so training output streams live;
// training runs last hours and buffering them would be useless.
type ProcessRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

func NewProcessRunner() *ProcessRunner {
	return &ProcessRunner{Stdout: os.Stdout, Stderr: os.Stderr}
}

func (p *ProcessRunner) Run(ctx context.Context, cmdStr string, args []string, env []string) (RunResult, error) {
	path, err := exec.LookPath(cmdStr)
	if err != nil {
		return RunResult{}, &DispatchError{EntryPoint: cmdStr, Err: err}
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = p.Stdout
	cmd.Stderr = p.Stderr
	cmd.Env = append(os.Environ(), env...)

	// New process group so the whole trainer tree can be signalled
	// together by whatever process manager started us.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return RunResult{}, &DispatchError{EntryPoint: cmdStr, Err: err}
	}

	waitErr := cmd.Wait()
	result := RunResult{
		StartedAt:  start,
		FinishedAt: time.Now(),
	}

	if waitErr != nil {
		if exitErr, ok := waitErr.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, &DispatchError{EntryPoint: cmdStr, Err: waitErr}
	}
	return result, nil
}
