package dispatch

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"trainctl/pkg/launch"
	"trainctl/pkg/logger"
	"trainctl/pkg/metrics"
)

// DispatchError means the external entry point could not be located or
// started. It is never produced for a trainer that ran and failed.
type DispatchError struct {
	EntryPoint string
	Err        error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("entry point %q: %v", e.EntryPoint, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

// Dispatcher hands a validated run configuration to the external training
// entry point and blocks until it finishes. No retries and no
// launcher-owned timeout: a failed run is surfaced as-is, and cancellation
// belongs to whatever started the launcher (via ctx).
type Dispatcher struct {
	entryPoint string
	baseArgs   []string
	extraEnv   []string
	runner     Runner
	log        *zap.Logger
}

func New(entryPoint string, baseArgs []string, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		entryPoint: entryPoint,
		baseArgs:   baseArgs,
		runner:     NewProcessRunner(),
		log:        logger.Get(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type Option func(*Dispatcher)

// WithRunner swaps the process runner, used by tests.
func WithRunner(r Runner) Option {
	return func(d *Dispatcher) { d.runner = r }
}

// WithEnv appends KEY=VALUE entries to the trainer's environment.
// Tracker settings travel here explicitly instead of being inherited
// ambiently, so a run is reproducible from its configuration alone.
func WithEnv(env ...string) Option {
	return func(d *Dispatcher) { d.extraEnv = append(d.extraEnv, env...) }
}

// Dispatch serializes cfg into the trainer's argv form, starts the
// trainer, and waits. The returned RunResult carries the exit code and
// wall-clock bounds; a non-zero exit is reported in the result, not as
// an error.
func (d *Dispatcher) Dispatch(ctx context.Context, cfg launch.RunConfig) (RunResult, error) {
	args := append(append([]string{}, d.baseArgs...), cfg.Args()...)

	d.log.Info("dispatching training run",
		zap.String("entry_point", d.entryPoint),
		zap.String("output_dir", cfg.String("output-dir")),
		zap.Int("args", len(args)),
	)

	metrics.RunInFlight.Set(1)
	defer metrics.RunInFlight.Set(0)

	result, err := d.runner.Run(ctx, d.entryPoint, args, d.extraEnv)
	if err != nil {
		metrics.RunsTotal.WithLabelValues("dispatch_error").Inc()
		return RunResult{}, err
	}

	outcome := "success"
	if result.ExitCode != 0 {
		outcome = "failed"
	}
	metrics.RecordRun(outcome, result.Duration().Seconds())

	d.log.Info("training run finished",
		zap.Int("exit_code", result.ExitCode),
		zap.Duration("duration", result.Duration()),
	)
	return result, nil
}
