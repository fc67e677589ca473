package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	config "trainctl/configs"
	"trainctl/pkg/dispatch"
	"trainctl/pkg/fetch"
	"trainctl/pkg/history"
	"trainctl/pkg/launch"
	"trainctl/pkg/logger"
	"trainctl/pkg/metrics"
	tracing "trainctl/pkg/observability"
	"trainctl/pkg/preflight"
	"trainctl/pkg/schema"
	"trainctl/pkg/status"
)

// Launcher exit codes. The external trainer's exit code passes through
// verbatim, so the reserved codes stay distinguishable from a training
// failure only by convention: 2 is configuration, 3 is everything that
// kept the trainer from starting.
const (
	exitConfigError   = 2
	exitDispatchError = 3
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.LoadConfig()
	if _, err := logger.Init(logger.Config{
		Level:      cfg.LogLevel,
		Encoding:   "console",
		OutputPath: "stderr",
		Service:    "trainctl",
	}); err != nil {
		logger.Fatal("failed to initialize logger", zap.Error(err))
	}
	defer logger.Sync()

	// Cancellation is delegated to whatever started us: a signal tears
	// down the trainer's process group via the command context.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.Init(ctx, tracing.Config{
		ServiceName: "trainctl",
		Environment: "production",
		Endpoint:    cfg.OTLPEndpoint,
		Enabled:     cfg.OTLPEndpoint != "",
	})
	if err != nil {
		logger.Warn("tracing disabled", zap.Error(err))
		tp, _ = tracing.Init(ctx, tracing.Config{ServiceName: "trainctl"})
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tp.Shutdown(shutdownCtx)
	}()

	ctx, span := tp.StartSpan(ctx, "launch")
	defer span.End()

	// Schema -> Validate. Both argument and validation failures are
	// configuration errors: reported in full, never dispatched.
	trainingSchema := schema.Training()
	supplied, err := trainingSchema.ParseArgs(os.Args[1:])
	if err != nil {
		metrics.ConfigErrors.Inc()
		tracing.SetError(ctx, err)
		logger.Error("invalid arguments", zap.Error(err))
		return exitConfigError
	}

	runCfg, err := launch.Validate(trainingSchema, supplied)
	if err != nil {
		metrics.ConfigErrors.Inc()
		tracing.SetError(ctx, err)
		logger.Error("configuration rejected", zap.Error(err))
		return exitConfigError
	}

	runID := uuid.New()
	runName := runCfg.String("run-name")
	tracing.SetAttributes(ctx,
		attribute.String("run.id", runID.String()),
		attribute.String("run.name", runName),
	)

	tracker := status.NewTracker(runID.String(), runName, runCfg.String("output-dir"))
	if cfg.StatusPort != "" {
		srv := status.NewServer(cfg.StatusPort, tracker)
		go func() {
			if err := srv.Start(); err != nil {
				logger.Warn("status server error", zap.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	// Fixed data files are fetched before every run; files already on
	// disk are kept.
	if cfg.DataBucket != "" {
		tracker.SetPhase(status.PhaseFetching)
		fetchCtx, fetchSpan := tp.StartSpan(ctx, "fetch-data")
		fetcher, err := fetch.NewS3Fetcher(fetchCtx, fetch.S3FetcherConfig{
			Bucket:          cfg.DataBucket,
			Prefix:          cfg.DataPrefix,
			Region:          cfg.DataRegion,
			Endpoint:        cfg.DataEndpoint,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
		})
		if err == nil {
			err = fetch.FetchAll(fetchCtx, fetcher, fetch.FixedFiles, cfg.DataDir)
		}
		fetchSpan.End()
		if err != nil {
			tracing.SetError(ctx, err)
			logger.Error("data fetch failed", zap.Error(err))
			return exitDispatchError
		}
	}

	preflight.Check(cfg.MinFreeMemoryMB)

	var store *history.Store
	if cfg.HistoryDSN != "" {
		store, err = history.NewStore(cfg.HistoryDSN)
		if err != nil {
			// The ledger is an audit trail; a run is worth more than its record.
			logger.Warn("run history disabled", zap.Error(err))
			store = nil
		} else {
			defer store.Close()
		}
	}

	entryCmd, baseArgs := cfg.EntryPointArgv()
	opts := []dispatch.Option{}
	if cfg.TrackerProject != "" {
		opts = append(opts, dispatch.WithEnv("WANDB_PROJECT="+cfg.TrackerProject))
	}
	if cfg.TrackerMode != "" {
		opts = append(opts, dispatch.WithEnv("WANDB_MODE="+cfg.TrackerMode))
	}
	dispatcher := dispatch.New(entryCmd, baseArgs, opts...)

	if store != nil {
		rec := &history.Run{
			ID:         runID,
			Name:       runName,
			OutputDir:  runCfg.String("output-dir"),
			EntryPoint: cfg.EntryPoint,
			Config:     runCfg.Values(),
		}
		if err := store.CreateRun(ctx, rec); err != nil {
			logger.Warn("failed to record run", zap.Error(err))
		}
		_ = store.MarkRunning(ctx, runID, time.Now())
	}

	tracker.SetPhase(status.PhaseRunning)
	dispatchCtx, dispatchSpan := tp.StartSpan(ctx, "dispatch")
	result, err := dispatcher.Dispatch(dispatchCtx, runCfg)
	dispatchSpan.End()
	tracker.SetPhase(status.PhaseDone)

	if err != nil {
		tracing.SetError(ctx, err)
		var de *dispatch.DispatchError
		if errors.As(err, &de) {
			logger.Error("could not start trainer", zap.Error(de))
		} else {
			logger.Error("dispatch failed", zap.Error(err))
		}
		if store != nil {
			_ = store.MarkFinished(ctx, runID, history.RunDispatchError, -1, time.Now(), time.Now())
		}
		return exitDispatchError
	}

	if store != nil {
		st := history.RunSucceeded
		if result.ExitCode != 0 {
			st = history.RunFailed
		}
		_ = store.MarkFinished(ctx, runID, st, result.ExitCode, result.StartedAt, result.FinishedAt)
	}

	// The trainer's exit code is the launcher's exit code.
	return result.ExitCode
}
