package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/hamed0406/isplogger/internal/config"
	"github.com/hamed0406/isplogger/internal/logging"
	"github.com/hamed0406/isplogger/internal/probe"
	"github.com/hamed0406/isplogger/internal/recorder"
	"github.com/hamed0406/isplogger/internal/repo"
	"github.com/hamed0406/isplogger/internal/repo/csvfile"
	"github.com/hamed0406/isplogger/internal/repo/memory"
	"github.com/hamed0406/isplogger/internal/report"
	"github.com/hamed0406/isplogger/internal/scheduler"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitConfig = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string) int {
	cfg, err := config.Load("isplogger", args)
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	} else if err != nil {
		fmt.Fprintln(os.Stderr, "isplogger:", err)
		return exitConfig
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "isplogger:", err)
		return exitConfig
	}

	logger, err := logging.NewLogger(cfg.LogLevel, cfg.LogDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "isplogger:", err)
		return exitConfig
	}
	defer logger.Sync()

	history := memory.New()
	stores := repo.Multi{history}
	if cfg.RecordPath != "" {
		stores = append(stores, csvfile.New(cfg.RecordPath))
	}

	sc := cfg.Sampler()
	sampler, err := scheduler.NewSampler(
		logger,
		probe.NewTCPChecker(sc.Timeout),
		recorder.New(logger, stores),
		sc,
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, "isplogger:", err)
		return exitConfig
	}

	started := time.Now()
	runErr := sampler.Run(ctx)
	logSummary(ctx, logger, history, time.Since(started))

	switch {
	case runErr == nil, errors.Is(runErr, context.Canceled):
		return exitOK
	default:
		logger.Error("run_failed", zap.Error(runErr))
		return exitFailed
	}
}

func logSummary(ctx context.Context, logger *zap.Logger, history *memory.Store, took time.Duration) {
	ctx = context.WithoutCancel(ctx)
	results, err := history.List(ctx)
	if err != nil {
		logger.Warn("session_summary_unavailable", zap.Error(err))
		return
	}
	sum := report.Summarize(results)
	last := "none"
	if r, ok := history.Latest(ctx); ok {
		last = r.Status()
	}
	logger.Info("session_summary",
		zap.Int("samples", sum.Samples),
		zap.Int("up", sum.Up),
		zap.Int("down", sum.Down),
		zap.Int("outages", sum.Windows),
		zap.Float64("uptime", sum.Uptime()),
		zap.String("last", last),
		zap.Duration("took", took),
	)
}
