package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/isplogger/internal/domain"
	"github.com/hamed0406/isplogger/internal/probe"
)

var ErrInvalidConfig = errors.New("invalid sampler configuration")

// Config is fixed for the lifetime of one run. Iterations <= 0 means run
// until the context is cancelled.
type Config struct {
	Interval   time.Duration
	Timeout    time.Duration
	Iterations int
	Target     domain.Target
}

func (c Config) Validate() error {
	switch {
	case c.Interval <= 0:
		return fmt.Errorf("%w: interval must be > 0, got %s", ErrInvalidConfig, c.Interval)
	case c.Timeout <= 0:
		return fmt.Errorf("%w: timeout must be > 0, got %s", ErrInvalidConfig, c.Timeout)
	case c.Timeout >= c.Interval:
		return fmt.Errorf("%w: timeout %s must be < interval %s", ErrInvalidConfig, c.Timeout, c.Interval)
	case strings.TrimSpace(c.Target.Host) == "":
		return fmt.Errorf("%w: host is required", ErrInvalidConfig)
	case c.Target.Port < 1 || c.Target.Port > 65535:
		return fmt.Errorf("%w: port %d out of range 1-65535", ErrInvalidConfig, c.Target.Port)
	}
	return nil
}

type Recorder interface {
	Record(ctx context.Context, r domain.ProbeResult) error
}

// Sampler probes one target at a fixed cadence. Probe, record and sleep run
// strictly in sequence; cycles never overlap.
type Sampler struct {
	Logger   *zap.Logger
	Checker  probe.Checker
	Recorder Recorder
	Config   Config

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func NewSampler(
	logger *zap.Logger,
	checker probe.Checker,
	recorder Recorder,
	cfg Config,
) (*Sampler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sampler{
		Logger:   logger,
		Checker:  checker,
		Recorder: recorder,
		Config:   cfg,
		now:      time.Now,
		sleep:    sleepContext,
	}, nil
}

// Run samples until the iteration count is exhausted (returns nil), the
// context is cancelled (returns ctx.Err()) or recording fails.
func (s *Sampler) Run(ctx context.Context) error {
	if err := s.Config.Validate(); err != nil {
		return err
	}
	now, sleep := s.now, s.sleep
	if now == nil {
		now = time.Now
	}
	if sleep == nil {
		sleep = sleepContext
	}

	cfg := s.Config
	log := s.Logger.Named(cfg.Target.Address())
	log.Debug("sampler_started",
		zap.Duration("interval", cfg.Interval),
		zap.Duration("timeout", cfg.Timeout),
		zap.Int("iterations", cfg.Iterations),
	)

	cycles := 0
	for remaining := cfg.Iterations; cfg.Iterations <= 0 || remaining > 0; remaining-- {
		start := now()

		out := s.Checker.Check(ctx, cfg.Target)
		if err := ctx.Err(); err != nil {
			log.Debug("sampler_stopped", zap.Int("cycles", cycles))
			return err
		}

		res := domain.ProbeResult{
			CheckedAt: now(),
			Host:      cfg.Target.Host,
			Port:      cfg.Target.Port,
			Up:        out.Success,
			LatencyMS: out.LatencyMS,
			Reason:    out.Message,
		}
		if err := s.Recorder.Record(ctx, res); err != nil {
			log.Error("sampler_record_error", zap.Error(err))
			return fmt.Errorf("record sample %d: %w", cycles+1, err)
		}
		cycles++

		wait := Wait(cfg.Interval, now().Sub(start))
		if err := sleep(ctx, wait); err != nil {
			log.Debug("sampler_stopped", zap.Int("cycles", cycles))
			return err
		}
	}

	log.Debug("sampler_done", zap.Int("cycles", cycles))
	return nil
}

// Wait is the pause that keeps cycle starts interval apart: interval minus
// the time the cycle already took, never negative.
func Wait(interval, elapsed time.Duration) time.Duration {
	if d := interval - elapsed; d > 0 {
		return d
	}
	return 0
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
