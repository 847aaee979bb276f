package recorder

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hamed0406/isplogger/internal/domain"
	"github.com/hamed0406/isplogger/internal/repo"
)

// Recorder turns a probe result into a console line and, when a store is
// configured, a persisted row.
type Recorder struct {
	Logger *zap.Logger
	Store  repo.ResultStore
}

// New returns a Recorder. store may be nil, in which case only logging happens.
func New(logger *zap.Logger, store repo.ResultStore) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{Logger: logger, Store: store}
}

// Record logs r and appends it to the store. A store failure is returned to
// the caller and is meant to end the run.
func (rc *Recorder) Record(ctx context.Context, r domain.ProbeResult) error {
	log := rc.Logger.Named(r.Target().Address())

	if r.Up {
		log.Info(r.Status())
	} else {
		if r.Reason != "" {
			log.Debug("connect failed",
				zap.String("reason", r.Reason),
				zap.Float64("latency_ms", r.LatencyMS),
			)
		}
		log.Warn(r.Status())
	}

	if rc.Store == nil {
		return nil
	}
	if err := rc.Store.Append(ctx, r); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	return nil
}
