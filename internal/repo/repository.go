package repo

import (
	"context"

	"go.uber.org/multierr"

	"github.com/hamed0406/isplogger/internal/domain"
)

// Ports (interfaces) for wherever probe results end up.
type ResultStore interface {
	Append(ctx context.Context, r domain.ProbeResult) error
}

type HistoryStore interface {
	ResultStore
	List(ctx context.Context) ([]domain.ProbeResult, error)
}

// Multi appends to every store and reports all failures together.
type Multi []ResultStore

func (m Multi) Append(ctx context.Context, r domain.ProbeResult) error {
	var err error
	for _, s := range m {
		if s == nil {
			continue
		}
		err = multierr.Append(err, s.Append(ctx, r))
	}
	return err
}
