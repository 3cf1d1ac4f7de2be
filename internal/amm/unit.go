package amm

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/Khrafts/uniswap-v1/internal/apperrors"
)

type undoStep struct {
	name string
	fn   func(ctx context.Context) error
}

// unit records the inverse of every step an operation applied so far.
// Committing simply drops the log; rolling back replays it newest first.
type unit struct {
	steps []undoStep
}

func (u *unit) onRollback(name string, fn func(ctx context.Context) error) {
	u.steps = append(u.steps, undoStep{name: name, fn: fn})
}

func (u *unit) empty() bool {
	return len(u.steps) == 0
}

// rollback undoes every recorded step and returns cause. Inverse steps that
// fail are reported alongside cause under ErrRollbackFailed.
func (u *unit) rollback(ctx context.Context, cause error) error {
	var failed error
	for i := len(u.steps) - 1; i >= 0; i-- {
		if err := u.steps[i].fn(ctx); err != nil {
			failed = multierr.Append(failed, errors.Wrap(err, u.steps[i].name))
		}
	}
	u.steps = nil

	if failed != nil {
		return multierr.Combine(cause, errors.Wrap(apperrors.ErrRollbackFailed, failed.Error()))
	}
	return cause
}
