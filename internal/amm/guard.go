package amm

import (
	"context"
	"slices"
	"time"

	"github.com/pkg/errors"

	"github.com/Khrafts/uniswap-v1/internal/apperrors"
)

type heldKey struct{}

// held is the chain of pools locked by the current call chain.
type held struct {
	pool *Pool
	next *held
}

func holds(ctx context.Context, p *Pool) bool {
	for h, _ := ctx.Value(heldKey{}).(*held); h != nil; h = h.next {
		if h.pool == p {
			return true
		}
	}
	return false
}

// enter takes the operation lock of every given pool and returns a context
// recording them as held. A pool already held by ctx is a reentrant call and
// is rejected at once. A nested call that dropped ctx cannot be told apart
// from a concurrent caller, so it waits for the lock and is rejected when the
// pool's lock timeout expires. Locks are taken in account order so that
// concurrent routes over the same pair of pools cannot deadlock.
func enter(ctx context.Context, pools ...*Pool) (context.Context, func(), error) {
	for _, p := range pools {
		if holds(ctx, p) {
			return ctx, nil, errors.Wrapf(apperrors.ErrReentrancy, "pool %s is busy", p.assetID.Hex())
		}
	}

	ordered := slices.Clone(pools)
	slices.SortFunc(ordered, func(a, b *Pool) int {
		return a.account.Cmp(b.account)
	})
	ordered = slices.Compact(ordered)

	chain, _ := ctx.Value(heldKey{}).(*held)
	locked := make([]*Pool, 0, len(ordered))
	release := func() {
		for i := len(locked) - 1; i >= 0; i-- {
			<-locked[i].op
		}
	}
	for _, p := range ordered {
		if err := p.lock(ctx); err != nil {
			release()
			return ctx, nil, err
		}
		locked = append(locked, p)
		chain = &held{pool: p, next: chain}
	}
	return context.WithValue(ctx, heldKey{}, chain), release, nil
}

// lock waits for the operation slot for at most the lock timeout.
func (p *Pool) lock(ctx context.Context) error {
	select {
	case p.op <- struct{}{}:
		return nil
	default:
	}

	timer := time.NewTimer(p.lockTimeout)
	defer timer.Stop()

	select {
	case p.op <- struct{}{}:
		return nil
	case <-timer.C:
		return errors.Wrapf(apperrors.ErrReentrancy, "pool %s still busy after %s", p.assetID.Hex(), p.lockTimeout)
	case <-ctx.Done():
		return errors.Wrapf(ctx.Err(), "wait for pool %s", p.assetID.Hex())
	}
}
