package amm

import (
	"slices"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/Khrafts/uniswap-v1/internal/apperrors"
)

// Registry maps each asset to its pool. Entries are set once and never
// replaced or removed.
type Registry struct {
	mu       sync.RWMutex
	pools    map[common.Address]*Pool
	accounts map[common.Address]common.Address // pool account -> asset

	logger zerolog.Logger
}

var _ Locator = (*Registry)(nil)

// NewRegistry creates an empty registry.
func NewRegistry(logger zerolog.Logger) *Registry {
	return &Registry{
		pools:    make(map[common.Address]*Pool),
		accounts: make(map[common.Address]common.Address),
		logger:   logger,
	}
}

// RegisterPool maps assetID to pool. Fails with ErrAlreadyRegistered when
// the asset, or the pool's account, is already taken.
func (r *Registry) RegisterPool(assetID common.Address, pool *Pool) error {
	if pool == nil {
		return errors.Wrap(apperrors.ErrInvalidArgument, "nil pool")
	}
	if assetID != pool.AssetID() {
		return errors.Wrapf(apperrors.ErrInvalidArgument,
			"pool trades %s, not %s", pool.AssetID().Hex(), assetID.Hex())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.pools[assetID]; exists {
		return errors.Wrapf(apperrors.ErrAlreadyRegistered, "asset %s", assetID.Hex())
	}
	if owner, taken := r.accounts[pool.Account()]; taken {
		return errors.Wrapf(apperrors.ErrAlreadyRegistered,
			"account %s already backs asset %s", pool.Account().Hex(), owner.Hex())
	}

	r.pools[assetID] = pool
	r.accounts[pool.Account()] = assetID
	r.logger.Info().
		Str("asset", assetID.Hex()).
		Str("account", pool.Account().Hex()).
		Msg("pool registered")
	return nil
}

// GetPool returns the pool for assetID or ErrPoolNotFound.
func (r *Registry) GetPool(assetID common.Address) (*Pool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pool, ok := r.pools[assetID]
	if !ok {
		return nil, errors.Wrapf(apperrors.ErrPoolNotFound, "asset %s", assetID.Hex())
	}
	return pool, nil
}

// CreatePool builds a pool that routes through this registry and
// registers it.
func (r *Registry) CreatePool(cfg Config, opts ...Option) (*Pool, error) {
	cfg.Locator = r
	pool, err := NewPool(cfg, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "NewPool")
	}
	if err := r.RegisterPool(cfg.AssetID, pool); err != nil {
		return nil, err
	}
	return pool, nil
}

// Pools returns every registered pool ordered by asset id.
func (r *Registry) Pools() []*Pool {
	r.mu.RLock()
	out := make([]*Pool, 0, len(r.pools))
	for _, p := range r.pools {
		out = append(out, p)
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b *Pool) int {
		return a.AssetID().Cmp(b.AssetID())
	})
	return out
}

// Len returns the number of registered pools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.pools)
}
