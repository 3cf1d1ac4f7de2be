// Package amm implements a two-asset constant-product liquidity pool that
// pairs a base asset with a fungible asset, and the registry used to route
// asset-to-asset swaps through two pools.
//
// Reserve and share state is always updated before funds move on a Ledger,
// so a reentrant observer only ever sees post-update reserves. Every
// operation records the inverse of each step it applied and undoes them all
// if a later step fails.
package amm

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.uber.org/multierr"

	"github.com/Khrafts/uniswap-v1/internal/apperrors"
	"github.com/Khrafts/uniswap-v1/internal/dexmath"
)

const (
	sideBase  = "base"
	sideAsset = "asset"
)

// Config describes a pool.
type Config struct {
	// AssetID identifies the non-base asset traded by the pool.
	AssetID common.Address
	// Account holds the pool's funds on both ledgers.
	Account common.Address
	// Base and Asset settle the two sides of the pool.
	Base  Ledger
	Asset Ledger
	// Locator resolves counterpart pools for routed swaps. Optional.
	Locator Locator
}

// Option customizes a Pool.
type Option func(*Pool)

// WithLogger sets the pool logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Pool) {
		p.logger = logger
	}
}

// WithMetrics sets the pool metrics.
func WithMetrics(m *Metrics) Option {
	return func(p *Pool) {
		p.metrics = m
	}
}

// DefaultLockTimeout is how long an operation waits for a busy pool before
// failing with ErrReentrancy.
const DefaultLockTimeout = time.Second

// WithLockTimeout bounds the wait for a busy pool. Operations are short, so
// a pool still busy after d is held by a nested call that lost its context.
func WithLockTimeout(d time.Duration) Option {
	return func(p *Pool) {
		if d > 0 {
			p.lockTimeout = d
		}
	}
}

// Pool is a constant-product liquidity pool. It is safe for concurrent use;
// operations on one pool are serialized.
type Pool struct {
	assetID common.Address
	account common.Address
	base    Ledger
	asset   Ledger
	locator Locator

	logger  zerolog.Logger
	metrics *Metrics

	// op is a one-slot semaphore serializing operations, see enter.
	op          chan struct{}
	lockTimeout time.Duration

	mu           sync.RWMutex
	baseReserve  uint256.Int
	assetReserve uint256.Int
	totalShares  uint256.Int
	shares       map[common.Address]*uint256.Int
	// allowances[owner][spender] is what spender may move for owner.
	allowances map[common.Address]map[common.Address]*uint256.Int
}

// NewPool creates an empty pool.
func NewPool(cfg Config, opts ...Option) (*Pool, error) {
	if cfg.AssetID == (common.Address{}) || cfg.Account == (common.Address{}) {
		return nil, errors.Wrap(apperrors.ErrInvalidArgument, "asset id and account are required")
	}
	if cfg.Base == nil || cfg.Asset == nil {
		return nil, errors.Wrap(apperrors.ErrInvalidArgument, "both ledgers are required")
	}

	p := &Pool{
		assetID: cfg.AssetID,
		account: cfg.Account,
		base:    cfg.Base,
		asset:   cfg.Asset,
		locator: cfg.Locator,
		logger:  zerolog.Nop(),
		shares:  make(map[common.Address]*uint256.Int),

		allowances: make(map[common.Address]map[common.Address]*uint256.Int),

		op:          make(chan struct{}, 1),
		lockTimeout: DefaultLockTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With().Str("pool", p.assetID.Hex()).Logger()
	return p, nil
}

// AssetID returns the asset traded against base.
func (p *Pool) AssetID() common.Address {
	return p.assetID
}

// Account returns the address holding the pool's funds.
func (p *Pool) Account() common.Address {
	return p.account
}

// Reserves returns the current base and asset reserves.
func (p *Pool) Reserves() (base, asset *uint256.Int) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.baseReserve.Clone(), p.assetReserve.Clone()
}

// TotalShares returns the outstanding share supply.
func (p *Pool) TotalShares() *uint256.Int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.totalShares.Clone()
}

// SharesOf returns the shares held by owner.
func (p *Pool) SharesOf(owner common.Address) *uint256.Int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if s, ok := p.shares[owner]; ok {
		return s.Clone()
	}
	return new(uint256.Int)
}

// Snapshot is a consistent read-only view of a pool.
type Snapshot struct {
	AssetID      common.Address
	Account      common.Address
	BaseReserve  *uint256.Int
	AssetReserve *uint256.Int
	TotalShares  *uint256.Int
	// K is baseReserve * assetReserve; it needs up to 512 bits.
	K *big.Int
}

// Snapshot returns the pool state at a single point in time.
func (p *Pool) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return Snapshot{
		AssetID:      p.assetID,
		Account:      p.account,
		BaseReserve:  p.baseReserve.Clone(),
		AssetReserve: p.assetReserve.Clone(),
		TotalShares:  p.totalShares.Clone(),
		K:            new(big.Int).Mul(p.baseReserve.ToBig(), p.assetReserve.ToBig()),
	}
}

// SpotPrice returns floor(baseReserve * 1000 / assetReserve), the base cost
// of one asset unit with three implied decimals.
func (p *Pool) SpotPrice() (*uint256.Int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return dexmath.GetPrice(&p.baseReserve, &p.assetReserve)
}

// GetAssetOutForBaseIn quotes the asset received for baseIn.
func (p *Pool) GetAssetOutForBaseIn(baseIn *uint256.Int) (*uint256.Int, error) {
	return p.quoteOut(true, baseIn)
}

// GetBaseOutForAssetIn quotes the base received for assetIn.
func (p *Pool) GetBaseOutForAssetIn(assetIn *uint256.Int) (*uint256.Int, error) {
	return p.quoteOut(false, assetIn)
}

// GetBaseInForAssetOut quotes the base needed to receive exactly assetOut.
func (p *Pool) GetBaseInForAssetOut(assetOut *uint256.Int) (*uint256.Int, error) {
	return p.quoteIn(true, assetOut)
}

// GetAssetInForBaseOut quotes the asset needed to receive exactly baseOut.
func (p *Pool) GetAssetInForBaseOut(baseOut *uint256.Int) (*uint256.Int, error) {
	return p.quoteIn(false, baseOut)
}

func (p *Pool) quoteOut(baseIn bool, amountIn *uint256.Int) (*uint256.Int, error) {
	if amountIn == nil {
		return nil, errors.Wrap(apperrors.ErrInvalidAmount, "nil amount")
	}
	rIn, rOut := p.orderedReserves(baseIn)
	return dexmath.GetQuoteOut(amountIn, rIn, rOut)
}

func (p *Pool) quoteIn(baseIn bool, amountOut *uint256.Int) (*uint256.Int, error) {
	if amountOut == nil {
		return nil, errors.Wrap(apperrors.ErrInvalidAmount, "nil amount")
	}
	rIn, rOut := p.orderedReserves(baseIn)
	return dexmath.GetQuoteIn(amountOut, rIn, rOut)
}

// orderedReserves returns copies of (input, output) reserves.
func (p *Pool) orderedReserves(baseIn bool) (*uint256.Int, *uint256.Int) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if baseIn {
		return p.baseReserve.Clone(), p.assetReserve.Clone()
	}
	return p.assetReserve.Clone(), p.baseReserve.Clone()
}

// TransferShares moves shares from `from` to `to`. The pool does not
// authenticate callers: whoever embeds it must make sure the caller acts for
// `from`, or use TransferSharesFrom.
func (p *Pool) TransferShares(ctx context.Context, from, to common.Address, amount *uint256.Int) error {
	return p.transferShares(ctx, nil, from, to, amount)
}

// TransferSharesFrom moves shares from `from` to `to` on behalf of spender,
// spending the allowance granted with ApproveShares.
func (p *Pool) TransferSharesFrom(ctx context.Context, spender, from, to common.Address, amount *uint256.Int) error {
	return p.transferShares(ctx, &spender, from, to, amount)
}

// ApproveShares sets the amount of owner's shares spender may move.
func (p *Pool) ApproveShares(owner, spender common.Address, amount *uint256.Int) error {
	if amount == nil {
		return errors.Wrap(apperrors.ErrInvalidAmount, "nil amount")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	byOwner, ok := p.allowances[owner]
	if !ok {
		byOwner = make(map[common.Address]*uint256.Int)
		p.allowances[owner] = byOwner
	}
	byOwner[spender] = amount.Clone()
	return nil
}

// ShareAllowance returns the amount of owner's shares spender may still move.
func (p *Pool) ShareAllowance(owner, spender common.Address) *uint256.Int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if a, ok := p.allowances[owner][spender]; ok {
		return a.Clone()
	}
	return new(uint256.Int)
}

func (p *Pool) transferShares(ctx context.Context, spender *common.Address, from, to common.Address, amount *uint256.Int) error {
	if amount == nil {
		return errors.Wrap(apperrors.ErrInvalidAmount, "nil amount")
	}
	if to == (common.Address{}) {
		return errors.Wrap(apperrors.ErrInvalidArgument, "transfer to the zero address")
	}

	_, release, err := enter(ctx, p)
	if err != nil {
		return err
	}
	defer release()

	p.mu.Lock()
	defer p.mu.Unlock()

	var allowed *uint256.Int
	if spender != nil && *spender != from {
		allowed = p.allowances[from][*spender]
		if allowed == nil || allowed.Lt(amount) {
			return errors.Wrapf(apperrors.ErrInsufficientAllowance, "%s may not move %s shares of %s",
				spender.Hex(), amount.Dec(), from.Hex())
		}
	}

	held := p.holding(from)
	if held.Lt(amount) {
		return errors.Wrapf(apperrors.ErrInsufficientShares, "%s holds %s, moving %s", from.Hex(), held.Dec(), amount.Dec())
	}
	if amount.IsZero() {
		return nil
	}
	if allowed != nil {
		allowed.Sub(allowed, amount)
	}
	if from == to {
		return nil
	}
	p.setHolding(from, new(uint256.Int).Sub(held, amount))
	p.setHolding(to, new(uint256.Int).Add(p.holding(to), amount))
	return nil
}

// holding returns owner's balance. Caller holds p.mu.
func (p *Pool) holding(owner common.Address) *uint256.Int {
	if s, ok := p.shares[owner]; ok {
		return s
	}
	return new(uint256.Int)
}

// setHolding stores owner's balance, dropping empty entries. Caller holds p.mu.
func (p *Pool) setHolding(owner common.Address, amount *uint256.Int) {
	if amount.IsZero() {
		delete(p.shares, owner)
		return
	}
	p.shares[owner] = amount
}

// checkpoint captures reserves, share supply and the given owners' shares
// and returns the step restoring them. Caller holds p.mu.
func (p *Pool) checkpoint(owners ...common.Address) func(context.Context) error {
	base, asset, total := p.baseReserve, p.assetReserve, p.totalShares
	holdings := make(map[common.Address]*uint256.Int, len(owners))
	for _, o := range owners {
		holdings[o] = p.holding(o).Clone()
	}

	return func(context.Context) error {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.baseReserve, p.assetReserve, p.totalShares = base, asset, total
		for o, s := range holdings {
			p.setHolding(o, s)
		}
		return nil
	}
}

// ledgers returns (input ledger, input side, output ledger, output side).
func (p *Pool) ledgers(baseIn bool) (Ledger, string, Ledger, string) {
	if baseIn {
		return p.base, sideBase, p.asset, sideAsset
	}
	return p.asset, sideAsset, p.base, sideBase
}

// pull moves amount from owner into the pool account using the allowance
// owner granted the pool.
func (p *Pool) pull(ctx context.Context, u *unit, l Ledger, side string, owner common.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	if err := l.TransferFrom(ctx, p.account, owner, p.account, amount); err != nil {
		return transferFailed(err, "pull %s %s from %s", amount.Dec(), side, owner.Hex())
	}
	u.onRollback("refund "+side, func(ctx context.Context) error {
		return l.Transfer(ctx, p.account, owner, amount)
	})
	return nil
}

// send pays amount from the pool account to `to`.
func (p *Pool) send(ctx context.Context, u *unit, l Ledger, side string, to common.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	if err := l.Transfer(ctx, p.account, to, amount); err != nil {
		return transferFailed(err, "pay %s %s to %s", amount.Dec(), side, to.Hex())
	}
	u.onRollback("reclaim "+side, func(ctx context.Context) error {
		return l.Transfer(ctx, to, p.account, amount)
	})
	return nil
}

// transferFailed maps a ledger error to ErrTransferFailed. A ledger that kept
// part of the funds leaves the pool short, which no undo step can repair, so
// the error also carries ErrRollbackFailed.
func transferFailed(err error, format string, args ...any) error {
	failed := errors.Wrapf(apperrors.ErrTransferFailed, "%s: %v", fmt.Sprintf(format, args...), err)
	if errors.Is(err, apperrors.ErrPartialTransfer) {
		return multierr.Append(failed, errors.Wrap(apperrors.ErrRollbackFailed, "ledger kept part of the transfer"))
	}
	return failed
}

// abort undoes u and reports the failure. When the undo is incomplete the
// reserves of p and others are reconciled with what their accounts hold.
func (p *Pool) abort(ctx context.Context, u *unit, op string, cause error, others ...*Pool) error {
	if u.empty() && !errors.Is(cause, apperrors.ErrRollbackFailed) {
		return cause
	}
	err := u.rollback(ctx, cause)
	if errors.Is(err, apperrors.ErrRollbackFailed) {
		for _, q := range append([]*Pool{p}, others...) {
			if rerr := q.reconcile(ctx); rerr != nil {
				err = multierr.Append(err, errors.Wrapf(rerr, "reconcile pool %s", q.assetID.Hex()))
			}
		}
		p.metrics.rollback(p.assetID, statusFailed)
		p.logger.Error().Err(err).Str("op", op).Msg("rollback incomplete")
		return err
	}
	p.metrics.rollback(p.assetID, statusOK)
	p.logger.Warn().Err(cause).Str("op", op).Msg("operation rolled back")
	return err
}

// reconcile lowers each reserve to the balance the pool account actually
// holds. Reserves are never raised: a surplus is stranded funds, not liquidity.
func (p *Pool) reconcile(ctx context.Context) error {
	base, err := p.base.BalanceOf(ctx, p.account)
	if err != nil {
		return errors.Wrap(err, "p.base.BalanceOf")
	}
	asset, err := p.asset.BalanceOf(ctx, p.account)
	if err != nil {
		return errors.Wrap(err, "p.asset.BalanceOf")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if base.Lt(&p.baseReserve) {
		p.baseReserve.Set(base)
	}
	if asset.Lt(&p.assetReserve) {
		p.assetReserve.Set(asset)
	}
	return nil
}

// publish exports the committed state.
func (p *Pool) publish() {
	if p.metrics == nil {
		return
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	p.metrics.state(p.assetID, &p.baseReserve, &p.assetReserve, &p.totalShares)
}
