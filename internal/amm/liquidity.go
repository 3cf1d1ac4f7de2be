package amm

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/Khrafts/uniswap-v1/internal/apperrors"
	"github.com/Khrafts/uniswap-v1/internal/dexmath"
)

// AddLiquidity deposits baseAmountIn and the proportional amount of asset,
// at most assetAmountDesired, and mints shares to provider.
//
// The first deposit sets both reserves to the supplied amounts and mints
// baseAmountIn shares. Later deposits take exactly
// floor(assetReserve*baseAmountIn/baseReserve) asset and mint
// floor(totalShares*baseAmountIn/baseReserve) shares; any excess of
// assetAmountDesired is left with the provider.
func (p *Pool) AddLiquidity(
	ctx context.Context,
	provider common.Address,
	baseAmountIn, assetAmountDesired *uint256.Int,
) (*uint256.Int, error) {
	if baseAmountIn == nil || assetAmountDesired == nil {
		return nil, errors.Wrap(apperrors.ErrInvalidAmount, "nil amount")
	}
	if baseAmountIn.IsZero() {
		return nil, errors.Wrap(apperrors.ErrInvalidAmount, "base amount must be positive")
	}

	ctx, release, err := enter(ctx, p)
	if err != nil {
		return nil, err
	}
	defer release()

	u := &unit{}
	minted, assetIn, err := p.deposit(u, provider, baseAmountIn, assetAmountDesired)
	if err == nil {
		err = p.pull(ctx, u, p.base, sideBase, provider, baseAmountIn)
	}
	if err == nil {
		err = p.pull(ctx, u, p.asset, sideAsset, provider, assetIn)
	}
	if err != nil {
		p.metrics.liquidity(p.assetID, "add", statusFailed)
		return nil, p.abort(ctx, u, "add_liquidity", err)
	}

	p.metrics.liquidity(p.assetID, "add", statusOK)
	p.publish()
	p.logger.Debug().
		Str("provider", provider.Hex()).
		Str("base_in", baseAmountIn.Dec()).
		Str("asset_in", assetIn.Dec()).
		Str("minted", minted.Dec()).
		Msg("liquidity added")
	return minted, nil
}

// deposit applies a deposit to reserves and shares. No funds move.
func (p *Pool) deposit(u *unit, provider common.Address, baseIn, assetDesired *uint256.Int) (minted, assetIn *uint256.Int, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.totalShares.IsZero() {
		if assetDesired.IsZero() {
			return nil, nil, errors.Wrap(apperrors.ErrInvalidAmount, "initial asset amount must be positive")
		}
		minted, assetIn = baseIn.Clone(), assetDesired.Clone()
	} else {
		assetIn, err = dexmath.MulDiv(&p.assetReserve, baseIn, &p.baseReserve)
		if err != nil {
			return nil, nil, err
		}
		if assetDesired.Lt(assetIn) {
			return nil, nil, errors.Wrapf(apperrors.ErrInvalidAmount,
				"asset amount %s below required %s", assetDesired.Dec(), assetIn.Dec())
		}
		minted, err = dexmath.MulDiv(&p.totalShares, baseIn, &p.baseReserve)
		if err != nil {
			return nil, nil, err
		}
		if minted.IsZero() {
			return nil, nil, errors.Wrap(apperrors.ErrInvalidAmount, "deposit too small to mint shares")
		}
	}

	newBase, err := dexmath.Add(&p.baseReserve, baseIn)
	if err != nil {
		return nil, nil, err
	}
	newAsset, err := dexmath.Add(&p.assetReserve, assetIn)
	if err != nil {
		return nil, nil, err
	}
	newTotal, err := dexmath.Add(&p.totalShares, minted)
	if err != nil {
		return nil, nil, err
	}

	u.onRollback("restore pool state", p.checkpoint(provider))
	p.baseReserve.Set(newBase)
	p.assetReserve.Set(newAsset)
	p.totalShares.Set(newTotal)
	// Holdings never exceed totalShares, so this cannot overflow.
	p.setHolding(provider, new(uint256.Int).Add(p.holding(provider), minted))
	return minted, assetIn, nil
}

// RemoveLiquidity burns sharesIn from provider and pays out the matching
// fraction of both reserves. Burning zero shares is a no-op.
func (p *Pool) RemoveLiquidity(
	ctx context.Context,
	provider common.Address,
	sharesIn *uint256.Int,
) (baseOut, assetOut *uint256.Int, err error) {
	if sharesIn == nil {
		return nil, nil, errors.Wrap(apperrors.ErrInvalidAmount, "nil amount")
	}

	ctx, release, err := enter(ctx, p)
	if err != nil {
		return nil, nil, err
	}
	defer release()

	u := &unit{}
	baseOut, assetOut, err = p.withdraw(u, provider, sharesIn)
	if err == nil {
		err = p.send(ctx, u, p.base, sideBase, provider, baseOut)
	}
	if err == nil {
		err = p.send(ctx, u, p.asset, sideAsset, provider, assetOut)
	}
	if err != nil {
		p.metrics.liquidity(p.assetID, "remove", statusFailed)
		return nil, nil, p.abort(ctx, u, "remove_liquidity", err)
	}
	if sharesIn.IsZero() {
		return baseOut, assetOut, nil
	}

	p.metrics.liquidity(p.assetID, "remove", statusOK)
	p.publish()
	p.logger.Debug().
		Str("provider", provider.Hex()).
		Str("burned", sharesIn.Dec()).
		Str("base_out", baseOut.Dec()).
		Str("asset_out", assetOut.Dec()).
		Msg("liquidity removed")
	return baseOut, assetOut, nil
}

// withdraw applies a withdrawal to reserves and shares. No funds move.
func (p *Pool) withdraw(u *unit, provider common.Address, sharesIn *uint256.Int) (baseOut, assetOut *uint256.Int, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	held := p.holding(provider)
	if held.Lt(sharesIn) {
		return nil, nil, errors.Wrapf(apperrors.ErrInsufficientShares,
			"%s holds %s, burning %s", provider.Hex(), held.Dec(), sharesIn.Dec())
	}
	if sharesIn.IsZero() {
		return new(uint256.Int), new(uint256.Int), nil
	}

	baseOut, err = dexmath.MulDiv(&p.baseReserve, sharesIn, &p.totalShares)
	if err != nil {
		return nil, nil, err
	}
	assetOut, err = dexmath.MulDiv(&p.assetReserve, sharesIn, &p.totalShares)
	if err != nil {
		return nil, nil, err
	}

	u.onRollback("restore pool state", p.checkpoint(provider))
	p.baseReserve.Sub(&p.baseReserve, baseOut)
	p.assetReserve.Sub(&p.assetReserve, assetOut)
	p.totalShares.Sub(&p.totalShares, sharesIn)
	p.setHolding(provider, new(uint256.Int).Sub(held, sharesIn))
	return baseOut, assetOut, nil
}
