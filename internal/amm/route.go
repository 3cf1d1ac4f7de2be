package amm

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/Khrafts/uniswap-v1/internal/apperrors"
)

// SwapAssetForAsset sells assetAmountIn of this pool's asset for base, then
// sells that base in the pool of otherAssetID and pays the result to
// recipient. Both legs commit together or not at all; minOtherAssetOut is
// checked against the second leg.
func (p *Pool) SwapAssetForAsset(
	ctx context.Context,
	caller common.Address,
	assetAmountIn, minOtherAssetOut *uint256.Int,
	otherAssetID common.Address,
	recipient common.Address,
) (*uint256.Int, error) {
	if assetAmountIn == nil || minOtherAssetOut == nil {
		return nil, errors.Wrap(apperrors.ErrInvalidAmount, "nil amount")
	}
	other, err := p.counterpart(otherAssetID)
	if err != nil {
		return nil, err
	}

	ctx, release, err := enter(ctx, p, other)
	if err != nil {
		return nil, err
	}
	defer release()

	u := &unit{}
	otherOut, err := p.route(ctx, u, other, caller, assetAmountIn, minOtherAssetOut, recipient)
	if err != nil {
		p.metrics.swap(p.assetID, kindAssetForAsset, statusFailed)
		return nil, p.abort(ctx, u, kindAssetForAsset, err, other)
	}

	if !assetAmountIn.IsZero() {
		p.metrics.swap(p.assetID, kindAssetForAsset, statusOK)
		p.publish()
		other.publish()
		p.logger.Debug().
			Str("kind", kindAssetForAsset).
			Str("to_pool", other.assetID.Hex()).
			Str("in", assetAmountIn.Dec()).
			Str("out", otherOut.Dec()).
			Msg("swap")
	}
	return otherOut, nil
}

// route applies both legs to the reserves, then moves the funds:
// caller -> p (asset), p -> other (base), other -> recipient (other asset).
func (p *Pool) route(
	ctx context.Context,
	u *unit,
	other *Pool,
	caller common.Address,
	assetIn, minOut *uint256.Int,
	recipient common.Address,
) (*uint256.Int, error) {
	baseOut, err := p.sell(u, false, assetIn, new(uint256.Int))
	if err != nil {
		return nil, errors.Wrap(err, "first leg")
	}
	otherOut, err := other.sell(u, true, baseOut, minOut)
	if err != nil {
		return nil, errors.Wrap(err, "second leg")
	}

	if err := p.pull(ctx, u, p.asset, sideAsset, caller, assetIn); err != nil {
		return nil, err
	}
	if err := p.send(ctx, u, p.base, sideBase, other.account, baseOut); err != nil {
		return nil, err
	}
	if err := other.send(ctx, u, other.asset, sideAsset, recipient, otherOut); err != nil {
		return nil, err
	}
	return otherOut, nil
}

// GetOtherAssetOutForAssetIn quotes a routed swap into otherAssetID.
func (p *Pool) GetOtherAssetOutForAssetIn(assetIn *uint256.Int, otherAssetID common.Address) (*uint256.Int, error) {
	other, err := p.counterpart(otherAssetID)
	if err != nil {
		return nil, err
	}
	baseOut, err := p.GetBaseOutForAssetIn(assetIn)
	if err != nil {
		return nil, err
	}
	return other.GetAssetOutForBaseIn(baseOut)
}

func (p *Pool) counterpart(otherAssetID common.Address) (*Pool, error) {
	if otherAssetID == p.assetID {
		return nil, errors.Wrap(apperrors.ErrInvalidArgument, "cannot route an asset into itself")
	}
	if p.locator == nil {
		return nil, errors.Wrapf(apperrors.ErrPoolNotFound, "pool %s has no registry", p.assetID.Hex())
	}
	other, err := p.locator.GetPool(otherAssetID)
	if err != nil {
		return nil, err
	}
	if other == nil {
		return nil, errors.Wrapf(apperrors.ErrPoolNotFound, "asset %s", otherAssetID.Hex())
	}
	if other.base != p.base {
		return nil, errors.Wrap(apperrors.ErrInvalidArgument, "pools settle base on different ledgers")
	}
	return other, nil
}
