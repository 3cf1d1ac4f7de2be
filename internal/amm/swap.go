package amm

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/Khrafts/uniswap-v1/internal/apperrors"
	"github.com/Khrafts/uniswap-v1/internal/dexmath"
)

// Swap kinds, used in logs and metrics.
const (
	kindBaseForAsset      = "base_for_asset"
	kindAssetForBase      = "asset_for_base"
	kindBaseForExactAsset = "base_for_exact_asset"
	kindAssetForExactBase = "asset_for_exact_base"
	kindAssetForAsset     = "asset_for_asset"
)

// SwapBaseForAsset sells baseAmountIn from caller and pays the quoted asset
// to recipient. Fails with ErrSlippageExceeded if the quote is below
// minAssetOut. A zero input is a successful no-op returning zero.
func (p *Pool) SwapBaseForAsset(
	ctx context.Context,
	caller common.Address,
	baseAmountIn, minAssetOut *uint256.Int,
	recipient common.Address,
) (*uint256.Int, error) {
	return p.swapExactIn(ctx, kindBaseForAsset, true, caller, baseAmountIn, minAssetOut, recipient)
}

// SwapAssetForBase sells assetAmountIn from caller and pays the quoted base
// to recipient.
func (p *Pool) SwapAssetForBase(
	ctx context.Context,
	caller common.Address,
	assetAmountIn, minBaseOut *uint256.Int,
	recipient common.Address,
) (*uint256.Int, error) {
	return p.swapExactIn(ctx, kindAssetForBase, false, caller, assetAmountIn, minBaseOut, recipient)
}

// SwapBaseForExactAsset buys exactly assetOut for recipient, charging
// caller the quoted base. Fails with ErrSlippageExceeded if the quote is
// above maxBaseIn. Returns the base charged.
func (p *Pool) SwapBaseForExactAsset(
	ctx context.Context,
	caller common.Address,
	assetOut, maxBaseIn *uint256.Int,
	recipient common.Address,
) (*uint256.Int, error) {
	return p.swapExactOut(ctx, kindBaseForExactAsset, true, caller, assetOut, maxBaseIn, recipient)
}

// SwapAssetForExactBase buys exactly baseOut for recipient, charging
// caller the quoted asset.
func (p *Pool) SwapAssetForExactBase(
	ctx context.Context,
	caller common.Address,
	baseOut, maxAssetIn *uint256.Int,
	recipient common.Address,
) (*uint256.Int, error) {
	return p.swapExactOut(ctx, kindAssetForExactBase, false, caller, baseOut, maxAssetIn, recipient)
}

func (p *Pool) swapExactIn(
	ctx context.Context,
	kind string,
	baseIn bool,
	caller common.Address,
	amountIn, minOut *uint256.Int,
	recipient common.Address,
) (*uint256.Int, error) {
	if amountIn == nil || minOut == nil {
		return nil, errors.Wrap(apperrors.ErrInvalidAmount, "nil amount")
	}

	ctx, release, err := enter(ctx, p)
	if err != nil {
		return nil, err
	}
	defer release()

	u := &unit{}
	amountOut, err := p.sell(u, baseIn, amountIn, minOut)
	if err == nil {
		err = p.settle(ctx, u, baseIn, caller, amountIn, amountOut, recipient)
	}
	if err != nil {
		p.metrics.swap(p.assetID, kind, statusFailed)
		return nil, p.abort(ctx, u, kind, err)
	}

	p.committed(kind, amountIn, amountOut)
	return amountOut, nil
}

func (p *Pool) swapExactOut(
	ctx context.Context,
	kind string,
	baseIn bool,
	caller common.Address,
	amountOut, maxIn *uint256.Int,
	recipient common.Address,
) (*uint256.Int, error) {
	if amountOut == nil || maxIn == nil {
		return nil, errors.Wrap(apperrors.ErrInvalidAmount, "nil amount")
	}

	ctx, release, err := enter(ctx, p)
	if err != nil {
		return nil, err
	}
	defer release()

	u := &unit{}
	amountIn, err := p.buy(u, baseIn, amountOut, maxIn)
	if err == nil {
		err = p.settle(ctx, u, baseIn, caller, amountIn, amountOut, recipient)
	}
	if err != nil {
		p.metrics.swap(p.assetID, kind, statusFailed)
		return nil, p.abort(ctx, u, kind, err)
	}

	p.committed(kind, amountIn, amountOut)
	return amountIn, nil
}

// sell applies an exact-input swap to the reserves. No funds move.
func (p *Pool) sell(u *unit, baseIn bool, amountIn, minOut *uint256.Int) (*uint256.Int, error) {
	amountOut, err := p.quoteOut(baseIn, amountIn)
	if err != nil {
		return nil, err
	}
	if amountOut.Lt(minOut) {
		return nil, errors.Wrapf(apperrors.ErrSlippageExceeded,
			"output %s below minimum %s", amountOut.Dec(), minOut.Dec())
	}
	if err := p.applySwap(u, baseIn, amountIn, amountOut); err != nil {
		return nil, err
	}
	return amountOut, nil
}

// buy applies an exact-output swap to the reserves. No funds move.
func (p *Pool) buy(u *unit, baseIn bool, amountOut, maxIn *uint256.Int) (*uint256.Int, error) {
	amountIn, err := p.quoteIn(baseIn, amountOut)
	if err != nil {
		return nil, err
	}
	if amountIn.Gt(maxIn) {
		return nil, errors.Wrapf(apperrors.ErrSlippageExceeded,
			"input %s above maximum %s", amountIn.Dec(), maxIn.Dec())
	}
	if err := p.applySwap(u, baseIn, amountIn, amountOut); err != nil {
		return nil, err
	}
	return amountIn, nil
}

// applySwap adds amountIn to the input reserve and takes amountOut from the
// output reserve. Callers hold the operation lock, so the reserves the quote
// was computed from are still current.
func (p *Pool) applySwap(u *unit, baseIn bool, amountIn, amountOut *uint256.Int) error {
	if amountIn.IsZero() && amountOut.IsZero() {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	rIn, rOut := &p.baseReserve, &p.assetReserve
	if !baseIn {
		rIn, rOut = rOut, rIn
	}
	newIn, err := dexmath.Add(rIn, amountIn)
	if err != nil {
		return err
	}
	newOut, err := dexmath.Sub(rOut, amountOut)
	if err != nil {
		return errors.Wrap(apperrors.ErrInsufficientLiquidity, err.Error())
	}

	u.onRollback("restore pool state", p.checkpoint())
	rIn.Set(newIn)
	rOut.Set(newOut)
	return nil
}

// settle pulls amountIn from payer and pays amountOut to recipient.
func (p *Pool) settle(
	ctx context.Context,
	u *unit,
	baseIn bool,
	payer common.Address,
	amountIn, amountOut *uint256.Int,
	recipient common.Address,
) error {
	inLedger, inSide, outLedger, outSide := p.ledgers(baseIn)
	if err := p.pull(ctx, u, inLedger, inSide, payer, amountIn); err != nil {
		return err
	}
	return p.send(ctx, u, outLedger, outSide, recipient, amountOut)
}

func (p *Pool) committed(kind string, amountIn, amountOut *uint256.Int) {
	if amountIn.IsZero() && amountOut.IsZero() {
		return
	}
	p.metrics.swap(p.assetID, kind, statusOK)
	p.publish()
	p.logger.Debug().
		Str("kind", kind).
		Str("in", amountIn.Dec()).
		Str("out", amountOut.Dec()).
		Msg("swap")
}
