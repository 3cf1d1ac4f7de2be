package service

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/Khrafts/uniswap-v1/internal/amm"
	"github.com/Khrafts/uniswap-v1/internal/dexmath"
	"github.com/Khrafts/uniswap-v1/internal/service/dto"
	"github.com/Khrafts/uniswap-v1/internal/service/validate"
)

// ExactPlaces is the number of fractional digits kept in exact values.
const ExactPlaces = 18

// Quote prices a swap without executing it.
//
// Base to asset and asset to base read one pool. Asset to asset goes through
// the source pool into base and then through the destination pool, exactly as
// a routed swap would; its exact value is the unfloored output of the second
// leg given the floored output of the first.
func (s *QuoteService) Quote(_ context.Context, req dto.QuoteRequest) (*dto.Quote, error) {
	if err := validate.QuoteRequestValidate(req); err != nil {
		return nil, err
	}

	var (
		q   *dto.Quote
		err error
	)
	switch {
	case req.Src.Base:
		q, err = s.quoteSingle(req.Dst.ID, true, req.SrcAmount)
	case req.Dst.Base:
		q, err = s.quoteSingle(req.Src.ID, false, req.SrcAmount)
	default:
		q, err = s.quoteRouted(req.Src.ID, req.Dst.ID, req.SrcAmount)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("src", req.Src.String()).
		Str("dst", req.Dst.String()).
		Str("src_amount", req.SrcAmount.Dec()).
		Str("amount", q.Amount.Dec()).
		Msg("quote")
	return q, nil
}

func (s *QuoteService) quoteSingle(asset common.Address, baseIn bool, amountIn *uint256.Int) (*dto.Quote, error) {
	snap, err := s.snapshot(asset)
	if err != nil {
		return nil, err
	}

	rIn, rOut := snap.BaseReserve, snap.AssetReserve
	if !baseIn {
		rIn, rOut = rOut, rIn
	}
	amount, exact, err := quoteLeg(amountIn, rIn, rOut)
	if err != nil {
		return nil, errors.Wrapf(err, "pool %s", asset.Hex())
	}
	return &dto.Quote{Amount: amount, Exact: exact, Route: []common.Address{asset}}, nil
}

func (s *QuoteService) quoteRouted(src, dst common.Address, amountIn *uint256.Int) (*dto.Quote, error) {
	from, err := s.snapshot(src)
	if err != nil {
		return nil, err
	}
	to, err := s.snapshot(dst)
	if err != nil {
		return nil, err
	}

	baseOut, err := dexmath.GetQuoteOut(amountIn, from.AssetReserve, from.BaseReserve)
	if err != nil {
		return nil, errors.Wrapf(err, "pool %s", src.Hex())
	}
	amount, exact, err := quoteLeg(baseOut, to.BaseReserve, to.AssetReserve)
	if err != nil {
		return nil, errors.Wrapf(err, "pool %s", dst.Hex())
	}
	return &dto.Quote{Amount: amount, Exact: exact, Route: []common.Address{src, dst}}, nil
}

// Price returns the spot price of asset in base.
func (s *QuoteService) Price(_ context.Context, asset common.Address) (*dto.Price, error) {
	if err := validate.AssetValidate(asset); err != nil {
		return nil, err
	}
	snap, err := s.snapshot(asset)
	if err != nil {
		return nil, err
	}

	scaled, err := dexmath.GetPrice(snap.BaseReserve, snap.AssetReserve)
	if err != nil {
		return nil, errors.Wrapf(err, "pool %s", asset.Hex())
	}
	return &dto.Price{
		Asset:  asset,
		Scaled: scaled,
		Exact:  ratio(snap.BaseReserve.ToBig(), snap.AssetReserve.ToBig()),
	}, nil
}

// Pools lists every registered pool ordered by asset id.
func (s *QuoteService) Pools(_ context.Context) []dto.PoolInfo {
	pools := s.registry.Pools()
	out := make([]dto.PoolInfo, 0, len(pools))
	for _, p := range pools {
		snap := p.Snapshot()
		out = append(out, dto.PoolInfo{
			Asset:        snap.AssetID,
			Account:      snap.Account,
			BaseReserve:  snap.BaseReserve,
			AssetReserve: snap.AssetReserve,
			TotalShares:  snap.TotalShares,
			K:            snap.K,
		})
	}
	return out
}

func (s *QuoteService) snapshot(asset common.Address) (amm.Snapshot, error) {
	p, err := s.registry.GetPool(asset)
	if err != nil {
		return amm.Snapshot{}, errors.Wrap(err, "s.registry.GetPool")
	}
	return p.Snapshot(), nil
}

// quoteLeg returns the floored output of one swap leg and its exact value.
func quoteLeg(amountIn, rIn, rOut *uint256.Int) (*uint256.Int, decimal.Decimal, error) {
	amount, err := dexmath.GetQuoteOut(amountIn, rIn, rOut)
	if err != nil {
		return nil, decimal.Zero, err
	}
	if amountIn.IsZero() {
		return amount, decimal.Zero, nil
	}

	in := amountIn.ToBig()
	num := new(big.Int).Mul(in, rOut.ToBig())
	den := new(big.Int).Add(rIn.ToBig(), in)
	return amount, ratio(num, den), nil
}

// ratio returns num/den truncated to ExactPlaces fractional digits.
func ratio(num, den *big.Int) decimal.Decimal {
	q, _ := decimal.NewFromBigInt(num, 0).QuoRem(decimal.NewFromBigInt(den, 0), ExactPlaces)
	return q
}
