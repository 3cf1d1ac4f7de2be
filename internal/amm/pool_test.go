package amm_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/Khrafts/uniswap-v1/internal/amm"
	"github.com/Khrafts/uniswap-v1/internal/apperrors"
	"github.com/Khrafts/uniswap-v1/internal/ledger"
)

func TestNewPool(t *testing.T) {
	t.Parallel()

	l := ledger.NewMemory("X")
	tests := []struct {
		name string
		cfg  amm.Config
	}{
		{name: "missing asset", cfg: amm.Config{Account: accountA, Base: l, Asset: l}},
		{name: "missing account", cfg: amm.Config{AssetID: tokenA, Base: l, Asset: l}},
		{name: "missing base ledger", cfg: amm.Config{AssetID: tokenA, Account: accountA, Asset: l}},
		{name: "missing asset ledger", cfg: amm.Config{AssetID: tokenA, Account: accountA, Base: l}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := amm.NewPool(tt.cfg)
			require.True(t, errors.Is(err, apperrors.ErrInvalidArgument))
			require.Nil(t, p)
		})
	}

	p, err := amm.NewPool(amm.Config{AssetID: tokenA, Account: accountA, Base: l, Asset: l})
	require.NoError(t, err)
	require.Equal(t, tokenA, p.AssetID())
	require.Equal(t, accountA, p.Account())
	requireReserves(t, p, 0, 0)
	require.True(t, p.TotalShares().IsZero())
}

func TestPool_Quotes(t *testing.T) {
	t.Parallel()

	m := newMarket()
	p := m.pool(t, tokenA, accountA, 1000, 2000)

	t.Run("scenario A", func(t *testing.T) {
		out, err := p.GetAssetOutForBaseIn(u(1))
		require.NoError(t, err)
		require.Equal(t, uint64(1), out.Uint64())
	})

	t.Run("scenario B", func(t *testing.T) {
		out, err := p.GetAssetOutForBaseIn(u(1000))
		require.NoError(t, err)
		require.Equal(t, uint64(1000), out.Uint64())
	})

	t.Run("scenario C", func(t *testing.T) {
		out, err := p.GetBaseOutForAssetIn(u(2))
		require.NoError(t, err)
		require.True(t, out.IsZero())
	})

	t.Run("exact output", func(t *testing.T) {
		in, err := p.GetBaseInForAssetOut(u(1000))
		require.NoError(t, err)
		require.Equal(t, uint64(1001), in.Uint64())

		in, err = p.GetAssetInForBaseOut(u(500))
		require.NoError(t, err)
		require.Equal(t, uint64(2001), in.Uint64()) // 2000*500/500 + 1

		_, err = p.GetAssetInForBaseOut(u(1000))
		require.True(t, errors.Is(err, apperrors.ErrInsufficientLiquidity))
	})

	t.Run("spot price", func(t *testing.T) {
		price, err := p.SpotPrice()
		require.NoError(t, err)
		require.Equal(t, uint64(500), price.Uint64())
	})

	t.Run("nil amount", func(t *testing.T) {
		_, err := p.GetAssetOutForBaseIn(nil)
		require.True(t, errors.Is(err, apperrors.ErrInvalidAmount))
	})
}

func TestPool_EmptyQuotes(t *testing.T) {
	t.Parallel()

	m := newMarket()
	p := m.pool(t, tokenA, accountA, 0, 0)

	out, err := p.GetAssetOutForBaseIn(u(0))
	require.NoError(t, err)
	require.True(t, out.IsZero())

	_, err = p.GetAssetOutForBaseIn(u(1))
	require.True(t, errors.Is(err, apperrors.ErrDivisionByZero))

	_, err = p.SpotPrice()
	require.True(t, errors.Is(err, apperrors.ErrDivisionByZero))
}

func TestPool_Snapshot(t *testing.T) {
	t.Parallel()

	m := newMarket()
	p := m.pool(t, tokenA, accountA, 1000, 2000)

	s := p.Snapshot()
	require.Equal(t, tokenA, s.AssetID)
	require.Equal(t, accountA, s.Account)
	require.Equal(t, uint64(1000), s.BaseReserve.Uint64())
	require.Equal(t, uint64(2000), s.AssetReserve.Uint64())
	require.Equal(t, uint64(1000), s.TotalShares.Uint64())
	require.Equal(t, 0, s.K.Cmp(big.NewInt(2_000_000)))
}

func TestPool_TransferShares(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := newMarket()
	p := m.pool(t, tokenA, accountA, 1000, 2000)

	require.NoError(t, p.TransferShares(ctx, provider, trader, u(400)))
	require.Equal(t, uint64(600), p.SharesOf(provider).Uint64())
	require.Equal(t, uint64(400), p.SharesOf(trader).Uint64())
	require.Equal(t, uint64(1000), p.TotalShares().Uint64())

	err := p.TransferShares(ctx, trader, receiver, u(401))
	require.True(t, errors.Is(err, apperrors.ErrInsufficientShares))

	err = p.TransferShares(ctx, trader, common.Address{}, u(1))
	require.True(t, errors.Is(err, apperrors.ErrInvalidArgument))

	require.NoError(t, p.TransferShares(ctx, receiver, trader, u(0)))
	require.NoError(t, p.TransferShares(ctx, trader, trader, u(400)))
	require.Equal(t, uint64(400), p.SharesOf(trader).Uint64())

	// The new holder can withdraw its share of the reserves.
	baseOut, assetOut, err := p.RemoveLiquidity(ctx, trader, u(400))
	require.NoError(t, err)
	require.Equal(t, uint64(400), baseOut.Uint64())
	require.Equal(t, uint64(800), assetOut.Uint64())
	require.Equal(t, uint64(400), balanceOf(t, m.base, trader))
}

func TestPool_TransferSharesFrom(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := newMarket()
	p := m.pool(t, tokenA, accountA, 1000, 2000)

	// Without an approval a third party cannot move anything.
	err := p.TransferSharesFrom(ctx, trader, provider, trader, u(1))
	require.True(t, errors.Is(err, apperrors.ErrInsufficientAllowance))
	require.Equal(t, uint64(1000), p.SharesOf(provider).Uint64())

	require.NoError(t, p.ApproveShares(provider, trader, u(300)))
	require.Equal(t, uint64(300), p.ShareAllowance(provider, trader).Uint64())
	require.True(t, p.ShareAllowance(trader, provider).IsZero())

	require.NoError(t, p.TransferSharesFrom(ctx, trader, provider, receiver, u(200)))
	require.Equal(t, uint64(800), p.SharesOf(provider).Uint64())
	require.Equal(t, uint64(200), p.SharesOf(receiver).Uint64())
	require.Equal(t, uint64(100), p.ShareAllowance(provider, trader).Uint64())

	err = p.TransferSharesFrom(ctx, trader, provider, receiver, u(101))
	require.True(t, errors.Is(err, apperrors.ErrInsufficientAllowance))
	require.Equal(t, uint64(100), p.ShareAllowance(provider, trader).Uint64())

	// An owner spends its own shares without an allowance.
	require.NoError(t, p.TransferSharesFrom(ctx, receiver, receiver, provider, u(200)))
	require.Equal(t, uint64(1000), p.SharesOf(provider).Uint64())

	// The allowance is not consumed when the owner is short.
	require.NoError(t, p.ApproveShares(receiver, trader, u(50)))
	err = p.TransferSharesFrom(ctx, trader, receiver, trader, u(50))
	require.True(t, errors.Is(err, apperrors.ErrInsufficientShares))
	require.Equal(t, uint64(50), p.ShareAllowance(receiver, trader).Uint64())

	require.True(t, errors.Is(p.ApproveShares(provider, trader, nil), apperrors.ErrInvalidAmount))
	require.Equal(t, uint64(1000), p.TotalShares().Uint64())
}
