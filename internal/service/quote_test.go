package service

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Khrafts/uniswap-v1/internal/amm"
	"github.com/Khrafts/uniswap-v1/internal/apperrors"
	"github.com/Khrafts/uniswap-v1/internal/config"
	"github.com/Khrafts/uniswap-v1/internal/genesis"
	"github.com/Khrafts/uniswap-v1/internal/ledger"
	"github.com/Khrafts/uniswap-v1/internal/service/dto"
	"github.com/Khrafts/uniswap-v1/internal/service/mock"
)

var (
	tokenA = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	tokenB = common.HexToAddress("0x00000000000000000000000000000000000000b1")
)

func newTestService(t *testing.T) *QuoteService {
	t.Helper()

	m, err := genesis.Build(context.Background(), config.Genesis{
		Provider: "0x00000000000000000000000000000000000000f1",
		Pools: []config.PoolConfig{
			{Asset: tokenA.Hex(), Account: "0x00000000000000000000000000000000000000a2", BaseReserve: "1000", AssetReserve: "2000"},
			{Asset: tokenB.Hex(), Account: "0x00000000000000000000000000000000000000b2", BaseReserve: "1000", AssetReserve: "2000"},
		},
	}, nil, zerolog.Nop(), nil)
	require.NoError(t, err)

	return NewQuoteService(m.Registry, zerolog.Nop())
}

func TestQuote(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	tests := []struct {
		name      string
		req       dto.QuoteRequest
		wantAmt   uint64
		wantExact string
		wantRoute []common.Address
	}{
		{
			name:      "scenario A",
			req:       dto.QuoteRequest{Src: dto.BaseAsset(), Dst: dto.PoolAsset(tokenA), SrcAmount: uint256.NewInt(1)},
			wantAmt:   1,
			wantExact: "1.998001998001998001",
			wantRoute: []common.Address{tokenA},
		},
		{
			name:      "scenario B",
			req:       dto.QuoteRequest{Src: dto.BaseAsset(), Dst: dto.PoolAsset(tokenA), SrcAmount: uint256.NewInt(1000)},
			wantAmt:   1000,
			wantExact: "1000",
			wantRoute: []common.Address{tokenA},
		},
		{
			name:      "scenario C",
			req:       dto.QuoteRequest{Src: dto.PoolAsset(tokenA), Dst: dto.BaseAsset(), SrcAmount: uint256.NewInt(2)},
			wantAmt:   0,
			wantExact: "0.999000999000999",
			wantRoute: []common.Address{tokenA},
		},
		{
			name:      "routed",
			req:       dto.QuoteRequest{Src: dto.PoolAsset(tokenA), Dst: dto.PoolAsset(tokenB), SrcAmount: uint256.NewInt(200)},
			wantAmt:   165,
			wantExact: "165.137614678899082568",
			wantRoute: []common.Address{tokenA, tokenB},
		},
		{
			name:      "zero amount",
			req:       dto.QuoteRequest{Src: dto.BaseAsset(), Dst: dto.PoolAsset(tokenB), SrcAmount: new(uint256.Int)},
			wantAmt:   0,
			wantExact: "0",
			wantRoute: []common.Address{tokenB},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			q, err := svc.Quote(context.Background(), tt.req)
			require.NoError(t, err)
			require.Equal(t, tt.wantAmt, q.Amount.Uint64())
			require.Equal(t, tt.wantExact, q.Exact.String())
			require.Equal(t, tt.wantRoute, q.Route)
		})
	}
}

func TestQuote_Errors(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	unknown := dto.PoolAsset(common.HexToAddress("0xc1"))

	tests := []struct {
		name string
		req  dto.QuoteRequest
		want error
	}{
		{
			name: "same asset",
			req:  dto.QuoteRequest{Src: dto.PoolAsset(tokenA), Dst: dto.PoolAsset(tokenA), SrcAmount: uint256.NewInt(1)},
			want: apperrors.ErrInvalidArgument,
		},
		{
			name: "missing amount",
			req:  dto.QuoteRequest{Src: dto.BaseAsset(), Dst: dto.PoolAsset(tokenA)},
			want: apperrors.ErrInvalidAmount,
		},
		{
			name: "unknown destination",
			req:  dto.QuoteRequest{Src: dto.BaseAsset(), Dst: unknown, SrcAmount: uint256.NewInt(1)},
			want: apperrors.ErrPoolNotFound,
		},
		{
			name: "unknown routed destination",
			req:  dto.QuoteRequest{Src: dto.PoolAsset(tokenA), Dst: unknown, SrcAmount: uint256.NewInt(1)},
			want: apperrors.ErrPoolNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			q, err := svc.Quote(context.Background(), tt.req)
			require.True(t, errors.Is(err, tt.want), "got %v", err)
			require.Nil(t, q)
		})
	}
}

func TestPrice(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	p, err := svc.Price(context.Background(), tokenA)
	require.NoError(t, err)
	require.Equal(t, tokenA, p.Asset)
	require.Equal(t, uint64(500), p.Scaled.Uint64())
	require.Equal(t, "0.5", p.Exact.String())

	_, err = svc.Price(context.Background(), common.Address{})
	require.True(t, errors.Is(err, apperrors.ErrInvalidArgument))

	_, err = svc.Price(context.Background(), common.HexToAddress("0xc1"))
	require.True(t, errors.Is(err, apperrors.ErrPoolNotFound))
}

func TestPrice_EmptyPool(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	registry := mock.NewMockRegistry(ctrl)

	l := ledger.NewMemory("X")
	empty, err := amm.NewPool(amm.Config{AssetID: tokenA, Account: tokenB, Base: l, Asset: l})
	require.NoError(t, err)
	registry.EXPECT().GetPool(tokenA).Return(empty, nil).Times(2)

	svc := NewQuoteService(registry, zerolog.Nop())

	_, err = svc.Price(context.Background(), tokenA)
	require.True(t, errors.Is(err, apperrors.ErrDivisionByZero))

	_, err = svc.Quote(context.Background(), dto.QuoteRequest{
		Src:       dto.BaseAsset(),
		Dst:       dto.PoolAsset(tokenA),
		SrcAmount: uint256.NewInt(1),
	})
	require.True(t, errors.Is(err, apperrors.ErrDivisionByZero))
}

func TestPools(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)

	pools := svc.Pools(context.Background())
	require.Len(t, pools, 2)
	require.Equal(t, tokenA, pools[0].Asset)
	require.Equal(t, tokenB, pools[1].Asset)
	require.Equal(t, uint64(1000), pools[0].BaseReserve.Uint64())
	require.Equal(t, uint64(2000), pools[0].AssetReserve.Uint64())
	require.Equal(t, uint64(1000), pools[0].TotalShares.Uint64())
	require.Equal(t, int64(2_000_000), pools[0].K.Int64())
}
