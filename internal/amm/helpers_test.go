package amm_test

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Khrafts/uniswap-v1/internal/amm"
	"github.com/Khrafts/uniswap-v1/internal/ledger"
)

var (
	provider = common.HexToAddress("0x1000000000000000000000000000000000000001")
	trader   = common.HexToAddress("0x1000000000000000000000000000000000000002")
	receiver = common.HexToAddress("0x1000000000000000000000000000000000000003")

	tokenA = common.HexToAddress("0xa000000000000000000000000000000000000000")
	tokenB = common.HexToAddress("0xb000000000000000000000000000000000000000")

	accountA = common.HexToAddress("0xaa00000000000000000000000000000000000000")
	accountB = common.HexToAddress("0xbb00000000000000000000000000000000000000")
)

func u(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}

func nopLogger() zerolog.Logger {
	return zerolog.Nop()
}

// market is a registry plus in-memory ledgers.
type market struct {
	base     *ledger.Memory
	assets   map[common.Address]*ledger.Memory
	registry *amm.Registry
}

func newMarket() *market {
	return &market{
		base:     ledger.NewMemory("BASE"),
		assets:   make(map[common.Address]*ledger.Memory),
		registry: amm.NewRegistry(nopLogger()),
	}
}

// pool registers a pool for asset and seeds it from provider.
func (m *market) pool(
	t *testing.T,
	asset, account common.Address,
	baseReserve, assetReserve uint64,
	opts ...amm.Option,
) *amm.Pool {
	t.Helper()

	l := ledger.NewMemory(asset.Hex())
	m.assets[asset] = l

	p, err := m.registry.CreatePool(amm.Config{
		AssetID: asset,
		Account: account,
		Base:    m.base,
		Asset:   l,
	}, append([]amm.Option{amm.WithLogger(nopLogger())}, opts...)...)
	require.NoError(t, err)

	if baseReserve > 0 {
		m.fund(t, provider, p, baseReserve, assetReserve)
		minted, err := p.AddLiquidity(context.Background(), provider, u(baseReserve), u(assetReserve))
		require.NoError(t, err)
		require.Equal(t, baseReserve, minted.Uint64())
	}
	return p
}

// fund mints both sides to owner and approves the pool to pull them.
func (m *market) fund(t *testing.T, owner common.Address, p *amm.Pool, base, asset uint64) {
	t.Helper()

	require.NoError(t, m.base.Mint(owner, u(base)))
	require.NoError(t, m.assets[p.AssetID()].Mint(owner, u(asset)))
	m.base.Approve(owner, p.Account(), new(uint256.Int).SetAllOne())
	m.assets[p.AssetID()].Approve(owner, p.Account(), new(uint256.Int).SetAllOne())
}

func balanceOf(t *testing.T, l amm.Ledger, owner common.Address) uint64 {
	t.Helper()

	b, err := l.BalanceOf(context.Background(), owner)
	require.NoError(t, err)
	return b.Uint64()
}

func requireReserves(t *testing.T, p *amm.Pool, base, asset uint64) {
	t.Helper()

	b, a := p.Reserves()
	require.Equal(t, base, b.Uint64(), "base reserve")
	require.Equal(t, asset, a.Uint64(), "asset reserve")
}
