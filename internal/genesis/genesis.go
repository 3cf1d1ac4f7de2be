// Package genesis builds the ledgers, registry and pools the server starts
// with, funding each pool from a single genesis provider.
package genesis

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/Khrafts/uniswap-v1/internal/amm"
	"github.com/Khrafts/uniswap-v1/internal/config"
	"github.com/Khrafts/uniswap-v1/internal/infra/uniswap"
	"github.com/Khrafts/uniswap-v1/internal/ledger"
)

//go:generate mockgen -source=genesis.go -destination=mock/genesis.go -package=mock

// BaseSymbol names the base asset ledger.
const BaseSymbol = "BASE"

// PairReader reads pair reserves oriented around a base token.
type PairReader interface {
	GetOrientedReserves(ctx context.Context, pair, base common.Address) (uniswap.Reserves, error)
}

// Market is the state built at startup.
type Market struct {
	Base     *ledger.Memory
	Assets   map[common.Address]*ledger.Memory
	Registry *amm.Registry
}

// Build creates one pool per configured entry and bootstraps its liquidity
// from the genesis provider. reader may be nil when no pool is seeded from a
// pair; metrics may be nil.
func Build(
	ctx context.Context,
	g config.Genesis,
	reader PairReader,
	logger zerolog.Logger,
	metrics *amm.Metrics,
) (*Market, error) {
	pools, err := g.ParsePools()
	if err != nil {
		return nil, errors.Wrap(err, "g.ParsePools")
	}

	m := &Market{
		Base:     ledger.NewMemory(BaseSymbol),
		Assets:   make(map[common.Address]*ledger.Memory, len(pools)),
		Registry: amm.NewRegistry(logger),
	}
	if len(pools) == 0 {
		return m, nil
	}

	provider, err := g.ProviderAddress()
	if err != nil {
		return nil, err
	}

	for _, p := range pools {
		if p.Seeded() {
			if p, err = seed(ctx, g, reader, p); err != nil {
				return nil, errors.Wrapf(err, "seed pool from pair %s", p.Pair.Hex())
			}
		}
		if err := m.addPool(ctx, provider, p, logger, metrics); err != nil {
			return nil, errors.Wrapf(err, "pool %s", p.Asset.Hex())
		}
		logger.Info().
			Str("asset", p.Asset.Hex()).
			Str("symbol", p.Symbol).
			Str("base_reserve", p.BaseReserve.Dec()).
			Str("asset_reserve", p.AssetReserve.Dec()).
			Bool("seeded", p.Seeded()).
			Msg("genesis pool ready")
	}
	return m, nil
}

// seed fills the pool's asset and reserves from its on-chain pair.
func seed(ctx context.Context, g config.Genesis, reader PairReader, p config.Pool) (config.Pool, error) {
	if reader == nil {
		return p, errors.New("no pair reader configured")
	}

	r, err := reader.GetOrientedReserves(ctx, p.Pair, common.HexToAddress(g.BaseToken))
	if err != nil {
		return p, errors.Wrap(err, "reader.GetOrientedReserves")
	}
	if p.Asset != (common.Address{}) && p.Asset != r.Asset {
		return p, errors.Errorf("pair trades %s, configured asset is %s", r.Asset.Hex(), p.Asset.Hex())
	}
	if r.BaseReserve == nil || r.AssetReserve == nil || r.BaseReserve.IsZero() || r.AssetReserve.IsZero() {
		return p, errors.New("pair has no liquidity")
	}

	p.Asset = r.Asset
	p.BaseReserve = r.BaseReserve.Clone()
	p.AssetReserve = r.AssetReserve.Clone()
	return p, nil
}

func (m *Market) addPool(
	ctx context.Context,
	provider common.Address,
	p config.Pool,
	logger zerolog.Logger,
	metrics *amm.Metrics,
) error {
	symbol := p.Symbol
	if symbol == "" {
		symbol = p.Asset.Hex()
	}
	asset := ledger.NewMemory(symbol)

	pool, err := m.Registry.CreatePool(amm.Config{
		AssetID: p.Asset,
		Account: p.Account,
		Base:    m.Base,
		Asset:   asset,
	}, amm.WithLogger(logger), amm.WithMetrics(metrics))
	if err != nil {
		return errors.Wrap(err, "m.Registry.CreatePool")
	}
	m.Assets[p.Asset] = asset

	if err := m.Base.Mint(provider, p.BaseReserve); err != nil {
		return errors.Wrap(err, "mint base")
	}
	if err := asset.Mint(provider, p.AssetReserve); err != nil {
		return errors.Wrap(err, "mint asset")
	}
	m.Base.Approve(provider, p.Account, p.BaseReserve)
	asset.Approve(provider, p.Account, p.AssetReserve)

	if _, err := pool.AddLiquidity(ctx, provider, p.BaseReserve, p.AssetReserve); err != nil {
		return errors.Wrap(err, "pool.AddLiquidity")
	}
	// Leave no standing allowance behind.
	m.Base.Approve(provider, p.Account, new(uint256.Int))
	asset.Approve(provider, p.Account, new(uint256.Int))
	return nil
}
