package config

import (
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration loaded from file.
type Config struct {
	ListenAddr        string        `yaml:"listen_addr"`
	GraceTimeout      time.Duration `yaml:"shutdown_timeout"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	LogLevel          string        `yaml:"log_level"`

	Genesis Genesis `yaml:"genesis"`
}

// Genesis describes the pools created at startup and who funds them.
type Genesis struct {
	// Provider receives the genesis shares of every pool.
	Provider string `yaml:"provider"`
	// RPCURL, CallTimeout and BaseToken are used only for pools seeded from
	// an on-chain Uniswap V2 pair.
	RPCURL      string        `yaml:"rpc_url"`
	CallTimeout time.Duration `yaml:"call_timeout"`
	BaseToken   string        `yaml:"base_token"`

	Pools []PoolConfig `yaml:"pools"`
}

// PoolConfig is one genesis pool. Reserves are decimal strings; when Pair is
// set they are read from that pair instead.
type PoolConfig struct {
	Symbol       string `yaml:"symbol"`
	Asset        string `yaml:"asset"`
	Account      string `yaml:"account"`
	BaseReserve  string `yaml:"base_reserve"`
	AssetReserve string `yaml:"asset_reserve"`
	Pair         string `yaml:"pair"`
}

// Pool is a validated PoolConfig.
type Pool struct {
	Symbol       string
	Asset        common.Address
	Account      common.Address
	BaseReserve  *uint256.Int
	AssetReserve *uint256.Int
	// Pair is the zero address for pools with static reserves.
	Pair common.Address
}

// Seeded reports whether the pool reserves come from an on-chain pair.
func (p Pool) Seeded() bool {
	return p.Pair != (common.Address{})
}

// Load reads the config from a YAML file path and applies defaults.
func Load(path string) (cfg Config, err error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "os.Open")
	}
	defer func() {
		err = multierr.Append(err, errors.Wrap(f.Close(), "f.Close"))
	}()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decoder.Decode")
	}

	cfg.applyDefaults()
	if _, err := cfg.Genesis.ParsePools(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	const defaultTimeout = 5 * time.Second
	if c.ListenAddr == "" {
		c.ListenAddr = ":1337"
	}
	if c.GraceTimeout == 0 {
		c.GraceTimeout = defaultTimeout
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = defaultTimeout
	}
	if c.ReadHeaderTimeout == 0 {
		c.ReadHeaderTimeout = defaultTimeout
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Genesis.CallTimeout == 0 {
		c.Genesis.CallTimeout = defaultTimeout
	}
}

// ProviderAddress returns the genesis liquidity provider.
func (g Genesis) ProviderAddress() (common.Address, error) {
	return parseAddress("provider", g.Provider)
}

// ParsePools validates every pool entry. Seeded pools require rpc_url and
// base_token.
func (g Genesis) ParsePools() ([]Pool, error) {
	if len(g.Pools) > 0 {
		if _, err := g.ProviderAddress(); err != nil {
			return nil, err
		}
	}

	pools := make([]Pool, 0, len(g.Pools))
	for i, pc := range g.Pools {
		p, err := pc.parse()
		if err != nil {
			return nil, errors.Wrapf(err, "pools[%d]", i)
		}
		if p.Seeded() {
			if g.RPCURL == "" {
				return nil, errors.Errorf("pools[%d]: rpc_url is required to seed from a pair", i)
			}
			if _, err := parseAddress("base_token", g.BaseToken); err != nil {
				return nil, errors.Wrapf(err, "pools[%d]", i)
			}
		}
		pools = append(pools, p)
	}
	return pools, nil
}

func (pc PoolConfig) parse() (Pool, error) {
	var (
		p   = Pool{Symbol: pc.Symbol}
		err error
	)

	if p.Account, err = parseAddress("account", pc.Account); err != nil {
		return Pool{}, err
	}

	if pc.Pair != "" {
		if p.Pair, err = parseAddress("pair", pc.Pair); err != nil {
			return Pool{}, err
		}
		// The asset defaults to the pair's other token.
		if pc.Asset != "" {
			if p.Asset, err = parseAddress("asset", pc.Asset); err != nil {
				return Pool{}, err
			}
		}
		return p, nil
	}

	if p.Asset, err = parseAddress("asset", pc.Asset); err != nil {
		return Pool{}, err
	}
	if p.BaseReserve, err = parseAmount("base_reserve", pc.BaseReserve); err != nil {
		return Pool{}, err
	}
	if p.AssetReserve, err = parseAmount("asset_reserve", pc.AssetReserve); err != nil {
		return Pool{}, err
	}
	return p, nil
}

func parseAddress(field, value string) (common.Address, error) {
	if !common.IsHexAddress(value) {
		return common.Address{}, errors.Errorf("%s: invalid address %q", field, value)
	}
	addr := common.HexToAddress(value)
	if addr == (common.Address{}) {
		return common.Address{}, errors.Errorf("%s: zero address", field)
	}
	return addr, nil
}

func parseAmount(field, value string) (*uint256.Int, error) {
	amount, err := uint256.FromDecimal(value)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: invalid amount %q", field, value)
	}
	if amount.IsZero() {
		return nil, errors.Errorf("%s: must be positive", field)
	}
	return amount, nil
}
