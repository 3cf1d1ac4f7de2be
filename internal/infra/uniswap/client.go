package uniswap

import (
	"context"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

const pairABIJSON = `[
	{"inputs":[],"name":"token0","outputs":[{"internalType":"address","name":"","type":"address"}],"stateMutability":"view","type":"function"},
	{"inputs":[],"name":"token1","outputs":[{"internalType":"address","name":"","type":"address"}],"stateMutability":"view","type":"function"},
	{"inputs":[],"name":"getReserves","outputs":[{"internalType":"uint112","name":"_reserve0","type":"uint112"},{"internalType":"uint112","name":"_reserve1","type":"uint112"},{"internalType":"uint32","name":"_blockTimestampLast","type":"uint32"}],"stateMutability":"view","type":"function"}
]`

// ErrBaseNotInPair is returned when a pair does not trade the requested base token.
var ErrBaseNotInPair = errors.New("base token is not part of the pair")

// Client reads Uniswap V2 pair state from an Ethereum node.
type Client interface {
	// GetPairTokens returns the addresses of token0 and token1 for a given pair contract.
	GetPairTokens(ctx context.Context, pair common.Address) (common.Address, common.Address, error)
	// GetPairReserves returns the current reserves of token0 and token1 for a given pair contract.
	GetPairReserves(ctx context.Context, pair common.Address) (*uint256.Int, *uint256.Int, error)
	// GetOrientedReserves returns the pair reserves as (base, other) for the
	// given base token, along with the other token's address.
	GetOrientedReserves(ctx context.Context, pair, base common.Address) (Reserves, error)
}

// Reserves is a pair's state seen from its base token.
type Reserves struct {
	Asset        common.Address
	BaseReserve  *uint256.Int
	AssetReserve *uint256.Int
}

type ethClientImpl struct {
	caller  EthCaller
	pairABI abi.ABI

	callTimeout time.Duration
}

// NewClient creates a new Uniswap Client backed by an Ethereum RPC connection.
// A positive callTimeout bounds every contract call.
func NewClient(rpcURL string, callTimeout time.Duration) (Client, error) {
	caller, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, errors.Wrap(err, "ethclient.Dial")
	}

	return newClientWithCaller(caller, callTimeout)
}

func newClientWithCaller(caller EthCaller, callTimeout time.Duration) (Client, error) {
	pairABI, err := abi.JSON(strings.NewReader(pairABIJSON))
	if err != nil {
		return nil, errors.Wrap(err, "abi.JSON")
	}

	return &ethClientImpl{
		caller:  caller,
		pairABI: pairABI,

		callTimeout: callTimeout,
	}, nil
}

func (c *ethClientImpl) call(ctx context.Context, to common.Address, method string) ([]interface{}, error) {
	data, err := c.pairABI.Pack(method)
	if err != nil {
		return nil, errors.Wrap(err, "c.pairABI.Pack")
	}

	if c.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.callTimeout)
		defer cancel()
	}

	res, err := c.caller.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, errors.Wrap(err, "c.caller.CallContract")
	}

	out, err := c.pairABI.Unpack(method, res)
	if err != nil {
		return nil, errors.Wrap(err, "c.pairABI.Unpack")
	}
	return out, nil
}

// GetPairTokens reads token0 and token1 concurrently.
func (c *ethClientImpl) GetPairTokens(ctx context.Context, pair common.Address) (common.Address, common.Address, error) {
	methods := [2]string{"token0", "token1"}

	var (
		tokens [2]common.Address
		errs   [2]error
		wg     sync.WaitGroup
	)
	for i, method := range methods {
		i, method := i, method
		wg.Add(1)
		go func() {
			defer wg.Done()
			tokens[i], errs[i] = c.readAddress(ctx, pair, method)
		}()
	}
	wg.Wait()

	if err := multierr.Combine(errs[:]...); err != nil {
		return common.Address{}, common.Address{}, errors.Wrap(err, "failed to get pair tokens")
	}
	return tokens[0], tokens[1], nil
}

func (c *ethClientImpl) readAddress(ctx context.Context, pair common.Address, method string) (common.Address, error) {
	if err := ctx.Err(); err != nil {
		return common.Address{}, errors.Wrap(err, "context cancelled before call")
	}

	out, err := c.call(ctx, pair, method)
	if err != nil {
		return common.Address{}, errors.Wrapf(err, "failed to call %s", method)
	}
	if len(out) == 0 {
		return common.Address{}, errors.Errorf("empty %s result", method)
	}

	addr, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, errors.Errorf("failed to cast %s result to address", method)
	}
	return addr, nil
}

// GetPairReserves returns reserve0 and reserve1 of pair. The block
// timestamp getReserves also returns is dropped.
func (c *ethClientImpl) GetPairReserves(ctx context.Context, pair common.Address) (*uint256.Int, *uint256.Int, error) {
	out, err := c.call(ctx, pair, "getReserves")
	if err != nil {
		return nil, nil, errors.Wrap(err, "c.call")
	}
	if len(out) < 2 {
		return nil, nil, errors.Errorf("getReserves returned %d values, want at least 2", len(out))
	}

	r0, err := toUint256(out[0], "reserve0")
	if err != nil {
		return nil, nil, err
	}
	r1, err := toUint256(out[1], "reserve1")
	if err != nil {
		return nil, nil, err
	}
	return r0, r1, nil
}

func toUint256(v any, name string) (*uint256.Int, error) {
	b, ok := v.(*big.Int)
	if !ok {
		return nil, errors.Errorf("failed to cast %s to *big.Int", name)
	}
	r, overflow := uint256.FromBig(b)
	if overflow {
		return nil, errors.Errorf("%s does not fit in 256 bits", name)
	}
	return r, nil
}

// GetOrientedReserves reads tokens and reserves of pair and orders them so
// that base comes first.
func (c *ethClientImpl) GetOrientedReserves(ctx context.Context, pair, base common.Address) (Reserves, error) {
	token0, token1, err := c.GetPairTokens(ctx, pair)
	if err != nil {
		return Reserves{}, errors.Wrap(err, "c.GetPairTokens")
	}

	r0, r1, err := c.GetPairReserves(ctx, pair)
	if err != nil {
		return Reserves{}, errors.Wrap(err, "c.GetPairReserves")
	}

	switch base {
	case token0:
		return Reserves{Asset: token1, BaseReserve: r0, AssetReserve: r1}, nil
	case token1:
		return Reserves{Asset: token0, BaseReserve: r1, AssetReserve: r0}, nil
	default:
		return Reserves{}, errors.Wrapf(ErrBaseNotInPair, "pair %s trades %s/%s, base %s",
			pair.Hex(), token0.Hex(), token1.Hex(), base.Hex())
	}
}
