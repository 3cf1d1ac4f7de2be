package dto

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// BaseSymbol is how the base asset is named in requests and responses.
const BaseSymbol = "base"

// Asset identifies either the base asset or a pool asset.
type Asset struct {
	Base bool
	ID   common.Address
}

// BaseAsset returns the base asset.
func BaseAsset() Asset {
	return Asset{Base: true}
}

// PoolAsset returns the asset with the given id.
func PoolAsset(id common.Address) Asset {
	return Asset{ID: id}
}

func (a Asset) String() string {
	if a.Base {
		return BaseSymbol
	}
	return a.ID.Hex()
}

// QuoteRequest asks how much Dst a swap of SrcAmount Src would return.
type QuoteRequest struct {
	Src       Asset
	Dst       Asset
	SrcAmount *uint256.Int
}

// Quote is the result of a QuoteRequest.
type Quote struct {
	// Amount is what a swap would pay out, floored.
	Amount *uint256.Int
	// Exact is the unfloored output of the final leg, truncated to
	// ExactPlaces fractional digits.
	Exact decimal.Decimal
	// Route lists the pools the swap goes through, in order.
	Route []common.Address
}

// Price is a pool's spot price of one asset unit in base.
type Price struct {
	Asset common.Address
	// Scaled is floor(baseReserve * 1000 / assetReserve).
	Scaled *uint256.Int
	Exact  decimal.Decimal
}

// PoolInfo is a pool snapshot.
type PoolInfo struct {
	Asset        common.Address
	Account      common.Address
	BaseReserve  *uint256.Int
	AssetReserve *uint256.Int
	TotalShares  *uint256.Int
	K            *big.Int
}
