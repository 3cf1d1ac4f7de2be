package dto

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	servicedto "github.com/Khrafts/uniswap-v1/internal/service/dto"
)

// QuoteRequest represents a parsed HTTP request for the /quote endpoint.
type QuoteRequest struct {
	Src       servicedto.Asset
	Dst       servicedto.Asset
	SrcAmount *uint256.Int
}

// PriceRequest represents a parsed HTTP request for the /price endpoint.
type PriceRequest struct {
	Asset common.Address
}

// PriceResponse is the /price body.
type PriceResponse struct {
	Asset  string `json:"asset"`
	Scaled string `json:"scaled"`
	Exact  string `json:"exact"`
}

// PoolResponse is one entry of the /pools body. Amounts are decimal strings.
type PoolResponse struct {
	Asset        string `json:"asset"`
	Account      string `json:"account"`
	BaseReserve  string `json:"base_reserve"`
	AssetReserve string `json:"asset_reserve"`
	TotalShares  string `json:"total_shares"`
	K            string `json:"k"`
}

// NewPriceResponse converts a service price.
func NewPriceResponse(p *servicedto.Price) PriceResponse {
	return PriceResponse{
		Asset:  p.Asset.Hex(),
		Scaled: p.Scaled.Dec(),
		Exact:  p.Exact.String(),
	}
}

// NewPoolResponse converts a service pool snapshot.
func NewPoolResponse(p servicedto.PoolInfo) PoolResponse {
	return PoolResponse{
		Asset:        p.Asset.Hex(),
		Account:      p.Account.Hex(),
		BaseReserve:  p.BaseReserve.Dec(),
		AssetReserve: p.AssetReserve.Dec(),
		TotalShares:  p.TotalShares.Dec(),
		K:            p.K.String(),
	}
}
