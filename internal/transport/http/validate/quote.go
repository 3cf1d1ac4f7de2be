package validate

import (
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	servicedto "github.com/Khrafts/uniswap-v1/internal/service/dto"
	"github.com/Khrafts/uniswap-v1/internal/transport/http/dto"
)

// QuoteRequestValidate validates /quote request and returns dto.
// src and dst are either "base" or a hex asset address.
func QuoteRequestValidate(r *http.Request) (*dto.QuoteRequest, int, error) {
	if r.Method != http.MethodGet {
		return nil, http.StatusMethodNotAllowed, errors.New("method not allowed")
	}

	q := r.URL.Query()
	src := q.Get("src")
	dst := q.Get("dst")
	amt := q.Get("src_amount")
	if src == "" || dst == "" || amt == "" {
		return nil, http.StatusBadRequest, errors.New("missing params")
	}

	srcAsset, err := parseAsset(src)
	if err != nil {
		return nil, http.StatusBadRequest, errors.Wrap(err, "src")
	}
	dstAsset, err := parseAsset(dst)
	if err != nil {
		return nil, http.StatusBadRequest, errors.Wrap(err, "dst")
	}

	a, err := uint256.FromDecimal(amt)
	if err != nil {
		return nil, http.StatusBadRequest, errors.New("bad src_amount")
	}

	return &dto.QuoteRequest{
		Src:       srcAsset,
		Dst:       dstAsset,
		SrcAmount: a,
	}, 0, nil
}

// PriceRequestValidate validates /price request and returns dto.
func PriceRequestValidate(r *http.Request) (*dto.PriceRequest, int, error) {
	if r.Method != http.MethodGet {
		return nil, http.StatusMethodNotAllowed, errors.New("method not allowed")
	}

	asset := r.URL.Query().Get("asset")
	if asset == "" {
		return nil, http.StatusBadRequest, errors.New("missing params")
	}
	if !common.IsHexAddress(asset) {
		return nil, http.StatusBadRequest, errors.New("bad address format")
	}
	return &dto.PriceRequest{Asset: common.HexToAddress(asset)}, 0, nil
}

func parseAsset(s string) (servicedto.Asset, error) {
	if strings.EqualFold(s, servicedto.BaseSymbol) {
		return servicedto.BaseAsset(), nil
	}
	if !common.IsHexAddress(s) {
		return servicedto.Asset{}, errors.New("bad address format")
	}
	return servicedto.PoolAsset(common.HexToAddress(s)), nil
}
