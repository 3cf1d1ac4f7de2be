package validate

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/Khrafts/uniswap-v1/internal/apperrors"
	"github.com/Khrafts/uniswap-v1/internal/service/dto"
)

// QuoteRequestValidate validates business logic request.
func QuoteRequestValidate(req dto.QuoteRequest) error {
	var zeroAddress = common.Address{}

	if (!req.Src.Base && req.Src.ID == zeroAddress) || (!req.Dst.Base && req.Dst.ID == zeroAddress) {
		return errors.Wrap(apperrors.ErrInvalidArgument, "address cannot be empty")
	}

	if req.Src == req.Dst {
		return errors.Wrap(apperrors.ErrInvalidArgument, "destination asset cannot be the same as source asset")
	}

	if req.SrcAmount == nil {
		return errors.Wrap(apperrors.ErrInvalidAmount, "source amount is required")
	}

	return nil
}

// AssetValidate validates a pool asset id.
func AssetValidate(asset common.Address) error {
	if asset == (common.Address{}) {
		return errors.Wrap(apperrors.ErrInvalidArgument, "address cannot be empty")
	}
	return nil
}
