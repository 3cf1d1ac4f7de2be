package dexmath

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/Khrafts/uniswap-v1/internal/apperrors"
)

// PricePrecision scales GetPrice results (three implied decimals).
const PricePrecision = 1000

var pricePrecision = uint256.NewInt(PricePrecision)

// MulDiv computes floor(a * b / d) with a 512-bit intermediate product,
// so a*b never overflows. Fails with ErrDivisionByZero when d is zero and
// ErrOverflow when the quotient does not fit in 256 bits.
func MulDiv(a, b, d *uint256.Int) (*uint256.Int, error) {
	if d.IsZero() {
		return nil, apperrors.ErrDivisionByZero
	}
	out, overflow := new(uint256.Int).MulDivOverflow(a, b, d)
	if overflow {
		return nil, errors.Wrapf(apperrors.ErrOverflow, "%s * %s / %s", a.Dec(), b.Dec(), d.Dec())
	}
	return out, nil
}

// Add returns a + b or ErrOverflow.
func Add(a, b *uint256.Int) (*uint256.Int, error) {
	out, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow {
		return nil, errors.Wrapf(apperrors.ErrOverflow, "%s + %s", a.Dec(), b.Dec())
	}
	return out, nil
}

// Sub returns a - b or ErrInvalidAmount when b > a.
func Sub(a, b *uint256.Int) (*uint256.Int, error) {
	out, underflow := new(uint256.Int).SubOverflow(a, b)
	if underflow {
		return nil, errors.Wrapf(apperrors.ErrInvalidAmount, "%s - %s underflows", a.Dec(), b.Dec())
	}
	return out, nil
}

// GetPrice returns floor(reserveIn * 1000 / reserveOut).
func GetPrice(reserveIn, reserveOut *uint256.Int) (*uint256.Int, error) {
	if reserveOut.IsZero() {
		return nil, errors.Wrap(apperrors.ErrDivisionByZero, "empty output reserve")
	}
	return MulDiv(reserveIn, pricePrecision, reserveOut)
}

// GetQuoteOut computes the output of a constant-product swap without fee:
//
//	amountOut = amountIn * reserveOut / (reserveIn + amountIn)
//
// A zero input quotes zero for any reserves. A non-zero input against an
// empty reserve fails with ErrDivisionByZero.
func GetQuoteOut(amountIn, reserveIn, reserveOut *uint256.Int) (*uint256.Int, error) {
	if amountIn.IsZero() {
		return new(uint256.Int), nil
	}
	if reserveIn.IsZero() || reserveOut.IsZero() {
		return nil, errors.Wrap(apperrors.ErrDivisionByZero, "empty reserves")
	}

	den, err := Add(reserveIn, amountIn)
	if err != nil {
		return nil, err
	}
	return MulDiv(amountIn, reserveOut, den)
}

// GetQuoteIn computes the input required to receive exactly amountOut:
//
//	amountIn = reserveIn * amountOut / (reserveOut - amountOut) + 1
//
// Fails with ErrInsufficientLiquidity when amountOut would drain the
// output reserve.
func GetQuoteIn(amountOut, reserveIn, reserveOut *uint256.Int) (*uint256.Int, error) {
	if amountOut.IsZero() {
		return new(uint256.Int), nil
	}
	if reserveIn.IsZero() || reserveOut.IsZero() {
		return nil, errors.Wrap(apperrors.ErrDivisionByZero, "empty reserves")
	}
	if !amountOut.Lt(reserveOut) {
		return nil, errors.Wrapf(apperrors.ErrInsufficientLiquidity,
			"requested %s of reserve %s", amountOut.Dec(), reserveOut.Dec())
	}

	den := new(uint256.Int).Sub(reserveOut, amountOut)
	in, err := MulDiv(reserveIn, amountOut, den)
	if err != nil {
		return nil, err
	}
	return Add(in, uint256.NewInt(1))
}
