package amm

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

//go:generate mockgen -source=ledger.go -destination=mock/ledger.go -package=mock

// Ledger is the fungible-asset capability a pool settles against.
//
// Transfer moves funds with the authority of `from`; pools only call it for
// their own account or to reverse a movement they made. TransferFrom pulls
// funds the owner pre-approved for spender. A failed transfer must leave
// balances untouched; one that cannot must say so by matching
// apperrors.ErrPartialTransfer. Implementations that call back into pools
// should pass along the ctx they received, so a nested call is rejected at
// once instead of after the pool's lock timeout.
type Ledger interface {
	// BalanceOf returns the amount held by owner.
	BalanceOf(ctx context.Context, owner common.Address) (*uint256.Int, error)
	// Transfer moves amount from `from` to `to`.
	Transfer(ctx context.Context, from, to common.Address, amount *uint256.Int) error
	// TransferFrom moves amount from owner to `to` using spender's allowance.
	TransferFrom(ctx context.Context, spender, owner, to common.Address, amount *uint256.Int) error
}

// Locator resolves the pool trading a given asset.
type Locator interface {
	GetPool(assetID common.Address) (*Pool, error)
}
