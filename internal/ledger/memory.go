// Package ledger implements an in-memory fungible asset ledger.
package ledger

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/Khrafts/uniswap-v1/internal/apperrors"
)

var (
	// ErrInsufficientBalance is returned when the sender balance is too low.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInsufficientAllowance is returned when the spender is not approved
	// for the requested amount.
	ErrInsufficientAllowance = errors.New("insufficient allowance")

	// ErrZeroAddress is returned for transfers to the zero address.
	ErrZeroAddress = errors.New("zero address")

	// ErrSupplyOverflow is returned when minting would overflow the supply.
	ErrSupplyOverflow = errors.New("supply overflow")
)

// TransferHook runs after funds moved from `from` to `to`, outside the
// ledger lock. A non-nil error undoes the movement and fails the transfer.
// If the hook already spent part of the funds only the remainder comes back
// and the error also matches apperrors.ErrPartialTransfer.
// Hooks emulate receivers that react to incoming funds.
type TransferHook func(ctx context.Context, from, to common.Address, amount *uint256.Int) error

// Memory is a thread-safe in-memory ledger for a single asset.
type Memory struct {
	symbol string

	mu          sync.Mutex
	totalSupply uint256.Int
	balances    map[common.Address]*uint256.Int
	allowances  map[common.Address]map[common.Address]*uint256.Int
	hook        TransferHook
}

// NewMemory creates an empty ledger for the given symbol.
func NewMemory(symbol string) *Memory {
	return &Memory{
		symbol:     symbol,
		balances:   make(map[common.Address]*uint256.Int),
		allowances: make(map[common.Address]map[common.Address]*uint256.Int),
	}
}

// Symbol returns the asset symbol.
func (m *Memory) Symbol() string {
	return m.symbol
}

// SetHook installs (or clears, with nil) the transfer hook.
func (m *Memory) SetHook(hook TransferHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hook = hook
}

// Mint credits amount to owner.
func (m *Memory) Mint(owner common.Address, amount *uint256.Int) error {
	if owner == (common.Address{}) {
		return ErrZeroAddress
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	supply, overflow := new(uint256.Int).AddOverflow(&m.totalSupply, amount)
	if overflow {
		return errors.Wrapf(ErrSupplyOverflow, "%s: mint %s", m.symbol, amount.Dec())
	}
	m.totalSupply.Set(supply)
	m.credit(owner, amount)
	return nil
}

// Approve sets the amount spender may pull from owner.
func (m *Memory) Approve(owner, spender common.Address, amount *uint256.Int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	byOwner, ok := m.allowances[owner]
	if !ok {
		byOwner = make(map[common.Address]*uint256.Int)
		m.allowances[owner] = byOwner
	}
	byOwner[spender] = amount.Clone()
}

// Allowance returns the amount spender may still pull from owner.
func (m *Memory) Allowance(owner, spender common.Address) *uint256.Int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if a, ok := m.allowances[owner][spender]; ok {
		return a.Clone()
	}
	return new(uint256.Int)
}

// TotalSupply returns the minted supply.
func (m *Memory) TotalSupply() *uint256.Int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totalSupply.Clone()
}

// BalanceOf returns the balance held by owner.
func (m *Memory) BalanceOf(_ context.Context, owner common.Address) (*uint256.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balance(owner).Clone(), nil
}

// Transfer moves amount from `from` to `to`. The caller acts with the
// authority of `from`.
func (m *Memory) Transfer(ctx context.Context, from, to common.Address, amount *uint256.Int) error {
	hook, err := m.move(from, to, amount, nil)
	if err != nil {
		return err
	}
	return m.runHook(ctx, hook, from, to, amount, nil)
}

// TransferFrom moves amount from owner to `to`, spending the allowance
// owner granted to spender.
func (m *Memory) TransferFrom(ctx context.Context, spender, owner, to common.Address, amount *uint256.Int) error {
	hook, err := m.move(owner, to, amount, &spender)
	if err != nil {
		return err
	}
	return m.runHook(ctx, hook, owner, to, amount, &spender)
}

func (m *Memory) move(from, to common.Address, amount *uint256.Int, spender *common.Address) (TransferHook, error) {
	if to == (common.Address{}) {
		return nil, ErrZeroAddress
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if spender != nil {
		allowed := m.allowances[from][*spender]
		if allowed == nil || allowed.Lt(amount) {
			return nil, errors.Wrapf(ErrInsufficientAllowance, "%s: %s may not pull %s from %s",
				m.symbol, spender.Hex(), amount.Dec(), from.Hex())
		}
	}

	bal := m.balance(from)
	if bal.Lt(amount) {
		return nil, errors.Wrapf(ErrInsufficientBalance, "%s: %s holds %s, needs %s",
			m.symbol, from.Hex(), bal.Dec(), amount.Dec())
	}

	if spender != nil {
		allowed := m.allowances[from][*spender]
		allowed.Sub(allowed, amount)
	}
	bal.Sub(bal, amount)
	m.credit(to, amount)
	return m.hook, nil
}

// runHook calls the hook and reverts the movement when it fails.
func (m *Memory) runHook(
	ctx context.Context,
	hook TransferHook,
	from, to common.Address,
	amount *uint256.Int,
	spender *common.Address,
) error {
	if hook == nil {
		return nil
	}
	if err := hook(ctx, from, to, amount); err != nil {
		m.mu.Lock()
		defer m.mu.Unlock()

		// The hook may have spent the funds; restore what is still there.
		bal := m.balance(to)
		back := amount.Clone()
		if bal.Lt(back) {
			back.Set(bal)
		}
		bal.Sub(bal, back)
		m.credit(from, back)
		if spender != nil {
			if allowed := m.allowances[from][*spender]; allowed != nil {
				allowed.Add(allowed, back)
			}
		}
		rejected := errors.Wrapf(err, "%s: receiver %s rejected transfer", m.symbol, to.Hex())
		if kept := new(uint256.Int).Sub(amount, back); !kept.IsZero() {
			return multierr.Append(rejected, errors.Wrapf(apperrors.ErrPartialTransfer,
				"%s: %s of %s could not be returned to %s", m.symbol, kept.Dec(), amount.Dec(), from.Hex()))
		}
		return rejected
	}
	return nil
}

func (m *Memory) balance(owner common.Address) *uint256.Int {
	bal, ok := m.balances[owner]
	if !ok {
		bal = new(uint256.Int)
		m.balances[owner] = bal
	}
	return bal
}

func (m *Memory) credit(owner common.Address, amount *uint256.Int) {
	bal := m.balance(owner)
	bal.Add(bal, amount)
}
