package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mauro-arcelles/ms-transaction-service-sub000/internal/model"
)

// Role is the side of an account transaction an account is on.
type Role int

const (
	RoleOrigin Role = iota
	RoleDestination
)

func (r Role) String() string {
	if r == RoleDestination {
		return "destination"
	}
	return "origin"
}

// BalanceFunc computes the balance that results from moving amount.
type BalanceFunc func(balance, amount decimal.Decimal) decimal.Decimal

// Strategy says how one account is patched by one transaction.
type Strategy struct {
	Balance            BalanceFunc
	IncrementsMovement bool
}

func credit(balance, amount decimal.Decimal) decimal.Decimal { return balance.Add(amount) }
func debit(balance, amount decimal.Decimal) decimal.Decimal  { return balance.Sub(amount) }

// ResolveStrategy maps a transaction type and the role of the patched account
// to its balance function and movement-counter effect.
func ResolveStrategy(t model.TransactionType, role Role) (Strategy, error) {
	switch {
	case t == model.TransactionTypeDeposit && role == RoleOrigin:
		return Strategy{Balance: credit, IncrementsMovement: true}, nil
	case t == model.TransactionTypeWithdrawal && role == RoleOrigin:
		return Strategy{Balance: debit, IncrementsMovement: true}, nil
	case t == model.TransactionTypeTransfer && role == RoleOrigin:
		return Strategy{Balance: debit, IncrementsMovement: true}, nil
	case t == model.TransactionTypeTransfer && role == RoleDestination:
		return Strategy{Balance: credit, IncrementsMovement: false}, nil
	}
	return Strategy{}, fmt.Errorf("%w: no balance strategy for %s as %s", model.ErrInvalidType, t, role)
}

// Apply returns the new balance. A commission fee, when present, is always
// subtracted from the account being patched.
func (s Strategy) Apply(balance, amount decimal.Decimal, fee *decimal.Decimal) decimal.Decimal {
	result := s.Balance(balance, amount)
	if fee != nil {
		result = result.Sub(*fee)
	}
	return result
}

// Patch builds the remote patch for the given account snapshot.
func (s Strategy) Patch(account *model.Account, amount decimal.Decimal, fee *decimal.Decimal) model.AccountPatch {
	balance := s.Apply(account.CurrentBalance(), amount, fee)
	patch := model.AccountPatch{Balance: &balance}
	if s.IncrementsMovement {
		movements := account.MonthlyMovements + 1
		patch.MonthlyMovements = &movements
	}
	return patch
}
