package accounting

import (
	"fmt"

	"github.com/pumpledger/pump_ledger_app/internal/apperrors"
	"github.com/pumpledger/pump_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedAmount applies the account's natural sign convention to an entry
// amount. Debit-natured accounts (ASSET, EXPENSE) grow with debits;
// credit-natured accounts (LIABILITY, EQUITY, INCOME) grow with credits.
// This is used in services, repositories and the memory store so every
// running-balance fold agrees.
func SignedAmount(entryType domain.EntryType, amount decimal.Decimal, balanceType domain.BalanceType) (decimal.Decimal, error) {
	isDebit := entryType == domain.Debit
	switch balanceType {
	case domain.DebitBalance:
		if !isDebit {
			return amount.Neg(), nil
		}
	case domain.CreditBalance:
		if isDebit {
			return amount.Neg(), nil
		}
	default:
		return decimal.Zero, fmt.Errorf("unknown balance type '%s'", balanceType)
	}
	return amount, nil
}

// ValidateEntries enforces the double-entry invariant on a voucher's entries:
// at least two entries, every amount strictly positive, and debit total equal
// to credit total. Returns the common total on success.
func ValidateEntries(entries []domain.VoucherEntry) (decimal.Decimal, error) {
	if len(entries) < 2 {
		return decimal.Zero, fmt.Errorf("%w: at least two entries required, got %d", apperrors.ErrUnbalancedEntry, len(entries))
	}

	debitTotal := decimal.Zero
	creditTotal := decimal.Zero
	for _, e := range entries {
		if e.Amount.LessThanOrEqual(decimal.Zero) {
			return decimal.Zero, fmt.Errorf("%w: entry amount must be positive for account %s", apperrors.ErrValidation, e.AccountID)
		}
		switch e.EntryType {
		case domain.Debit:
			debitTotal = debitTotal.Add(e.Amount)
		case domain.Credit:
			creditTotal = creditTotal.Add(e.Amount)
		default:
			return decimal.Zero, fmt.Errorf("%w: unknown entry type '%s'", apperrors.ErrValidation, e.EntryType)
		}
	}

	if !debitTotal.Equal(creditTotal) {
		return decimal.Zero, fmt.Errorf("%w: debit %s vs credit %s",
			apperrors.ErrUnbalancedEntry, debitTotal.String(), creditTotal.String())
	}
	if debitTotal.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%w: voucher total must be positive", apperrors.ErrUnbalancedEntry)
	}

	return debitTotal, nil
}

// ClosureTolerance is the rounding tolerance applied to statement closure
// checks (trial balance and balance sheet).
var ClosureTolerance = decimal.NewFromFloat(0.01)

// WithinTolerance reports whether two totals agree within ClosureTolerance.
func WithinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(ClosureTolerance)
}
