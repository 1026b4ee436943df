package accounting_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pumpledger/pump_ledger_app/internal/apperrors"
	"github.com/pumpledger/pump_ledger_app/internal/core/domain"
	"github.com/pumpledger/pump_ledger_app/internal/utils/accounting"
)

func TestSignedAmount(t *testing.T) {
	amount := decimal.NewFromInt(100)

	tests := []struct {
		name        string
		entryType   domain.EntryType
		balanceType domain.BalanceType
		want        decimal.Decimal
	}{
		{"debit grows a debit-natured account", domain.Debit, domain.DebitBalance, amount},
		{"credit shrinks a debit-natured account", domain.Credit, domain.DebitBalance, amount.Neg()},
		{"credit grows a credit-natured account", domain.Credit, domain.CreditBalance, amount},
		{"debit shrinks a credit-natured account", domain.Debit, domain.CreditBalance, amount.Neg()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := accounting.SignedAmount(tt.entryType, amount, tt.balanceType)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %s, want %s", got, tt.want)
		})
	}
}

func TestSignedAmount_UnknownBalanceType(t *testing.T) {
	_, err := accounting.SignedAmount(domain.Debit, decimal.NewFromInt(1), domain.BalanceType("SIDEWAYS"))
	assert.Error(t, err)
}

func entry(accountID string, entryType domain.EntryType, amount int64) domain.VoucherEntry {
	return domain.VoucherEntry{
		AccountID: accountID,
		EntryType: entryType,
		Amount:    decimal.NewFromInt(amount),
	}
}

func TestValidateEntries_BalancedReturnsTotal(t *testing.T) {
	entries := []domain.VoucherEntry{
		entry("cash", domain.Debit, 600),
		entry("petrol", domain.Credit, 450),
		entry("diesel", domain.Credit, 150),
	}

	total, err := accounting.ValidateEntries(entries)

	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(600)))
}

func TestValidateEntries_SingleEntry(t *testing.T) {
	_, err := accounting.ValidateEntries([]domain.VoucherEntry{entry("cash", domain.Debit, 100)})
	assert.ErrorIs(t, err, apperrors.ErrUnbalancedEntry)
}

func TestValidateEntries_Empty(t *testing.T) {
	_, err := accounting.ValidateEntries(nil)
	assert.ErrorIs(t, err, apperrors.ErrUnbalancedEntry)
}

func TestValidateEntries_Unbalanced(t *testing.T) {
	entries := []domain.VoucherEntry{
		entry("cash", domain.Debit, 100),
		entry("sales", domain.Credit, 90),
	}
	_, err := accounting.ValidateEntries(entries)
	assert.ErrorIs(t, err, apperrors.ErrUnbalancedEntry)
}

func TestValidateEntries_ZeroAmount(t *testing.T) {
	entries := []domain.VoucherEntry{
		entry("cash", domain.Debit, 0),
		entry("sales", domain.Credit, 0),
	}
	_, err := accounting.ValidateEntries(entries)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestValidateEntries_NegativeAmount(t *testing.T) {
	entries := []domain.VoucherEntry{
		entry("cash", domain.Debit, -50),
		entry("sales", domain.Credit, -50),
	}
	_, err := accounting.ValidateEntries(entries)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestValidateEntries_UnknownEntryType(t *testing.T) {
	entries := []domain.VoucherEntry{
		entry("cash", domain.Debit, 100),
		{AccountID: "sales", EntryType: domain.EntryType("TRANSFER"), Amount: decimal.NewFromInt(100)},
	}
	_, err := accounting.ValidateEntries(entries)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestValidateEntries_FractionalAmountsBalance(t *testing.T) {
	entries := []domain.VoucherEntry{
		{AccountID: "cash", EntryType: domain.Debit, Amount: decimal.NewFromFloat(99.95)},
		{AccountID: "petrol", EntryType: domain.Credit, Amount: decimal.NewFromFloat(85.70)},
		{AccountID: "vat", EntryType: domain.Credit, Amount: decimal.NewFromFloat(14.25)},
	}

	total, err := accounting.ValidateEntries(entries)

	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromFloat(99.95)))
}

func TestWithinTolerance(t *testing.T) {
	a := decimal.NewFromFloat(100.005)
	b := decimal.NewFromInt(100)
	assert.True(t, accounting.WithinTolerance(a, b))

	c := decimal.NewFromFloat(100.02)
	assert.False(t, accounting.WithinTolerance(c, b))
}
