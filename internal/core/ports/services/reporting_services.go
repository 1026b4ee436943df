package services

import (
	"context"
	"time"

	"github.com/pumpledger/pump_ledger_app/internal/core/domain"
)

// ReportingService generates the canonical financial statements and the
// subsidiary books. Every method is a pure read over persisted state.
type ReportingService interface {
	// TrialBalance lists every active account's closing balance bucketed into
	// debit/credit columns; fails with ErrUnbalancedLedger when the columns
	// disagree beyond the rounding tolerance.
	TrialBalance(ctx context.Context, pumpID string, asOf time.Time) (*domain.TrialBalanceReport, error)

	// ProfitAndLoss computes the period P&L with gross and net profit.
	ProfitAndLoss(ctx context.Context, pumpID string, from, to time.Time) (*domain.ProfitLossReport, error)

	// BalanceSheet computes the as-of statement of financial position.
	BalanceSheet(ctx context.Context, pumpID string, asOf time.Time) (*domain.BalanceSheetReport, error)

	// CashBook walks one account's ledger chronologically, classifying debits
	// as receipts and credits as payments.
	CashBook(ctx context.Context, pumpID string, accountID string, from, to time.Time) (*domain.CashBookReport, error)

	// DayBook flattens every posted voucher in the range into a chronological
	// transaction list with per-voucher totals.
	DayBook(ctx context.Context, pumpID string, from, to time.Time) (*domain.DayBookReport, error)
}
