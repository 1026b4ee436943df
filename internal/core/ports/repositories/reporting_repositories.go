package repositories

import (
	"context"
	"time"

	"github.com/pumpledger/pump_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountBalanceRow pairs an account with an aggregated natural-signed amount:
// either an as-of balance (opening included) or a period net movement.
type AccountBalanceRow struct {
	Account domain.Account
	Amount  decimal.Decimal
}

// ReportingRepository provides the read-only aggregates the statement
// generator composes reports from. Implementations never mutate ledger state.
type ReportingRepository interface {
	// GetBalancesAsOf returns every active account under the pump with its
	// natural-signed balance as of the date (opening balance included).
	GetBalancesAsOf(ctx context.Context, pumpID string, asOf time.Time) ([]AccountBalanceRow, error)

	// GetPeriodMovements returns active INCOME and EXPENSE accounts with their
	// natural-signed net movement inside the inclusive range, excluding
	// opening balances.
	GetPeriodMovements(ctx context.Context, pumpID string, from, to time.Time) ([]AccountBalanceRow, error)

	// GetDayBookVouchers returns every POSTED voucher dated inside the range,
	// chronologically, with entries enriched with account code and name.
	GetDayBookVouchers(ctx context.Context, pumpID string, from, to time.Time) ([]domain.DayBookVoucher, error)
}
