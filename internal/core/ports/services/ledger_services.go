package services

import (
	"context"
	"time"

	"github.com/pumpledger/pump_ledger_app/internal/dto"
	"github.com/shopspring/decimal"
)

// LedgerSvcFacade exposes the ledger projection reads and the balance
// calculator. All operations are pure reads except RecalculateRunningBalances.
type LedgerSvcFacade interface {
	// ListEntries retrieves ledger entries for an account with pagination and
	// optional date bounds.
	ListEntries(ctx context.Context, pumpID string, accountID string, params dto.ListLedgerEntriesParams) (*dto.ListLedgerEntriesResponse, error)

	// BalanceAsOf computes the account balance as of the date by replaying
	// ledger movement over the opening balance, in the account's natural sign.
	BalanceAsOf(ctx context.Context, pumpID string, accountID string, asOf time.Time) (decimal.Decimal, error)

	// BalanceForPeriod computes the natural-signed net movement within the
	// inclusive range, excluding the opening balance.
	BalanceForPeriod(ctx context.Context, pumpID string, accountID string, from, to time.Time) (decimal.Decimal, error)

	// RecalculateRunningBalances repairs an account's running balances after
	// backdated postings.
	RecalculateRunningBalances(ctx context.Context, pumpID string, accountID string) error
}
