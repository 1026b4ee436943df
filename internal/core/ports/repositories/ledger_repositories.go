package repositories

import (
	"context"
	"time"

	"github.com/pumpledger/pump_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerReader defines read operations over the immutable ledger projection.
type LedgerReader interface {
	// FindEntriesByAccount retrieves ledger entries for an account ordered by
	// (transaction_date, entry_seq), optionally bounded by an inclusive date
	// range, with token pagination. A nil bound is open.
	FindEntriesByAccount(ctx context.Context, pumpID string, accountID string, from, to *time.Time, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)

	// FindEntriesByVoucherID retrieves the ledger entries projected from a voucher.
	FindEntriesByVoucherID(ctx context.Context, pumpID string, voucherID string) ([]domain.LedgerEntry, error)

	// SumSignedMovement returns the natural-signed net movement for the
	// account over the inclusive date range. Nil bounds are open.
	SumSignedMovement(ctx context.Context, pumpID string, accountID string, from, to *time.Time) (decimal.Decimal, error)
}

// LedgerWriter defines the only permitted mutations of ledger entries:
// reconciliation stamps and running-balance repair.
type LedgerWriter interface {
	// RecalculateRunningBalances replays every ledger entry for the account in
	// (transaction_date, entry_seq) order, reseeded from the account's opening
	// balance, overwriting each running balance and the account's current
	// balance. Used for repair after backdated postings.
	RecalculateRunningBalances(ctx context.Context, pumpID string, accountID string) error

	// UpdateReconciliation toggles an entry's reconciliation stamp.
	UpdateReconciliation(ctx context.Context, pumpID string, ledgerEntryID string, reconciled bool, reconciledBy string, at time.Time) error
}

// LedgerRepositoryFacade combines the ledger repository interfaces.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
