package repositories

import (
	"context"
	"time"

	"github.com/pumpledger/pump_ledger_app/internal/core/domain"
)

// AccountReader defines read operations for chart-of-accounts data.
type AccountReader interface {
	// FindAccountByID retrieves a specific account within a pump by its unique identifier.
	FindAccountByID(ctx context.Context, pumpID string, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its code within a pump.
	FindAccountByCode(ctx context.Context, pumpID string, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs.
	FindAccountsByIDs(ctx context.Context, pumpID string, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts for a given pump.
	ListAccounts(ctx context.Context, pumpID string, limit int, offset int) ([]domain.Account, error)

	// FindActiveAccounts retrieves every active account under the pump,
	// used by statement generation.
	FindActiveAccounts(ctx context.Context, pumpID string) ([]domain.Account, error)
}

// AccountWriter defines write operations for chart-of-accounts data.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an existing account's details.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeleteAccount removes an account. Lock/system-account guards are
	// enforced by the service before this is called.
	DeleteAccount(ctx context.Context, pumpID string, accountID string) error

	// UpdateReconciliation stamps the reconciled balance and timestamp.
	UpdateReconciliation(ctx context.Context, pumpID string, accountID string, reconciledBy string, at time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
