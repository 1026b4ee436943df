package services

import (
	"context"

	"github.com/pumpledger/pump_ledger_app/internal/core/domain"
	"github.com/pumpledger/pump_ledger_app/internal/dto"
)

// AccountReaderSvc defines read operations for the account registry.
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its ID.
	GetAccountByID(ctx context.Context, pumpID string, accountID string) (*domain.Account, error)

	// GetAccountByCode retrieves an account by its code within the pump.
	GetAccountByCode(ctx context.Context, pumpID string, code string) (*domain.Account, error)

	// GetAccountsByIDs retrieves multiple accounts keyed by ID.
	GetAccountsByIDs(ctx context.Context, pumpID string, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves a paginated account list for the pump.
	ListAccounts(ctx context.Context, pumpID string, limit int, offset int) ([]domain.Account, error)
}

// AccountWriterSvc defines registry mutations.
type AccountWriterSvc interface {
	// CreateAccount validates and persists a new account.
	CreateAccount(ctx context.Context, pumpID string, req dto.CreateAccountRequest, creatorID string) (*domain.Account, error)

	// UpdateAccount applies a full-field update to an unlocked account.
	UpdateAccount(ctx context.Context, pumpID string, accountID string, req dto.UpdateAccountRequest, updaterID string) (*domain.Account, error)

	// DeleteAccount removes an account unless it is locked or a system account.
	DeleteAccount(ctx context.Context, pumpID string, accountID string, deleterID string) error

	// SeedDefaultChart idempotently creates the standard system account set
	// for a pump.
	SeedDefaultChart(ctx context.Context, pumpID string, creatorID string) ([]domain.Account, error)
}

// AccountSvcFacade combines all account registry service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
