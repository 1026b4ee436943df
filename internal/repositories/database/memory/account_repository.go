package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/pumpledger/pump_ledger_app/internal/apperrors"
	"github.com/pumpledger/pump_ledger_app/internal/core/domain"
	portsrepo "github.com/pumpledger/pump_ledger_app/internal/core/ports/repositories"
)

type memAccountRepository struct {
	*store
}

var _ portsrepo.AccountRepositoryFacade = (*memAccountRepository)(nil)

func (r *memAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.accounts {
		if a.PumpID == account.PumpID && a.Code == account.Code {
			return fmt.Errorf("%w: code %s in pump %s", apperrors.ErrDuplicateCode, account.Code, account.PumpID)
		}
	}
	r.accounts[account.AccountID] = account
	return nil
}

func (r *memAccountRepository) FindAccountByID(ctx context.Context, pumpID string, accountID string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[accountID]
	if !ok || account.PumpID != pumpID {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return &account, nil
}

func (r *memAccountRepository) FindAccountByCode(ctx context.Context, pumpID string, code string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.accounts {
		if a.PumpID == pumpID && a.Code == code {
			account := a
			return &account, nil
		}
	}
	return nil, fmt.Errorf("%w: account code %s", apperrors.ErrNotFound, code)
}

func (r *memAccountRepository) FindAccountsByIDs(ctx context.Context, pumpID string, accountIDs []string) (map[string]domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if a, ok := r.accounts[id]; ok && a.PumpID == pumpID {
			result[id] = a
		}
	}
	return result, nil
}

func (r *memAccountRepository) sortedPumpAccounts(pumpID string, activeOnly bool) []domain.Account {
	accounts := make([]domain.Account, 0)
	for _, a := range r.accounts {
		if a.PumpID != pumpID {
			continue
		}
		if activeOnly && !a.IsActive {
			continue
		}
		accounts = append(accounts, a)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })
	return accounts
}

func (r *memAccountRepository) ListAccounts(ctx context.Context, pumpID string, limit int, offset int) ([]domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	accounts := r.sortedPumpAccounts(pumpID, false)
	if offset >= len(accounts) {
		return []domain.Account{}, nil
	}
	end := offset + limit
	if end > len(accounts) {
		end = len(accounts)
	}
	return accounts[offset:end], nil
}

func (r *memAccountRepository) FindActiveAccounts(ctx context.Context, pumpID string) ([]domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedPumpAccounts(pumpID, true), nil
}

func (r *memAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.accounts[account.AccountID]
	if !ok || existing.PumpID != account.PumpID {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, account.AccountID)
	}
	r.accounts[account.AccountID] = account
	return nil
}

func (r *memAccountRepository) DeleteAccount(ctx context.Context, pumpID string, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.accounts[accountID]
	if !ok || existing.PumpID != pumpID {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	for _, le := range r.ledgerEntries {
		if le.AccountID == accountID {
			return fmt.Errorf("%w: account %s has ledger activity", apperrors.ErrValidation, accountID)
		}
	}
	delete(r.accounts, accountID)
	return nil
}

func (r *memAccountRepository) UpdateReconciliation(ctx context.Context, pumpID string, accountID string, reconciledBy string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[accountID]
	if !ok || account.PumpID != pumpID {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	account.ReconciledBalance = account.CurrentBalance
	account.LastReconciledAt = &at
	account.LastUpdatedAt = at
	account.LastUpdatedBy = reconciledBy
	r.accounts[accountID] = account
	return nil
}
