package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pumpledger/pump_ledger_app/internal/apperrors"
	"github.com/pumpledger/pump_ledger_app/internal/core/domain"
	portsrepo "github.com/pumpledger/pump_ledger_app/internal/core/ports/repositories"
	"github.com/pumpledger/pump_ledger_app/internal/utils/accounting"
	"github.com/pumpledger/pump_ledger_app/internal/utils/pagination"
)

type memLedgerRepository struct {
	*store
}

var _ portsrepo.LedgerRepositoryFacade = (*memLedgerRepository)(nil)

// accountEntriesLocked returns the account's entries ordered by
// (transaction_date, entry_seq). Caller holds at least the read lock.
func (r *store) accountEntriesLocked(pumpID string, accountID string, from, to *time.Time) []domain.LedgerEntry {
	entries := make([]domain.LedgerEntry, 0)
	for _, e := range r.ledgerEntries {
		if e.PumpID != pumpID || e.AccountID != accountID {
			continue
		}
		if from != nil && e.TransactionDate.Before(*from) {
			continue
		}
		if to != nil && e.TransactionDate.After(*to) {
			continue
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].TransactionDate.Equal(entries[j].TransactionDate) {
			return entries[i].TransactionDate.Before(entries[j].TransactionDate)
		}
		return entries[i].EntrySeq < entries[j].EntrySeq
	})
	return entries
}

func (r *memLedgerRepository) FindEntriesByAccount(ctx context.Context, pumpID string, accountID string, from, to *time.Time, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.accountEntriesLocked(pumpID, accountID, from, to)

	if nextToken != nil {
		tokDate, tokSeq, err := pagination.DecodeEntryToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		idx := sort.Search(len(entries), func(i int) bool {
			if !entries[i].TransactionDate.Equal(tokDate) {
				return entries[i].TransactionDate.After(tokDate)
			}
			return entries[i].EntrySeq > tokSeq
		})
		entries = entries[idx:]
	}

	var token *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		t := pagination.EncodeEntryToken(last.TransactionDate, last.EntrySeq)
		token = &t
	}
	out := make([]domain.LedgerEntry, len(entries))
	copy(out, entries)
	return out, token, nil
}

func (r *memLedgerRepository) FindEntriesByVoucherID(ctx context.Context, pumpID string, voucherID string) ([]domain.LedgerEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]domain.LedgerEntry, 0)
	for _, e := range r.ledgerEntries {
		if e.PumpID == pumpID && e.VoucherID == voucherID {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].EntrySeq < entries[j].EntrySeq })
	return entries, nil
}

func (r *memLedgerRepository) SumSignedMovement(ctx context.Context, pumpID string, accountID string, from, to *time.Time) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[accountID]
	if !ok || account.PumpID != pumpID {
		return decimal.Zero, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}

	sum := decimal.Zero
	for _, e := range r.accountEntriesLocked(pumpID, accountID, from, to) {
		signed, err := accounting.SignedAmount(e.EntryType, e.Amount, account.BalanceType)
		if err != nil {
			return decimal.Zero, err
		}
		sum = sum.Add(signed)
	}
	return sum, nil
}

func (r *memLedgerRepository) RecalculateRunningBalances(ctx context.Context, pumpID string, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[accountID]
	if !ok || account.PumpID != pumpID {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}

	ordered := r.accountEntriesLocked(pumpID, accountID, nil, nil)
	balance := account.OpeningBalance
	rewritten := make(map[string]decimal.Decimal, len(ordered))
	for _, e := range ordered {
		signed, err := accounting.SignedAmount(e.EntryType, e.Amount, account.BalanceType)
		if err != nil {
			return err
		}
		balance = balance.Add(signed)
		rewritten[e.LedgerEntryID] = balance
	}

	for i := range r.ledgerEntries {
		if b, ok := rewritten[r.ledgerEntries[i].LedgerEntryID]; ok {
			r.ledgerEntries[i].RunningBalance = b
		}
	}
	account.CurrentBalance = balance
	r.accounts[accountID] = account
	return nil
}

func (r *memLedgerRepository) UpdateReconciliation(ctx context.Context, pumpID string, ledgerEntryID string, reconciled bool, reconciledBy string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.ledgerEntries {
		e := &r.ledgerEntries[i]
		if e.PumpID != pumpID || e.LedgerEntryID != ledgerEntryID {
			continue
		}
		e.IsReconciled = reconciled
		if reconciled {
			e.ReconciledAt = &at
			e.ReconciledBy = reconciledBy
		} else {
			e.ReconciledAt = nil
			e.ReconciledBy = ""
		}
		e.LastUpdatedAt = at
		e.LastUpdatedBy = reconciledBy
		return nil
	}
	return fmt.Errorf("%w: ledger entry %s", apperrors.ErrNotFound, ledgerEntryID)
}
