package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/pumpledger/pump_ledger_app/internal/apperrors"
	"github.com/pumpledger/pump_ledger_app/internal/core/domain"
	portsrepo "github.com/pumpledger/pump_ledger_app/internal/core/ports/repositories"
	"github.com/pumpledger/pump_ledger_app/internal/dto"
	"github.com/pumpledger/pump_ledger_app/internal/utils/accounting"
	"github.com/pumpledger/pump_ledger_app/internal/utils/pagination"
)

type memVoucherRepository struct {
	*store
}

var _ portsrepo.VoucherRepositoryFacade = (*memVoucherRepository)(nil)

func cloneEntries(entries []domain.VoucherEntry) []domain.VoucherEntry {
	out := make([]domain.VoucherEntry, len(entries))
	copy(out, entries)
	return out
}

func (r *memVoucherRepository) SaveVoucher(ctx context.Context, voucher domain.Voucher) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, v := range r.vouchers {
		if v.PumpID == voucher.PumpID && v.VoucherNumber == voucher.VoucherNumber {
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicateVoucherNumber, voucher.VoucherNumber)
		}
	}

	entries := cloneEntries(voucher.Entries)
	voucher.Entries = nil
	r.vouchers[voucher.VoucherID] = voucher
	r.voucherEntries[voucher.VoucherID] = entries
	return nil
}

func (r *memVoucherRepository) ReplaceVoucher(ctx context.Context, voucher domain.Voucher) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.vouchers[voucher.VoucherID]
	if !ok || existing.PumpID != voucher.PumpID {
		return fmt.Errorf("%w: voucher %s", apperrors.ErrNotFound, voucher.VoucherID)
	}
	if existing.IsPosted {
		return fmt.Errorf("%w: voucher %s is posted", apperrors.ErrImmutableVoucher, voucher.VoucherID)
	}

	entries := cloneEntries(voucher.Entries)
	voucher.Entries = nil
	r.vouchers[voucher.VoucherID] = voucher
	r.voucherEntries[voucher.VoucherID] = entries
	return nil
}

func (r *memVoucherRepository) UpdateVoucherHeader(ctx context.Context, voucher domain.Voucher) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.vouchers[voucher.VoucherID]
	if !ok || existing.PumpID != voucher.PumpID {
		return fmt.Errorf("%w: voucher %s", apperrors.ErrNotFound, voucher.VoucherID)
	}
	voucher.Entries = nil
	r.vouchers[voucher.VoucherID] = voucher
	return nil
}

func (r *memVoucherRepository) FindVoucherByID(ctx context.Context, pumpID string, voucherID string) (*domain.Voucher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	voucher, ok := r.vouchers[voucherID]
	if !ok || voucher.PumpID != pumpID {
		return nil, fmt.Errorf("%w: voucher %s", apperrors.ErrNotFound, voucherID)
	}
	return &voucher, nil
}

func (r *memVoucherRepository) FindVoucherByNumber(ctx context.Context, pumpID string, voucherNumber string) (*domain.Voucher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, v := range r.vouchers {
		if v.PumpID == pumpID && v.VoucherNumber == voucherNumber {
			voucher := v
			return &voucher, nil
		}
	}
	return nil, fmt.Errorf("%w: voucher number %s", apperrors.ErrNotFound, voucherNumber)
}

func (r *memVoucherRepository) FindEntriesByVoucherID(ctx context.Context, voucherID string) ([]domain.VoucherEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneEntries(r.voucherEntries[voucherID]), nil
}

func (r *memVoucherRepository) ListVouchers(ctx context.Context, pumpID string, params dto.ListVouchersParams) ([]domain.Voucher, *string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	vouchers := make([]domain.Voucher, 0)
	for _, v := range r.vouchers {
		if v.PumpID != pumpID {
			continue
		}
		if params.From != nil && v.VoucherDate.Before(*params.From) {
			continue
		}
		if params.To != nil && v.VoucherDate.After(*params.To) {
			continue
		}
		if params.Status != nil && string(v.Status) != *params.Status {
			continue
		}
		vouchers = append(vouchers, v)
	}

	// Newest first, matching the SQL backend's ordering.
	sort.Slice(vouchers, func(i, j int) bool {
		if !vouchers[i].VoucherDate.Equal(vouchers[j].VoucherDate) {
			return vouchers[i].VoucherDate.After(vouchers[j].VoucherDate)
		}
		return vouchers[i].CreatedAt.After(vouchers[j].CreatedAt)
	})

	if params.NextToken != nil {
		voucherDate, createdAt, err := pagination.DecodeToken(*params.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		filtered := vouchers[:0]
		for _, v := range vouchers {
			if v.VoucherDate.Before(voucherDate) ||
				(v.VoucherDate.Equal(voucherDate) && v.CreatedAt.Before(createdAt)) {
				filtered = append(filtered, v)
			}
		}
		vouchers = filtered
	}

	var nextToken *string
	if len(vouchers) > params.Limit {
		vouchers = vouchers[:params.Limit]
		last := vouchers[len(vouchers)-1]
		token := pagination.EncodeToken(last.VoucherDate, last.CreatedAt)
		nextToken = &token
	}
	return vouchers, nextToken, nil
}

// postLocked applies the ledger projection for a voucher already present in
// the maps. Caller holds the write lock.
func (r *store) postLocked(voucher domain.Voucher, entries []domain.VoucherEntry) error {
	for _, e := range entries {
		account, ok := r.accounts[e.AccountID]
		if !ok || account.PumpID != voucher.PumpID {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, e.AccountID)
		}
		signed, err := accounting.SignedAmount(e.EntryType, e.Amount, account.BalanceType)
		if err != nil {
			return err
		}
		account.CurrentBalance = account.CurrentBalance.Add(signed)
		account.LastUpdatedAt = voucher.LastUpdatedAt
		account.LastUpdatedBy = voucher.LastUpdatedBy
		r.accounts[e.AccountID] = account

		r.ledgerEntries = append(r.ledgerEntries, domain.LedgerEntry{
			LedgerEntryID:   uuid.NewString(),
			PumpID:          voucher.PumpID,
			AccountID:       e.AccountID,
			VoucherID:       voucher.VoucherID,
			VoucherNumber:   voucher.VoucherNumber,
			TransactionDate: voucher.VoucherDate,
			EntryType:       e.EntryType,
			Amount:          e.Amount,
			Narration:       e.Narration,
			Reference:       e.Reference,
			PartyName:       e.PartyName,
			RunningBalance:  account.CurrentBalance,
			EntrySeq:        r.nextEntrySeq,
			AuditFields: domain.AuditFields{
				CreatedAt:     voucher.LastUpdatedAt,
				CreatedBy:     voucher.LastUpdatedBy,
				LastUpdatedAt: voucher.LastUpdatedAt,
				LastUpdatedBy: voucher.LastUpdatedBy,
			},
		})
		r.nextEntrySeq++
	}
	return nil
}

func (r *memVoucherRepository) PostVoucher(ctx context.Context, voucher domain.Voucher) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.vouchers[voucher.VoucherID]
	if !ok || existing.PumpID != voucher.PumpID {
		return fmt.Errorf("%w: voucher %s", apperrors.ErrNotFound, voucher.VoucherID)
	}
	if existing.IsPosted {
		return fmt.Errorf("%w: voucher %s", apperrors.ErrAlreadyPosted, voucher.VoucherID)
	}
	if existing.IsCancelled {
		return fmt.Errorf("%w: voucher %s", apperrors.ErrAlreadyCancelled, voucher.VoucherID)
	}

	// Snapshot for rollback if the projection fails mid-way.
	accountsBefore := make(map[string]domain.Account, len(voucher.Entries))
	for _, e := range voucher.Entries {
		if a, ok := r.accounts[e.AccountID]; ok {
			accountsBefore[e.AccountID] = a
		}
	}
	ledgerLenBefore := len(r.ledgerEntries)
	seqBefore := r.nextEntrySeq

	if err := r.postLocked(voucher, voucher.Entries); err != nil {
		for id, a := range accountsBefore {
			r.accounts[id] = a
		}
		r.ledgerEntries = r.ledgerEntries[:ledgerLenBefore]
		r.nextEntrySeq = seqBefore
		return err
	}

	entries := voucher.Entries
	voucher.Entries = nil
	r.vouchers[voucher.VoucherID] = voucher
	r.voucherEntries[voucher.VoucherID] = cloneEntries(entries)
	return nil
}

func (r *memVoucherRepository) PostReversal(ctx context.Context, reversal domain.Voucher, original domain.Voucher) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.vouchers[original.VoucherID]
	if !ok || existing.PumpID != original.PumpID {
		return fmt.Errorf("%w: voucher %s", apperrors.ErrNotFound, original.VoucherID)
	}
	if existing.IsCancelled || existing.ReversedByVoucherID != nil {
		return fmt.Errorf("%w: voucher %s", apperrors.ErrAlreadyCancelled, original.VoucherID)
	}

	accountsBefore := make(map[string]domain.Account, len(reversal.Entries))
	for _, e := range reversal.Entries {
		if a, ok := r.accounts[e.AccountID]; ok {
			accountsBefore[e.AccountID] = a
		}
	}
	ledgerLenBefore := len(r.ledgerEntries)
	seqBefore := r.nextEntrySeq

	if err := r.postLocked(reversal, reversal.Entries); err != nil {
		for id, a := range accountsBefore {
			r.accounts[id] = a
		}
		r.ledgerEntries = r.ledgerEntries[:ledgerLenBefore]
		r.nextEntrySeq = seqBefore
		return err
	}

	reversalEntries := cloneEntries(reversal.Entries)
	reversal.Entries = nil
	r.vouchers[reversal.VoucherID] = reversal
	r.voucherEntries[reversal.VoucherID] = reversalEntries

	original.Entries = nil
	r.vouchers[original.VoucherID] = original
	return nil
}

func (r *memVoucherRepository) NextVoucherSequence(ctx context.Context, pumpID string, voucherType domain.VoucherType, date time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := fmt.Sprintf("%s|%s|%s", pumpID, voucherType, date.Format("20060102"))
	next := r.sequences[key]
	if next == 0 {
		next = 1
	}
	r.sequences[key] = next + 1
	return next, nil
}
