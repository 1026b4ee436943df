package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pumpledger/pump_ledger_app/internal/apperrors"
	"github.com/pumpledger/pump_ledger_app/internal/core/domain"
	portsrepo "github.com/pumpledger/pump_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/pumpledger/pump_ledger_app/internal/core/ports/services"
	"github.com/pumpledger/pump_ledger_app/internal/dto"
	"github.com/pumpledger/pump_ledger_app/internal/events"
	"github.com/pumpledger/pump_ledger_app/internal/utils/accounting"
)

// voucherService implements the VoucherSvcFacade interface.
type voucherService struct {
	BaseService
	voucherRepo portsrepo.VoucherRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	publisher   events.Publisher
}

// NewVoucherService creates a new voucher lifecycle service.
func NewVoucherService(voucherRepo portsrepo.VoucherRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, ledgerRepo portsrepo.LedgerRepositoryFacade, publisher events.Publisher) portssvc.VoucherSvcFacade {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &voucherService{
		voucherRepo: voucherRepo,
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		publisher:   publisher,
	}
}

// Ensure voucherService implements the VoucherSvcFacade interface
var _ portssvc.VoucherSvcFacade = (*voucherService)(nil)

// buildEntries converts the request lines to domain entries with fresh IDs.
func buildEntries(voucherID string, reqs []dto.CreateVoucherEntryRequest, actorID string, now time.Time) []domain.VoucherEntry {
	entries := make([]domain.VoucherEntry, len(reqs))
	for i, r := range reqs {
		entries[i] = domain.VoucherEntry{
			EntryID:   uuid.NewString(),
			VoucherID: voucherID,
			AccountID: r.AccountID,
			EntryType: domain.EntryType(r.EntryType),
			Amount:    r.Amount,
			Narration: r.Narration,
			Reference: r.Reference,
			PartyName: r.PartyName,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorID,
			},
		}
	}
	return entries
}

// checkEntryAccounts verifies that every referenced account exists, is active
// and is not locked.
func (s *voucherService) checkEntryAccounts(ctx context.Context, pumpID string, entries []domain.VoucherEntry) error {
	ids := make([]string, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.AccountID]; ok {
			continue
		}
		seen[e.AccountID] = struct{}{}
		ids = append(ids, e.AccountID)
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, pumpID, ids)
	if err != nil {
		return fmt.Errorf("failed to fetch entry accounts: %w", err)
	}
	for _, id := range ids {
		account, ok := accounts[id]
		if !ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
		if !account.IsActive {
			return fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, account.Code)
		}
		if account.IsLocked {
			return fmt.Errorf("%w: account %s", apperrors.ErrLocked, account.Code)
		}
	}
	return nil
}

// allocateVoucherNumber builds the next number from the per-(pump, type, day)
// sequence: a three-letter prefix, yyyyMMdd and a zero-padded counter.
func (s *voucherService) allocateVoucherNumber(ctx context.Context, pumpID string, voucherType domain.VoucherType, date time.Time) (string, error) {
	seq, err := s.voucherRepo.NextVoucherSequence(ctx, pumpID, voucherType, date)
	if err != nil {
		return "", fmt.Errorf("failed to allocate voucher sequence: %w", err)
	}
	return fmt.Sprintf("%s%s%04d", voucherType.NumberPrefix(), date.Format("20060102"), seq), nil
}

func (s *voucherService) CreateVoucher(ctx context.Context, pumpID string, req dto.CreateVoucherRequest, creatorID string) (*domain.Voucher, error) {
	voucherType := domain.VoucherType(req.VoucherType)
	if _, ok := map[domain.VoucherType]struct{}{
		domain.CustomerReceipt: {}, domain.PaymentVoucher: {}, domain.MiscellaneousReceipt: {},
		domain.JournalVoucher: {}, domain.CashDeposit: {}, domain.CashWithdrawal: {},
		domain.ContraVoucher: {}, domain.ChequeReturn: {},
	}[voucherType]; !ok {
		return nil, fmt.Errorf("%w: unknown voucher type '%s'", apperrors.ErrValidation, req.VoucherType)
	}

	now := time.Now().UTC()
	voucherID := uuid.NewString()
	entries := buildEntries(voucherID, req.Entries, creatorID, now)

	total, err := accounting.ValidateEntries(entries)
	if err != nil {
		return nil, err
	}
	if err := s.checkEntryAccounts(ctx, pumpID, entries); err != nil {
		return nil, err
	}

	voucherNumber := req.VoucherNumber
	if voucherNumber == "" {
		voucherNumber, err = s.allocateVoucherNumber(ctx, pumpID, voucherType, req.VoucherDate)
		if err != nil {
			s.LogError(ctx, err, "Failed to allocate voucher number", slog.String("pump_id", pumpID))
			return nil, err
		}
	} else {
		existing, err := s.voucherRepo.FindVoucherByNumber(ctx, pumpID, voucherNumber)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to check voucher number: %w", err)
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrDuplicateVoucherNumber, voucherNumber)
		}
	}

	voucher := domain.Voucher{
		VoucherID:     voucherID,
		PumpID:        pumpID,
		VoucherNumber: voucherNumber,
		VoucherType:   voucherType,
		VoucherDate:   req.VoucherDate,
		Narration:     req.Narration,
		Reference:     req.Reference,
		PartyName:     req.PartyName,
		PaymentMode:   req.PaymentMode,
		ChequeNumber:  req.ChequeNumber,
		ChequeDate:    req.ChequeDate,
		BankName:      req.BankName,
		TotalAmount:   total,
		Status:        domain.StatusDraft,
		Entries:       entries,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}

	if err := s.voucherRepo.SaveVoucher(ctx, voucher); err != nil {
		s.LogError(ctx, err, "Failed to save voucher", slog.String("pump_id", pumpID), slog.String("voucher_number", voucherNumber))
		return nil, fmt.Errorf("failed to save voucher: %w", err)
	}

	s.LogInfo(ctx, "Voucher created", slog.String("voucher_id", voucherID), slog.String("voucher_number", voucherNumber), slog.String("pump_id", pumpID))
	return &voucher, nil
}

func (s *voucherService) GetVoucherByID(ctx context.Context, pumpID string, voucherID string) (*domain.Voucher, error) {
	voucher, err := s.voucherRepo.FindVoucherByID(ctx, pumpID, voucherID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find voucher", slog.String("voucher_id", voucherID))
		}
		return nil, err
	}
	entries, err := s.voucherRepo.FindEntriesByVoucherID(ctx, voucherID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load voucher entries", slog.String("voucher_id", voucherID))
		return nil, fmt.Errorf("failed to load voucher entries: %w", err)
	}
	voucher.Entries = entries
	return voucher, nil
}

func (s *voucherService) ListVouchers(ctx context.Context, pumpID string, params dto.ListVouchersParams) (*dto.ListVouchersResponse, error) {
	if params.Limit <= 0 {
		params.Limit = 50
	}
	vouchers, nextToken, err := s.voucherRepo.ListVouchers(ctx, pumpID, params)
	if err != nil {
		s.LogError(ctx, err, "Failed to list vouchers", slog.String("pump_id", pumpID))
		return nil, fmt.Errorf("failed to list vouchers: %w", err)
	}
	return &dto.ListVouchersResponse{
		Vouchers:  dto.ToVoucherResponses(vouchers),
		NextToken: nextToken,
	}, nil
}

// guardMutable returns an error when the voucher can no longer be structurally
// edited.
func guardMutable(voucher *domain.Voucher) error {
	switch voucher.Status {
	case domain.StatusPosted:
		return fmt.Errorf("%w: voucher %s is posted", apperrors.ErrImmutableVoucher, voucher.VoucherNumber)
	case domain.StatusCancelled:
		return fmt.Errorf("%w: voucher %s", apperrors.ErrAlreadyCancelled, voucher.VoucherNumber)
	}
	return nil
}

func (s *voucherService) UpdateVoucher(ctx context.Context, pumpID string, voucherID string, req dto.UpdateVoucherRequest, updaterID string) (*domain.Voucher, error) {
	voucher, err := s.GetVoucherByID(ctx, pumpID, voucherID)
	if err != nil {
		return nil, err
	}
	if err := guardMutable(voucher); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if req.VoucherDate != nil {
		voucher.VoucherDate = *req.VoucherDate
	}
	if req.Narration != nil {
		voucher.Narration = *req.Narration
	}
	if req.Reference != nil {
		voucher.Reference = *req.Reference
	}
	if req.PartyName != nil {
		voucher.PartyName = *req.PartyName
	}
	if req.PaymentMode != nil {
		voucher.PaymentMode = *req.PaymentMode
	}
	if req.ChequeNumber != nil {
		voucher.ChequeNumber = *req.ChequeNumber
	}
	if req.ChequeDate != nil {
		voucher.ChequeDate = req.ChequeDate
	}
	if req.BankName != nil {
		voucher.BankName = *req.BankName
	}

	entries := buildEntries(voucherID, req.Entries, updaterID, now)
	total, err := accounting.ValidateEntries(entries)
	if err != nil {
		return nil, err
	}
	if err := s.checkEntryAccounts(ctx, pumpID, entries); err != nil {
		return nil, err
	}

	voucher.Entries = entries
	voucher.TotalAmount = total
	// An edit demotes an approved voucher back to draft for re-approval.
	voucher.Status = domain.StatusDraft
	voucher.ApprovedAt = nil
	voucher.ApprovedBy = ""
	voucher.LastUpdatedAt = now
	voucher.LastUpdatedBy = updaterID

	if err := s.voucherRepo.ReplaceVoucher(ctx, *voucher); err != nil {
		s.LogError(ctx, err, "Failed to replace voucher", slog.String("voucher_id", voucherID))
		return nil, fmt.Errorf("failed to update voucher: %w", err)
	}

	s.LogInfo(ctx, "Voucher updated", slog.String("voucher_id", voucherID))
	return voucher, nil
}

func (s *voucherService) ApproveVoucher(ctx context.Context, pumpID string, voucherID string, approverID string) (*domain.Voucher, error) {
	voucher, err := s.GetVoucherByID(ctx, pumpID, voucherID)
	if err != nil {
		return nil, err
	}
	if voucher.Status != domain.StatusDraft {
		if voucher.Status == domain.StatusPosted {
			return nil, fmt.Errorf("%w: voucher %s", apperrors.ErrAlreadyPosted, voucher.VoucherNumber)
		}
		return nil, fmt.Errorf("%w: cannot approve voucher in status %s", apperrors.ErrValidation, voucher.Status)
	}

	now := time.Now().UTC()
	voucher.Status = domain.StatusApproved
	voucher.ApprovedAt = &now
	voucher.ApprovedBy = approverID
	voucher.LastUpdatedAt = now
	voucher.LastUpdatedBy = approverID

	if err := s.voucherRepo.UpdateVoucherHeader(ctx, *voucher); err != nil {
		s.LogError(ctx, err, "Failed to approve voucher", slog.String("voucher_id", voucherID))
		return nil, fmt.Errorf("failed to approve voucher: %w", err)
	}

	s.LogInfo(ctx, "Voucher approved", slog.String("voucher_id", voucherID), slog.String("approved_by", approverID))
	return voucher, nil
}

func (s *voucherService) PostVoucher(ctx context.Context, pumpID string, voucherID string, posterID string) (*domain.Voucher, error) {
	voucher, err := s.GetVoucherByID(ctx, pumpID, voucherID)
	if err != nil {
		return nil, err
	}
	// Approval is an optional checkpoint, not a posting prerequisite.
	switch voucher.Status {
	case domain.StatusDraft, domain.StatusApproved:
		// proceed
	case domain.StatusPosted:
		return nil, fmt.Errorf("%w: voucher %s", apperrors.ErrAlreadyPosted, voucher.VoucherNumber)
	case domain.StatusCancelled:
		return nil, fmt.Errorf("%w: voucher %s", apperrors.ErrAlreadyCancelled, voucher.VoucherNumber)
	default:
		return nil, fmt.Errorf("%w: voucher %s is in unknown status %s", apperrors.ErrValidation, voucher.VoucherNumber, voucher.Status)
	}

	// Revalidate before the irreversible transition.
	if _, err := accounting.ValidateEntries(voucher.Entries); err != nil {
		return nil, err
	}
	if err := s.checkEntryAccounts(ctx, pumpID, voucher.Entries); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	voucher.Status = domain.StatusPosted
	voucher.IsPosted = true
	voucher.PostedAt = &now
	voucher.PostedBy = posterID
	voucher.LastUpdatedAt = now
	voucher.LastUpdatedBy = posterID

	if err := s.voucherRepo.PostVoucher(ctx, *voucher); err != nil {
		s.LogError(ctx, err, "Failed to post voucher", slog.String("voucher_id", voucherID))
		return nil, fmt.Errorf("failed to post voucher: %w", err)
	}

	s.publishEvent(ctx, events.TypeVoucherPosted, voucher, posterID)
	s.LogInfo(ctx, "Voucher posted", slog.String("voucher_id", voucherID), slog.String("voucher_number", voucher.VoucherNumber), slog.String("posted_by", posterID))
	return voucher, nil
}

func (s *voucherService) CancelVoucher(ctx context.Context, pumpID string, voucherID string, cancellerID string, reason string) (*domain.Voucher, error) {
	voucher, err := s.GetVoucherByID(ctx, pumpID, voucherID)
	if err != nil {
		return nil, err
	}
	if voucher.Status == domain.StatusCancelled {
		return nil, fmt.Errorf("%w: voucher %s", apperrors.ErrAlreadyCancelled, voucher.VoucherNumber)
	}

	if voucher.Status == domain.StatusPosted {
		return s.cancelPostedVoucher(ctx, voucher, cancellerID, reason)
	}

	now := time.Now().UTC()
	voucher.Status = domain.StatusCancelled
	voucher.IsCancelled = true
	voucher.CancelledAt = &now
	voucher.CancelledBy = cancellerID
	voucher.CancellationReason = reason
	voucher.LastUpdatedAt = now
	voucher.LastUpdatedBy = cancellerID

	if err := s.voucherRepo.UpdateVoucherHeader(ctx, *voucher); err != nil {
		s.LogError(ctx, err, "Failed to cancel voucher", slog.String("voucher_id", voucherID))
		return nil, fmt.Errorf("failed to cancel voucher: %w", err)
	}

	s.LogInfo(ctx, "Voucher cancelled", slog.String("voucher_id", voucherID), slog.String("cancelled_by", cancellerID))
	return voucher, nil
}

// cancelPostedVoucher generates and posts a reversing journal voucher with
// flipped entries, then marks the original cancelled. Both sides persist in
// one repository transaction so ledger and voucher state never diverge.
func (s *voucherService) cancelPostedVoucher(ctx context.Context, original *domain.Voucher, cancellerID string, reason string) (*domain.Voucher, error) {
	if original.ReversedByVoucherID != nil {
		return nil, fmt.Errorf("%w: voucher %s is already reversed", apperrors.ErrAlreadyCancelled, original.VoucherNumber)
	}

	now := time.Now().UTC()
	reversalID := uuid.NewString()

	reversalNumber, err := s.allocateVoucherNumber(ctx, original.PumpID, domain.JournalVoucher, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to allocate reversal number", slog.String("voucher_id", original.VoucherID))
		return nil, err
	}

	reversalEntries := make([]domain.VoucherEntry, len(original.Entries))
	for i, e := range original.Entries {
		flipped := domain.Credit
		if e.EntryType == domain.Credit {
			flipped = domain.Debit
		}
		reversalEntries[i] = domain.VoucherEntry{
			EntryID:   uuid.NewString(),
			VoucherID: reversalID,
			AccountID: e.AccountID,
			EntryType: flipped,
			Amount:    e.Amount,
			Narration: fmt.Sprintf("Reversal of %s", original.VoucherNumber),
			Reference: original.VoucherNumber,
			PartyName: e.PartyName,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     cancellerID,
				LastUpdatedAt: now,
				LastUpdatedBy: cancellerID,
			},
		}
	}

	reversal := domain.Voucher{
		VoucherID:           reversalID,
		PumpID:              original.PumpID,
		VoucherNumber:       reversalNumber,
		VoucherType:         domain.JournalVoucher,
		VoucherDate:         now,
		Narration:           fmt.Sprintf("Reversal of %s: %s", original.VoucherNumber, reason),
		Reference:           original.VoucherNumber,
		TotalAmount:         original.TotalAmount,
		Status:              domain.StatusPosted,
		IsPosted:            true,
		PostedAt:            &now,
		PostedBy:            cancellerID,
		ApprovedAt:          &now,
		ApprovedBy:          cancellerID,
		ReversalOfVoucherID: &original.VoucherID,
		Entries:             reversalEntries,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     cancellerID,
			LastUpdatedAt: now,
			LastUpdatedBy: cancellerID,
		},
	}

	original.Status = domain.StatusCancelled
	original.IsCancelled = true
	original.CancelledAt = &now
	original.CancelledBy = cancellerID
	original.CancellationReason = reason
	original.ReversedByVoucherID = &reversalID
	original.LastUpdatedAt = now
	original.LastUpdatedBy = cancellerID

	if err := s.voucherRepo.PostReversal(ctx, reversal, *original); err != nil {
		s.LogError(ctx, err, "Failed to post reversal", slog.String("voucher_id", original.VoucherID))
		return nil, fmt.Errorf("failed to post reversal: %w", err)
	}

	s.publishEvent(ctx, events.TypeVoucherCancelled, original, cancellerID)
	s.LogInfo(ctx, "Posted voucher cancelled via reversal",
		slog.String("voucher_id", original.VoucherID),
		slog.String("reversal_id", reversalID),
		slog.String("reversal_number", reversalNumber))
	return &reversal, nil
}

func (s *voucherService) ReconcileVoucher(ctx context.Context, pumpID string, voucherID string, reconcilerID string) (*domain.Voucher, error) {
	return s.setReconciled(ctx, pumpID, voucherID, reconcilerID, true)
}

func (s *voucherService) UnreconcileVoucher(ctx context.Context, pumpID string, voucherID string, reconcilerID string) (*domain.Voucher, error) {
	return s.setReconciled(ctx, pumpID, voucherID, reconcilerID, false)
}

func (s *voucherService) setReconciled(ctx context.Context, pumpID string, voucherID string, reconcilerID string, reconciled bool) (*domain.Voucher, error) {
	voucher, err := s.GetVoucherByID(ctx, pumpID, voucherID)
	if err != nil {
		return nil, err
	}
	if voucher.Status != domain.StatusPosted {
		return nil, fmt.Errorf("%w: voucher %s", apperrors.ErrNotPosted, voucher.VoucherNumber)
	}

	now := time.Now().UTC()
	voucher.IsReconciled = reconciled
	if reconciled {
		voucher.ReconciledAt = &now
		voucher.ReconciledBy = reconcilerID
	} else {
		voucher.ReconciledAt = nil
		voucher.ReconciledBy = ""
	}
	voucher.LastUpdatedAt = now
	voucher.LastUpdatedBy = reconcilerID

	if err := s.voucherRepo.UpdateVoucherHeader(ctx, *voucher); err != nil {
		s.LogError(ctx, err, "Failed to update voucher reconciliation", slog.String("voucher_id", voucherID))
		return nil, fmt.Errorf("failed to update reconciliation: %w", err)
	}

	// The voucher's ledger lines carry the same mark, and on reconcile the
	// touched accounts snapshot their reconciled balance.
	ledgerEntries, err := s.ledgerRepo.FindEntriesByVoucherID(ctx, pumpID, voucherID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger entries for reconciliation: %w", err)
	}
	touchedAccounts := make(map[string]struct{}, len(ledgerEntries))
	for _, entry := range ledgerEntries {
		if err := s.ledgerRepo.UpdateReconciliation(ctx, pumpID, entry.LedgerEntryID, reconciled, reconcilerID, now); err != nil {
			return nil, fmt.Errorf("failed to update ledger entry reconciliation: %w", err)
		}
		touchedAccounts[entry.AccountID] = struct{}{}
	}
	if reconciled {
		for accountID := range touchedAccounts {
			if err := s.accountRepo.UpdateReconciliation(ctx, pumpID, accountID, reconcilerID, now); err != nil {
				return nil, fmt.Errorf("failed to update account reconciliation: %w", err)
			}
		}
	}
	return voucher, nil
}

// publishEvent emits the lifecycle event; failures are logged, never fatal.
func (s *voucherService) publishEvent(ctx context.Context, eventType string, voucher *domain.Voucher, actorID string) {
	event := events.VoucherEvent{
		Type:          eventType,
		PumpID:        voucher.PumpID,
		VoucherID:     voucher.VoucherID,
		VoucherNumber: voucher.VoucherNumber,
		VoucherType:   string(voucher.VoucherType),
		TotalAmount:   voucher.TotalAmount,
		ActorID:       actorID,
		OccurredAt:    time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.LogError(ctx, err, "Failed to publish voucher event", slog.String("event_type", eventType), slog.String("voucher_id", voucher.VoucherID))
	}
}
