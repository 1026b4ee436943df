package services

import (
	"context"

	"github.com/pumpledger/pump_ledger_app/internal/core/domain"
	"github.com/pumpledger/pump_ledger_app/internal/dto"
)

// VoucherReaderSvc defines read operations for vouchers.
type VoucherReaderSvc interface {
	// GetVoucherByID retrieves a voucher with its entries.
	GetVoucherByID(ctx context.Context, pumpID string, voucherID string) (*domain.Voucher, error)

	// ListVouchers retrieves a filtered, token-paginated voucher list.
	ListVouchers(ctx context.Context, pumpID string, params dto.ListVouchersParams) (*dto.ListVouchersResponse, error)
}

// VoucherWriterSvc drives the voucher lifecycle:
// DRAFT -> APPROVED -> POSTED, with DRAFT/APPROVED -> CANCELLED.
type VoucherWriterSvc interface {
	// CreateVoucher validates the double-entry invariant, assigns a voucher
	// number if absent and persists the voucher as DRAFT.
	CreateVoucher(ctx context.Context, pumpID string, req dto.CreateVoucherRequest, creatorID string) (*domain.Voucher, error)

	// UpdateVoucher replaces a non-posted voucher's entries wholesale and
	// revalidates the double-entry invariant.
	UpdateVoucher(ctx context.Context, pumpID string, voucherID string, req dto.UpdateVoucherRequest, updaterID string) (*domain.Voucher, error)

	// ApproveVoucher transitions a DRAFT voucher to APPROVED.
	ApproveVoucher(ctx context.Context, pumpID string, voucherID string, approverID string) (*domain.Voucher, error)

	// PostVoucher irreversibly posts the voucher, materializing one ledger
	// entry per voucher entry.
	PostVoucher(ctx context.Context, pumpID string, voucherID string, posterID string) (*domain.Voucher, error)

	// CancelVoucher cancels a voucher. A posted voucher is cancelled by
	// generating and posting a reversing voucher; the returned voucher is the
	// reversal in that case, the cancelled original otherwise.
	CancelVoucher(ctx context.Context, pumpID string, voucherID string, cancellerID string, reason string) (*domain.Voucher, error)

	// ReconcileVoucher marks a posted voucher reconciled.
	ReconcileVoucher(ctx context.Context, pumpID string, voucherID string, reconcilerID string) (*domain.Voucher, error)

	// UnreconcileVoucher clears the reconciliation flag.
	UnreconcileVoucher(ctx context.Context, pumpID string, voucherID string, reconcilerID string) (*domain.Voucher, error)
}

// VoucherSvcFacade combines the voucher service interfaces.
type VoucherSvcFacade interface {
	VoucherReaderSvc
	VoucherWriterSvc
}
