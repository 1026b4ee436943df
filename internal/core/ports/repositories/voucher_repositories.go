package repositories

import (
	"context"
	"time"

	"github.com/pumpledger/pump_ledger_app/internal/core/domain"
	"github.com/pumpledger/pump_ledger_app/internal/dto"
)

// VoucherReader defines read operations for voucher data.
type VoucherReader interface {
	// FindVoucherByID retrieves a voucher header by its ID.
	FindVoucherByID(ctx context.Context, pumpID string, voucherID string) (*domain.Voucher, error)

	// FindVoucherByNumber retrieves a voucher by its number within a pump.
	FindVoucherByNumber(ctx context.Context, pumpID string, voucherNumber string) (*domain.Voucher, error)

	// FindEntriesByVoucherID retrieves the entry lines of a voucher.
	FindEntriesByVoucherID(ctx context.Context, voucherID string) ([]domain.VoucherEntry, error)

	// ListVouchers retrieves a filtered, token-paginated voucher list.
	ListVouchers(ctx context.Context, pumpID string, params dto.ListVouchersParams) ([]domain.Voucher, *string, error)
}

// VoucherWriter defines structural write operations for vouchers that have not
// been posted.
type VoucherWriter interface {
	// SaveVoucher persists a new voucher and its entries atomically.
	SaveVoucher(ctx context.Context, voucher domain.Voucher) error

	// ReplaceVoucher updates the voucher header and replaces its entries
	// wholesale, atomically.
	ReplaceVoucher(ctx context.Context, voucher domain.Voucher) error

	// UpdateVoucherHeader persists header-only changes (status stamps,
	// reconciliation flags, reversal links). Entries are untouched.
	UpdateVoucherHeader(ctx context.Context, voucher domain.Voucher) error
}

// VoucherPoster defines the atomic posting operations. Implementations must
// guarantee that either the voucher flips to POSTED and every ledger entry is
// materialized, or nothing is persisted. Postings touching the same account
// serialize against each other.
type VoucherPoster interface {
	// PostVoucher persists the POSTED transition of the given voucher (which
	// already carries its posting stamps and entries) and projects one ledger
	// entry per voucher entry with computed running balances.
	PostVoucher(ctx context.Context, voucher domain.Voucher) error

	// PostReversal atomically inserts and posts the reversing voucher and
	// updates the original voucher's header (CANCELLED status plus the
	// reversal link) in the same transaction.
	PostReversal(ctx context.Context, reversal domain.Voucher, original domain.Voucher) error
}

// VoucherNumberAllocator hands out voucher sequence numbers from an atomic
// per-(pump, type, day) counter, safe under concurrent posting.
type VoucherNumberAllocator interface {
	NextVoucherSequence(ctx context.Context, pumpID string, voucherType domain.VoucherType, date time.Time) (int, error)
}

// VoucherRepositoryFacade combines all voucher-related repository interfaces.
type VoucherRepositoryFacade interface {
	VoucherReader
	VoucherWriter
	VoucherPoster
	VoucherNumberAllocator
}
