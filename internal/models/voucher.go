package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Voucher is the persisted voucher header row.
type Voucher struct {
	VoucherID     string          `db:"voucher_id"`
	PumpID        string          `db:"pump_id"`
	VoucherNumber string          `db:"voucher_number"`
	VoucherType   string          `db:"voucher_type"`
	VoucherDate   time.Time       `db:"voucher_date"`
	Narration     string          `db:"narration"`
	Reference     string          `db:"reference"`
	PartyName     string          `db:"party_name"`
	PaymentMode   string          `db:"payment_mode"`
	ChequeNumber  string          `db:"cheque_number"`
	ChequeDate    *time.Time      `db:"cheque_date"`
	BankName      string          `db:"bank_name"`
	TotalAmount   decimal.Decimal `db:"total_amount"`
	Status        string          `db:"status"`
	IsPosted      bool            `db:"is_posted"`
	IsCancelled   bool            `db:"is_cancelled"`
	IsReconciled  bool            `db:"is_reconciled"`

	ApprovedAt *time.Time `db:"approved_at"`
	ApprovedBy string     `db:"approved_by"`
	PostedAt   *time.Time `db:"posted_at"`
	PostedBy   string     `db:"posted_by"`

	CancelledAt        *time.Time `db:"cancelled_at"`
	CancelledBy        string     `db:"cancelled_by"`
	CancellationReason string     `db:"cancellation_reason"`

	ReconciledAt *time.Time `db:"reconciled_at"`
	ReconciledBy string     `db:"reconciled_by"`

	ReversalOfVoucherID *string `db:"reversal_of_voucher_id"`
	ReversedByVoucherID *string `db:"reversed_by_voucher_id"`
	AuditFields
}

// VoucherEntry is a persisted debit/credit line nested under a voucher.
type VoucherEntry struct {
	EntryID   string          `db:"entry_id"`
	VoucherID string          `db:"voucher_id"`
	AccountID string          `db:"account_id"`
	EntryType string          `db:"entry_type"`
	Amount    decimal.Decimal `db:"amount"`
	Narration string          `db:"narration"`
	Reference string          `db:"reference"`
	PartyName string          `db:"party_name"`
	AuditFields
}
