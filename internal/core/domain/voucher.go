package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VoucherType tags the business meaning of a voucher. All types share the same
// double-entry semantics; the type only selects the number prefix and the
// defaults the convenience constructors apply.
type VoucherType string

const (
	CustomerReceipt      VoucherType = "CUSTOMER_RECEIPT"
	PaymentVoucher       VoucherType = "PAYMENT_VOUCHER"
	MiscellaneousReceipt VoucherType = "MISCELLANEOUS_RECEIPT"
	JournalVoucher       VoucherType = "JOURNAL_VOUCHER"
	CashDeposit          VoucherType = "CASH_DEPOSIT"
	CashWithdrawal       VoucherType = "CASH_WITHDRAWAL"
	ContraVoucher        VoucherType = "CONTRA_VOUCHER"
	ChequeReturn         VoucherType = "CHEQUE_RETURN"
)

var voucherTypePrefixes = map[VoucherType]string{
	CustomerReceipt:      "CRV",
	PaymentVoucher:       "PMV",
	MiscellaneousReceipt: "MRV",
	JournalVoucher:       "JVR",
	CashDeposit:          "CDP",
	CashWithdrawal:       "CWD",
	ContraVoucher:        "CNV",
	ChequeReturn:         "CHR",
}

// NumberPrefix returns the three-letter prefix used in voucher numbers.
// Unknown types fall back to the journal voucher prefix.
func (t VoucherType) NumberPrefix() string {
	if p, ok := voucherTypePrefixes[t]; ok {
		return p
	}
	return voucherTypePrefixes[JournalVoucher]
}

// EntryType indicates whether an entry line is a debit or a credit.
type EntryType string

const (
	Debit  EntryType = "DEBIT"
	Credit EntryType = "CREDIT"
)

// VoucherStatus is the lifecycle state of a voucher.
// DRAFT -> APPROVED -> POSTED; DRAFT/APPROVED -> CANCELLED.
// POSTED and CANCELLED are terminal for structural edits.
type VoucherStatus string

const (
	StatusDraft     VoucherStatus = "DRAFT"
	StatusApproved  VoucherStatus = "APPROVED"
	StatusPosted    VoucherStatus = "POSTED"
	StatusCancelled VoucherStatus = "CANCELLED"
)

// VoucherEntry represents a single debit or credit line within a voucher,
// affecting one account.
type VoucherEntry struct {
	EntryID   string          `json:"entryID"`
	VoucherID string          `json:"voucherID"`
	AccountID string          `json:"accountID"`
	EntryType EntryType       `json:"entryType"`
	Amount    decimal.Decimal `json:"amount"` // Always positive
	Narration string          `json:"narration"`
	Reference string          `json:"reference"`
	PartyName string          `json:"partyName"`
	AuditFields
}

// DebitAmount returns the amount if the entry is a debit, zero otherwise.
func (e VoucherEntry) DebitAmount() decimal.Decimal {
	if e.EntryType == Debit {
		return e.Amount
	}
	return decimal.Zero
}

// CreditAmount returns the amount if the entry is a credit, zero otherwise.
func (e VoucherEntry) CreditAmount() decimal.Decimal {
	if e.EntryType == Credit {
		return e.Amount
	}
	return decimal.Zero
}

// Voucher represents an atomic, balanced financial transaction composed of at
// least two entries.
type Voucher struct {
	VoucherID     string          `json:"voucherID"`
	PumpID        string          `json:"pumpID"`
	VoucherNumber string          `json:"voucherNumber"` // Unique per pump
	VoucherType   VoucherType     `json:"voucherType"`
	VoucherDate   time.Time       `json:"voucherDate"`
	Narration     string          `json:"narration"`
	Reference     string          `json:"reference"`
	PartyName     string          `json:"partyName"`
	PaymentMode   string          `json:"paymentMode"`
	ChequeNumber  string          `json:"chequeNumber"`
	ChequeDate    *time.Time      `json:"chequeDate"`
	BankName      string          `json:"bankName"`
	TotalAmount   decimal.Decimal `json:"totalAmount"` // Equals the debit (== credit) total
	Status        VoucherStatus   `json:"status"`
	IsPosted      bool            `json:"isPosted"`
	IsCancelled   bool            `json:"isCancelled"`
	IsReconciled  bool            `json:"isReconciled"`

	ApprovedAt *time.Time `json:"approvedAt"`
	ApprovedBy string     `json:"approvedBy"`
	PostedAt   *time.Time `json:"postedAt"`
	PostedBy   string     `json:"postedBy"`

	CancelledAt        *time.Time `json:"cancelledAt"`
	CancelledBy        string     `json:"cancelledBy"`
	CancellationReason string     `json:"cancellationReason"`

	ReconciledAt *time.Time `json:"reconciledAt"`
	ReconciledBy string     `json:"reconciledBy"`

	// ReversalOfVoucherID links a reversing voucher back to the posted voucher
	// it cancels; ReversedByVoucherID is the inverse link on the original.
	ReversalOfVoucherID *string `json:"reversalOfVoucherID"`
	ReversedByVoucherID *string `json:"reversedByVoucherID"`

	Entries []VoucherEntry `json:"entries,omitempty"`
	AuditFields
}

// DebitTotal sums the debit side of the voucher's entries.
func (v Voucher) DebitTotal() decimal.Decimal {
	total := decimal.Zero
	for _, e := range v.Entries {
		total = total.Add(e.DebitAmount())
	}
	return total
}

// CreditTotal sums the credit side of the voucher's entries.
func (v Voucher) CreditTotal() decimal.Decimal {
	total := decimal.Zero
	for _, e := range v.Entries {
		total = total.Add(e.CreditAmount())
	}
	return total
}
