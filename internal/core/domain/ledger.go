package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is the immutable per-account projection of one voucher entry,
// created only when the owning voucher is posted. RunningBalance is the
// account balance immediately after this entry, in the account's natural sign.
type LedgerEntry struct {
	LedgerEntryID   string          `json:"ledgerEntryID"`
	PumpID          string          `json:"pumpID"`
	AccountID       string          `json:"accountID"`
	VoucherID       string          `json:"voucherID"`
	VoucherNumber   string          `json:"voucherNumber"`
	TransactionDate time.Time       `json:"transactionDate"`
	EntryType       EntryType       `json:"entryType"`
	Amount          decimal.Decimal `json:"amount"`
	Narration       string          `json:"narration"`
	Reference       string          `json:"reference"`
	PartyName       string          `json:"partyName"`
	RunningBalance  decimal.Decimal `json:"runningBalance"`
	// EntrySeq breaks ordering ties between entries sharing a transaction
	// date; it is assigned monotonically at insertion time.
	EntrySeq     int64      `json:"entrySeq"`
	IsReconciled bool       `json:"isReconciled"`
	ReconciledAt *time.Time `json:"reconciledAt"`
	ReconciledBy string     `json:"reconciledBy"`
	AuditFields
}

// DebitAmount returns the amount if the entry is a debit, zero otherwise.
func (e LedgerEntry) DebitAmount() decimal.Decimal {
	if e.EntryType == Debit {
		return e.Amount
	}
	return decimal.Zero
}

// CreditAmount returns the amount if the entry is a credit, zero otherwise.
func (e LedgerEntry) CreditAmount() decimal.Decimal {
	if e.EntryType == Credit {
		return e.Amount
	}
	return decimal.Zero
}
