package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is the persisted per-account projection row.
type LedgerEntry struct {
	LedgerEntryID   string          `db:"ledger_entry_id"`
	PumpID          string          `db:"pump_id"`
	AccountID       string          `db:"account_id"`
	VoucherID       string          `db:"voucher_id"`
	VoucherNumber   string          `db:"voucher_number"`
	TransactionDate time.Time       `db:"transaction_date"`
	EntryType       string          `db:"entry_type"`
	Amount          decimal.Decimal `db:"amount"`
	Narration       string          `db:"narration"`
	Reference       string          `db:"reference"`
	PartyName       string          `db:"party_name"`
	RunningBalance  decimal.Decimal `db:"running_balance"`
	EntrySeq        int64           `db:"entry_seq"`
	IsReconciled    bool            `db:"is_reconciled"`
	ReconciledAt    *time.Time      `db:"reconciled_at"`
	ReconciledBy    string          `db:"reconciled_by"`
	AuditFields
}
