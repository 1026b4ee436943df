package dto

import (
	"time"

	"github.com/pumpledger/pump_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListLedgerEntriesParams holds filters for per-account ledger listings.
type ListLedgerEntriesParams struct {
	Limit     int        `form:"limit"`
	NextToken *string    `form:"nextToken"`
	From      *time.Time `form:"from" time_format:"2006-01-02"`
	To        *time.Time `form:"to" time_format:"2006-01-02"`
}

// LedgerEntryResponse defines the data returned for a ledger entry.
type LedgerEntryResponse struct {
	LedgerEntryID   string          `json:"ledgerEntryID"`
	AccountID       string          `json:"accountID"`
	VoucherID       string          `json:"voucherID"`
	VoucherNumber   string          `json:"voucherNumber"`
	TransactionDate time.Time       `json:"transactionDate"`
	EntryType       string          `json:"entryType"`
	Amount          decimal.Decimal `json:"amount"`
	Narration       string          `json:"narration,omitempty"`
	RunningBalance  decimal.Decimal `json:"runningBalance"`
	IsReconciled    bool            `json:"isReconciled"`
}

// ListLedgerEntriesResponse wraps a token-paginated ledger listing.
type ListLedgerEntriesResponse struct {
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// BalanceResponse reports a computed account balance.
type BalanceResponse struct {
	AccountID string          `json:"accountID"`
	AsOf      time.Time       `json:"asOf"`
	Balance   decimal.Decimal `json:"balance"`
}

// ToLedgerEntryResponse converts a domain.LedgerEntry to its DTO.
func ToLedgerEntryResponse(e *domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		LedgerEntryID:   e.LedgerEntryID,
		AccountID:       e.AccountID,
		VoucherID:       e.VoucherID,
		VoucherNumber:   e.VoucherNumber,
		TransactionDate: e.TransactionDate,
		EntryType:       string(e.EntryType),
		Amount:          e.Amount,
		Narration:       e.Narration,
		RunningBalance:  e.RunningBalance,
		IsReconciled:    e.IsReconciled,
	}
}

// ToLedgerEntryResponses converts a slice of domain.LedgerEntry to DTOs.
func ToLedgerEntryResponses(entries []domain.LedgerEntry) []LedgerEntryResponse {
	responses := make([]LedgerEntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToLedgerEntryResponse(&entries[i])
	}
	return responses
}
