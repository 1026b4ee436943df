package mapping

import (
	"github.com/pumpledger/pump_ledger_app/internal/core/domain"
	"github.com/pumpledger/pump_ledger_app/internal/models"
)

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		LedgerEntryID:   d.LedgerEntryID,
		PumpID:          d.PumpID,
		AccountID:       d.AccountID,
		VoucherID:       d.VoucherID,
		VoucherNumber:   d.VoucherNumber,
		TransactionDate: d.TransactionDate,
		EntryType:       string(d.EntryType),
		Amount:          d.Amount,
		Narration:       d.Narration,
		Reference:       d.Reference,
		PartyName:       d.PartyName,
		RunningBalance:  d.RunningBalance,
		EntrySeq:        d.EntrySeq,
		IsReconciled:    d.IsReconciled,
		ReconciledAt:    d.ReconciledAt,
		ReconciledBy:    d.ReconciledBy,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		LedgerEntryID:   m.LedgerEntryID,
		PumpID:          m.PumpID,
		AccountID:       m.AccountID,
		VoucherID:       m.VoucherID,
		VoucherNumber:   m.VoucherNumber,
		TransactionDate: m.TransactionDate,
		EntryType:       domain.EntryType(m.EntryType),
		Amount:          m.Amount,
		Narration:       m.Narration,
		Reference:       m.Reference,
		PartyName:       m.PartyName,
		RunningBalance:  m.RunningBalance,
		EntrySeq:        m.EntrySeq,
		IsReconciled:    m.IsReconciled,
		ReconciledAt:    m.ReconciledAt,
		ReconciledBy:    m.ReconciledBy,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}
