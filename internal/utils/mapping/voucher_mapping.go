package mapping

import (
	"github.com/pumpledger/pump_ledger_app/internal/core/domain"
	"github.com/pumpledger/pump_ledger_app/internal/models"
)

// ToModelVoucher converts a domain Voucher to a model Voucher
func ToModelVoucher(d domain.Voucher) models.Voucher {
	return models.Voucher{
		VoucherID:           d.VoucherID,
		PumpID:              d.PumpID,
		VoucherNumber:       d.VoucherNumber,
		VoucherType:         string(d.VoucherType),
		VoucherDate:         d.VoucherDate,
		Narration:           d.Narration,
		Reference:           d.Reference,
		PartyName:           d.PartyName,
		PaymentMode:         d.PaymentMode,
		ChequeNumber:        d.ChequeNumber,
		ChequeDate:          d.ChequeDate,
		BankName:            d.BankName,
		TotalAmount:         d.TotalAmount,
		Status:              string(d.Status),
		IsPosted:            d.IsPosted,
		IsCancelled:         d.IsCancelled,
		IsReconciled:        d.IsReconciled,
		ApprovedAt:          d.ApprovedAt,
		ApprovedBy:          d.ApprovedBy,
		PostedAt:            d.PostedAt,
		PostedBy:            d.PostedBy,
		CancelledAt:         d.CancelledAt,
		CancelledBy:         d.CancelledBy,
		CancellationReason:  d.CancellationReason,
		ReconciledAt:        d.ReconciledAt,
		ReconciledBy:        d.ReconciledBy,
		ReversalOfVoucherID: d.ReversalOfVoucherID,
		ReversedByVoucherID: d.ReversedByVoucherID,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainVoucher converts a model Voucher to a domain Voucher
func ToDomainVoucher(m models.Voucher) domain.Voucher {
	return domain.Voucher{
		VoucherID:           m.VoucherID,
		PumpID:              m.PumpID,
		VoucherNumber:       m.VoucherNumber,
		VoucherType:         domain.VoucherType(m.VoucherType),
		VoucherDate:         m.VoucherDate,
		Narration:           m.Narration,
		Reference:           m.Reference,
		PartyName:           m.PartyName,
		PaymentMode:         m.PaymentMode,
		ChequeNumber:        m.ChequeNumber,
		ChequeDate:          m.ChequeDate,
		BankName:            m.BankName,
		TotalAmount:         m.TotalAmount,
		Status:              domain.VoucherStatus(m.Status),
		IsPosted:            m.IsPosted,
		IsCancelled:         m.IsCancelled,
		IsReconciled:        m.IsReconciled,
		ApprovedAt:          m.ApprovedAt,
		ApprovedBy:          m.ApprovedBy,
		PostedAt:            m.PostedAt,
		PostedBy:            m.PostedBy,
		CancelledAt:         m.CancelledAt,
		CancelledBy:         m.CancelledBy,
		CancellationReason:  m.CancellationReason,
		ReconciledAt:        m.ReconciledAt,
		ReconciledBy:        m.ReconciledBy,
		ReversalOfVoucherID: m.ReversalOfVoucherID,
		ReversedByVoucherID: m.ReversedByVoucherID,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelVoucherEntry converts a domain VoucherEntry to a model VoucherEntry
func ToModelVoucherEntry(d domain.VoucherEntry) models.VoucherEntry {
	return models.VoucherEntry{
		EntryID:     d.EntryID,
		VoucherID:   d.VoucherID,
		AccountID:   d.AccountID,
		EntryType:   string(d.EntryType),
		Amount:      d.Amount,
		Narration:   d.Narration,
		Reference:   d.Reference,
		PartyName:   d.PartyName,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainVoucherEntry converts a model VoucherEntry to a domain VoucherEntry
func ToDomainVoucherEntry(m models.VoucherEntry) domain.VoucherEntry {
	return domain.VoucherEntry{
		EntryID:     m.EntryID,
		VoucherID:   m.VoucherID,
		AccountID:   m.AccountID,
		EntryType:   domain.EntryType(m.EntryType),
		Amount:      m.Amount,
		Narration:   m.Narration,
		Reference:   m.Reference,
		PartyName:   m.PartyName,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
