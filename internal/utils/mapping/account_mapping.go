package mapping

import (
	"github.com/pumpledger/pump_ledger_app/internal/core/domain"
	"github.com/pumpledger/pump_ledger_app/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:         d.AccountID,
		PumpID:            d.PumpID,
		Code:              d.Code,
		Name:              d.Name,
		AccountType:       string(d.AccountType),
		AccountGroup:      string(d.AccountGroup),
		BalanceType:       string(d.BalanceType),
		ParentCode:        d.ParentCode,
		GSTNumber:         d.GSTNumber,
		PANNumber:         d.PANNumber,
		OpeningBalance:    d.OpeningBalance,
		CurrentBalance:    d.CurrentBalance,
		ReconciledBalance: d.ReconciledBalance,
		LastReconciledAt:  d.LastReconciledAt,
		IsSystemAccount:   d.IsSystemAccount,
		IsLocked:          d.IsLocked,
		IsActive:          d.IsActive,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:         m.AccountID,
		PumpID:            m.PumpID,
		Code:              m.Code,
		Name:              m.Name,
		AccountType:       domain.AccountType(m.AccountType),
		AccountGroup:      domain.AccountGroup(m.AccountGroup),
		BalanceType:       domain.BalanceType(m.BalanceType),
		ParentCode:        m.ParentCode,
		GSTNumber:         m.GSTNumber,
		PANNumber:         m.PANNumber,
		OpeningBalance:    m.OpeningBalance,
		CurrentBalance:    m.CurrentBalance,
		ReconciledBalance: m.ReconciledBalance,
		LastReconciledAt:  m.LastReconciledAt,
		IsSystemAccount:   m.IsSystemAccount,
		IsLocked:          m.IsLocked,
		IsActive:          m.IsActive,
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}
