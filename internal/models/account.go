package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the persisted representation of a chart-of-accounts node.
type Account struct {
	AccountID         string          `db:"account_id"`
	PumpID            string          `db:"pump_id"`
	Code              string          `db:"code"`
	Name              string          `db:"name"`
	AccountType       string          `db:"account_type"`
	AccountGroup      string          `db:"account_group"`
	BalanceType       string          `db:"balance_type"`
	ParentCode        string          `db:"parent_code"`
	GSTNumber         string          `db:"gst_number"`
	PANNumber         string          `db:"pan_number"`
	OpeningBalance    decimal.Decimal `db:"opening_balance"`
	CurrentBalance    decimal.Decimal `db:"current_balance"`
	ReconciledBalance decimal.Decimal `db:"reconciled_balance"`
	LastReconciledAt  *time.Time      `db:"last_reconciled_at"`
	IsSystemAccount   bool            `db:"is_system_account"`
	IsLocked          bool            `db:"is_locked"`
	IsActive          bool            `db:"is_active"`
	AuditFields
}
