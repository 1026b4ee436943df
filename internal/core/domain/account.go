package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// BalanceType is the natural sign convention of an account: debit-natured
// accounts (ASSET, EXPENSE) increase with debits, credit-natured accounts
// (LIABILITY, EQUITY, INCOME) increase with credits.
type BalanceType string

const (
	DebitBalance  BalanceType = "DEBIT"
	CreditBalance BalanceType = "CREDIT"
)

// NaturalBalanceType returns the balance type convention for the account type.
func (t AccountType) NaturalBalanceType() BalanceType {
	switch t {
	case Asset, Expense:
		return DebitBalance
	default:
		return CreditBalance
	}
}

// AccountGroup is the sub-classification of an account used by the financial
// statements to bucket balances.
type AccountGroup string

const (
	GroupCurrentAssets       AccountGroup = "CURRENT_ASSETS"
	GroupFixedAssets         AccountGroup = "FIXED_ASSETS"
	GroupOtherAssets         AccountGroup = "OTHER_ASSETS"
	GroupCurrentLiabilities  AccountGroup = "CURRENT_LIABILITIES"
	GroupLongTermLiabilities AccountGroup = "LONG_TERM_LIABILITIES"
	GroupCapitalAccount      AccountGroup = "CAPITAL_ACCOUNT"
	GroupDirectIncome        AccountGroup = "DIRECT_INCOME"
	GroupIndirectIncome      AccountGroup = "INDIRECT_INCOME"
	GroupDirectExpenses      AccountGroup = "DIRECT_EXPENSES"
	GroupIndirectExpenses    AccountGroup = "INDIRECT_EXPENSES"
)

// Account represents a node in a pump's chart of accounts.
// This is the primary representation used by services.
type Account struct {
	AccountID         string          `json:"accountID"`
	PumpID            string          `json:"pumpID"` // Tenant scope
	Code              string          `json:"code"`   // Unique per pump, [A-Z0-9]{2,20}
	Name              string          `json:"name"`
	AccountType       AccountType     `json:"accountType"`
	AccountGroup      AccountGroup    `json:"accountGroup"`
	BalanceType       BalanceType     `json:"balanceType"`
	ParentCode        string          `json:"parentCode"` // Optional hierarchy link
	GSTNumber         string          `json:"gstNumber"`  // Optional tax identifiers
	PANNumber         string          `json:"panNumber"`
	OpeningBalance    decimal.Decimal `json:"openingBalance"` // In the account's natural sign
	CurrentBalance    decimal.Decimal `json:"currentBalance"`
	ReconciledBalance decimal.Decimal `json:"reconciledBalance"`
	LastReconciledAt  *time.Time      `json:"lastReconciledAt"`
	IsSystemAccount   bool            `json:"isSystemAccount"`
	IsLocked          bool            `json:"isLocked"`
	IsActive          bool            `json:"isActive"`
	AuditFields
}
