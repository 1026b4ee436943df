package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Report DTOs are derived, read-only views recomputed on demand from Account
// and LedgerEntry state. They are never persisted.

// TrialBalanceRow represents a single account line in a trial balance report.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceReport lists every active account's closing balance split into
// debit/credit columns. TotalDebit must equal TotalCredit within 0.01.
type TrialBalanceReport struct {
	PumpID      string            `json:"pumpID"`
	AsOf        time.Time         `json:"asOf"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
}

// StatementLine is an account with its reported amount and share of its group
// total. PercentOfGroup is zero when the group total is zero.
type StatementLine struct {
	AccountID      string          `json:"accountID"`
	AccountCode    string          `json:"accountCode"`
	AccountName    string          `json:"accountName"`
	Amount         decimal.Decimal `json:"amount"`
	PercentOfGroup decimal.Decimal `json:"percentOfGroup"`
}

// ProfitLossReport is the period P&L: income and expenses are period-net
// movements, not cumulative balances.
type ProfitLossReport struct {
	PumpID string    `json:"pumpID"`
	From   time.Time `json:"from"`
	To     time.Time `json:"to"`

	Income           []StatementLine `json:"income"`
	DirectExpenses   []StatementLine `json:"directExpenses"`
	OtherIncome      []StatementLine `json:"otherIncome"`
	IndirectExpenses []StatementLine `json:"indirectExpenses"`

	TotalIncome           decimal.Decimal `json:"totalIncome"`
	TotalDirectExpenses   decimal.Decimal `json:"totalDirectExpenses"`
	GrossProfit           decimal.Decimal `json:"grossProfit"`
	TotalOtherIncome      decimal.Decimal `json:"totalOtherIncome"`
	TotalIndirectExpenses decimal.Decimal `json:"totalIndirectExpenses"`
	NetProfitBeforeTax    decimal.Decimal `json:"netProfitBeforeTax"`
}

// BalanceSheetReport is the as-of-date statement of financial position.
// Liability and equity amounts are reported as absolute values.
type BalanceSheetReport struct {
	PumpID string    `json:"pumpID"`
	AsOf   time.Time `json:"asOf"`

	CurrentAssets       []StatementLine `json:"currentAssets"`
	FixedAssets         []StatementLine `json:"fixedAssets"`
	OtherAssets         []StatementLine `json:"otherAssets"`
	CurrentLiabilities  []StatementLine `json:"currentLiabilities"`
	LongTermLiabilities []StatementLine `json:"longTermLiabilities"`
	Equity              []StatementLine `json:"equity"`

	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
	NetWorth         decimal.Decimal `json:"netWorth"`
	IsBalanced       bool            `json:"isBalanced"`
}

// CashBookLine is one chronological movement in a cash book: debits are
// receipts, credits are payments.
type CashBookLine struct {
	TransactionDate time.Time       `json:"transactionDate"`
	VoucherID       string          `json:"voucherID"`
	VoucherNumber   string          `json:"voucherNumber"`
	Narration       string          `json:"narration"`
	PartyName       string          `json:"partyName"`
	Receipt         decimal.Decimal `json:"receipt"`
	Payment         decimal.Decimal `json:"payment"`
	Balance         decimal.Decimal `json:"balance"`
}

// CashBookReport is the subsidiary book for a single cash/bank account over a
// period.
type CashBookReport struct {
	PumpID    string    `json:"pumpID"`
	AccountID string    `json:"accountID"`
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`

	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Lines          []CashBookLine  `json:"lines"`
	TotalReceipts  decimal.Decimal `json:"totalReceipts"`
	TotalPayments  decimal.Decimal `json:"totalPayments"`
	NetCashFlow    decimal.Decimal `json:"netCashFlow"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// DayBookTransaction is one ledger movement inside a day book voucher group.
type DayBookTransaction struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	EntryType   EntryType       `json:"entryType"`
	Amount      decimal.Decimal `json:"amount"`
	Narration   string          `json:"narration"`
}

// DayBookVoucher groups a posted voucher's entries with per-voucher totals.
type DayBookVoucher struct {
	VoucherID     string               `json:"voucherID"`
	VoucherNumber string               `json:"voucherNumber"`
	VoucherType   VoucherType          `json:"voucherType"`
	VoucherDate   time.Time            `json:"voucherDate"`
	Narration     string               `json:"narration"`
	TotalDebit    decimal.Decimal      `json:"totalDebit"`
	TotalCredit   decimal.Decimal      `json:"totalCredit"`
	Transactions  []DayBookTransaction `json:"transactions"`
}

// DayBookReport flattens every posted voucher for the period into a
// chronological list. Draft and cancelled vouchers never appear.
type DayBookReport struct {
	PumpID            string           `json:"pumpID"`
	From              time.Time        `json:"from"`
	To                time.Time        `json:"to"`
	Vouchers          []DayBookVoucher `json:"vouchers"`
	TotalDebit        decimal.Decimal  `json:"totalDebit"`
	TotalCredit       decimal.Decimal  `json:"totalCredit"`
	TotalVouchers     int              `json:"totalVouchers"`
	TotalTransactions int              `json:"totalTransactions"`
}
