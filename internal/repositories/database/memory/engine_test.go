package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/pumpledger/pump_ledger_app/internal/apperrors"
	"github.com/pumpledger/pump_ledger_app/internal/core/domain"
	portssvc "github.com/pumpledger/pump_ledger_app/internal/core/ports/services"
	"github.com/pumpledger/pump_ledger_app/internal/core/services"
	"github.com/pumpledger/pump_ledger_app/internal/dto"
	"github.com/pumpledger/pump_ledger_app/internal/repositories/database/memory"
)

// LedgerEngineTestSuite drives the full accounting engine against the
// in-memory backend: seed a chart, move vouchers through their lifecycle and
// verify that balances, running balances and statements stay consistent.
type LedgerEngineTestSuite struct {
	suite.Suite
	ctx      context.Context
	services *portssvc.ServiceContainer
	pumpID   string
	actorID  string
	cash     *domain.Account
	sales    *domain.Account
	expenses *domain.Account
}

func (suite *LedgerEngineTestSuite) SetupTest() {
	suite.ctx = context.Background()
	repos := memory.NewRepositoryProvider()
	suite.services = services.NewServiceContainer(&repos, nil)

	suite.pumpID = "pump-hsr-01"
	suite.actorID = "operator-1"

	_, err := suite.services.Account.SeedDefaultChart(suite.ctx, suite.pumpID, suite.actorID)
	suite.Require().NoError(err)

	suite.cash = suite.mustAccount("CASH")
	suite.sales = suite.mustAccount("SALES")
	suite.expenses = suite.mustAccount("OPERATINGEXPENSES")
}

func (suite *LedgerEngineTestSuite) mustAccount(code string) *domain.Account {
	account, err := suite.services.Account.GetAccountByCode(suite.ctx, suite.pumpID, code)
	suite.Require().NoError(err)
	return account
}

// postReceipt creates, approves and posts a cash sale for the given amount.
func (suite *LedgerEngineTestSuite) postReceipt(date time.Time, amount int64) *domain.Voucher {
	created, err := suite.services.Voucher.CreateVoucher(suite.ctx, suite.pumpID, dto.CreateVoucherRequest{
		VoucherType: string(domain.CustomerReceipt),
		VoucherDate: date,
		Narration:   "Fuel sale",
		Entries: []dto.CreateVoucherEntryRequest{
			{AccountID: suite.cash.AccountID, EntryType: "DEBIT", Amount: decimal.NewFromInt(amount)},
			{AccountID: suite.sales.AccountID, EntryType: "CREDIT", Amount: decimal.NewFromInt(amount)},
		},
	}, suite.actorID)
	suite.Require().NoError(err)

	_, err = suite.services.Voucher.ApproveVoucher(suite.ctx, suite.pumpID, created.VoucherID, suite.actorID)
	suite.Require().NoError(err)

	posted, err := suite.services.Voucher.PostVoucher(suite.ctx, suite.pumpID, created.VoucherID, suite.actorID)
	suite.Require().NoError(err)
	return posted
}

func (suite *LedgerEngineTestSuite) balanceOf(accountID string, asOf time.Time) decimal.Decimal {
	balance, err := suite.services.Ledger.BalanceAsOf(suite.ctx, suite.pumpID, accountID, asOf)
	suite.Require().NoError(err)
	return balance
}

// --- Test Cases ---

func (suite *LedgerEngineTestSuite) TestPostingProjectsLedgerAndBalances() {
	date := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	voucher := suite.postReceipt(date, 2500)

	suite.Equal(domain.StatusPosted, voucher.Status)
	suite.True(voucher.IsPosted)

	asOf := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	suite.True(suite.balanceOf(suite.cash.AccountID, asOf).Equal(decimal.NewFromInt(2500)))
	suite.True(suite.balanceOf(suite.sales.AccountID, asOf).Equal(decimal.NewFromInt(2500)))

	// One ledger entry per voucher entry, stamped with the voucher number.
	entries, err := suite.services.Ledger.ListEntries(suite.ctx, suite.pumpID, suite.cash.AccountID, dto.ListLedgerEntriesParams{})
	suite.Require().NoError(err)
	suite.Require().Len(entries.Entries, 1)
	suite.Equal(voucher.VoucherNumber, entries.Entries[0].VoucherNumber)
	suite.True(entries.Entries[0].RunningBalance.Equal(decimal.NewFromInt(2500)))
}

func (suite *LedgerEngineTestSuite) TestVoucherNumbersIncrementPerDay() {
	date := time.Date(2026, 8, 12, 9, 0, 0, 0, time.UTC)
	first := suite.postReceipt(date, 100)
	second := suite.postReceipt(date, 200)
	nextDay := suite.postReceipt(date.AddDate(0, 0, 1), 300)

	suite.Equal("CRV202608120001", first.VoucherNumber)
	suite.Equal("CRV202608120002", second.VoucherNumber)
	// The counter resets per day.
	suite.Equal("CRV202608130001", nextDay.VoucherNumber)
}

func (suite *LedgerEngineTestSuite) TestRunningBalancesAccumulateChronologically() {
	day1 := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 2, 10, 0, 0, 0, time.UTC)
	suite.postReceipt(day1, 1000)
	suite.postReceipt(day2, 500)

	entries, err := suite.services.Ledger.ListEntries(suite.ctx, suite.pumpID, suite.cash.AccountID, dto.ListLedgerEntriesParams{})
	suite.Require().NoError(err)
	suite.Require().Len(entries.Entries, 2)
	suite.True(entries.Entries[0].RunningBalance.Equal(decimal.NewFromInt(1000)))
	suite.True(entries.Entries[1].RunningBalance.Equal(decimal.NewFromInt(1500)))
}

func (suite *LedgerEngineTestSuite) TestBackdatedPostingRepairedByRecalculate() {
	late := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	early := time.Date(2026, 8, 5, 0, 0, 0, 0, time.UTC)
	suite.postReceipt(late, 1000)
	suite.postReceipt(early, 400)

	err := suite.services.Ledger.RecalculateRunningBalances(suite.ctx, suite.pumpID, suite.cash.AccountID)
	suite.Require().NoError(err)

	entries, err := suite.services.Ledger.ListEntries(suite.ctx, suite.pumpID, suite.cash.AccountID, dto.ListLedgerEntriesParams{})
	suite.Require().NoError(err)
	suite.Require().Len(entries.Entries, 2)
	// Chronological order with repaired running balances.
	suite.True(entries.Entries[0].TransactionDate.Before(entries.Entries[1].TransactionDate))
	suite.True(entries.Entries[0].RunningBalance.Equal(decimal.NewFromInt(400)))
	suite.True(entries.Entries[1].RunningBalance.Equal(decimal.NewFromInt(1400)))
}

func (suite *LedgerEngineTestSuite) TestTrialBalanceClosesAfterPostings() {
	date := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	suite.postReceipt(date, 9000)

	// Pay an expense out of cash as well.
	payment, err := suite.services.Voucher.CreateVoucher(suite.ctx, suite.pumpID, dto.CreateVoucherRequest{
		VoucherType: string(domain.PaymentVoucher),
		VoucherDate: date,
		Narration:   "Electricity bill",
		Entries: []dto.CreateVoucherEntryRequest{
			{AccountID: suite.expenses.AccountID, EntryType: "DEBIT", Amount: decimal.NewFromInt(1200)},
			{AccountID: suite.cash.AccountID, EntryType: "CREDIT", Amount: decimal.NewFromInt(1200)},
		},
	}, suite.actorID)
	suite.Require().NoError(err)
	_, err = suite.services.Voucher.ApproveVoucher(suite.ctx, suite.pumpID, payment.VoucherID, suite.actorID)
	suite.Require().NoError(err)
	_, err = suite.services.Voucher.PostVoucher(suite.ctx, suite.pumpID, payment.VoucherID, suite.actorID)
	suite.Require().NoError(err)

	asOf := time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC)
	tb, err := suite.services.Reporting.TrialBalance(suite.ctx, suite.pumpID, asOf)
	suite.Require().NoError(err)
	suite.True(tb.TotalDebit.Equal(tb.TotalCredit))
	suite.True(tb.TotalDebit.Equal(decimal.NewFromInt(9000)))
}

func (suite *LedgerEngineTestSuite) TestBalanceSheetClosesWithNetProfit() {
	date := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	suite.postReceipt(date, 5000)

	asOf := time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC)
	bs, err := suite.services.Reporting.BalanceSheet(suite.ctx, suite.pumpID, asOf)
	suite.Require().NoError(err)
	suite.True(bs.IsBalanced)
	suite.True(bs.TotalAssets.Equal(decimal.NewFromInt(5000)))
	suite.Require().NotEmpty(bs.Equity)
	last := bs.Equity[len(bs.Equity)-1]
	suite.Equal("NETPROFIT", last.AccountCode)
	suite.True(last.Amount.Equal(decimal.NewFromInt(5000)))
}

func (suite *LedgerEngineTestSuite) TestCancelPostedVoucherRestoresBalances() {
	date := time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC)
	posted := suite.postReceipt(date, 3000)

	reversal, err := suite.services.Voucher.CancelVoucher(suite.ctx, suite.pumpID, posted.VoucherID, suite.actorID, "pump meter misread")
	suite.Require().NoError(err)

	// The returned voucher is the posted reversing journal voucher.
	suite.Equal(domain.JournalVoucher, reversal.VoucherType)
	suite.True(reversal.IsPosted)
	suite.Require().NotNil(reversal.ReversalOfVoucherID)
	suite.Equal(posted.VoucherID, *reversal.ReversalOfVoucherID)

	// The original is cancelled and back-linked.
	original, err := suite.services.Voucher.GetVoucherByID(suite.ctx, suite.pumpID, posted.VoucherID)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusCancelled, original.Status)
	suite.Require().NotNil(original.ReversedByVoucherID)
	suite.Equal(reversal.VoucherID, *original.ReversedByVoucherID)

	// Balances return to zero and the trial balance still closes.
	asOf := time.Now().UTC().AddDate(0, 0, 1)
	suite.True(suite.balanceOf(suite.cash.AccountID, asOf).IsZero())
	suite.True(suite.balanceOf(suite.sales.AccountID, asOf).IsZero())

	tb, err := suite.services.Reporting.TrialBalance(suite.ctx, suite.pumpID, asOf)
	suite.Require().NoError(err)
	suite.True(tb.TotalDebit.Equal(tb.TotalCredit))

	// Both cash movements remain on the ledger: nothing is ever deleted.
	entries, err := suite.services.Ledger.ListEntries(suite.ctx, suite.pumpID, suite.cash.AccountID, dto.ListLedgerEntriesParams{})
	suite.Require().NoError(err)
	suite.Len(entries.Entries, 2)
}

func (suite *LedgerEngineTestSuite) TestCancelledVoucherCannotBeCancelledAgain() {
	date := time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC)
	posted := suite.postReceipt(date, 100)

	_, err := suite.services.Voucher.CancelVoucher(suite.ctx, suite.pumpID, posted.VoucherID, suite.actorID, "once")
	suite.Require().NoError(err)

	_, err = suite.services.Voucher.CancelVoucher(suite.ctx, suite.pumpID, posted.VoucherID, suite.actorID, "twice")
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAlreadyCancelled)
}

func (suite *LedgerEngineTestSuite) TestDayBookSkipsDraftVouchers() {
	date := time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC)
	suite.postReceipt(date, 800)

	// A draft voucher on the same day must not appear.
	_, err := suite.services.Voucher.CreateVoucher(suite.ctx, suite.pumpID, dto.CreateVoucherRequest{
		VoucherType: string(domain.CustomerReceipt),
		VoucherDate: date,
		Entries: []dto.CreateVoucherEntryRequest{
			{AccountID: suite.cash.AccountID, EntryType: "DEBIT", Amount: decimal.NewFromInt(999)},
			{AccountID: suite.sales.AccountID, EntryType: "CREDIT", Amount: decimal.NewFromInt(999)},
		},
	}, suite.actorID)
	suite.Require().NoError(err)

	from := time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 21, 23, 59, 59, 0, time.UTC)
	db, err := suite.services.Reporting.DayBook(suite.ctx, suite.pumpID, from, to)
	suite.Require().NoError(err)
	suite.Equal(1, db.TotalVouchers)
	suite.True(db.TotalDebit.Equal(decimal.NewFromInt(800)))
	suite.True(db.TotalCredit.Equal(decimal.NewFromInt(800)))
}

func (suite *LedgerEngineTestSuite) TestCashBookAgainstPostedMovements() {
	day1 := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 9, 0, 0, 0, 0, time.UTC)
	suite.postReceipt(day1, 2000)

	payment, err := suite.services.Voucher.CreateVoucher(suite.ctx, suite.pumpID, dto.CreateVoucherRequest{
		VoucherType: string(domain.PaymentVoucher),
		VoucherDate: day2,
		Narration:   "Generator diesel",
		Entries: []dto.CreateVoucherEntryRequest{
			{AccountID: suite.expenses.AccountID, EntryType: "DEBIT", Amount: decimal.NewFromInt(700)},
			{AccountID: suite.cash.AccountID, EntryType: "CREDIT", Amount: decimal.NewFromInt(700)},
		},
	}, suite.actorID)
	suite.Require().NoError(err)
	_, err = suite.services.Voucher.ApproveVoucher(suite.ctx, suite.pumpID, payment.VoucherID, suite.actorID)
	suite.Require().NoError(err)
	_, err = suite.services.Voucher.PostVoucher(suite.ctx, suite.pumpID, payment.VoucherID, suite.actorID)
	suite.Require().NoError(err)

	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC)
	cb, err := suite.services.Reporting.CashBook(suite.ctx, suite.pumpID, suite.cash.AccountID, from, to)
	suite.Require().NoError(err)
	suite.True(cb.OpeningBalance.IsZero())
	suite.Require().Len(cb.Lines, 2)
	suite.True(cb.TotalReceipts.Equal(decimal.NewFromInt(2000)))
	suite.True(cb.TotalPayments.Equal(decimal.NewFromInt(700)))
	suite.True(cb.NetCashFlow.Equal(decimal.NewFromInt(1300)))
	suite.True(cb.ClosingBalance.Equal(decimal.NewFromInt(1300)))
}

func (suite *LedgerEngineTestSuite) TestDoublePostRejected() {
	date := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	posted := suite.postReceipt(date, 100)

	_, err := suite.services.Voucher.PostVoucher(suite.ctx, suite.pumpID, posted.VoucherID, suite.actorID)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAlreadyPosted)
}

func (suite *LedgerEngineTestSuite) TestDraftPostsWithoutApproval() {
	date := time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC)
	created, err := suite.services.Voucher.CreateVoucher(suite.ctx, suite.pumpID, dto.CreateVoucherRequest{
		VoucherType: string(domain.CustomerReceipt),
		VoucherDate: date,
		Narration:   "Walk-in sale",
		Entries: []dto.CreateVoucherEntryRequest{
			{AccountID: suite.cash.AccountID, EntryType: "DEBIT", Amount: decimal.NewFromInt(450)},
			{AccountID: suite.sales.AccountID, EntryType: "CREDIT", Amount: decimal.NewFromInt(450)},
		},
	}, suite.actorID)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusDraft, created.Status)

	posted, err := suite.services.Voucher.PostVoucher(suite.ctx, suite.pumpID, created.VoucherID, suite.actorID)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusPosted, posted.Status)
	suite.Nil(posted.ApprovedAt)

	asOf := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	suite.True(suite.balanceOf(suite.cash.AccountID, asOf).Equal(decimal.NewFromInt(450)))
}

func (suite *LedgerEngineTestSuite) TestLedgerPaginationSurvivesBackdatedPosting() {
	// Posting order and date order diverge: the later-dated receipt gets the
	// lower entry sequence.
	recent := suite.postReceipt(time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC), 900)
	backdated := suite.postReceipt(time.Date(2026, 8, 5, 0, 0, 0, 0, time.UTC), 300)

	var seen []string
	params := dto.ListLedgerEntriesParams{Limit: 1}
	for {
		page, err := suite.services.Ledger.ListEntries(suite.ctx, suite.pumpID, suite.cash.AccountID, params)
		suite.Require().NoError(err)
		for _, e := range page.Entries {
			seen = append(seen, e.VoucherNumber)
		}
		if page.NextToken == nil {
			break
		}
		params.NextToken = page.NextToken
	}

	suite.Require().Len(seen, 2)
	suite.Equal(backdated.VoucherNumber, seen[0])
	suite.Equal(recent.VoucherNumber, seen[1])
}

func (suite *LedgerEngineTestSuite) TestReconcileStampsLedgerEntriesAndAccounts() {
	date := time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC)
	posted := suite.postReceipt(date, 1600)

	reconciled, err := suite.services.Voucher.ReconcileVoucher(suite.ctx, suite.pumpID, posted.VoucherID, suite.actorID)
	suite.Require().NoError(err)
	suite.True(reconciled.IsReconciled)

	entries, err := suite.services.Ledger.ListEntries(suite.ctx, suite.pumpID, suite.cash.AccountID, dto.ListLedgerEntriesParams{})
	suite.Require().NoError(err)
	suite.Require().Len(entries.Entries, 1)
	suite.True(entries.Entries[0].IsReconciled)

	cash := suite.mustAccount("CASH")
	suite.True(cash.ReconciledBalance.Equal(decimal.NewFromInt(1600)))
	suite.Require().NotNil(cash.LastReconciledAt)
}

func TestLedgerEngineTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerEngineTestSuite))
}

// Sequence allocation is safe under concurrent posting.
func TestNextVoucherSequenceConcurrent(t *testing.T) {
	repos := memory.NewRepositoryProvider()
	ctx := context.Background()
	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	const workers = 20
	type result struct {
		seq int
		err error
	}
	results := make(chan result, workers)
	for i := 0; i < workers; i++ {
		go func() {
			seq, err := repos.VoucherRepo.NextVoucherSequence(ctx, "pump-1", domain.CustomerReceipt, date)
			results <- result{seq: seq, err: err}
		}()
	}

	seen := make(map[int]bool, workers)
	for i := 0; i < workers; i++ {
		r := <-results
		require.NoError(t, r.err)
		require.False(t, seen[r.seq], "sequence %d allocated twice", r.seq)
		seen[r.seq] = true
	}
}
