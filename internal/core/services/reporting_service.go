package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pumpledger/pump_ledger_app/internal/apperrors"
	"github.com/pumpledger/pump_ledger_app/internal/core/domain"
	portsrepo "github.com/pumpledger/pump_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/pumpledger/pump_ledger_app/internal/core/ports/services"
	"github.com/pumpledger/pump_ledger_app/internal/utils/accounting"
)

const cashBookPageSize = 500

var hundred = decimal.NewFromInt(100)

// reportingService implements the ReportingService interface.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	accountRepo   portsrepo.AccountRepositoryFacade
	ledgerRepo    portsrepo.LedgerRepositoryFacade
}

// NewReportingService creates a new financial statement generator.
func NewReportingService(reportingRepo portsrepo.ReportingRepository, accountRepo portsrepo.AccountRepositoryFacade, ledgerRepo portsrepo.LedgerRepositoryFacade) portssvc.ReportingService {
	return &reportingService{
		reportingRepo: reportingRepo,
		accountRepo:   accountRepo,
		ledgerRepo:    ledgerRepo,
	}
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

func (s *reportingService) TrialBalance(ctx context.Context, pumpID string, asOf time.Time) (*domain.TrialBalanceReport, error) {
	rows, err := s.reportingRepo.GetBalancesAsOf(ctx, pumpID, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch balances for trial balance", slog.String("pump_id", pumpID))
		return nil, fmt.Errorf("failed to fetch balances: %w", err)
	}

	report := &domain.TrialBalanceReport{
		PumpID:      pumpID,
		AsOf:        asOf,
		Rows:        make([]domain.TrialBalanceRow, 0, len(rows)),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}

	for _, row := range rows {
		tbRow := domain.TrialBalanceRow{
			AccountID:   row.Account.AccountID,
			AccountCode: row.Account.Code,
			AccountName: row.Account.Name,
			AccountType: row.Account.AccountType,
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
		}

		// A natural-signed balance lands in its own column when positive and
		// flips columns when negative (an overdrawn account).
		switch row.Account.BalanceType {
		case domain.DebitBalance:
			if row.Amount.IsNegative() {
				tbRow.Credit = row.Amount.Neg()
			} else {
				tbRow.Debit = row.Amount
			}
		default:
			if row.Amount.IsNegative() {
				tbRow.Debit = row.Amount.Neg()
			} else {
				tbRow.Credit = row.Amount
			}
		}

		report.TotalDebit = report.TotalDebit.Add(tbRow.Debit)
		report.TotalCredit = report.TotalCredit.Add(tbRow.Credit)
		report.Rows = append(report.Rows, tbRow)
	}

	if !accounting.WithinTolerance(report.TotalDebit, report.TotalCredit) {
		s.LogError(ctx, apperrors.ErrUnbalancedLedger, "Trial balance columns disagree",
			slog.String("pump_id", pumpID),
			slog.String("total_debit", report.TotalDebit.String()),
			slog.String("total_credit", report.TotalCredit.String()))
		return nil, fmt.Errorf("%w: debit %s vs credit %s",
			apperrors.ErrUnbalancedLedger, report.TotalDebit.String(), report.TotalCredit.String())
	}

	return report, nil
}

// statementLines converts balance rows to statement lines and stamps each
// line's share of the group total.
func statementLines(rows []portsrepo.AccountBalanceRow) ([]domain.StatementLine, decimal.Decimal) {
	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.Amount)
	}

	lines := make([]domain.StatementLine, len(rows))
	for i, row := range rows {
		percent := decimal.Zero
		if !total.IsZero() {
			percent = row.Amount.Div(total).Mul(hundred).Round(2)
		}
		lines[i] = domain.StatementLine{
			AccountID:      row.Account.AccountID,
			AccountCode:    row.Account.Code,
			AccountName:    row.Account.Name,
			Amount:         row.Amount,
			PercentOfGroup: percent,
		}
	}
	return lines, total
}

func (s *reportingService) ProfitAndLoss(ctx context.Context, pumpID string, from, to time.Time) (*domain.ProfitLossReport, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: period end precedes start", apperrors.ErrValidation)
	}

	rows, err := s.reportingRepo.GetPeriodMovements(ctx, pumpID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch period movements", slog.String("pump_id", pumpID))
		return nil, fmt.Errorf("failed to fetch period movements: %w", err)
	}

	buckets := map[domain.AccountGroup][]portsrepo.AccountBalanceRow{}
	for _, row := range rows {
		group := row.Account.AccountGroup
		// Ungrouped accounts fall back on their type's primary bucket.
		if group == "" {
			if row.Account.AccountType == domain.Income {
				group = domain.GroupDirectIncome
			} else {
				group = domain.GroupIndirectExpenses
			}
		}
		buckets[group] = append(buckets[group], row)
	}

	report := &domain.ProfitLossReport{PumpID: pumpID, From: from, To: to}
	report.Income, report.TotalIncome = statementLines(buckets[domain.GroupDirectIncome])
	report.DirectExpenses, report.TotalDirectExpenses = statementLines(buckets[domain.GroupDirectExpenses])
	report.OtherIncome, report.TotalOtherIncome = statementLines(buckets[domain.GroupIndirectIncome])
	report.IndirectExpenses, report.TotalIndirectExpenses = statementLines(buckets[domain.GroupIndirectExpenses])

	report.GrossProfit = report.TotalIncome.Sub(report.TotalDirectExpenses)
	report.NetProfitBeforeTax = report.GrossProfit.Add(report.TotalOtherIncome).Sub(report.TotalIndirectExpenses)

	return report, nil
}

func (s *reportingService) BalanceSheet(ctx context.Context, pumpID string, asOf time.Time) (*domain.BalanceSheetReport, error) {
	rows, err := s.reportingRepo.GetBalancesAsOf(ctx, pumpID, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch balances for balance sheet", slog.String("pump_id", pumpID))
		return nil, fmt.Errorf("failed to fetch balances: %w", err)
	}

	buckets := map[domain.AccountGroup][]portsrepo.AccountBalanceRow{}
	netProfit := decimal.Zero
	for _, row := range rows {
		switch row.Account.AccountType {
		case domain.Income:
			// Income and expense roll into equity as accumulated profit.
			netProfit = netProfit.Add(row.Amount)
			continue
		case domain.Expense:
			netProfit = netProfit.Sub(row.Amount)
			continue
		}

		group := row.Account.AccountGroup
		if group == "" {
			switch row.Account.AccountType {
			case domain.Asset:
				group = domain.GroupOtherAssets
			case domain.Liability:
				group = domain.GroupCurrentLiabilities
			default:
				group = domain.GroupCapitalAccount
			}
		}
		buckets[group] = append(buckets[group], row)
	}

	report := &domain.BalanceSheetReport{PumpID: pumpID, AsOf: asOf}

	var totalCurrent, totalFixed, totalOther decimal.Decimal
	report.CurrentAssets, totalCurrent = statementLines(buckets[domain.GroupCurrentAssets])
	report.FixedAssets, totalFixed = statementLines(buckets[domain.GroupFixedAssets])
	report.OtherAssets, totalOther = statementLines(buckets[domain.GroupOtherAssets])
	report.TotalAssets = totalCurrent.Add(totalFixed).Add(totalOther)

	var totalCurrentLiab, totalLongTerm decimal.Decimal
	report.CurrentLiabilities, totalCurrentLiab = statementLines(buckets[domain.GroupCurrentLiabilities])
	report.LongTermLiabilities, totalLongTerm = statementLines(buckets[domain.GroupLongTermLiabilities])
	report.TotalLiabilities = totalCurrentLiab.Add(totalLongTerm)

	equityLines, totalEquity := statementLines(buckets[domain.GroupCapitalAccount])
	if !netProfit.IsZero() {
		equityLines = append(equityLines, domain.StatementLine{
			AccountCode: "NETPROFIT",
			AccountName: "Net Profit",
			Amount:      netProfit,
		})
		totalEquity = totalEquity.Add(netProfit)
	}
	report.Equity = equityLines
	report.TotalEquity = totalEquity

	report.NetWorth = report.TotalAssets.Sub(report.TotalLiabilities)
	report.IsBalanced = accounting.WithinTolerance(report.TotalAssets, report.TotalLiabilities.Add(report.TotalEquity))

	if !report.IsBalanced {
		s.LogError(ctx, apperrors.ErrUnbalancedLedger, "Balance sheet does not close",
			slog.String("pump_id", pumpID),
			slog.String("total_assets", report.TotalAssets.String()),
			slog.String("liabilities_plus_equity", report.TotalLiabilities.Add(report.TotalEquity).String()))
	}

	return report, nil
}

func (s *reportingService) CashBook(ctx context.Context, pumpID string, accountID string, from, to time.Time) (*domain.CashBookReport, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: period end precedes start", apperrors.ErrValidation)
	}

	account, err := s.accountRepo.FindAccountByID(ctx, pumpID, accountID)
	if err != nil {
		return nil, err
	}

	// Balance brought forward: everything strictly before the period start.
	beforeFrom := from.Add(-time.Nanosecond)
	priorMovement, err := s.ledgerRepo.SumSignedMovement(ctx, pumpID, accountID, nil, &beforeFrom)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute cash book opening", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to compute opening balance: %w", err)
	}
	opening := account.OpeningBalance.Add(priorMovement)

	report := &domain.CashBookReport{
		PumpID:         pumpID,
		AccountID:      accountID,
		From:           from,
		To:             to,
		OpeningBalance: opening,
		TotalReceipts:  decimal.Zero,
		TotalPayments:  decimal.Zero,
	}

	balance := opening
	var nextToken *string
	for {
		entries, token, err := s.ledgerRepo.FindEntriesByAccount(ctx, pumpID, accountID, &from, &to, cashBookPageSize, nextToken)
		if err != nil {
			s.LogError(ctx, err, "Failed to walk cash book entries", slog.String("account_id", accountID))
			return nil, fmt.Errorf("failed to read ledger entries: %w", err)
		}

		for _, e := range entries {
			signed, err := accounting.SignedAmount(e.EntryType, e.Amount, account.BalanceType)
			if err != nil {
				return nil, err
			}
			balance = balance.Add(signed)

			line := domain.CashBookLine{
				TransactionDate: e.TransactionDate,
				VoucherID:       e.VoucherID,
				VoucherNumber:   e.VoucherNumber,
				Narration:       e.Narration,
				PartyName:       e.PartyName,
				Receipt:         e.DebitAmount(),
				Payment:         e.CreditAmount(),
				Balance:         balance,
			}
			report.TotalReceipts = report.TotalReceipts.Add(line.Receipt)
			report.TotalPayments = report.TotalPayments.Add(line.Payment)
			report.Lines = append(report.Lines, line)
		}

		if token == nil {
			break
		}
		nextToken = token
	}

	report.NetCashFlow = report.TotalReceipts.Sub(report.TotalPayments)
	report.ClosingBalance = balance
	return report, nil
}

func (s *reportingService) DayBook(ctx context.Context, pumpID string, from, to time.Time) (*domain.DayBookReport, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: period end precedes start", apperrors.ErrValidation)
	}

	vouchers, err := s.reportingRepo.GetDayBookVouchers(ctx, pumpID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch day book vouchers", slog.String("pump_id", pumpID))
		return nil, fmt.Errorf("failed to fetch day book vouchers: %w", err)
	}

	report := &domain.DayBookReport{
		PumpID:      pumpID,
		From:        from,
		To:          to,
		Vouchers:    vouchers,
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}

	for i := range report.Vouchers {
		v := &report.Vouchers[i]
		v.TotalDebit = decimal.Zero
		v.TotalCredit = decimal.Zero
		for _, tx := range v.Transactions {
			if tx.EntryType == domain.Debit {
				v.TotalDebit = v.TotalDebit.Add(tx.Amount)
			} else {
				v.TotalCredit = v.TotalCredit.Add(tx.Amount)
			}
		}
		report.TotalDebit = report.TotalDebit.Add(v.TotalDebit)
		report.TotalCredit = report.TotalCredit.Add(v.TotalCredit)
		report.TotalTransactions += len(v.Transactions)
	}
	report.TotalVouchers = len(report.Vouchers)

	return report, nil
}
