package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pumpledger/pump_ledger_app/internal/core/domain"
	portsrepo "github.com/pumpledger/pump_ledger_app/internal/core/ports/repositories"
	"github.com/pumpledger/pump_ledger_app/internal/utils/accounting"
)

type memReportingRepository struct {
	*store
}

var _ portsrepo.ReportingRepository = (*memReportingRepository)(nil)

func (r *memReportingRepository) GetBalancesAsOf(ctx context.Context, pumpID string, asOf time.Time) ([]portsrepo.AccountBalanceRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := make([]portsrepo.AccountBalanceRow, 0)
	for _, account := range r.accounts {
		if account.PumpID != pumpID || !account.IsActive {
			continue
		}
		balance := account.OpeningBalance
		for _, e := range r.accountEntriesLocked(pumpID, account.AccountID, nil, &asOf) {
			signed, err := accounting.SignedAmount(e.EntryType, e.Amount, account.BalanceType)
			if err != nil {
				return nil, err
			}
			balance = balance.Add(signed)
		}
		rows = append(rows, portsrepo.AccountBalanceRow{Account: account, Amount: balance})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Account.Code < rows[j].Account.Code })
	return rows, nil
}

func (r *memReportingRepository) GetPeriodMovements(ctx context.Context, pumpID string, from, to time.Time) ([]portsrepo.AccountBalanceRow, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := make([]portsrepo.AccountBalanceRow, 0)
	for _, account := range r.accounts {
		if account.PumpID != pumpID || !account.IsActive {
			continue
		}
		if account.AccountType != domain.Income && account.AccountType != domain.Expense {
			continue
		}
		movement := decimal.Zero
		for _, e := range r.accountEntriesLocked(pumpID, account.AccountID, &from, &to) {
			signed, err := accounting.SignedAmount(e.EntryType, e.Amount, account.BalanceType)
			if err != nil {
				return nil, err
			}
			movement = movement.Add(signed)
		}
		rows = append(rows, portsrepo.AccountBalanceRow{Account: account, Amount: movement})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Account.Code < rows[j].Account.Code })
	return rows, nil
}

func (r *memReportingRepository) GetDayBookVouchers(ctx context.Context, pumpID string, from, to time.Time) ([]domain.DayBookVoucher, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	vouchers := make([]domain.DayBookVoucher, 0)
	for _, v := range r.vouchers {
		if v.PumpID != pumpID || !v.IsPosted || v.IsCancelled {
			continue
		}
		if v.VoucherDate.Before(from) || v.VoucherDate.After(to) {
			continue
		}

		dbv := domain.DayBookVoucher{
			VoucherID:     v.VoucherID,
			VoucherNumber: v.VoucherNumber,
			VoucherType:   v.VoucherType,
			VoucherDate:   v.VoucherDate,
			Narration:     v.Narration,
		}
		for _, e := range r.voucherEntries[v.VoucherID] {
			tx := domain.DayBookTransaction{
				AccountID: e.AccountID,
				EntryType: e.EntryType,
				Amount:    e.Amount,
				Narration: e.Narration,
			}
			if account, ok := r.accounts[e.AccountID]; ok {
				tx.AccountCode = account.Code
				tx.AccountName = account.Name
			}
			dbv.Transactions = append(dbv.Transactions, tx)
		}
		vouchers = append(vouchers, dbv)
	}

	sort.Slice(vouchers, func(i, j int) bool {
		if !vouchers[i].VoucherDate.Equal(vouchers[j].VoucherDate) {
			return vouchers[i].VoucherDate.Before(vouchers[j].VoucherDate)
		}
		return vouchers[i].VoucherNumber < vouchers[j].VoucherNumber
	})
	return vouchers, nil
}
