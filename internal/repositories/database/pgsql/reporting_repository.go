package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/pumpledger/pump_ledger_app/internal/core/domain"
	portsrepo "github.com/pumpledger/pump_ledger_app/internal/core/ports/repositories"
	"github.com/pumpledger/pump_ledger_app/internal/models"
	"github.com/pumpledger/pump_ledger_app/internal/utils/mapping"
)

type PgxReportingRepository struct {
	BaseRepository
}

// newPgxReportingRepository creates a read-only repository for statement aggregates.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxReportingRepository implements portsrepo.ReportingRepository
var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// scanAccountWithAmount scans an account row that carries one extra
// aggregated amount column at the end.
func scanAccountWithAmount(row pgx.Row) (*models.Account, decimal.Decimal, error) {
	var m models.Account
	var amount decimal.Decimal
	err := row.Scan(
		&m.AccountID, &m.PumpID, &m.Code, &m.Name, &m.AccountType, &m.AccountGroup, &m.BalanceType,
		&m.ParentCode, &m.GSTNumber, &m.PANNumber, &m.OpeningBalance, &m.CurrentBalance, &m.ReconciledBalance,
		&m.LastReconciledAt, &m.IsSystemAccount, &m.IsLocked, &m.IsActive,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		&amount,
	)
	if err != nil {
		return nil, decimal.Zero, err
	}
	return &m, amount, nil
}

// GetBalancesAsOf aggregates each active account's natural-signed balance up
// to the date, opening balance included, in one query.
func (r *PgxReportingRepository) GetBalancesAsOf(ctx context.Context, pumpID string, asOf time.Time) ([]portsrepo.AccountBalanceRow, error) {
	query := `
		SELECT ` + accountColumns + `,
			a.opening_balance + COALESCE((
				SELECT SUM(CASE WHEN le.entry_type = a.balance_type THEN le.amount ELSE -le.amount END)
				FROM ledger_entries le
				WHERE le.pump_id = a.pump_id AND le.account_id = a.account_id
				  AND le.transaction_date <= $2
			), 0) AS balance
		FROM accounts a
		WHERE a.pump_id = $1 AND a.is_active = TRUE
		ORDER BY a.code;
	`
	rows, err := r.Pool.Query(ctx, query, pumpID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query balances as of: %w", err)
	}
	defer rows.Close()

	result := make([]portsrepo.AccountBalanceRow, 0)
	for rows.Next() {
		m, balance, err := scanAccountWithAmount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan balance row: %w", err)
		}
		result = append(result, portsrepo.AccountBalanceRow{
			Account: mapping.ToDomainAccount(*m),
			Amount:  balance,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating balance rows: %w", err)
	}
	return result, nil
}

// GetPeriodMovements aggregates active INCOME and EXPENSE accounts' net
// natural-signed movement inside the inclusive range.
func (r *PgxReportingRepository) GetPeriodMovements(ctx context.Context, pumpID string, from, to time.Time) ([]portsrepo.AccountBalanceRow, error) {
	query := `
		SELECT ` + accountColumns + `,
			COALESCE((
				SELECT SUM(CASE WHEN le.entry_type = a.balance_type THEN le.amount ELSE -le.amount END)
				FROM ledger_entries le
				WHERE le.pump_id = a.pump_id AND le.account_id = a.account_id
				  AND le.transaction_date >= $2 AND le.transaction_date <= $3
			), 0) AS movement
		FROM accounts a
		WHERE a.pump_id = $1 AND a.is_active = TRUE AND a.account_type IN ('INCOME', 'EXPENSE')
		ORDER BY a.code;
	`
	rows, err := r.Pool.Query(ctx, query, pumpID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query period movements: %w", err)
	}
	defer rows.Close()

	result := make([]portsrepo.AccountBalanceRow, 0)
	for rows.Next() {
		m, movement, err := scanAccountWithAmount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movement row: %w", err)
		}
		result = append(result, portsrepo.AccountBalanceRow{
			Account: mapping.ToDomainAccount(*m),
			Amount:  movement,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating movement rows: %w", err)
	}
	return result, nil
}

// GetDayBookVouchers returns every posted voucher dated inside the range with
// its entries enriched with account code and name.
func (r *PgxReportingRepository) GetDayBookVouchers(ctx context.Context, pumpID string, from, to time.Time) ([]domain.DayBookVoucher, error) {
	query := `
		SELECT v.voucher_id, v.voucher_number, v.voucher_type, v.voucher_date, v.narration,
			ve.account_id, a.code, a.name, ve.entry_type, ve.amount, ve.narration
		FROM vouchers v
		JOIN voucher_entries ve ON ve.voucher_id = v.voucher_id
		JOIN accounts a ON a.pump_id = v.pump_id AND a.account_id = ve.account_id
		WHERE v.pump_id = $1 AND v.is_posted = TRUE AND v.is_cancelled = FALSE
		  AND v.voucher_date >= $2 AND v.voucher_date <= $3
		ORDER BY v.voucher_date, v.created_at, v.voucher_id, ve.created_at;
	`
	rows, err := r.Pool.Query(ctx, query, pumpID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query day book vouchers: %w", err)
	}
	defer rows.Close()

	vouchers := make([]domain.DayBookVoucher, 0)
	index := map[string]int{}
	for rows.Next() {
		var (
			voucherID, voucherNumber, voucherType, voucherNarration string
			voucherDate                                             time.Time
			tx                                                      domain.DayBookTransaction
			entryType                                               string
		)
		if err := rows.Scan(
			&voucherID, &voucherNumber, &voucherType, &voucherDate, &voucherNarration,
			&tx.AccountID, &tx.AccountCode, &tx.AccountName, &entryType, &tx.Amount, &tx.Narration,
		); err != nil {
			return nil, fmt.Errorf("failed to scan day book row: %w", err)
		}
		tx.EntryType = domain.EntryType(entryType)

		i, ok := index[voucherID]
		if !ok {
			i = len(vouchers)
			index[voucherID] = i
			vouchers = append(vouchers, domain.DayBookVoucher{
				VoucherID:     voucherID,
				VoucherNumber: voucherNumber,
				VoucherType:   domain.VoucherType(voucherType),
				VoucherDate:   voucherDate,
				Narration:     voucherNarration,
				TotalDebit:    decimal.Zero,
				TotalCredit:   decimal.Zero,
			})
		}
		vouchers[i].Transactions = append(vouchers[i].Transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating day book rows: %w", err)
	}
	return vouchers, nil
}
