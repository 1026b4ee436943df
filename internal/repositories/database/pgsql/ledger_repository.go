package pgsql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/pumpledger/pump_ledger_app/internal/apperrors"
	"github.com/pumpledger/pump_ledger_app/internal/core/domain"
	portsrepo "github.com/pumpledger/pump_ledger_app/internal/core/ports/repositories"
	"github.com/pumpledger/pump_ledger_app/internal/models"
	"github.com/pumpledger/pump_ledger_app/internal/utils/accounting"
	"github.com/pumpledger/pump_ledger_app/internal/utils/mapping"
	"github.com/pumpledger/pump_ledger_app/internal/utils/pagination"
)

const ledgerColumns = `ledger_entry_id, pump_id, account_id, voucher_id, voucher_number, transaction_date,
	entry_type, amount, narration, reference, party_name, running_balance, entry_seq,
	is_reconciled, reconciled_at, reconciled_by,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for ledger projection data.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

func scanLedgerEntry(row pgx.Row) (*models.LedgerEntry, error) {
	var m models.LedgerEntry
	err := row.Scan(
		&m.LedgerEntryID, &m.PumpID, &m.AccountID, &m.VoucherID, &m.VoucherNumber, &m.TransactionDate,
		&m.EntryType, &m.Amount, &m.Narration, &m.Reference, &m.PartyName, &m.RunningBalance, &m.EntrySeq,
		&m.IsReconciled, &m.ReconciledAt, &m.ReconciledBy,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxLedgerRepository) FindEntriesByAccount(ctx context.Context, pumpID string, accountID string, from, to *time.Time, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE pump_id = $1 AND account_id = $2`)
	args := []any{pumpID, accountID}

	if from != nil {
		args = append(args, *from)
		sb.WriteString(fmt.Sprintf(" AND transaction_date >= $%d", len(args)))
	}
	if to != nil {
		args = append(args, *to)
		sb.WriteString(fmt.Sprintf(" AND transaction_date <= $%d", len(args)))
	}
	if nextToken != nil {
		tokDate, tokSeq, err := pagination.DecodeEntryToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		args = append(args, tokDate, tokSeq)
		sb.WriteString(fmt.Sprintf(" AND (transaction_date, entry_seq) > ($%d, $%d)", len(args)-1, len(args)))
	}

	args = append(args, limit+1)
	sb.WriteString(fmt.Sprintf(" ORDER BY transaction_date, entry_seq LIMIT $%d;", len(args)))

	rows, err := r.Pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.LedgerEntry, 0, limit)
	for rows.Next() {
		m, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan ledger entry row: %w", err)
		}
		entries = append(entries, mapping.ToDomainLedgerEntry(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating ledger entry rows: %w", err)
	}

	var token *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		t := pagination.EncodeEntryToken(last.TransactionDate, last.EntrySeq)
		token = &t
	}
	return entries, token, nil
}

func (r *PgxLedgerRepository) FindEntriesByVoucherID(ctx context.Context, pumpID string, voucherID string) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_entries WHERE pump_id = $1 AND voucher_id = $2 ORDER BY entry_seq;`
	rows, err := r.Pool.Query(ctx, query, pumpID, voucherID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries for voucher %s: %w", voucherID, err)
	}
	defer rows.Close()

	entries := make([]domain.LedgerEntry, 0)
	for rows.Next() {
		m, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry row: %w", err)
		}
		entries = append(entries, mapping.ToDomainLedgerEntry(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger entry rows: %w", err)
	}
	return entries, nil
}

// SumSignedMovement aggregates in SQL: an entry matching its account's natural
// side adds, the opposite side subtracts.
func (r *PgxLedgerRepository) SumSignedMovement(ctx context.Context, pumpID string, accountID string, from, to *time.Time) (decimal.Decimal, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT COALESCE(SUM(
			CASE WHEN le.entry_type = a.balance_type THEN le.amount ELSE -le.amount END
		), 0)
		FROM ledger_entries le
		JOIN accounts a ON a.pump_id = le.pump_id AND a.account_id = le.account_id
		WHERE le.pump_id = $1 AND le.account_id = $2`)
	args := []any{pumpID, accountID}

	if from != nil {
		args = append(args, *from)
		sb.WriteString(fmt.Sprintf(" AND le.transaction_date >= $%d", len(args)))
	}
	if to != nil {
		args = append(args, *to)
		sb.WriteString(fmt.Sprintf(" AND le.transaction_date <= $%d", len(args)))
	}
	sb.WriteString(";")

	var sum decimal.Decimal
	if err := r.Pool.QueryRow(ctx, sb.String(), args...).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum ledger movement: %w", err)
	}
	return sum, nil
}

// RecalculateRunningBalances replays the account's whole ledger in
// (transaction_date, entry_seq) order from the opening balance, rewriting each
// stored running balance and the account's cached current balance.
func (r *PgxLedgerRepository) RecalculateRunningBalances(ctx context.Context, pumpID string, accountID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var opening decimal.Decimal
	var balanceType string
	err = tx.QueryRow(ctx, `
		SELECT opening_balance, balance_type FROM accounts
		WHERE pump_id = $1 AND account_id = $2
		FOR UPDATE;
	`, pumpID, accountID).Scan(&opening, &balanceType)
	if err != nil {
		if err == pgx.ErrNoRows {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		return fmt.Errorf("failed to lock account %s: %w", accountID, err)
	}

	rows, err := tx.Query(ctx, `
		SELECT ledger_entry_id, entry_type, amount FROM ledger_entries
		WHERE pump_id = $1 AND account_id = $2
		ORDER BY transaction_date, entry_seq;
	`, pumpID, accountID)
	if err != nil {
		return fmt.Errorf("failed to read ledger entries: %w", err)
	}

	type entryRow struct {
		id        string
		entryType string
		amount    decimal.Decimal
	}
	var entryRows []entryRow
	for rows.Next() {
		var e entryRow
		if err := rows.Scan(&e.id, &e.entryType, &e.amount); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entryRows = append(entryRows, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating ledger entries: %w", err)
	}

	balance := opening
	batch := &pgx.Batch{}
	for _, e := range entryRows {
		signed, err := accounting.SignedAmount(domain.EntryType(e.entryType), e.amount, domain.BalanceType(balanceType))
		if err != nil {
			return err
		}
		balance = balance.Add(signed)
		batch.Queue(`UPDATE ledger_entries SET running_balance = $2 WHERE ledger_entry_id = $1;`, e.id, balance)
	}
	batch.Queue(`UPDATE accounts SET current_balance = $3 WHERE pump_id = $1 AND account_id = $2;`, pumpID, accountID, balance)

	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for i := 0; i < len(entryRows)+1; i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to rewrite running balances: %w", err)
		}
	}

	return r.Commit(ctx, tx)
}

func (r *PgxLedgerRepository) UpdateReconciliation(ctx context.Context, pumpID string, ledgerEntryID string, reconciled bool, reconciledBy string, at time.Time) error {
	query := `
		UPDATE ledger_entries SET
			is_reconciled = $3, reconciled_at = $4, reconciled_by = $5,
			last_updated_at = $6, last_updated_by = $5
		WHERE pump_id = $1 AND ledger_entry_id = $2;
	`
	var reconciledAt *time.Time
	var by string
	if reconciled {
		reconciledAt = &at
		by = reconciledBy
	}
	tag, err := r.Pool.Exec(ctx, query, pumpID, ledgerEntryID, reconciled, reconciledAt, by, at)
	if err != nil {
		return fmt.Errorf("failed to update ledger reconciliation %s: %w", ledgerEntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: ledger entry %s", apperrors.ErrNotFound, ledgerEntryID)
	}
	return nil
}
