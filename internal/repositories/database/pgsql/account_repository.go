package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pumpledger/pump_ledger_app/internal/apperrors"
	"github.com/pumpledger/pump_ledger_app/internal/core/domain"
	portsrepo "github.com/pumpledger/pump_ledger_app/internal/core/ports/repositories"
	"github.com/pumpledger/pump_ledger_app/internal/models"
	"github.com/pumpledger/pump_ledger_app/internal/utils/mapping"
)

const accountColumns = `account_id, pump_id, code, name, account_type, account_group, balance_type,
	parent_code, gst_number, pan_number, opening_balance, current_balance, reconciled_balance,
	last_reconciled_at, is_system_account, is_locked, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (*models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID, &m.PumpID, &m.Code, &m.Name, &m.AccountType, &m.AccountGroup, &m.BalanceType,
		&m.ParentCode, &m.GSTNumber, &m.PANNumber, &m.OpeningBalance, &m.CurrentBalance, &m.ReconciledBalance,
		&m.LastReconciledAt, &m.IsSystemAccount, &m.IsLocked, &m.IsActive,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID, m.PumpID, m.Code, m.Name, m.AccountType, m.AccountGroup, m.BalanceType,
		m.ParentCode, m.GSTNumber, m.PANNumber, m.OpeningBalance, m.CurrentBalance, m.ReconciledBalance,
		m.LastReconciledAt, m.IsSystemAccount, m.IsLocked, m.IsActive,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: code %s in pump %s", apperrors.ErrDuplicateCode, m.Code, m.PumpID)
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, err)
	}
	return nil
}

func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, pumpID string, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE pump_id = $1 AND account_id = $2;`
	m, err := scanAccount(r.Pool.QueryRow(ctx, query, pumpID, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	account := mapping.ToDomainAccount(*m)
	return &account, nil
}

func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, pumpID string, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE pump_id = $1 AND code = $2;`
	m, err := scanAccount(r.Pool.QueryRow(ctx, query, pumpID, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account code %s", apperrors.ErrNotFound, code)
		}
		return nil, fmt.Errorf("failed to find account by code %s: %w", code, err)
	}
	account := mapping.ToDomainAccount(*m)
	return &account, nil
}

func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, pumpID string, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE pump_id = $1 AND account_id = ANY($2);`
	rows, err := r.Pool.Query(ctx, query, pumpID, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by IDs: %w", err)
	}
	defer rows.Close()

	result := make(map[string]domain.Account, len(accountIDs))
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		result[m.AccountID] = mapping.ToDomainAccount(*m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return result, nil
}

func (r *PgxAccountRepository) ListAccounts(ctx context.Context, pumpID string, limit int, offset int) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE pump_id = $1 ORDER BY code LIMIT $2 OFFSET $3;`
	rows, err := r.Pool.Query(ctx, query, pumpID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0, limit)
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, mapping.ToDomainAccount(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

func (r *PgxAccountRepository) FindActiveAccounts(ctx context.Context, pumpID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE pump_id = $1 AND is_active = TRUE ORDER BY code;`
	rows, err := r.Pool.Query(ctx, query, pumpID)
	if err != nil {
		return nil, fmt.Errorf("failed to query active accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, mapping.ToDomainAccount(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)

	query := `
		UPDATE accounts SET
			code = $3, name = $4, account_type = $5, account_group = $6, balance_type = $7,
			parent_code = $8, gst_number = $9, pan_number = $10,
			opening_balance = $11, current_balance = $12, is_locked = $13, is_active = $14,
			last_updated_at = $15, last_updated_by = $16
		WHERE pump_id = $1 AND account_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.PumpID, m.AccountID,
		m.Code, m.Name, m.AccountType, m.AccountGroup, m.BalanceType,
		m.ParentCode, m.GSTNumber, m.PANNumber,
		m.OpeningBalance, m.CurrentBalance, m.IsLocked, m.IsActive,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", m.AccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, m.AccountID)
	}
	return nil
}

func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, pumpID string, accountID string) error {
	// Accounts with ledger history must survive; foreign keys reject the
	// delete and we surface that as a validation error.
	tag, err := r.Pool.Exec(ctx, `DELETE FROM accounts WHERE pump_id = $1 AND account_id = $2;`, pumpID, accountID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return fmt.Errorf("%w: account %s has ledger activity", apperrors.ErrValidation, accountID)
		}
		return fmt.Errorf("failed to delete account %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return nil
}

func (r *PgxAccountRepository) UpdateReconciliation(ctx context.Context, pumpID string, accountID string, reconciledBy string, at time.Time) error {
	query := `
		UPDATE accounts SET
			reconciled_balance = current_balance, last_reconciled_at = $3,
			last_updated_at = $3, last_updated_by = $4
		WHERE pump_id = $1 AND account_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query, pumpID, accountID, at, reconciledBy)
	if err != nil {
		return fmt.Errorf("failed to update account reconciliation %s: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
	}
	return nil
}
