package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/pumpledger/pump_ledger_app/internal/apperrors"
	"github.com/pumpledger/pump_ledger_app/internal/core/domain"
	portsrepo "github.com/pumpledger/pump_ledger_app/internal/core/ports/repositories"
	"github.com/pumpledger/pump_ledger_app/internal/dto"
	"github.com/pumpledger/pump_ledger_app/internal/models"
	"github.com/pumpledger/pump_ledger_app/internal/utils/accounting"
	"github.com/pumpledger/pump_ledger_app/internal/utils/mapping"
	"github.com/pumpledger/pump_ledger_app/internal/utils/pagination"
)

const voucherColumns = `voucher_id, pump_id, voucher_number, voucher_type, voucher_date, narration,
	reference, party_name, payment_mode, cheque_number, cheque_date, bank_name, total_amount, status,
	is_posted, is_cancelled, is_reconciled, approved_at, approved_by, posted_at, posted_by,
	cancelled_at, cancelled_by, cancellation_reason, reconciled_at, reconciled_by,
	reversal_of_voucher_id, reversed_by_voucher_id,
	created_at, created_by, last_updated_at, last_updated_by`

const voucherEntryColumns = `entry_id, voucher_id, account_id, entry_type, amount, narration,
	reference, party_name, created_at, created_by, last_updated_at, last_updated_by`

type PgxVoucherRepository struct {
	BaseRepository
}

// newPgxVoucherRepository creates a new repository for voucher data.
func newPgxVoucherRepository(pool *pgxpool.Pool) portsrepo.VoucherRepositoryFacade {
	return &PgxVoucherRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxVoucherRepository implements portsrepo.VoucherRepositoryFacade
var _ portsrepo.VoucherRepositoryFacade = (*PgxVoucherRepository)(nil)

func scanVoucher(row pgx.Row) (*models.Voucher, error) {
	var m models.Voucher
	err := row.Scan(
		&m.VoucherID, &m.PumpID, &m.VoucherNumber, &m.VoucherType, &m.VoucherDate, &m.Narration,
		&m.Reference, &m.PartyName, &m.PaymentMode, &m.ChequeNumber, &m.ChequeDate, &m.BankName, &m.TotalAmount, &m.Status,
		&m.IsPosted, &m.IsCancelled, &m.IsReconciled, &m.ApprovedAt, &m.ApprovedBy, &m.PostedAt, &m.PostedBy,
		&m.CancelledAt, &m.CancelledBy, &m.CancellationReason, &m.ReconciledAt, &m.ReconciledBy,
		&m.ReversalOfVoucherID, &m.ReversedByVoucherID,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// insertVoucherTx inserts the voucher header inside the transaction.
func insertVoucherTx(ctx context.Context, tx pgx.Tx, m models.Voucher) error {
	query := `
		INSERT INTO vouchers (` + voucherColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
			$18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32);
	`
	_, err := tx.Exec(ctx, query,
		m.VoucherID, m.PumpID, m.VoucherNumber, m.VoucherType, m.VoucherDate, m.Narration,
		m.Reference, m.PartyName, m.PaymentMode, m.ChequeNumber, m.ChequeDate, m.BankName, m.TotalAmount, m.Status,
		m.IsPosted, m.IsCancelled, m.IsReconciled, m.ApprovedAt, m.ApprovedBy, m.PostedAt, m.PostedBy,
		m.CancelledAt, m.CancelledBy, m.CancellationReason, m.ReconciledAt, m.ReconciledBy,
		m.ReversalOfVoucherID, m.ReversedByVoucherID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicateVoucherNumber, m.VoucherNumber)
		}
		return fmt.Errorf("failed to insert voucher %s: %w", m.VoucherID, err)
	}
	return nil
}

// insertEntriesTx batch-inserts the voucher entries inside the transaction.
func insertEntriesTx(ctx context.Context, tx pgx.Tx, entries []domain.VoucherEntry) error {
	batch := &pgx.Batch{}
	query := `
		INSERT INTO voucher_entries (` + voucherEntryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	for _, e := range entries {
		m := mapping.ToModelVoucherEntry(e)
		batch.Queue(query,
			m.EntryID, m.VoucherID, m.AccountID, m.EntryType, m.Amount, m.Narration,
			m.Reference, m.PartyName, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
	}
	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range entries {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert voucher entry: %w", err)
		}
	}
	return nil
}

func (r *PgxVoucherRepository) SaveVoucher(ctx context.Context, voucher domain.Voucher) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertVoucherTx(ctx, tx, mapping.ToModelVoucher(voucher)); err != nil {
		return err
	}
	if err := insertEntriesTx(ctx, tx, voucher.Entries); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func (r *PgxVoucherRepository) ReplaceVoucher(ctx context.Context, voucher domain.Voucher) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelVoucher(voucher)
	query := `
		UPDATE vouchers SET
			voucher_date = $3, narration = $4, reference = $5, party_name = $6, payment_mode = $7,
			cheque_number = $8, cheque_date = $9, bank_name = $10, total_amount = $11, status = $12,
			approved_at = $13, approved_by = $14, last_updated_at = $15, last_updated_by = $16
		WHERE pump_id = $1 AND voucher_id = $2 AND is_posted = FALSE;
	`
	tag, err := tx.Exec(ctx, query,
		m.PumpID, m.VoucherID,
		m.VoucherDate, m.Narration, m.Reference, m.PartyName, m.PaymentMode,
		m.ChequeNumber, m.ChequeDate, m.BankName, m.TotalAmount, m.Status,
		m.ApprovedAt, m.ApprovedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update voucher %s: %w", m.VoucherID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: voucher %s is posted or missing", apperrors.ErrImmutableVoucher, m.VoucherID)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM voucher_entries WHERE voucher_id = $1;`, m.VoucherID); err != nil {
		return fmt.Errorf("failed to clear voucher entries %s: %w", m.VoucherID, err)
	}
	if err := insertEntriesTx(ctx, tx, voucher.Entries); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func (r *PgxVoucherRepository) UpdateVoucherHeader(ctx context.Context, voucher domain.Voucher) error {
	m := mapping.ToModelVoucher(voucher)
	query := `
		UPDATE vouchers SET
			status = $3, is_posted = $4, is_cancelled = $5, is_reconciled = $6,
			approved_at = $7, approved_by = $8, posted_at = $9, posted_by = $10,
			cancelled_at = $11, cancelled_by = $12, cancellation_reason = $13,
			reconciled_at = $14, reconciled_by = $15,
			reversal_of_voucher_id = $16, reversed_by_voucher_id = $17,
			last_updated_at = $18, last_updated_by = $19
		WHERE pump_id = $1 AND voucher_id = $2;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.PumpID, m.VoucherID,
		m.Status, m.IsPosted, m.IsCancelled, m.IsReconciled,
		m.ApprovedAt, m.ApprovedBy, m.PostedAt, m.PostedBy,
		m.CancelledAt, m.CancelledBy, m.CancellationReason,
		m.ReconciledAt, m.ReconciledBy,
		m.ReversalOfVoucherID, m.ReversedByVoucherID,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update voucher header %s: %w", m.VoucherID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: voucher %s", apperrors.ErrNotFound, m.VoucherID)
	}
	return nil
}

func (r *PgxVoucherRepository) FindVoucherByID(ctx context.Context, pumpID string, voucherID string) (*domain.Voucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE pump_id = $1 AND voucher_id = $2;`
	m, err := scanVoucher(r.Pool.QueryRow(ctx, query, pumpID, voucherID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: voucher %s", apperrors.ErrNotFound, voucherID)
		}
		return nil, fmt.Errorf("failed to find voucher %s: %w", voucherID, err)
	}
	voucher := mapping.ToDomainVoucher(*m)
	return &voucher, nil
}

func (r *PgxVoucherRepository) FindVoucherByNumber(ctx context.Context, pumpID string, voucherNumber string) (*domain.Voucher, error) {
	query := `SELECT ` + voucherColumns + ` FROM vouchers WHERE pump_id = $1 AND voucher_number = $2;`
	m, err := scanVoucher(r.Pool.QueryRow(ctx, query, pumpID, voucherNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: voucher number %s", apperrors.ErrNotFound, voucherNumber)
		}
		return nil, fmt.Errorf("failed to find voucher by number %s: %w", voucherNumber, err)
	}
	voucher := mapping.ToDomainVoucher(*m)
	return &voucher, nil
}

func (r *PgxVoucherRepository) FindEntriesByVoucherID(ctx context.Context, voucherID string) ([]domain.VoucherEntry, error) {
	query := `SELECT ` + voucherEntryColumns + ` FROM voucher_entries WHERE voucher_id = $1 ORDER BY created_at, entry_id;`
	rows, err := r.Pool.Query(ctx, query, voucherID)
	if err != nil {
		return nil, fmt.Errorf("failed to query voucher entries %s: %w", voucherID, err)
	}
	defer rows.Close()

	entries := make([]domain.VoucherEntry, 0)
	for rows.Next() {
		var m models.VoucherEntry
		if err := rows.Scan(
			&m.EntryID, &m.VoucherID, &m.AccountID, &m.EntryType, &m.Amount, &m.Narration,
			&m.Reference, &m.PartyName, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan voucher entry row: %w", err)
		}
		entries = append(entries, mapping.ToDomainVoucherEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating voucher entry rows: %w", err)
	}
	return entries, nil
}

func (r *PgxVoucherRepository) ListVouchers(ctx context.Context, pumpID string, params dto.ListVouchersParams) ([]domain.Voucher, *string, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + voucherColumns + ` FROM vouchers WHERE pump_id = $1`)
	args := []any{pumpID}

	if params.From != nil {
		args = append(args, *params.From)
		sb.WriteString(fmt.Sprintf(" AND voucher_date >= $%d", len(args)))
	}
	if params.To != nil {
		args = append(args, *params.To)
		sb.WriteString(fmt.Sprintf(" AND voucher_date <= $%d", len(args)))
	}
	if params.Status != nil {
		args = append(args, *params.Status)
		sb.WriteString(fmt.Sprintf(" AND status = $%d", len(args)))
	}
	if params.NextToken != nil {
		voucherDate, createdAt, err := pagination.DecodeToken(*params.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		args = append(args, voucherDate, createdAt)
		sb.WriteString(fmt.Sprintf(" AND (voucher_date, created_at) < ($%d, $%d)", len(args)-1, len(args)))
	}

	// Fetch one extra row to detect the next page.
	args = append(args, params.Limit+1)
	sb.WriteString(fmt.Sprintf(" ORDER BY voucher_date DESC, created_at DESC LIMIT $%d;", len(args)))

	rows, err := r.Pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list vouchers: %w", err)
	}
	defer rows.Close()

	vouchers := make([]domain.Voucher, 0, params.Limit)
	for rows.Next() {
		m, err := scanVoucher(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan voucher row: %w", err)
		}
		vouchers = append(vouchers, mapping.ToDomainVoucher(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating voucher rows: %w", err)
	}

	var nextToken *string
	if len(vouchers) > params.Limit {
		vouchers = vouchers[:params.Limit]
		last := vouchers[len(vouchers)-1]
		token := pagination.EncodeToken(last.VoucherDate, last.CreatedAt)
		nextToken = &token
	}
	return vouchers, nextToken, nil
}

// lockAccountsTx locks the named accounts FOR UPDATE in a deterministic order
// and returns them keyed by ID. Concurrent postings touching the same accounts
// serialize here.
func lockAccountsTx(ctx context.Context, tx pgx.Tx, pumpID string, accountIDs []string) (map[string]models.Account, error) {
	query := `
		SELECT ` + accountColumns + ` FROM accounts
		WHERE pump_id = $1 AND account_id = ANY($2)
		ORDER BY account_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, pumpID, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", err)
	}
	defer rows.Close()

	locked := make(map[string]models.Account, len(accountIDs))
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked account: %w", err)
		}
		locked[m.AccountID] = *m
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked accounts: %w", err)
	}
	for _, id := range accountIDs {
		if _, ok := locked[id]; !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
	}
	return locked, nil
}

// projectEntriesTx materializes one ledger entry per voucher entry with
// running balances folded from the locked accounts' current balances, then
// writes the new balances back.
func projectEntriesTx(ctx context.Context, tx pgx.Tx, voucher domain.Voucher, locked map[string]models.Account) error {
	balances := make(map[string]decimal.Decimal, len(locked))
	for id, acc := range locked {
		balances[id] = acc.CurrentBalance
	}

	batch := &pgx.Batch{}
	ledgerQuery := `
		INSERT INTO ledger_entries (
			ledger_entry_id, pump_id, account_id, voucher_id, voucher_number, transaction_date,
			entry_type, amount, narration, reference, party_name, running_balance,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	for _, e := range voucher.Entries {
		acc := locked[e.AccountID]
		signed, err := accounting.SignedAmount(e.EntryType, e.Amount, domain.BalanceType(acc.BalanceType))
		if err != nil {
			return err
		}
		balances[e.AccountID] = balances[e.AccountID].Add(signed)

		batch.Queue(ledgerQuery,
			uuid.NewString(), voucher.PumpID, e.AccountID, voucher.VoucherID, voucher.VoucherNumber, voucher.VoucherDate,
			string(e.EntryType), e.Amount, e.Narration, e.Reference, e.PartyName, balances[e.AccountID],
			voucher.LastUpdatedAt, voucher.LastUpdatedBy, voucher.LastUpdatedAt, voucher.LastUpdatedBy,
		)
	}

	balanceQuery := `
		UPDATE accounts SET current_balance = $3, last_updated_at = $4, last_updated_by = $5
		WHERE pump_id = $1 AND account_id = $2;
	`
	for id, balance := range balances {
		batch.Queue(balanceQuery, voucher.PumpID, id, balance, voucher.LastUpdatedAt, voucher.LastUpdatedBy)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for i := 0; i < len(voucher.Entries)+len(balances); i++ {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to project ledger entries: %w", err)
		}
	}
	return nil
}

func voucherAccountIDs(voucher domain.Voucher) []string {
	seen := make(map[string]struct{}, len(voucher.Entries))
	ids := make([]string, 0, len(voucher.Entries))
	for _, e := range voucher.Entries {
		if _, ok := seen[e.AccountID]; ok {
			continue
		}
		seen[e.AccountID] = struct{}{}
		ids = append(ids, e.AccountID)
	}
	return ids
}

func (r *PgxVoucherRepository) PostVoucher(ctx context.Context, voucher domain.Voucher) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	// The is_posted guard makes the POSTED transition idempotent-safe under
	// concurrent posting attempts.
	m := mapping.ToModelVoucher(voucher)
	tag, err := tx.Exec(ctx, `
		UPDATE vouchers SET
			status = $3, is_posted = TRUE, posted_at = $4, posted_by = $5,
			last_updated_at = $6, last_updated_by = $7
		WHERE pump_id = $1 AND voucher_id = $2 AND is_posted = FALSE AND is_cancelled = FALSE;
	`, m.PumpID, m.VoucherID, m.Status, m.PostedAt, m.PostedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to mark voucher posted %s: %w", m.VoucherID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: voucher %s", apperrors.ErrAlreadyPosted, m.VoucherID)
	}

	locked, err := lockAccountsTx(ctx, tx, voucher.PumpID, voucherAccountIDs(voucher))
	if err != nil {
		return err
	}
	if err := projectEntriesTx(ctx, tx, voucher, locked); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func (r *PgxVoucherRepository) PostReversal(ctx context.Context, reversal domain.Voucher, original domain.Voucher) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertVoucherTx(ctx, tx, mapping.ToModelVoucher(reversal)); err != nil {
		return err
	}
	if err := insertEntriesTx(ctx, tx, reversal.Entries); err != nil {
		return err
	}

	locked, err := lockAccountsTx(ctx, tx, reversal.PumpID, voucherAccountIDs(reversal))
	if err != nil {
		return err
	}
	if err := projectEntriesTx(ctx, tx, reversal, locked); err != nil {
		return err
	}

	// Flip the original to CANCELLED and stamp the reversal link, guarded so a
	// concurrent cancellation loses.
	orig := mapping.ToModelVoucher(original)
	tag, err := tx.Exec(ctx, `
		UPDATE vouchers SET
			status = $3, is_cancelled = TRUE, cancelled_at = $4, cancelled_by = $5,
			cancellation_reason = $6, reversed_by_voucher_id = $7,
			last_updated_at = $8, last_updated_by = $9
		WHERE pump_id = $1 AND voucher_id = $2 AND is_cancelled = FALSE AND reversed_by_voucher_id IS NULL;
	`, orig.PumpID, orig.VoucherID, orig.Status, orig.CancelledAt, orig.CancelledBy,
		orig.CancellationReason, orig.ReversedByVoucherID, orig.LastUpdatedAt, orig.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to cancel original voucher %s: %w", orig.VoucherID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: voucher %s", apperrors.ErrAlreadyCancelled, orig.VoucherID)
	}

	return r.Commit(ctx, tx)
}

// NextVoucherSequence atomically increments and returns the per-(pump, type,
// day) counter. The upsert makes first use and increments race-free.
func (r *PgxVoucherRepository) NextVoucherSequence(ctx context.Context, pumpID string, voucherType domain.VoucherType, date time.Time) (int, error) {
	query := `
		INSERT INTO voucher_sequences (pump_id, voucher_type, sequence_date, next_value)
		VALUES ($1, $2, $3, 2)
		ON CONFLICT (pump_id, voucher_type, sequence_date)
		DO UPDATE SET next_value = voucher_sequences.next_value + 1
		RETURNING next_value - 1;
	`
	var seq int
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	if err := r.Pool.QueryRow(ctx, query, pumpID, string(voucherType), day).Scan(&seq); err != nil {
		return 0, fmt.Errorf("failed to allocate voucher sequence: %w", err)
	}
	return seq, nil
}
