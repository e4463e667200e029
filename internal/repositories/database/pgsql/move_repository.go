package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Finterra/ledger_exchange_app/internal/apperrors"
	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
	portsrepo "github.com/Finterra/ledger_exchange_app/internal/core/ports/repositories"
)

type PgxMoveRepository struct {
	BaseRepository
}

func newPgxMoveRepository(pool *pgxpool.Pool) portsrepo.MoveRepositoryFacade {
	return &PgxMoveRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.MoveRepositoryFacade = (*PgxMoveRepository)(nil)

const moveColumns = `move_id, company_id, journal_id, name, ref, date, move_type, state,
	partner_id, currency_code, currency_rate, amount_total, amount_untaxed,
	invoice_date, invoice_date_due, delivery_date, payment_reference, payment_state,
	order_number, sepa_mandate_ref, narration, counter_account_id, document_guid,
	export_id, import_run_id, import_guid,
	created_at, created_by, last_updated_at, last_updated_by`

const moveLineColumns = `line_id, move_id, account_id, partner_id, name,
	debit, credit, amount_currency, currency_code,
	quantity, price_subtotal, price_total,
	tax_ids, tax_line_tax_id, cost_center1_id, cost_center2_id, reconciled`

func scanMove(row pgx.Row) (domain.Move, error) {
	var m domain.Move
	err := row.Scan(
		&m.MoveID, &m.CompanyID, &m.JournalID, &m.Name, &m.Ref, &m.Date, &m.MoveType, &m.State,
		&m.PartnerID, &m.CurrencyCode, &m.CurrencyRate, &m.AmountTotal, &m.AmountUntaxed,
		&m.InvoiceDate, &m.InvoiceDateDue, &m.DeliveryDate, &m.PaymentReference, &m.PaymentState,
		&m.OrderNumber, &m.SEPAMandateRef, &m.Narration, &m.CounterAccountID, &m.DocumentGUID,
		&m.ExportID, &m.ImportRunID, &m.ImportGUID,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func scanMoveLine(row pgx.Row) (domain.MoveLine, error) {
	var l domain.MoveLine
	err := row.Scan(
		&l.LineID, &l.MoveID, &l.AccountID, &l.PartnerID, &l.Name,
		&l.Debit, &l.Credit, &l.AmountCurrency, &l.CurrencyCode,
		&l.Quantity, &l.PriceSubtotal, &l.PriceTotal,
		&l.TaxIDs, &l.TaxLineTaxID, &l.CostCenter1ID, &l.CostCenter2ID, &l.Reconciled,
	)
	return l, err
}

// queryMoves fetches moves for a query and attaches their lines in one
// follow-up query.
func (r *PgxMoveRepository) queryMoves(ctx context.Context, query string, args ...any) ([]domain.Move, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query moves: %w", err)
	}
	defer rows.Close()
	var moves []domain.Move
	index := map[string]int{}
	for rows.Next() {
		m, err := scanMove(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan move: %w", err)
		}
		index[m.MoveID] = len(moves)
		moves = append(moves, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate moves: %w", err)
	}
	if len(moves) == 0 {
		return moves, nil
	}

	moveIDs := make([]string, len(moves))
	for i, m := range moves {
		moveIDs[i] = m.MoveID
	}
	lineQuery := `SELECT ` + moveLineColumns + ` FROM move_lines WHERE move_id = ANY($1) ORDER BY line_id;`
	lineRows, err := r.Pool.Query(ctx, lineQuery, moveIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query move lines: %w", err)
	}
	defer lineRows.Close()
	for lineRows.Next() {
		l, err := scanMoveLine(lineRows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan move line: %w", err)
		}
		if i, ok := index[l.MoveID]; ok {
			moves[i].Lines = append(moves[i].Lines, l)
		}
	}
	if err := lineRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate move lines: %w", err)
	}
	return moves, nil
}

// FindMoveByID retrieves a move including its lines.
func (r *PgxMoveRepository) FindMoveByID(ctx context.Context, moveID string) (*domain.Move, error) {
	moves, err := r.queryMoves(ctx, `SELECT `+moveColumns+` FROM moves WHERE move_id = $1;`, moveID)
	if err != nil {
		return nil, err
	}
	if len(moves) == 0 {
		return nil, fmt.Errorf("%w: move %s", apperrors.ErrNotFound, moveID)
	}
	return &moves[0], nil
}

// FindMovesByIDs retrieves multiple moves including their lines.
func (r *PgxMoveRepository) FindMovesByIDs(ctx context.Context, moveIDs []string) ([]domain.Move, error) {
	if len(moveIDs) == 0 {
		return nil, nil
	}
	return r.queryMoves(ctx, `SELECT `+moveColumns+` FROM moves WHERE move_id = ANY($1) ORDER BY date, name;`, moveIDs)
}

// FindMovesForExport retrieves the posted moves matching the selection that
// are not yet claimed by another export.
func (r *PgxMoveRepository) FindMovesForExport(ctx context.Context, sel portsrepo.MoveSelection) ([]domain.Move, error) {
	if len(sel.MoveIDs) > 0 {
		return r.queryMoves(ctx, `
			SELECT `+moveColumns+` FROM moves
			WHERE company_id = $1 AND move_id = ANY($2) AND state = 'posted' AND export_id = ''
			ORDER BY date, name;`,
			sel.CompanyID, sel.MoveIDs)
	}
	query := `
		SELECT ` + moveColumns + ` FROM moves
		WHERE company_id = $1 AND state = 'posted' AND export_id = ''
		  AND date >= $2 AND date <= $3`
	args := []any{sel.CompanyID, sel.PeriodStart, sel.PeriodEnd}
	if len(sel.JournalIDs) > 0 {
		query += ` AND journal_id = ANY($4)`
		args = append(args, sel.JournalIDs)
	}
	query += ` ORDER BY date, name;`
	return r.queryMoves(ctx, query, args...)
}

// FindMoveByImportGUID retrieves the move created from the given import
// document GUID, if any.
func (r *PgxMoveRepository) FindMoveByImportGUID(ctx context.Context, companyID string, guid string) (*domain.Move, error) {
	moves, err := r.queryMoves(ctx,
		`SELECT `+moveColumns+` FROM moves WHERE company_id = $1 AND import_guid = $2;`,
		companyID, guid)
	if err != nil {
		return nil, err
	}
	if len(moves) == 0 {
		return nil, fmt.Errorf("%w: move with import guid %s", apperrors.ErrNotFound, guid)
	}
	return &moves[0], nil
}

// FindMovesByImportRun retrieves the moves created by an import run.
func (r *PgxMoveRepository) FindMovesByImportRun(ctx context.Context, importRunID string) ([]domain.Move, error) {
	return r.queryMoves(ctx,
		`SELECT `+moveColumns+` FROM moves WHERE import_run_id = $1 ORDER BY date, name;`,
		importRunID)
}

// FindOpenItemMovesByRef retrieves posted moves whose reference matches and
// whose payment state still allows reconciliation.
func (r *PgxMoveRepository) FindOpenItemMovesByRef(ctx context.Context, companyID string, ref string) ([]domain.Move, error) {
	return r.queryMoves(ctx, `
		SELECT `+moveColumns+` FROM moves
		WHERE company_id = $1 AND ref = $2 AND state = 'posted'
		  AND payment_state IN ('not_paid', 'in_payment', 'partial')
		ORDER BY date, name;`,
		companyID, ref)
}

// ListMoves retrieves a paginated list of moves for a company.
func (r *PgxMoveRepository) ListMoves(ctx context.Context, companyID string, limit int, offset int) ([]domain.Move, error) {
	return r.queryMoves(ctx,
		`SELECT `+moveColumns+` FROM moves WHERE company_id = $1 ORDER BY date DESC, name DESC LIMIT $2 OFFSET $3;`,
		companyID, limit, offset)
}

// SaveMove persists a move and its lines in one transaction.
func (r *PgxMoveRepository) SaveMove(ctx context.Context, move domain.Move) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	moveQuery := `
		INSERT INTO moves (` + moveColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		        $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30);
	`
	_, err = tx.Exec(ctx, moveQuery,
		move.MoveID, move.CompanyID, move.JournalID, move.Name, move.Ref, move.Date,
		string(move.MoveType), string(move.State),
		move.PartnerID, move.CurrencyCode, move.CurrencyRate, move.AmountTotal, move.AmountUntaxed,
		move.InvoiceDate, move.InvoiceDateDue, move.DeliveryDate, move.PaymentReference,
		string(move.PaymentState), move.OrderNumber, move.SEPAMandateRef, move.Narration,
		move.CounterAccountID, move.DocumentGUID,
		move.ExportID, move.ImportRunID, move.ImportGUID,
		move.CreatedAt, move.CreatedBy, move.LastUpdatedAt, move.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: move %s", apperrors.ErrDuplicate, move.MoveID)
		}
		return fmt.Errorf("failed to save move %s: %w", move.MoveID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO move_lines (` + moveLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	for _, l := range move.Lines {
		batch.Queue(lineQuery,
			l.LineID, move.MoveID, l.AccountID, l.PartnerID, l.Name,
			l.Debit, l.Credit, l.AmountCurrency, l.CurrencyCode,
			l.Quantity, l.PriceSubtotal, l.PriceTotal,
			l.TaxIDs, l.TaxLineTaxID, l.CostCenter1ID, l.CostCenter2ID, l.Reconciled,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to save lines of move %s: %w", move.MoveID, err)
	}

	return r.Commit(ctx, tx)
}

// UpdateMoveState transitions a move between draft and posted.
func (r *PgxMoveRepository) UpdateMoveState(ctx context.Context, moveID string, state domain.MoveState, userID string, now time.Time) error {
	query := `
		UPDATE moves
		SET state = $2, last_updated_at = $3, last_updated_by = $4
		WHERE move_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, moveID, string(state), now, userID)
	if err != nil {
		return fmt.Errorf("failed to update state of move %s: %w", moveID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: move %s", apperrors.ErrNotFound, moveID)
	}
	return nil
}

// ClaimMovesForExport atomically assigns unclaimed moves to an export. Moves
// already claimed by another export are left out of the returned IDs.
func (r *PgxMoveRepository) ClaimMovesForExport(ctx context.Context, tx pgx.Tx, exportID string, moveIDs []string) ([]string, error) {
	query := `
		UPDATE moves
		SET export_id = $1
		WHERE move_id = ANY($2) AND export_id = ''
		RETURNING move_id;
	`
	rows, err := tx.Query(ctx, query, exportID, moveIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to claim moves for export %s: %w", exportID, err)
	}
	defer rows.Close()
	var claimed []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan claimed move: %w", err)
		}
		claimed = append(claimed, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate claimed moves: %w", err)
	}
	return claimed, nil
}

// ReleaseMovesFromExport clears the export claim from all moves of an export.
func (r *PgxMoveRepository) ReleaseMovesFromExport(ctx context.Context, exportID string) error {
	query := `UPDATE moves SET export_id = '' WHERE export_id = $1;`
	if _, err := r.Pool.Exec(ctx, query, exportID); err != nil {
		return fmt.Errorf("failed to release moves of export %s: %w", exportID, err)
	}
	return nil
}

// MarkLinesReconciled flags the given move lines as reconciled.
func (r *PgxMoveRepository) MarkLinesReconciled(ctx context.Context, lineIDs []string, userID string, now time.Time) error {
	if len(lineIDs) == 0 {
		return nil
	}
	lineQuery := `UPDATE move_lines SET reconciled = TRUE WHERE line_id = ANY($1);`
	if _, err := r.Pool.Exec(ctx, lineQuery, lineIDs); err != nil {
		return fmt.Errorf("failed to flag lines reconciled: %w", err)
	}
	moveQuery := `
		UPDATE moves
		SET last_updated_at = $2, last_updated_by = $3
		WHERE move_id IN (SELECT DISTINCT move_id FROM move_lines WHERE line_id = ANY($1));
	`
	if _, err := r.Pool.Exec(ctx, moveQuery, lineIDs, now, userID); err != nil {
		return fmt.Errorf("failed to touch reconciled moves: %w", err)
	}
	return nil
}

// DeleteMovesByImportRun removes the draft moves created by an import run.
func (r *PgxMoveRepository) DeleteMovesByImportRun(ctx context.Context, importRunID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	lineQuery := `
		DELETE FROM move_lines
		WHERE move_id IN (SELECT move_id FROM moves WHERE import_run_id = $1 AND state = 'draft');
	`
	if _, err := tx.Exec(ctx, lineQuery, importRunID); err != nil {
		return fmt.Errorf("failed to delete lines of import run %s: %w", importRunID, err)
	}
	moveQuery := `DELETE FROM moves WHERE import_run_id = $1 AND state = 'draft';`
	if _, err := tx.Exec(ctx, moveQuery, importRunID); err != nil {
		return fmt.Errorf("failed to delete moves of import run %s: %w", importRunID, err)
	}
	return r.Commit(ctx, tx)
}
