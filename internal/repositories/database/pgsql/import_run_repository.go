package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Finterra/ledger_exchange_app/internal/apperrors"
	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
	portsrepo "github.com/Finterra/ledger_exchange_app/internal/core/ports/repositories"
)

type PgxImportRunRepository struct {
	BaseRepository
}

func newPgxImportRunRepository(pool *pgxpool.Pool) portsrepo.ImportRunRepository {
	return &PgxImportRunRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ImportRunRepository = (*PgxImportRunRepository)(nil)

const importRunColumns = `import_run_id, company_id, name, description, template_id, journal_id,
	state, start_date, end_date, filename, data,
	created_at, created_by, last_updated_at, last_updated_by`

func scanImportRun(row pgx.Row) (domain.ImportRun, error) {
	var run domain.ImportRun
	err := row.Scan(
		&run.ImportRunID, &run.CompanyID, &run.Name, &run.Description, &run.TemplateID, &run.JournalID,
		&run.State, &run.StartDate, &run.EndDate, &run.Filename, &run.Data,
		&run.CreatedAt, &run.CreatedBy, &run.LastUpdatedAt, &run.LastUpdatedBy,
	)
	return run, err
}

// FindImportRunByID retrieves an import run including its logs.
func (r *PgxImportRunRepository) FindImportRunByID(ctx context.Context, importRunID string) (*domain.ImportRun, error) {
	query := `SELECT ` + importRunColumns + ` FROM import_runs WHERE import_run_id = $1;`
	run, err := scanImportRun(r.Pool.QueryRow(ctx, query, importRunID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: import run %s", apperrors.ErrNotFound, importRunID)
		}
		return nil, fmt.Errorf("failed to find import run %s: %w", importRunID, err)
	}

	logQuery := `
		SELECT log_id, import_run_id, line, message, severity, created_at
		FROM import_logs
		WHERE import_run_id = $1
		ORDER BY line, created_at;
	`
	rows, err := r.Pool.Query(ctx, logQuery, importRunID)
	if err != nil {
		return nil, fmt.Errorf("failed to query logs of import run %s: %w", importRunID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var l domain.ImportLog
		if err := rows.Scan(&l.LogID, &l.ImportRunID, &l.Line, &l.Message, &l.Severity, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan import log: %w", err)
		}
		run.Logs = append(run.Logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate import logs: %w", err)
	}
	return &run, nil
}

// ListImportRuns retrieves a paginated list of import runs for a company,
// newest first. The uploaded file content is left out of list rows.
func (r *PgxImportRunRepository) ListImportRuns(ctx context.Context, companyID string, limit int, offset int) ([]domain.ImportRun, error) {
	query := `
		SELECT import_run_id, company_id, name, description, template_id, journal_id,
		       state, start_date, end_date, filename,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM import_runs
		WHERE company_id = $1
		ORDER BY created_at DESC, name DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list import runs: %w", err)
	}
	defer rows.Close()
	var runs []domain.ImportRun
	for rows.Next() {
		var run domain.ImportRun
		if err := rows.Scan(
			&run.ImportRunID, &run.CompanyID, &run.Name, &run.Description, &run.TemplateID, &run.JournalID,
			&run.State, &run.StartDate, &run.EndDate, &run.Filename,
			&run.CreatedAt, &run.CreatedBy, &run.LastUpdatedAt, &run.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan import run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate import runs: %w", err)
	}
	return runs, nil
}

// SaveImportRun persists a new import run.
func (r *PgxImportRunRepository) SaveImportRun(ctx context.Context, run domain.ImportRun) error {
	query := `
		INSERT INTO import_runs (` + importRunColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.Pool.Exec(ctx, query,
		run.ImportRunID, run.CompanyID, run.Name, run.Description, run.TemplateID, run.JournalID,
		string(run.State), run.StartDate, run.EndDate, run.Filename, run.Data,
		run.CreatedAt, run.CreatedBy, run.LastUpdatedAt, run.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: import run %s", apperrors.ErrDuplicate, run.Name)
		}
		return fmt.Errorf("failed to save import run %s: %w", run.ImportRunID, err)
	}
	return nil
}

// UpdateImportRun updates an import run's state and metadata.
func (r *PgxImportRunRepository) UpdateImportRun(ctx context.Context, run domain.ImportRun) error {
	query := `
		UPDATE import_runs
		SET description = $2, state = $3, start_date = $4, end_date = $5,
		    last_updated_at = $6, last_updated_by = $7
		WHERE import_run_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		run.ImportRunID, run.Description, string(run.State), run.StartDate, run.EndDate,
		run.LastUpdatedAt, run.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update import run %s: %w", run.ImportRunID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: import run %s", apperrors.ErrNotFound, run.ImportRunID)
	}
	return nil
}

// ReplaceLogs replaces the log entries of an import run.
func (r *PgxImportRunRepository) ReplaceLogs(ctx context.Context, importRunID string, logs []domain.ImportLog) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM import_logs WHERE import_run_id = $1;`, importRunID); err != nil {
		return fmt.Errorf("failed to clear logs of import run %s: %w", importRunID, err)
	}
	batch := &pgx.Batch{}
	query := `
		INSERT INTO import_logs (log_id, import_run_id, line, message, severity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	for _, l := range logs {
		batch.Queue(query, l.LogID, importRunID, l.Line, l.Message, string(l.Severity), l.CreatedAt)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to save logs of import run %s: %w", importRunID, err)
	}
	return r.Commit(ctx, tx)
}
