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

type PgxExportRepository struct {
	Pool *pgxpool.Pool
}

func newPgxExportRepository(pool *pgxpool.Pool) portsrepo.ExportRepository {
	return &PgxExportRepository{Pool: pool}
}

var _ portsrepo.ExportRepository = (*PgxExportRepository)(nil)

const exportColumns = `export_id, company_id, name, mode, state,
	period_start, period_end, journal_ids, move_ids, template_id,
	partner_sides, partner_scope,
	created_at, created_by, last_updated_at, last_updated_by`

func scanExport(row pgx.Row) (domain.ExportJob, error) {
	var e domain.ExportJob
	err := row.Scan(
		&e.ExportID, &e.CompanyID, &e.Name, &e.Mode, &e.State,
		&e.PeriodStart, &e.PeriodEnd, &e.JournalIDs, &e.MoveIDs, &e.TemplateID,
		&e.PartnerSides, &e.PartnerScope,
		&e.CreatedAt, &e.CreatedBy, &e.LastUpdatedAt, &e.LastUpdatedBy,
	)
	return e, err
}

// FindExportByID retrieves an export including its artifacts. Artifact rows
// carry metadata only; content is fetched per artifact on download.
func (r *PgxExportRepository) FindExportByID(ctx context.Context, exportID string) (*domain.ExportJob, error) {
	query := `SELECT ` + exportColumns + ` FROM exports WHERE export_id = $1;`
	e, err := scanExport(r.Pool.QueryRow(ctx, query, exportID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: export %s", apperrors.ErrNotFound, exportID)
		}
		return nil, fmt.Errorf("failed to find export %s: %w", exportID, err)
	}

	artifactQuery := `
		SELECT artifact_id, export_id, name, mime_type, created_at
		FROM export_artifacts
		WHERE export_id = $1
		ORDER BY name;
	`
	rows, err := r.Pool.Query(ctx, artifactQuery, exportID)
	if err != nil {
		return nil, fmt.Errorf("failed to query artifacts of export %s: %w", exportID, err)
	}
	defer rows.Close()
	for rows.Next() {
		var a domain.Artifact
		if err := rows.Scan(&a.ArtifactID, &a.ExportID, &a.Name, &a.MimeType, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan artifact: %w", err)
		}
		e.Artifacts = append(e.Artifacts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate artifacts: %w", err)
	}
	return &e, nil
}

// ListExports retrieves a paginated list of exports for a company, newest
// first.
func (r *PgxExportRepository) ListExports(ctx context.Context, companyID string, limit int, offset int) ([]domain.ExportJob, error) {
	query := `
		SELECT ` + exportColumns + `
		FROM exports
		WHERE company_id = $1
		ORDER BY created_at DESC, name DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}
	defer rows.Close()
	var exports []domain.ExportJob
	for rows.Next() {
		e, err := scanExport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan export: %w", err)
		}
		exports = append(exports, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate exports: %w", err)
	}
	return exports, nil
}

// SaveExport persists a new export job.
func (r *PgxExportRepository) SaveExport(ctx context.Context, export domain.ExportJob) error {
	query := `
		INSERT INTO exports (` + exportColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err := r.Pool.Exec(ctx, query,
		export.ExportID, export.CompanyID, export.Name, string(export.Mode), string(export.State),
		export.PeriodStart, export.PeriodEnd, export.JournalIDs, export.MoveIDs, export.TemplateID,
		export.PartnerSides, export.PartnerScope,
		export.CreatedAt, export.CreatedBy, export.LastUpdatedAt, export.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: export %s", apperrors.ErrDuplicate, export.Name)
		}
		return fmt.Errorf("failed to save export %s: %w", export.ExportID, err)
	}
	return nil
}

// UpdateExport updates an export job's state and metadata.
func (r *PgxExportRepository) UpdateExport(ctx context.Context, export domain.ExportJob) error {
	query := `
		UPDATE exports
		SET state = $2, period_start = $3, period_end = $4, journal_ids = $5,
		    move_ids = $6, template_id = $7, partner_sides = $8, partner_scope = $9,
		    last_updated_at = $10, last_updated_by = $11
		WHERE export_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		export.ExportID, string(export.State), export.PeriodStart, export.PeriodEnd,
		export.JournalIDs, export.MoveIDs, export.TemplateID,
		export.PartnerSides, export.PartnerScope,
		export.LastUpdatedAt, export.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update export %s: %w", export.ExportID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: export %s", apperrors.ErrNotFound, export.ExportID)
	}
	return nil
}

// SaveArtifact attaches a generated file to an export.
func (r *PgxExportRepository) SaveArtifact(ctx context.Context, artifact domain.Artifact) error {
	query := `
		INSERT INTO export_artifacts (artifact_id, export_id, name, mime_type, data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.Pool.Exec(ctx, query,
		artifact.ArtifactID, artifact.ExportID, artifact.Name,
		artifact.MimeType, artifact.Data, artifact.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save artifact %s: %w", artifact.Name, err)
	}
	return nil
}

// FindArtifactByID retrieves a generated file with its content.
func (r *PgxExportRepository) FindArtifactByID(ctx context.Context, artifactID string) (*domain.Artifact, error) {
	query := `
		SELECT artifact_id, export_id, name, mime_type, data, created_at
		FROM export_artifacts
		WHERE artifact_id = $1;
	`
	var a domain.Artifact
	err := r.Pool.QueryRow(ctx, query, artifactID).Scan(
		&a.ArtifactID, &a.ExportID, &a.Name, &a.MimeType, &a.Data, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: artifact %s", apperrors.ErrNotFound, artifactID)
		}
		return nil, fmt.Errorf("failed to find artifact %s: %w", artifactID, err)
	}
	return &a, nil
}

// DeleteArtifactsByExport removes all generated files of an export.
func (r *PgxExportRepository) DeleteArtifactsByExport(ctx context.Context, exportID string) error {
	_, err := r.Pool.Exec(ctx, `DELETE FROM export_artifacts WHERE export_id = $1;`, exportID)
	if err != nil {
		return fmt.Errorf("failed to delete artifacts of export %s: %w", exportID, err)
	}
	return nil
}

// NextExportNumber draws the next value from the company's export numbering
// sequence. The upsert keeps the draw atomic across concurrent exports.
func (r *PgxExportRepository) NextExportNumber(ctx context.Context, companyID string) (int64, error) {
	query := `
		INSERT INTO export_sequences (company_id, last_number)
		VALUES ($1, 1)
		ON CONFLICT (company_id) DO UPDATE SET last_number = export_sequences.last_number + 1
		RETURNING last_number;
	`
	var number int64
	if err := r.Pool.QueryRow(ctx, query, companyID).Scan(&number); err != nil {
		return 0, fmt.Errorf("failed to draw export number for company %s: %w", companyID, err)
	}
	return number, nil
}
