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

type PgxImportTemplateRepository struct {
	BaseRepository
}

func newPgxImportTemplateRepository(pool *pgxpool.Pool) portsrepo.ImportTemplateRepository {
	return &PgxImportTemplateRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ImportTemplateRepository = (*PgxImportTemplateRepository)(nil)

const importTemplateColumns = `template_id, company_id, name, delimiter, quote_char, encoding,
	header_row, remove_file_header, post_moves, auto_reconcile,
	discount_account_income_id, discount_account_expense_id, ignore_incomplete_moves,
	created_at, created_by, last_updated_at, last_updated_by`

func scanImportTemplate(row pgx.Row) (domain.ImportTemplate, error) {
	var t domain.ImportTemplate
	err := row.Scan(
		&t.TemplateID, &t.CompanyID, &t.Name, &t.Delimiter, &t.QuoteChar, &t.Encoding,
		&t.HeaderRow, &t.RemoveFileHeader, &t.PostMoves, &t.AutoReconcile,
		&t.DiscountAccountIncomeID, &t.DiscountAccountExpenseID, &t.IgnoreIncompleteMoves,
		&t.CreatedAt, &t.CreatedBy, &t.LastUpdatedAt, &t.LastUpdatedBy,
	)
	return t, err
}

func (r *PgxImportTemplateRepository) loadMappings(ctx context.Context, templates []domain.ImportTemplate) error {
	if len(templates) == 0 {
		return nil
	}
	ids := make([]string, len(templates))
	index := map[string]int{}
	for i, t := range templates {
		ids[i] = t.TemplateID
		index[t.TemplateID] = i
	}
	query := `
		SELECT mapping_id, template_id, heading, field_type, value_kind, padding, date_format, required, skip
		FROM import_field_mappings
		WHERE template_id = ANY($1)
		ORDER BY heading;
	`
	rows, err := r.Pool.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to query import mappings: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var m domain.ImportFieldMapping
		if err := rows.Scan(&m.MappingID, &m.TemplateID, &m.Heading, &m.FieldType, &m.ValueKind,
			&m.Padding, &m.DateFormat, &m.Required, &m.Skip); err != nil {
			return fmt.Errorf("failed to scan import mapping: %w", err)
		}
		if i, ok := index[m.TemplateID]; ok {
			templates[i].Mappings = append(templates[i].Mappings, m)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate import mappings: %w", err)
	}
	return nil
}

// FindImportTemplateByID retrieves an import template with its mappings.
func (r *PgxImportTemplateRepository) FindImportTemplateByID(ctx context.Context, templateID string) (*domain.ImportTemplate, error) {
	query := `SELECT ` + importTemplateColumns + ` FROM import_templates WHERE template_id = $1;`
	t, err := scanImportTemplate(r.Pool.QueryRow(ctx, query, templateID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: import template %s", apperrors.ErrNotFound, templateID)
		}
		return nil, fmt.Errorf("failed to find import template %s: %w", templateID, err)
	}
	templates := []domain.ImportTemplate{t}
	if err := r.loadMappings(ctx, templates); err != nil {
		return nil, err
	}
	return &templates[0], nil
}

// ListImportTemplates retrieves all import templates of a company.
func (r *PgxImportTemplateRepository) ListImportTemplates(ctx context.Context, companyID string) ([]domain.ImportTemplate, error) {
	query := `SELECT ` + importTemplateColumns + ` FROM import_templates WHERE company_id = $1 ORDER BY name;`
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list import templates: %w", err)
	}
	defer rows.Close()
	var templates []domain.ImportTemplate
	for rows.Next() {
		t, err := scanImportTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan import template: %w", err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate import templates: %w", err)
	}
	if err := r.loadMappings(ctx, templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// SaveImportTemplate persists a new import template with its mappings.
func (r *PgxImportTemplateRepository) SaveImportTemplate(ctx context.Context, template domain.ImportTemplate) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	query := `
		INSERT INTO import_templates (` + importTemplateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err = tx.Exec(ctx, query,
		template.TemplateID, template.CompanyID, template.Name, template.Delimiter,
		template.QuoteChar, template.Encoding, template.HeaderRow, template.RemoveFileHeader,
		template.PostMoves, template.AutoReconcile,
		template.DiscountAccountIncomeID, template.DiscountAccountExpenseID, template.IgnoreIncompleteMoves,
		template.CreatedAt, template.CreatedBy, template.LastUpdatedAt, template.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: import template %s", apperrors.ErrDuplicate, template.Name)
		}
		return fmt.Errorf("failed to save import template %s: %w", template.TemplateID, err)
	}
	if err := insertImportMappings(ctx, tx, template); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpdateImportTemplate replaces an import template and its mappings.
func (r *PgxImportTemplateRepository) UpdateImportTemplate(ctx context.Context, template domain.ImportTemplate) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	query := `
		UPDATE import_templates
		SET name = $2, delimiter = $3, quote_char = $4, encoding = $5, header_row = $6,
		    remove_file_header = $7, post_moves = $8, auto_reconcile = $9,
		    discount_account_income_id = $10, discount_account_expense_id = $11,
		    ignore_incomplete_moves = $12, last_updated_at = $13, last_updated_by = $14
		WHERE template_id = $1;
	`
	tag, err := tx.Exec(ctx, query,
		template.TemplateID, template.Name, template.Delimiter, template.QuoteChar,
		template.Encoding, template.HeaderRow, template.RemoveFileHeader,
		template.PostMoves, template.AutoReconcile,
		template.DiscountAccountIncomeID, template.DiscountAccountExpenseID,
		template.IgnoreIncompleteMoves, template.LastUpdatedAt, template.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update import template %s: %w", template.TemplateID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: import template %s", apperrors.ErrNotFound, template.TemplateID)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM import_field_mappings WHERE template_id = $1;`, template.TemplateID); err != nil {
		return fmt.Errorf("failed to clear mappings of template %s: %w", template.TemplateID, err)
	}
	if err := insertImportMappings(ctx, tx, template); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// DeleteImportTemplate removes an import template and its mappings.
func (r *PgxImportTemplateRepository) DeleteImportTemplate(ctx context.Context, templateID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM import_field_mappings WHERE template_id = $1;`, templateID); err != nil {
		return fmt.Errorf("failed to delete mappings of template %s: %w", templateID, err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM import_templates WHERE template_id = $1;`, templateID)
	if err != nil {
		return fmt.Errorf("failed to delete import template %s: %w", templateID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: import template %s", apperrors.ErrNotFound, templateID)
	}
	return r.Commit(ctx, tx)
}

func insertImportMappings(ctx context.Context, tx pgx.Tx, template domain.ImportTemplate) error {
	batch := &pgx.Batch{}
	query := `
		INSERT INTO import_field_mappings (mapping_id, template_id, heading, field_type, value_kind, padding, date_format, required, skip)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	for _, m := range template.Mappings {
		batch.Queue(query, m.MappingID, template.TemplateID, m.Heading, string(m.FieldType),
			string(m.ValueKind), m.Padding, m.DateFormat, m.Required, m.Skip)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to save mappings of template %s: %w", template.TemplateID, err)
	}
	return nil
}
