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

type PgxExportTemplateRepository struct {
	BaseRepository
}

func newPgxExportTemplateRepository(pool *pgxpool.Pool) portsrepo.ExportTemplateRepository {
	return &PgxExportTemplateRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ExportTemplateRepository = (*PgxExportTemplateRepository)(nil)

const templateColumns = `template_id, company_id, name, mode, is_default,
	created_at, created_by, last_updated_at, last_updated_by`

func scanTemplate(row pgx.Row) (domain.ExportTemplate, error) {
	var t domain.ExportTemplate
	err := row.Scan(
		&t.TemplateID, &t.CompanyID, &t.Name, &t.Mode, &t.IsDefault,
		&t.CreatedAt, &t.CreatedBy, &t.LastUpdatedAt, &t.LastUpdatedBy,
	)
	return t, err
}

// loadLines attaches the template lines ordered by position.
func (r *PgxExportTemplateRepository) loadLines(ctx context.Context, templates []domain.ExportTemplate) error {
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
		SELECT line_id, template_id, heading, position, expression, force_value, active
		FROM export_template_lines
		WHERE template_id = ANY($1)
		ORDER BY position;
	`
	rows, err := r.Pool.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to query template lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l domain.ExportTemplateLine
		if err := rows.Scan(&l.LineID, &l.TemplateID, &l.Heading, &l.Position,
			&l.Expression, &l.ForceValue, &l.Active); err != nil {
			return fmt.Errorf("failed to scan template line: %w", err)
		}
		if i, ok := index[l.TemplateID]; ok {
			templates[i].Lines = append(templates[i].Lines, l)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate template lines: %w", err)
	}
	return nil
}

// FindTemplateByID retrieves a template including its lines.
func (r *PgxExportTemplateRepository) FindTemplateByID(ctx context.Context, templateID string) (*domain.ExportTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM export_templates WHERE template_id = $1;`
	t, err := scanTemplate(r.Pool.QueryRow(ctx, query, templateID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: export template %s", apperrors.ErrNotFound, templateID)
		}
		return nil, fmt.Errorf("failed to find export template %s: %w", templateID, err)
	}
	templates := []domain.ExportTemplate{t}
	if err := r.loadLines(ctx, templates); err != nil {
		return nil, err
	}
	return &templates[0], nil
}

// FindDefaultTemplate retrieves the company default template for a mode.
func (r *PgxExportTemplateRepository) FindDefaultTemplate(ctx context.Context, companyID string, mode domain.ExportMode) (*domain.ExportTemplate, error) {
	// Company templates win over the built-in defaults, which carry an
	// empty company_id.
	query := `
		SELECT ` + templateColumns + ` FROM export_templates
		WHERE (company_id = $1 OR company_id = '') AND mode = $2 AND is_default
		ORDER BY company_id DESC
		LIMIT 1;
	`
	t, err := scanTemplate(r.Pool.QueryRow(ctx, query, companyID, string(mode)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: default template for mode %s", apperrors.ErrNotFound, mode)
		}
		return nil, fmt.Errorf("failed to find default template for mode %s: %w", mode, err)
	}
	templates := []domain.ExportTemplate{t}
	if err := r.loadLines(ctx, templates); err != nil {
		return nil, err
	}
	return &templates[0], nil
}

// ListTemplates retrieves all templates visible to a company, built-in
// defaults included.
func (r *PgxExportTemplateRepository) ListTemplates(ctx context.Context, companyID string) ([]domain.ExportTemplate, error) {
	query := `
		SELECT ` + templateColumns + ` FROM export_templates
		WHERE company_id = $1 OR company_id = ''
		ORDER BY mode, name;
	`
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list export templates: %w", err)
	}
	defer rows.Close()
	var templates []domain.ExportTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan export template: %w", err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate export templates: %w", err)
	}
	if err := r.loadLines(ctx, templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// SaveTemplate persists a new template with its lines.
func (r *PgxExportTemplateRepository) SaveTemplate(ctx context.Context, template domain.ExportTemplate) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	query := `
		INSERT INTO export_templates (` + templateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = tx.Exec(ctx, query,
		template.TemplateID, template.CompanyID, template.Name, string(template.Mode), template.IsDefault,
		template.CreatedAt, template.CreatedBy, template.LastUpdatedAt, template.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: export template %s", apperrors.ErrDuplicate, template.Name)
		}
		return fmt.Errorf("failed to save export template %s: %w", template.TemplateID, err)
	}
	if err := insertTemplateLines(ctx, tx, template); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// UpdateTemplate replaces a template and its lines.
func (r *PgxExportTemplateRepository) UpdateTemplate(ctx context.Context, template domain.ExportTemplate) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	query := `
		UPDATE export_templates
		SET name = $2, mode = $3, is_default = $4, last_updated_at = $5, last_updated_by = $6
		WHERE template_id = $1;
	`
	tag, err := tx.Exec(ctx, query,
		template.TemplateID, template.Name, string(template.Mode), template.IsDefault,
		template.LastUpdatedAt, template.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update export template %s: %w", template.TemplateID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: export template %s", apperrors.ErrNotFound, template.TemplateID)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM export_template_lines WHERE template_id = $1;`, template.TemplateID); err != nil {
		return fmt.Errorf("failed to clear lines of template %s: %w", template.TemplateID, err)
	}
	if err := insertTemplateLines(ctx, tx, template); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// DeleteTemplate removes a template and its lines.
func (r *PgxExportTemplateRepository) DeleteTemplate(ctx context.Context, templateID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM export_template_lines WHERE template_id = $1;`, templateID); err != nil {
		return fmt.Errorf("failed to delete lines of template %s: %w", templateID, err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM export_templates WHERE template_id = $1;`, templateID)
	if err != nil {
		return fmt.Errorf("failed to delete export template %s: %w", templateID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: export template %s", apperrors.ErrNotFound, templateID)
	}
	return r.Commit(ctx, tx)
}

func insertTemplateLines(ctx context.Context, tx pgx.Tx, template domain.ExportTemplate) error {
	batch := &pgx.Batch{}
	query := `
		INSERT INTO export_template_lines (line_id, template_id, heading, position, expression, force_value, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	for _, l := range template.Lines {
		batch.Queue(query, l.LineID, template.TemplateID, l.Heading, l.Position, l.Expression, l.ForceValue, l.Active)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to save lines of template %s: %w", template.TemplateID, err)
	}
	return nil
}
