package repositories

import (
	"context"

	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
)

// ExportTemplateRepository provides access to export field templates.
type ExportTemplateRepository interface {
	// FindTemplateByID retrieves a template including its lines.
	FindTemplateByID(ctx context.Context, templateID string) (*domain.ExportTemplate, error)

	// FindDefaultTemplate retrieves the company default template for a mode.
	FindDefaultTemplate(ctx context.Context, companyID string, mode domain.ExportMode) (*domain.ExportTemplate, error)

	// ListTemplates retrieves all templates of a company.
	ListTemplates(ctx context.Context, companyID string) ([]domain.ExportTemplate, error)

	// SaveTemplate persists a new template with its lines.
	SaveTemplate(ctx context.Context, template domain.ExportTemplate) error

	// UpdateTemplate replaces a template and its lines.
	UpdateTemplate(ctx context.Context, template domain.ExportTemplate) error

	// DeleteTemplate removes a template and its lines.
	DeleteTemplate(ctx context.Context, templateID string) error
}

// ImportTemplateRepository provides access to import file templates.
type ImportTemplateRepository interface {
	// FindImportTemplateByID retrieves an import template with its mappings.
	FindImportTemplateByID(ctx context.Context, templateID string) (*domain.ImportTemplate, error)

	// ListImportTemplates retrieves all import templates of a company.
	ListImportTemplates(ctx context.Context, companyID string) ([]domain.ImportTemplate, error)

	// SaveImportTemplate persists a new import template with its mappings.
	SaveImportTemplate(ctx context.Context, template domain.ImportTemplate) error

	// UpdateImportTemplate replaces an import template and its mappings.
	UpdateImportTemplate(ctx context.Context, template domain.ImportTemplate) error

	// DeleteImportTemplate removes an import template and its mappings.
	DeleteImportTemplate(ctx context.Context, templateID string) error
}
