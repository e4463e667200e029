package services

import (
	"context"

	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
	"github.com/Finterra/ledger_exchange_app/internal/dto"
)

// ExportTemplateSvc manages the export field templates, including validation
// of the transform expressions on save.
type ExportTemplateSvc interface {
	// CreateExportTemplate persists a new template after validating its lines.
	CreateExportTemplate(ctx context.Context, req dto.CreateExportTemplateRequest, userID string) (*domain.ExportTemplate, error)

	// UpdateExportTemplate replaces a template after validating its lines.
	UpdateExportTemplate(ctx context.Context, templateID string, req dto.UpdateExportTemplateRequest, userID string) (*domain.ExportTemplate, error)

	// GetExportTemplate retrieves a template including its lines.
	GetExportTemplate(ctx context.Context, templateID string) (*domain.ExportTemplate, error)

	// ListExportTemplates retrieves all templates of a company.
	ListExportTemplates(ctx context.Context, companyID string) ([]domain.ExportTemplate, error)

	// DeleteExportTemplate removes a template.
	DeleteExportTemplate(ctx context.Context, templateID string) error

	// SeedDefaultTemplates installs the built-in templates for a company that
	// has none yet.
	SeedDefaultTemplates(ctx context.Context, companyID string, userID string) error
}

// ImportTemplateSvc manages the import file templates.
type ImportTemplateSvc interface {
	// CreateImportTemplate persists a new import template.
	CreateImportTemplate(ctx context.Context, req dto.CreateImportTemplateRequest, userID string) (*domain.ImportTemplate, error)

	// UpdateImportTemplate replaces an import template.
	UpdateImportTemplate(ctx context.Context, templateID string, req dto.UpdateImportTemplateRequest, userID string) (*domain.ImportTemplate, error)

	// GetImportTemplate retrieves an import template with its mappings.
	GetImportTemplate(ctx context.Context, templateID string) (*domain.ImportTemplate, error)

	// ListImportTemplates retrieves all import templates of a company.
	ListImportTemplates(ctx context.Context, companyID string) ([]domain.ImportTemplate, error)

	// DeleteImportTemplate removes an import template.
	DeleteImportTemplate(ctx context.Context, templateID string) error
}

// TemplateSvcFacade combines the export and import template services.
type TemplateSvcFacade interface {
	ExportTemplateSvc
	ImportTemplateSvc
}
