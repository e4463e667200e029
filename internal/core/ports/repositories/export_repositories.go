package repositories

import (
	"context"

	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
)

// ExportRepository provides access to export jobs and their artifacts.
type ExportRepository interface {
	// FindExportByID retrieves an export including its artifacts.
	FindExportByID(ctx context.Context, exportID string) (*domain.ExportJob, error)

	// ListExports retrieves a paginated list of exports for a company, newest
	// first.
	ListExports(ctx context.Context, companyID string, limit int, offset int) ([]domain.ExportJob, error)

	// SaveExport persists a new export job.
	SaveExport(ctx context.Context, export domain.ExportJob) error

	// UpdateExport updates an export job's state and metadata.
	UpdateExport(ctx context.Context, export domain.ExportJob) error

	// SaveArtifact attaches a generated file to an export.
	SaveArtifact(ctx context.Context, artifact domain.Artifact) error

	// FindArtifactByID retrieves a generated file with its content.
	FindArtifactByID(ctx context.Context, artifactID string) (*domain.Artifact, error)

	// DeleteArtifactsByExport removes all generated files of an export.
	DeleteArtifactsByExport(ctx context.Context, exportID string) error

	// NextExportNumber draws the next value from the company's export
	// numbering sequence.
	NextExportNumber(ctx context.Context, companyID string) (int64, error)
}

// AttachmentRepository provides access to stored documents such as invoice
// PDFs.
type AttachmentRepository interface {
	// FindAttachmentsByMove retrieves the documents stored on a move.
	FindAttachmentsByMove(ctx context.Context, moveID string) ([]domain.Attachment, error)

	// SaveAttachment persists a document.
	SaveAttachment(ctx context.Context, attachment domain.Attachment) error
}

// ImportRunRepository provides access to import runs and their logs.
type ImportRunRepository interface {
	// FindImportRunByID retrieves an import run including its logs.
	FindImportRunByID(ctx context.Context, importRunID string) (*domain.ImportRun, error)

	// ListImportRuns retrieves a paginated list of import runs for a company,
	// newest first.
	ListImportRuns(ctx context.Context, companyID string, limit int, offset int) ([]domain.ImportRun, error)

	// SaveImportRun persists a new import run.
	SaveImportRun(ctx context.Context, run domain.ImportRun) error

	// UpdateImportRun updates an import run's state and metadata.
	UpdateImportRun(ctx context.Context, run domain.ImportRun) error

	// ReplaceLogs replaces the log entries of an import run.
	ReplaceLogs(ctx context.Context, importRunID string, logs []domain.ImportLog) error
}
