package services

import (
	"context"

	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
	"github.com/Finterra/ledger_exchange_app/internal/dto"
)

// ExportSvcFacade drives the export job lifecycle: a job is created in draft,
// run to produce its files, and can be reset back to draft which releases the
// claimed moves.
type ExportSvcFacade interface {
	// CreateExport creates a draft export job.
	CreateExport(ctx context.Context, req dto.CreateExportRequest, userID string) (*domain.ExportJob, error)

	// RunExport claims the selected moves, generates the export files and
	// moves the job to the export state.
	RunExport(ctx context.Context, exportID string, userID string) (*domain.ExportJob, error)

	// GetExport retrieves an export including its artifact metadata.
	GetExport(ctx context.Context, exportID string) (*domain.ExportJob, error)

	// ListExports retrieves a paginated list of exports for a company.
	ListExports(ctx context.Context, companyID string, limit int, offset int) ([]domain.ExportJob, error)

	// ResetExport returns a finished export to draft, deleting its files and
	// releasing its moves (or clearing partner flags for master data runs).
	ResetExport(ctx context.Context, exportID string, userID string) (*domain.ExportJob, error)

	// GetArtifact retrieves a generated file with its content.
	GetArtifact(ctx context.Context, artifactID string) (*domain.Artifact, error)
}

// ExportStrategy generates the files of one export mode. Strategies register
// themselves with the export service at startup.
type ExportStrategy interface {
	// Mode names the export mode the strategy serves.
	Mode() domain.ExportMode

	// Generate produces the artifacts for the given job and claimed moves.
	Generate(ctx context.Context, job domain.ExportJob, moves []domain.Move) ([]domain.Artifact, error)
}
