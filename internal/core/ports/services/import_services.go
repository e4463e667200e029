package services

import (
	"context"

	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
	"github.com/Finterra/ledger_exchange_app/internal/dto"
)

// ImportSvcFacade drives the import run lifecycle: a run parses and validates
// an uploaded file into draft moves, can be confirmed to post them, and can
// be reset which discards the draft moves again.
type ImportSvcFacade interface {
	// CreateImportRun stores the uploaded file, parses and validates it and
	// creates draft moves for the valid rows.
	CreateImportRun(ctx context.Context, req dto.CreateImportRunRequest, userID string) (*domain.ImportRun, error)

	// GetImportRun retrieves an import run including its logs.
	GetImportRun(ctx context.Context, importRunID string) (*domain.ImportRun, error)

	// ListImportRuns retrieves a paginated list of import runs for a company.
	ListImportRuns(ctx context.Context, companyID string, limit int, offset int) ([]domain.ImportRun, error)

	// ConfirmImportRun posts the draft moves of an imported run and, when the
	// template asks for it, reconciles them against existing open items.
	ConfirmImportRun(ctx context.Context, importRunID string, userID string) (*domain.ImportRun, error)

	// ResetImportRun discards the draft moves of a run and returns it to
	// draft.
	ResetImportRun(ctx context.Context, importRunID string, userID string) (*domain.ImportRun, error)
}

// ReconcileSvc matches imported payment moves against existing open items by
// shared reference.
type ReconcileSvc interface {
	// ReconcileMove matches the receivable and payable lines of the move
	// against open items sharing its reference and flags both sides. It
	// returns warnings for moves it could not match.
	ReconcileMove(ctx context.Context, move domain.Move, userID string) ([]string, error)
}
