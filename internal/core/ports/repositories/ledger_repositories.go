package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
)

// MoveSelection describes which posted moves an export run should pick up.
type MoveSelection struct {
	CompanyID   string
	PeriodStart time.Time
	PeriodEnd   time.Time
	JournalIDs  []string
	MoveIDs     []string // explicit selection overrides the period filter
}

// MoveReader defines read operations for booking entries.
type MoveReader interface {
	// FindMoveByID retrieves a move including its lines.
	FindMoveByID(ctx context.Context, moveID string) (*domain.Move, error)

	// FindMovesByIDs retrieves multiple moves including their lines.
	FindMovesByIDs(ctx context.Context, moveIDs []string) ([]domain.Move, error)

	// FindMovesForExport retrieves the posted moves matching the selection
	// that are not yet claimed by another export.
	FindMovesForExport(ctx context.Context, sel MoveSelection) ([]domain.Move, error)

	// FindMoveByImportGUID retrieves the move created from the given import
	// document GUID, if any.
	FindMoveByImportGUID(ctx context.Context, companyID string, guid string) (*domain.Move, error)

	// FindMovesByImportRun retrieves the moves created by an import run.
	FindMovesByImportRun(ctx context.Context, importRunID string) ([]domain.Move, error)

	// FindOpenItemMovesByRef retrieves posted moves whose reference matches
	// and whose payment state still allows reconciliation.
	FindOpenItemMovesByRef(ctx context.Context, companyID string, ref string) ([]domain.Move, error)

	// ListMoves retrieves a paginated list of moves for a company.
	ListMoves(ctx context.Context, companyID string, limit int, offset int) ([]domain.Move, error)
}

// MoveWriter defines write operations for booking entries.
type MoveWriter interface {
	// SaveMove persists a move and its lines in one transaction.
	SaveMove(ctx context.Context, move domain.Move) error

	// UpdateMoveState transitions a move between draft and posted.
	UpdateMoveState(ctx context.Context, moveID string, state domain.MoveState, userID string, now time.Time) error

	// ClaimMovesForExport atomically assigns unclaimed moves to an export.
	// It returns the IDs actually claimed; moves already claimed by another
	// export are left out.
	ClaimMovesForExport(ctx context.Context, tx pgx.Tx, exportID string, moveIDs []string) ([]string, error)

	// ReleaseMovesFromExport clears the export claim from all moves of an
	// export when it is reset to draft.
	ReleaseMovesFromExport(ctx context.Context, exportID string) error

	// MarkLinesReconciled flags the given move lines as reconciled.
	MarkLinesReconciled(ctx context.Context, lineIDs []string, userID string, now time.Time) error

	// DeleteMovesByImportRun removes the draft moves created by an import run.
	DeleteMovesByImportRun(ctx context.Context, importRunID string) error
}

// MoveRepositoryFacade combines all move-related repository interfaces.
type MoveRepositoryFacade interface {
	MoveReader
	MoveWriter
	TransactionManager
}
