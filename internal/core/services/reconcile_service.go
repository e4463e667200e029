package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
	portsrepo "github.com/Finterra/ledger_exchange_app/internal/core/ports/repositories"
	portssvc "github.com/Finterra/ledger_exchange_app/internal/core/ports/services"
	"github.com/Finterra/ledger_exchange_app/internal/middleware"
)

// reconcileService matches imported payment moves against open items sharing
// their reference.
type reconcileService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	moveRepo    portsrepo.MoveRepositoryFacade
}

// NewReconcileService creates the open item matching service.
func NewReconcileService(repos portsrepo.RepositoryProvider) portssvc.ReconcileSvc {
	return &reconcileService{
		accountRepo: repos.AccountRepo,
		moveRepo:    repos.MoveRepo,
	}
}

// ReconcileMove flags the receivable and payable lines of the move and of
// the open items sharing its reference as settled. Moves it cannot match
// come back as warnings instead of errors, so a partially matched import
// still books.
func (s *reconcileService) ReconcileMove(ctx context.Context, move domain.Move, userID string) ([]string, error) {
	if move.Ref == "" {
		return []string{fmt.Sprintf("%s: no reference, not reconciled", move.Name)}, nil
	}

	ownLines, err := s.openItemLines(ctx, move)
	if err != nil {
		return nil, err
	}
	if len(ownLines) == 0 {
		return []string{fmt.Sprintf("%s: no open item line, not reconciled", move.Name)}, nil
	}

	candidates, err := s.moveRepo.FindOpenItemMovesByRef(ctx, move.CompanyID, move.Ref)
	if err != nil {
		return nil, fmt.Errorf("finding open items for ref %s: %w", move.Ref, err)
	}

	var lineIDs []string
	for _, candidate := range candidates {
		if candidate.MoveID == move.MoveID {
			continue
		}
		candidateLines, err := s.openItemLines(ctx, candidate)
		if err != nil {
			return nil, err
		}
		lineIDs = append(lineIDs, candidateLines...)
	}
	if len(lineIDs) == 0 {
		return []string{fmt.Sprintf("%s: no open item matches ref %s, not reconciled", move.Name, move.Ref)}, nil
	}

	lineIDs = append(lineIDs, ownLines...)
	if err := s.moveRepo.MarkLinesReconciled(ctx, lineIDs, userID, time.Now()); err != nil {
		return nil, fmt.Errorf("flagging lines reconciled: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("move reconciled",
		"move", move.Name, "ref", move.Ref, "lines", len(lineIDs))
	return nil, nil
}

// openItemLines returns the unreconciled receivable and payable line IDs of
// a move.
func (s *reconcileService) openItemLines(ctx context.Context, move domain.Move) ([]string, error) {
	var ids []string
	for _, line := range move.Lines {
		if line.Reconciled {
			continue
		}
		account, err := s.accountRepo.FindAccountByID(ctx, line.AccountID)
		if err != nil {
			return nil, fmt.Errorf("finding account of line %s: %w", line.LineID, err)
		}
		if account.AccountType.IsReceivableOrPayable() {
			ids = append(ids, line.LineID)
		}
	}
	return ids, nil
}
