package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/Finterra/ledger_exchange_app/internal/apperrors"
	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
	portsrepo "github.com/Finterra/ledger_exchange_app/internal/core/ports/repositories"
	portssvc "github.com/Finterra/ledger_exchange_app/internal/core/ports/services"
	"github.com/Finterra/ledger_exchange_app/internal/dto"
	"github.com/Finterra/ledger_exchange_app/internal/middleware"
)

// exportResetter is implemented by strategies whose runs leave marks outside
// the export job itself and must undo them when the job returns to draft.
type exportResetter interface {
	Reset(ctx context.Context, job domain.ExportJob) error
}

// exportService drives the export job lifecycle and dispatches file
// generation to the per-mode strategies.
type exportService struct {
	companyRepo  portsrepo.CompanyRepository
	moveRepo     portsrepo.MoveRepositoryFacade
	templateRepo portsrepo.ExportTemplateRepository
	exportRepo   portsrepo.ExportRepository
	artifactDir  string
	strategies   map[domain.ExportMode]portssvc.ExportStrategy
}

// NewExportService creates an export service with the given repositories and
// mode strategies. When artifactDir is set, generated files are additionally
// written there.
func NewExportService(repos portsrepo.RepositoryProvider, artifactDir string, strategies ...portssvc.ExportStrategy) portssvc.ExportSvcFacade {
	byMode := make(map[domain.ExportMode]portssvc.ExportStrategy, len(strategies))
	for _, s := range strategies {
		byMode[s.Mode()] = s
	}
	return &exportService{
		companyRepo:  repos.CompanyRepo,
		moveRepo:     repos.MoveRepo,
		templateRepo: repos.TemplateRepo,
		exportRepo:   repos.ExportRepo,
		artifactDir:  artifactDir,
		strategies:   byMode,
	}
}

// CreateExport creates a draft export job. Flat-file jobs without an explicit
// template fall back to the company default template of their mode.
func (s *exportService) CreateExport(ctx context.Context, req dto.CreateExportRequest, userID string) (*domain.ExportJob, error) {
	company, err := s.companyRepo.FindCompanyByID(ctx, req.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("finding company: %w", err)
	}

	if _, ok := s.strategies[req.Mode]; !ok {
		return nil, fmt.Errorf("%w: no strategy registered for mode %s", apperrors.ErrConfiguration, req.Mode)
	}

	templateID := req.TemplateID
	if templateID != "" {
		template, err := s.templateRepo.FindTemplateByID(ctx, templateID)
		if err != nil {
			return nil, fmt.Errorf("finding template: %w", err)
		}
		if template.Mode != req.Mode {
			return nil, fmt.Errorf("%w: template %s serves mode %s, not %s",
				apperrors.ErrValidation, template.Name, template.Mode, req.Mode)
		}
	} else if req.Mode != domain.ModeXML {
		template, err := s.templateRepo.FindDefaultTemplate(ctx, req.CompanyID, req.Mode)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: no default template for mode %s", apperrors.ErrConfiguration, req.Mode)
			}
			return nil, fmt.Errorf("finding default template: %w", err)
		}
		templateID = template.TemplateID
	}

	if req.Mode != domain.ModeASCIIAccounts && len(req.MoveIDs) == 0 {
		if req.PeriodStart.IsZero() || req.PeriodEnd.IsZero() {
			return nil, fmt.Errorf("%w: a period or an explicit move selection is required", apperrors.ErrValidation)
		}
		if req.PeriodEnd.Before(req.PeriodStart) {
			return nil, fmt.Errorf("%w: period end before period start", apperrors.ErrValidation)
		}
	}

	number, err := s.exportRepo.NextExportNumber(ctx, company.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("drawing export number: %w", err)
	}

	now := time.Now()
	job := domain.ExportJob{
		ExportID:     uuid.NewString(),
		CompanyID:    company.CompanyID,
		Name:         fmt.Sprintf("EXP-%05d", number),
		Mode:         req.Mode,
		State:        domain.ExportDraft,
		PeriodStart:  req.PeriodStart,
		PeriodEnd:    req.PeriodEnd,
		JournalIDs:   req.JournalIDs,
		MoveIDs:      req.MoveIDs,
		TemplateID:   templateID,
		PartnerSides: req.PartnerSides,
		PartnerScope: req.PartnerScope,
	}
	if job.Mode == domain.ModeASCIIAccounts {
		if job.PartnerSides == "" {
			job.PartnerSides = "both"
		}
		if job.PartnerScope == "" {
			job.PartnerScope = "all"
		}
	}
	job.CreatedAt = now
	job.CreatedBy = userID
	job.LastUpdatedAt = now
	job.LastUpdatedBy = userID

	if err := s.exportRepo.SaveExport(ctx, job); err != nil {
		return nil, fmt.Errorf("saving export: %w", err)
	}
	return &job, nil
}

// RunExport claims the selected moves, generates the files and moves the job
// to the export state. A failed generation releases the claim again.
func (s *exportService) RunExport(ctx context.Context, exportID string, userID string) (*domain.ExportJob, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	job, err := s.exportRepo.FindExportByID(ctx, exportID)
	if err != nil {
		return nil, fmt.Errorf("finding export: %w", err)
	}
	if job.State != domain.ExportDraft {
		return nil, fmt.Errorf("%w: export %s is not in draft", apperrors.ErrConflict, job.Name)
	}
	strategy, ok := s.strategies[job.Mode]
	if !ok {
		return nil, fmt.Errorf("%w: no strategy registered for mode %s", apperrors.ErrConfiguration, job.Mode)
	}

	var moves []domain.Move
	if job.Mode != domain.ModeASCIIAccounts {
		moves, err = s.moveRepo.FindMovesForExport(ctx, portsrepo.MoveSelection{
			CompanyID:   job.CompanyID,
			PeriodStart: job.PeriodStart,
			PeriodEnd:   job.PeriodEnd,
			JournalIDs:  job.JournalIDs,
			MoveIDs:     job.MoveIDs,
		})
		if err != nil {
			return nil, fmt.Errorf("finding moves: %w", err)
		}
		if len(moves) == 0 {
			return nil, fmt.Errorf("%w: no unexported posted moves match the selection", apperrors.ErrValidation)
		}
		if err := s.claimMoves(ctx, job.ExportID, moves); err != nil {
			return nil, err
		}
	}

	artifacts, err := strategy.Generate(ctx, *job, moves)
	if err != nil {
		if len(moves) > 0 {
			if relErr := s.moveRepo.ReleaseMovesFromExport(ctx, job.ExportID); relErr != nil {
				logger.Error("releasing moves after failed generation", "exportID", job.ExportID, "error", relErr)
			}
		}
		return nil, err
	}

	now := time.Now()
	for i := range artifacts {
		artifacts[i].ArtifactID = uuid.NewString()
		artifacts[i].ExportID = job.ExportID
		artifacts[i].CreatedAt = now
		if err := s.exportRepo.SaveArtifact(ctx, artifacts[i]); err != nil {
			return nil, fmt.Errorf("saving artifact %s: %w", artifacts[i].Name, err)
		}
		if s.artifactDir != "" {
			path := filepath.Join(s.artifactDir, artifacts[i].Name)
			if err := os.WriteFile(path, artifacts[i].Data, 0o644); err != nil {
				logger.Warn("writing artifact to disk", "path", path, "error", err)
			}
		}
	}

	job.Artifacts = artifacts
	job.State = domain.ExportDone
	job.LastUpdatedAt = now
	job.LastUpdatedBy = userID
	if err := s.exportRepo.UpdateExport(ctx, *job); err != nil {
		return nil, fmt.Errorf("updating export: %w", err)
	}

	logger.Info("export generated",
		"exportID", job.ExportID, "name", job.Name, "mode", job.Mode,
		"moves", len(moves), "artifacts", len(artifacts))
	return job, nil
}

// claimMoves assigns the moves to the export inside one transaction. Moves
// grabbed by a concurrent export in the meantime abort the run.
func (s *exportService) claimMoves(ctx context.Context, exportID string, moves []domain.Move) error {
	moveIDs := make([]string, len(moves))
	for i, m := range moves {
		moveIDs[i] = m.MoveID
	}
	tx, err := s.moveRepo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	claimed, err := s.moveRepo.ClaimMovesForExport(ctx, tx, exportID, moveIDs)
	if err != nil {
		_ = s.moveRepo.Rollback(ctx, tx)
		return fmt.Errorf("claiming moves: %w", err)
	}
	if len(claimed) != len(moveIDs) {
		_ = s.moveRepo.Rollback(ctx, tx)
		return fmt.Errorf("%w: %d of %d moves were claimed by another export",
			apperrors.ErrConflict, len(moveIDs)-len(claimed), len(moveIDs))
	}
	if err := s.moveRepo.Commit(ctx, tx); err != nil {
		return fmt.Errorf("committing claim: %w", err)
	}
	return nil
}

// GetExport retrieves an export including its artifact metadata.
func (s *exportService) GetExport(ctx context.Context, exportID string) (*domain.ExportJob, error) {
	job, err := s.exportRepo.FindExportByID(ctx, exportID)
	if err != nil {
		return nil, fmt.Errorf("finding export: %w", err)
	}
	return job, nil
}

// ListExports retrieves a paginated list of exports for a company.
func (s *exportService) ListExports(ctx context.Context, companyID string, limit int, offset int) ([]domain.ExportJob, error) {
	jobs, err := s.exportRepo.ListExports(ctx, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing exports: %w", err)
	}
	return jobs, nil
}

// ResetExport returns a finished export to draft. Its files are deleted and
// the claimed moves (or exported-partner flags) are released.
func (s *exportService) ResetExport(ctx context.Context, exportID string, userID string) (*domain.ExportJob, error) {
	job, err := s.exportRepo.FindExportByID(ctx, exportID)
	if err != nil {
		return nil, fmt.Errorf("finding export: %w", err)
	}
	if job.State != domain.ExportDone {
		return nil, fmt.Errorf("%w: export %s has not been run", apperrors.ErrConflict, job.Name)
	}

	if err := s.exportRepo.DeleteArtifactsByExport(ctx, job.ExportID); err != nil {
		return nil, fmt.Errorf("deleting artifacts: %w", err)
	}
	if job.Mode == domain.ModeASCIIAccounts {
		if resetter, ok := s.strategies[job.Mode].(exportResetter); ok {
			if err := resetter.Reset(ctx, *job); err != nil {
				return nil, err
			}
		}
	} else {
		if err := s.moveRepo.ReleaseMovesFromExport(ctx, job.ExportID); err != nil {
			return nil, fmt.Errorf("releasing moves: %w", err)
		}
	}

	job.Artifacts = nil
	job.State = domain.ExportDraft
	job.LastUpdatedAt = time.Now()
	job.LastUpdatedBy = userID
	if err := s.exportRepo.UpdateExport(ctx, *job); err != nil {
		return nil, fmt.Errorf("updating export: %w", err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("export reset to draft", "exportID", job.ExportID, "name", job.Name)
	return job, nil
}

// GetArtifact retrieves a generated file with its content.
func (s *exportService) GetArtifact(ctx context.Context, artifactID string) (*domain.Artifact, error) {
	artifact, err := s.exportRepo.FindArtifactByID(ctx, artifactID)
	if err != nil {
		return nil, fmt.Errorf("finding artifact: %w", err)
	}
	return artifact, nil
}
