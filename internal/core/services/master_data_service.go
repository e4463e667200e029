package services

import (
	"context"
	"fmt"

	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
	portsrepo "github.com/Finterra/ledger_exchange_app/internal/core/ports/repositories"
	portssvc "github.com/Finterra/ledger_exchange_app/internal/core/ports/services"
	"github.com/Finterra/ledger_exchange_app/internal/dto"
	"github.com/Finterra/ledger_exchange_app/internal/middleware"
)

// masterDataService serves the company configuration and the lookup lists.
type masterDataService struct {
	companyRepo portsrepo.CompanyRepository
	accountRepo portsrepo.AccountRepositoryFacade
	partnerRepo portsrepo.PartnerRepositoryFacade
	journalRepo portsrepo.JournalRepository
	taxRepo     portsrepo.TaxRepository
	moveRepo    portsrepo.MoveRepositoryFacade
}

// NewMasterDataService creates a master data service with the given
// repositories.
func NewMasterDataService(repos portsrepo.RepositoryProvider) portssvc.MasterDataSvcFacade {
	return &masterDataService{
		companyRepo: repos.CompanyRepo,
		accountRepo: repos.AccountRepo,
		partnerRepo: repos.PartnerRepo,
		journalRepo: repos.JournalRepo,
		taxRepo:     repos.TaxRepo,
		moveRepo:    repos.MoveRepo,
	}
}

// GetCompany retrieves a company with its export configuration.
func (s *masterDataService) GetCompany(ctx context.Context, companyID string) (*domain.Company, error) {
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("finding company: %w", err)
	}
	return company, nil
}

// UpdateExportConfig merges the provided fields into the company's export
// configuration.
func (s *masterDataService) UpdateExportConfig(ctx context.Context, companyID string, req dto.UpdateExportConfigRequest, userID string) (*domain.Company, error) {
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("finding company: %w", err)
	}

	cfg := company.Export
	if req.AccountantNumber != nil {
		cfg.AccountantNumber = *req.AccountantNumber
	}
	if req.ClientNumber != nil {
		cfg.ClientNumber = *req.ClientNumber
	}
	if req.ExportMethod != nil {
		cfg.ExportMethod = *req.ExportMethod
	}
	if req.VoucherDateFormat != nil {
		cfg.VoucherDateFormat = *req.VoucherDateFormat
	}
	if req.AccountCodeLength != nil {
		cfg.AccountCodeLength = *req.AccountCodeLength
	}
	if req.RemoveLeadingZeros != nil {
		cfg.RemoveLeadingZeros = *req.RemoveLeadingZeros
	}
	if req.GroupLines != nil {
		cfg.GroupLines = *req.GroupLines
	}
	if req.UseDocumentLink != nil {
		cfg.UseDocumentLink = *req.UseDocumentLink
	}
	if req.ExportRefAsName != nil {
		cfg.ExportRefAsName = *req.ExportRefAsName
	}
	if req.FiscalYearLastMonth != nil {
		cfg.FiscalYearLastMonth = *req.FiscalYearLastMonth
	}
	if req.BookingTextSource != nil {
		cfg.BookingTextSource = *req.BookingTextSource
	}
	if req.Locked != nil {
		cfg.Locked = *req.Locked
	}
	if req.XMLMode != nil {
		cfg.XMLMode = *req.XMLMode
	}

	if err := s.companyRepo.UpdateExportConfig(ctx, companyID, cfg, userID); err != nil {
		return nil, fmt.Errorf("updating export config: %w", err)
	}
	company.Export = cfg

	middleware.GetLoggerFromCtx(ctx).Info("export configuration updated", "companyID", companyID)
	return company, nil
}

// ListAccounts retrieves a paginated list of accounts.
func (s *masterDataService) ListAccounts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	return accounts, nil
}

// ListPartners retrieves a paginated list of partners.
func (s *masterDataService) ListPartners(ctx context.Context, companyID string, limit int, offset int) ([]domain.Partner, error) {
	partners, err := s.partnerRepo.ListPartners(ctx, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing partners: %w", err)
	}
	return partners, nil
}

// ListJournals retrieves all journals of a company.
func (s *masterDataService) ListJournals(ctx context.Context, companyID string) ([]domain.Journal, error) {
	journals, err := s.journalRepo.ListJournals(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("listing journals: %w", err)
	}
	return journals, nil
}

// ListTaxes retrieves all taxes of a company.
func (s *masterDataService) ListTaxes(ctx context.Context, companyID string) ([]domain.Tax, error) {
	taxes, err := s.taxRepo.ListTaxes(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("listing taxes: %w", err)
	}
	return taxes, nil
}

// ListMoves retrieves a paginated list of moves.
func (s *masterDataService) ListMoves(ctx context.Context, companyID string, limit int, offset int) ([]domain.Move, error) {
	moves, err := s.moveRepo.ListMoves(ctx, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing moves: %w", err)
	}
	return moves, nil
}
