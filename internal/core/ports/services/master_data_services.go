package services

import (
	"context"

	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
	"github.com/Finterra/ledger_exchange_app/internal/dto"
)

// MasterDataSvcFacade exposes the master data the exchange works on: the
// company export configuration and the lookup lists handlers serve.
type MasterDataSvcFacade interface {
	// GetCompany retrieves a company with its export configuration.
	GetCompany(ctx context.Context, companyID string) (*domain.Company, error)

	// UpdateExportConfig replaces the export configuration of a company.
	UpdateExportConfig(ctx context.Context, companyID string, req dto.UpdateExportConfigRequest, userID string) (*domain.Company, error)

	// ListAccounts retrieves a paginated list of accounts.
	ListAccounts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Account, error)

	// ListPartners retrieves a paginated list of partners.
	ListPartners(ctx context.Context, companyID string, limit int, offset int) ([]domain.Partner, error)

	// ListJournals retrieves all journals of a company.
	ListJournals(ctx context.Context, companyID string) ([]domain.Journal, error)

	// ListTaxes retrieves all taxes of a company.
	ListTaxes(ctx context.Context, companyID string) ([]domain.Tax, error)

	// ListMoves retrieves a paginated list of moves.
	ListMoves(ctx context.Context, companyID string, limit int, offset int) ([]domain.Move, error)
}
