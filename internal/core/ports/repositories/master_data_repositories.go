package repositories

import (
	"context"

	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
)

// CompanyRepository provides access to company and export configuration data.
type CompanyRepository interface {
	// FindCompanyByID retrieves a company with its export configuration.
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)

	// UpdateExportConfig replaces the export configuration of a company.
	UpdateExportConfig(ctx context.Context, companyID string, cfg domain.ExportConfig, userID string) error
}

// AccountReader defines read operations for ledger accounts.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its code within a company.
	FindAccountByCode(ctx context.Context, companyID string, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts for a company.
	ListAccounts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Account, error)
}

// AccountWriter defines write operations for ledger accounts.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an existing account's details.
	UpdateAccount(ctx context.Context, account domain.Account) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}

// PartnerReader defines read operations for business partners.
type PartnerReader interface {
	// FindPartnerByID retrieves a specific partner by its unique identifier.
	FindPartnerByID(ctx context.Context, partnerID string) (*domain.Partner, error)

	// FindPartnersByIDs retrieves multiple partners by their IDs.
	FindPartnersByIDs(ctx context.Context, partnerIDs []string) (map[string]domain.Partner, error)

	// FindPartnersByDebtorNumber retrieves the partners carrying the given
	// debtor number.
	FindPartnersByDebtorNumber(ctx context.Context, companyID string, number string) ([]domain.Partner, error)

	// FindPartnersByCreditorNumber retrieves the partners carrying the given
	// creditor number.
	FindPartnersByCreditorNumber(ctx context.Context, companyID string, number string) ([]domain.Partner, error)

	// ListPartnersForMasterDataExport retrieves the partners matching a master
	// data export selection. onlyNew restricts to partners not yet exported.
	ListPartnersForMasterDataExport(ctx context.Context, companyID string, sides string, onlyNew bool) ([]domain.Partner, error)

	// ListPartners retrieves a paginated list of partners for a company.
	ListPartners(ctx context.Context, companyID string, limit int, offset int) ([]domain.Partner, error)
}

// PartnerWriter defines write operations for business partners.
type PartnerWriter interface {
	// SavePartner persists a new partner.
	SavePartner(ctx context.Context, partner domain.Partner) error

	// UpdatePartner updates an existing partner's details.
	UpdatePartner(ctx context.Context, partner domain.Partner) error

	// MarkPartnersExported sets or clears the exported flag on the given
	// partners.
	MarkPartnersExported(ctx context.Context, partnerIDs []string, exported bool, userID string) error
}

// PartnerRepositoryFacade combines all partner-related repository interfaces.
type PartnerRepositoryFacade interface {
	PartnerReader
	PartnerWriter
}

// TaxRepository provides access to tax definitions.
type TaxRepository interface {
	// FindTaxByID retrieves a specific tax by its unique identifier.
	FindTaxByID(ctx context.Context, taxID string) (*domain.Tax, error)

	// FindTaxesByIDs retrieves multiple taxes by their IDs.
	FindTaxesByIDs(ctx context.Context, taxIDs []string) (map[string]domain.Tax, error)

	// FindTaxByKey retrieves the tax carrying the given posting key.
	FindTaxByKey(ctx context.Context, companyID string, taxKey string) (*domain.Tax, error)

	// ListTaxes retrieves all taxes of a company.
	ListTaxes(ctx context.Context, companyID string) ([]domain.Tax, error)
}

// JournalRepository provides access to journals.
type JournalRepository interface {
	// FindJournalByID retrieves a specific journal by its unique identifier.
	FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// FindJournalsByIDs retrieves multiple journals by their IDs.
	FindJournalsByIDs(ctx context.Context, journalIDs []string) (map[string]domain.Journal, error)

	// ListJournals retrieves all journals of a company.
	ListJournals(ctx context.Context, companyID string) ([]domain.Journal, error)
}

// CostCenterRepository provides access to cost center plans and centers.
type CostCenterRepository interface {
	// FindCostCenterByID retrieves a cost center by its unique identifier.
	FindCostCenterByID(ctx context.Context, costCenterID string) (*domain.CostCenter, error)

	// FindCostCentersByIDs retrieves multiple cost centers by their IDs.
	FindCostCentersByIDs(ctx context.Context, costCenterIDs []string) (map[string]domain.CostCenter, error)

	// FindCostCenterByCode retrieves a cost center by code within a plan
	// target, used to resolve imported cost center references.
	FindCostCenterByCode(ctx context.Context, companyID string, target domain.CostCenterTarget, code string) (*domain.CostCenter, error)

	// FindPlansByIDs retrieves multiple cost center plans by their IDs.
	FindPlansByIDs(ctx context.Context, planIDs []string) (map[string]domain.CostCenterPlan, error)
}
