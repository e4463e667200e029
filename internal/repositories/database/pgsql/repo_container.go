package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/Finterra/ledger_exchange_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		CompanyRepo:        newPgxCompanyRepository(dbPool),
		AccountRepo:        newPgxAccountRepository(dbPool),
		PartnerRepo:        newPgxPartnerRepository(dbPool),
		TaxRepo:            newPgxTaxRepository(dbPool),
		JournalRepo:        newPgxJournalRepository(dbPool),
		CostCenterRepo:     newPgxCostCenterRepository(dbPool),
		MoveRepo:           newPgxMoveRepository(dbPool),
		TemplateRepo:       newPgxExportTemplateRepository(dbPool),
		ImportTemplateRepo: newPgxImportTemplateRepository(dbPool),
		ExportRepo:         newPgxExportRepository(dbPool),
		AttachmentRepo:     newPgxAttachmentRepository(dbPool),
		ImportRunRepo:      newPgxImportRunRepository(dbPool),
		UserRepo:           newPgxUserRepository(dbPool),
	}
}
