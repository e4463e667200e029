package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	CompanyRepo        CompanyRepository
	AccountRepo        AccountRepositoryFacade
	PartnerRepo        PartnerRepositoryFacade
	TaxRepo            TaxRepository
	JournalRepo        JournalRepository
	CostCenterRepo     CostCenterRepository
	MoveRepo           MoveRepositoryFacade
	TemplateRepo       ExportTemplateRepository
	ImportTemplateRepo ImportTemplateRepository
	ExportRepo         ExportRepository
	AttachmentRepo     AttachmentRepository
	ImportRunRepo      ImportRunRepository
	UserRepo           UserRepository
}
