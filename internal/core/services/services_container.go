package services

import (
	portsrepo "github.com/Finterra/ledger_exchange_app/internal/core/ports/repositories"
	portssvc "github.com/Finterra/ledger_exchange_app/internal/core/ports/services"
	"github.com/Finterra/ledger_exchange_app/pkg/config"
)

// NewServiceContainer wires every application service with its repositories
// and registers the export strategies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	reconciler := NewReconcileService(repos)
	return &portssvc.ServiceContainer{
		Template: NewTemplateService(repos.TemplateRepo, repos.ImportTemplateRepo),
		Export: NewExportService(repos, cfg.ArtifactDir,
			NewASCIIExportStrategy(repos),
			NewAccountsExportStrategy(repos),
			NewXMLExportStrategy(repos),
		),
		Import:     NewImportService(repos, reconciler),
		MasterData: NewMasterDataService(repos),
		Auth:       NewAuthService(repos, cfg),
	}
}

// Compile-time checks that the service implementations satisfy their ports.
var (
	_ portssvc.ExportSvcFacade     = (*exportService)(nil)
	_ portssvc.ImportSvcFacade     = (*importService)(nil)
	_ portssvc.MasterDataSvcFacade = (*masterDataService)(nil)
	_ portssvc.ReconcileSvc        = (*reconcileService)(nil)
	_ portssvc.AuthSvc             = (*authService)(nil)
	_ portssvc.ExportStrategy      = (*asciiExportStrategy)(nil)
	_ portssvc.ExportStrategy      = (*accountsExportStrategy)(nil)
	_ portssvc.ExportStrategy      = (*xmlExportStrategy)(nil)
	_ exportResetter               = (*accountsExportStrategy)(nil)
)
