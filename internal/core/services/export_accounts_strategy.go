package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Finterra/ledger_exchange_app/internal/apperrors"
	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
	portsrepo "github.com/Finterra/ledger_exchange_app/internal/core/ports/repositories"
	portssvc "github.com/Finterra/ledger_exchange_app/internal/core/ports/services"
	"github.com/Finterra/ledger_exchange_app/internal/datev"
	"github.com/Finterra/ledger_exchange_app/internal/datev/accounts"
	"github.com/Finterra/ledger_exchange_app/internal/datev/ascii"
	"github.com/Finterra/ledger_exchange_app/internal/middleware"
)

// accountsExportStrategy serializes partner master data into a
// debtor/creditor flat file.
type accountsExportStrategy struct {
	companyRepo  portsrepo.CompanyRepository
	partnerRepo  portsrepo.PartnerRepositoryFacade
	accountRepo  portsrepo.AccountRepositoryFacade
	templateRepo portsrepo.ExportTemplateRepository
}

// NewAccountsExportStrategy creates the master data export strategy.
func NewAccountsExportStrategy(repos portsrepo.RepositoryProvider) portssvc.ExportStrategy {
	return &accountsExportStrategy{
		companyRepo:  repos.CompanyRepo,
		partnerRepo:  repos.PartnerRepo,
		accountRepo:  repos.AccountRepo,
		templateRepo: repos.TemplateRepo,
	}
}

func (s *accountsExportStrategy) Mode() domain.ExportMode { return domain.ModeASCIIAccounts }

// Generate renders one master data row per subledger number of the selected
// partners and flags them as exported.
func (s *accountsExportStrategy) Generate(ctx context.Context, job domain.ExportJob, _ []domain.Move) ([]domain.Artifact, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	company, err := s.companyRepo.FindCompanyByID(ctx, job.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("finding company: %w", err)
	}
	template, err := s.templateRepo.FindTemplateByID(ctx, job.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("finding template: %w", err)
	}
	transformer, err := datev.NewTransformer(template.Lines, logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrConfiguration, err)
	}

	partners, err := s.partnerRepo.ListPartnersForMasterDataExport(
		ctx, job.CompanyID, job.PartnerSides, job.PartnerScope == "new")
	if err != nil {
		return nil, fmt.Errorf("listing partners: %w", err)
	}
	if len(partners) == 0 {
		return nil, fmt.Errorf("%w: no partners match the master data selection", apperrors.ErrValidation)
	}

	order := template.FieldOrder()
	w := ascii.NewWriter()
	w.WriteHeader(masterDataHeader(*company, job, time.Now()))
	w.WriteRecord(order)

	exported := make([]string, 0, len(partners))
	records := 0
	for _, p := range partners {
		receivableCode, payableCode, err := s.partnerAccountCodes(ctx, p)
		if err != nil {
			return nil, err
		}
		numbers := accounts.PartnerNumbers(p, accounts.SideFilter(job.PartnerSides), receivableCode, payableCode)
		if len(numbers) == 0 {
			logger.Warn("partner has no subledger number", "partnerID", p.PartnerID, "name", p.Name)
			continue
		}
		for _, number := range numbers {
			account, err := s.accountForNumber(ctx, p.CompanyID, number.Number)
			if err != nil {
				return nil, err
			}
			row := accounts.BuildRow(p, number, account)
			record := row.Record()
			transformer.ApplyAll(order, record, map[string]string{"partner_name": p.Name})
			w.WriteRecord(record)
			records++
		}
		exported = append(exported, p.PartnerID)
	}
	if records == 0 {
		return nil, fmt.Errorf("%w: none of the selected partners carries a subledger number", apperrors.ErrValidation)
	}

	data, err := w.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encoding master data file: %w", err)
	}
	if err := s.partnerRepo.MarkPartnersExported(ctx, exported, true, job.LastUpdatedBy); err != nil {
		return nil, fmt.Errorf("flagging partners exported: %w", err)
	}
	logger.Info("master data file rendered", "exportID", job.ExportID, "partners", len(exported), "records", records)

	return []domain.Artifact{{
		Name:     "EXTF_" + job.Name + ".csv",
		MimeType: "text/csv",
		Data:     data,
	}}, nil
}

// Reset clears the exported flag from the partners the run covered so a later
// "new partners" export picks them up again.
func (s *accountsExportStrategy) Reset(ctx context.Context, job domain.ExportJob) error {
	partners, err := s.partnerRepo.ListPartnersForMasterDataExport(ctx, job.CompanyID, job.PartnerSides, false)
	if err != nil {
		return fmt.Errorf("listing partners: %w", err)
	}
	var exported []string
	for _, p := range partners {
		if p.Exported {
			exported = append(exported, p.PartnerID)
		}
	}
	if len(exported) == 0 {
		return nil
	}
	if err := s.partnerRepo.MarkPartnersExported(ctx, exported, false, job.LastUpdatedBy); err != nil {
		return fmt.Errorf("clearing exported flags: %w", err)
	}
	return nil
}

// partnerAccountCodes resolves the codes of the partner's receivable and
// payable accounts, used as subledger fallback numbers.
func (s *accountsExportStrategy) partnerAccountCodes(ctx context.Context, p domain.Partner) (string, string, error) {
	var receivable, payable string
	if p.ReceivableAccountID != "" {
		account, err := s.accountRepo.FindAccountByID(ctx, p.ReceivableAccountID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return "", "", fmt.Errorf("finding receivable account: %w", err)
		}
		if account != nil {
			receivable = account.Code
		}
	}
	if p.PayableAccountID != "" {
		account, err := s.accountRepo.FindAccountByID(ctx, p.PayableAccountID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return "", "", fmt.Errorf("finding payable account: %w", err)
		}
		if account != nil {
			payable = account.Code
		}
	}
	return receivable, payable, nil
}

// accountForNumber looks up the ledger account carrying the subledger number
// as its code. Partner numbers without a matching account stay raw.
func (s *accountsExportStrategy) accountForNumber(ctx context.Context, companyID, number string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, companyID, number)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("finding account %s: %w", number, err)
	}
	return account, nil
}

// masterDataHeader fills the V700 preamble for a debtor/creditor file.
func masterDataHeader(company domain.Company, job domain.ExportJob, now time.Time) datev.Header {
	cfg := company.Export
	return datev.Header{
		Category:        datev.CategoryMasterData,
		FormatName:      datev.FormatMasterData,
		FormatVersion:   datev.FormatVersionMasterData,
		CreatedAt:       now,
		ExportedBy:      company.Name,
		Consultant:      cfg.AccountantNumber,
		Client:          cfg.ClientNumber,
		FiscalYearStart: datev.FiscalYearStart(now, cfg.FiscalYearLastMonthOrDefault()),
		AccountLength:   cfg.AccountCodeLength,
		Description:     job.Name,
	}
}
