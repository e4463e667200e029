package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Finterra/ledger_exchange_app/internal/apperrors"
	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
	portsrepo "github.com/Finterra/ledger_exchange_app/internal/core/ports/repositories"
	portssvc "github.com/Finterra/ledger_exchange_app/internal/core/ports/services"
	"github.com/Finterra/ledger_exchange_app/internal/datev"
	"github.com/Finterra/ledger_exchange_app/internal/datev/xmldoc"
	"github.com/Finterra/ledger_exchange_app/internal/middleware"
)

// xmlExportStrategy serializes invoices into per-document XML files bundled
// with their PDFs in one zip container.
type xmlExportStrategy struct {
	companyRepo    portsrepo.CompanyRepository
	attachmentRepo portsrepo.AttachmentRepository
	templateRepo   portsrepo.ExportTemplateRepository
	loader         batchLoader
}

// NewXMLExportStrategy creates the invoice document export strategy.
func NewXMLExportStrategy(repos portsrepo.RepositoryProvider) portssvc.ExportStrategy {
	return &xmlExportStrategy{
		companyRepo:    repos.CompanyRepo,
		attachmentRepo: repos.AttachmentRepo,
		templateRepo:   repos.TemplateRepo,
		loader: batchLoader{
			journalRepo:    repos.JournalRepo,
			accountRepo:    repos.AccountRepo,
			partnerRepo:    repos.PartnerRepo,
			taxRepo:        repos.TaxRepo,
			costCenterRepo: repos.CostCenterRepo,
		},
	}
}

func (s *xmlExportStrategy) Mode() domain.ExportMode { return domain.ModeXML }

// Generate renders one invoice XML per claimed invoice move, validates the
// documents and packs them with their PDFs into the container. Moves without
// a stored PDF are skipped with a warning; invalid documents block the run.
func (s *xmlExportStrategy) Generate(ctx context.Context, job domain.ExportJob, moves []domain.Move) ([]domain.Artifact, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	company, err := s.companyRepo.FindCompanyByID(ctx, job.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("finding company: %w", err)
	}
	mode := xmldoc.Mode(company.Export.XMLMode)
	if mode == "" {
		mode = xmldoc.ModeStandard
	}
	apply, err := s.applyFunc(ctx, job)
	if err != nil {
		return nil, err
	}

	batch, err := s.loader.load(ctx, *company, moves)
	if err != nil {
		return nil, err
	}
	companyParty := domain.Partner{
		Name:        company.Name,
		IsCompany:   true,
		VAT:         company.VATID,
		CountryCode: company.CountryCode,
	}

	var (
		docs     []xmldoc.ArchiveDocument
		files    []xmldoc.ZipEntry
		problems []string
	)
	for _, move := range moves {
		if !move.MoveType.IsInvoice() {
			logger.Warn("skipping non-invoice move in document export", "move", move.Name)
			continue
		}
		pdf, err := s.invoicePDF(ctx, move.MoveID)
		if err != nil {
			return nil, err
		}
		if pdf == nil {
			logger.Warn("no stored PDF, invoice left out of document export", "move", move.Name)
			continue
		}

		partner := batch.partners[move.PartnerID]
		doc, err := xmldoc.BuildInvoice(xmldoc.BuildInput{
			Move:           move,
			Partner:        partner,
			CompanyPartner: companyParty,
			Bank:           primaryBank(partner),
			Mode:           mode,
			Apply:          apply,
			AccountByID: func(id string) *domain.Account {
				if a, ok := batch.accounts[id]; ok {
					return &a
				}
				return nil
			},
			TaxByID: func(id string) *domain.Tax {
				if t, ok := batch.taxes[id]; ok {
					return &t
				}
				return nil
			},
			CostCenterByID: func(id string) *domain.CostCenter {
				if cc, ok := batch.costCenters[id]; ok {
					return &cc
				}
				return nil
			},
			GroupLines:       company.Export.GroupLines,
			AnalyticAccounts: true,
		})
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %s", move.Name, err))
			continue
		}
		if errs := doc.Validate(); len(errs) > 0 {
			for _, e := range errs {
				problems = append(problems, fmt.Sprintf("%s: %s", move.Name, e))
			}
			continue
		}

		xmlData, err := doc.Marshal()
		if err != nil {
			return nil, fmt.Errorf("marshalling invoice %s: %w", move.Name, err)
		}

		guid := move.DocumentGUID
		if guid == "" {
			guid = uuid.NewString()
		}
		base := fileBaseName(move.Name)
		archiveDoc := xmldoc.ArchiveDocument{
			Move:    move,
			GUID:    guid,
			PDFPath: base + ".pdf",
			XMLPath: base + ".xml",
		}
		docs = append(docs, archiveDoc)
		// BEDI transfers carry PDFs only; the XML stays out of the
		// container.
		if mode != xmldoc.ModeBEDI {
			files = append(files, xmldoc.ZipEntry{Name: archiveDoc.XMLPath, Data: xmlData})
		}
		files = append(files, xmldoc.ZipEntry{Name: archiveDoc.PDFPath, Data: pdf.Data})
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return nil, fmt.Errorf("%w: %s", apperrors.ErrExportBlocked, strings.Join(problems, "; "))
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: no invoice with a stored PDF in the selection", apperrors.ErrValidation)
	}

	data, err := xmldoc.BuildZip(docs, files, mode, time.Now())
	if err != nil {
		return nil, fmt.Errorf("building container: %w", err)
	}
	logger.Info("document container rendered", "exportID", job.ExportID, "documents", len(docs), "mode", string(mode))

	return []domain.Artifact{{
		Name:     job.Name + ".zip",
		MimeType: "application/zip",
		Data:     data,
	}}, nil
}

// applyFunc builds the template transform hook when the job carries a
// template; document exports work without one.
func (s *xmlExportStrategy) applyFunc(ctx context.Context, job domain.ExportJob) (xmldoc.ApplyFunc, error) {
	if job.TemplateID == "" {
		return nil, nil
	}
	template, err := s.templateRepo.FindTemplateByID(ctx, job.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("finding template: %w", err)
	}
	transformer, err := datev.NewTransformer(template.Lines, middleware.GetLoggerFromCtx(ctx))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrConfiguration, err)
	}
	return func(key, value string) string {
		return transformer.Apply(key, value, nil)
	}, nil
}

// invoicePDF returns the first stored PDF of a move, or nil.
func (s *xmlExportStrategy) invoicePDF(ctx context.Context, moveID string) (*domain.Attachment, error) {
	attachments, err := s.attachmentRepo.FindAttachmentsByMove(ctx, moveID)
	if err != nil {
		return nil, fmt.Errorf("loading attachments: %w", err)
	}
	for i := range attachments {
		if attachments[i].MimeType == "application/pdf" {
			return &attachments[i], nil
		}
	}
	return nil, nil
}

// primaryBank picks the partner bank shown on the invoice, preferring IBAN
// connections.
func primaryBank(p domain.Partner) *domain.PartnerBank {
	for i := range p.Banks {
		if p.Banks[i].IBAN != "" {
			return &p.Banks[i]
		}
	}
	if len(p.Banks) > 0 {
		return &p.Banks[0]
	}
	return nil
}

// fileBaseName makes a move name safe as a container file name.
func fileBaseName(name string) string {
	return strings.NewReplacer("/", "-", "\\", "-", " ", "_").Replace(name)
}
