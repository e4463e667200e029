package services

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/Finterra/ledger_exchange_app/internal/apperrors"
	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
	portsrepo "github.com/Finterra/ledger_exchange_app/internal/core/ports/repositories"
	portssvc "github.com/Finterra/ledger_exchange_app/internal/core/ports/services"
	"github.com/Finterra/ledger_exchange_app/internal/datev"
	"github.com/Finterra/ledger_exchange_app/internal/datev/accounts"
	"github.com/Finterra/ledger_exchange_app/internal/dto"
	"github.com/Finterra/ledger_exchange_app/internal/middleware"
)

//go:embed templates_seed.yaml
var templateSeeds []byte

type templateService struct {
	templateRepo       portsrepo.ExportTemplateRepository
	importTemplateRepo portsrepo.ImportTemplateRepository
}

// NewTemplateService creates the template registry service.
func NewTemplateService(templateRepo portsrepo.ExportTemplateRepository, importTemplateRepo portsrepo.ImportTemplateRepository) portssvc.TemplateSvcFacade {
	return &templateService{
		templateRepo:       templateRepo,
		importTemplateRepo: importTemplateRepo,
	}
}

func (s *templateService) CreateExportTemplate(ctx context.Context, req dto.CreateExportTemplateRequest, userID string) (*domain.ExportTemplate, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now()
	template := domain.ExportTemplate{
		TemplateID: uuid.NewString(),
		CompanyID:  req.CompanyID,
		Name:       req.Name,
		Mode:       req.Mode,
		IsDefault:  req.IsDefault,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	lines, err := s.buildLines(template.TemplateID, req.Lines)
	if err != nil {
		return nil, err
	}
	template.Lines = lines
	if err := s.templateRepo.SaveTemplate(ctx, template); err != nil {
		logger.Error("failed to save export template", slog.String("error", err.Error()))
		return nil, err
	}
	logger.Info("export template created", slog.String("template_id", template.TemplateID), slog.String("mode", string(template.Mode)))
	return &template, nil
}

// buildLines validates the transform expressions before anything is stored.
// A broken regex or force-value program must fail at save time, not during an
// export run.
func (s *templateService) buildLines(templateID string, reqs []dto.TemplateLineRequest) ([]domain.ExportTemplateLine, error) {
	lines := make([]domain.ExportTemplateLine, 0, len(reqs))
	for i, lr := range reqs {
		position := lr.Position
		if position == 0 {
			position = i + 1
		}
		line := domain.ExportTemplateLine{
			LineID:     uuid.NewString(),
			TemplateID: templateID,
			Heading:    lr.Heading,
			Position:   position,
			Expression: lr.Expression,
			ForceValue: lr.ForceValue,
			Active:     lr.Active,
		}
		if err := datev.ValidateTemplateLine(line); err != nil {
			return nil, fmt.Errorf("%w: line %q: %s", apperrors.ErrValidation, lr.Heading, err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (s *templateService) UpdateExportTemplate(ctx context.Context, templateID string, req dto.UpdateExportTemplateRequest, userID string) (*domain.ExportTemplate, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	template, err := s.templateRepo.FindTemplateByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		template.Name = *req.Name
	}
	if req.IsDefault != nil {
		template.IsDefault = *req.IsDefault
	}
	if req.Lines != nil {
		lines, err := s.buildLines(template.TemplateID, req.Lines)
		if err != nil {
			return nil, err
		}
		template.Lines = lines
	}
	template.LastUpdatedAt = time.Now()
	template.LastUpdatedBy = userID
	if err := s.templateRepo.UpdateTemplate(ctx, *template); err != nil {
		logger.Error("failed to update export template", slog.String("error", err.Error()), slog.String("template_id", templateID))
		return nil, err
	}
	return template, nil
}

func (s *templateService) GetExportTemplate(ctx context.Context, templateID string) (*domain.ExportTemplate, error) {
	return s.templateRepo.FindTemplateByID(ctx, templateID)
}

func (s *templateService) ListExportTemplates(ctx context.Context, companyID string) ([]domain.ExportTemplate, error) {
	return s.templateRepo.ListTemplates(ctx, companyID)
}

func (s *templateService) DeleteExportTemplate(ctx context.Context, templateID string) error {
	return s.templateRepo.DeleteTemplate(ctx, templateID)
}

// seedFile is the shape of the embedded default template catalogue.
type seedFile struct {
	Templates []struct {
		Name    string            `yaml:"name"`
		Mode    domain.ExportMode `yaml:"mode"`
		Default bool              `yaml:"default"`
		Lines   []struct {
			Heading    string `yaml:"heading"`
			Position   int    `yaml:"position"`
			Expression string `yaml:"expression"`
			ForceValue string `yaml:"forceValue"`
		} `yaml:"lines"`
	} `yaml:"templates"`
}

func (s *templateService) SeedDefaultTemplates(ctx context.Context, companyID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	existing, err := s.templateRepo.ListTemplates(ctx, companyID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	var seeds seedFile
	if err := yaml.Unmarshal(templateSeeds, &seeds); err != nil {
		return fmt.Errorf("parse template seeds: %w", err)
	}
	now := time.Now()
	for _, seed := range seeds.Templates {
		template := domain.ExportTemplate{
			TemplateID: uuid.NewString(),
			CompanyID:  companyID,
			Name:       seed.Name,
			Mode:       seed.Mode,
			IsDefault:  seed.Default,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
		if len(seed.Lines) > 0 {
			for i, l := range seed.Lines {
				position := l.Position
				if position == 0 {
					position = i + 1
				}
				template.Lines = append(template.Lines, domain.ExportTemplateLine{
					LineID:     uuid.NewString(),
					TemplateID: template.TemplateID,
					Heading:    l.Heading,
					Position:   position,
					Expression: l.Expression,
					ForceValue: l.ForceValue,
					Active:     true,
				})
			}
		} else {
			template.Lines = defaultLinesFor(template.TemplateID, seed.Mode)
		}
		if err := s.templateRepo.SaveTemplate(ctx, template); err != nil {
			return err
		}
		logger.Info("seeded default template", slog.String("name", seed.Name), slog.String("mode", string(seed.Mode)))
	}
	return nil
}

// defaultLinesFor expands the canonical column order of a flat-file mode into
// template lines without transforms.
func defaultLinesFor(templateID string, mode domain.ExportMode) []domain.ExportTemplateLine {
	var order []string
	switch mode {
	case domain.ModeASCII:
		order = datev.BookingFieldOrder
	case domain.ModeASCIIAccounts:
		order = accounts.FieldOrder
	default:
		return nil
	}
	lines := make([]domain.ExportTemplateLine, 0, len(order))
	for i, heading := range order {
		lines = append(lines, domain.ExportTemplateLine{
			LineID:     uuid.NewString(),
			TemplateID: templateID,
			Heading:    heading,
			Position:   i + 1,
			Active:     true,
		})
	}
	return lines
}

func (s *templateService) CreateImportTemplate(ctx context.Context, req dto.CreateImportTemplateRequest, userID string) (*domain.ImportTemplate, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	now := time.Now()
	template := domain.ImportTemplate{
		TemplateID:               uuid.NewString(),
		CompanyID:                req.CompanyID,
		Name:                     req.Name,
		Delimiter:                defaultString(req.Delimiter, ";"),
		QuoteChar:                defaultString(req.QuoteChar, `"`),
		Encoding:                 defaultString(req.Encoding, "latin1"),
		HeaderRow:                req.HeaderRow,
		RemoveFileHeader:         req.RemoveFileHeader,
		PostMoves:                req.PostMoves,
		AutoReconcile:            req.AutoReconcile,
		IgnoreIncompleteMoves:    req.IgnoreIncompleteMoves,
		DiscountAccountIncomeID:  req.DiscountAccountIncome,
		DiscountAccountExpenseID: req.DiscountAccountExpense,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	template.Mappings = buildMappings(template.TemplateID, req.Mappings)
	if err := s.importTemplateRepo.SaveImportTemplate(ctx, template); err != nil {
		logger.Error("failed to save import template", slog.String("error", err.Error()))
		return nil, err
	}
	return &template, nil
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func buildMappings(templateID string, reqs []dto.ImportMappingRequest) []domain.ImportFieldMapping {
	mappings := make([]domain.ImportFieldMapping, 0, len(reqs))
	for _, mr := range reqs {
		kind := mr.ValueKind
		if kind == "" {
			kind = domain.ValueChar
		}
		mappings = append(mappings, domain.ImportFieldMapping{
			MappingID:  uuid.NewString(),
			TemplateID: templateID,
			Heading:    mr.Heading,
			FieldType:  mr.FieldType,
			ValueKind:  kind,
			Padding:    mr.Padding,
			DateFormat: mr.DateFormat,
			Required:   mr.Required,
			Skip:       mr.Skip || mr.FieldType == domain.FieldSkip,
		})
	}
	return mappings
}

func (s *templateService) UpdateImportTemplate(ctx context.Context, templateID string, req dto.UpdateImportTemplateRequest, userID string) (*domain.ImportTemplate, error) {
	template, err := s.importTemplateRepo.FindImportTemplateByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		template.Name = *req.Name
	}
	if req.Delimiter != nil {
		template.Delimiter = *req.Delimiter
	}
	if req.QuoteChar != nil {
		template.QuoteChar = *req.QuoteChar
	}
	if req.Encoding != nil {
		template.Encoding = *req.Encoding
	}
	if req.HeaderRow != nil {
		template.HeaderRow = *req.HeaderRow
	}
	if req.RemoveFileHeader != nil {
		template.RemoveFileHeader = *req.RemoveFileHeader
	}
	if req.PostMoves != nil {
		template.PostMoves = *req.PostMoves
	}
	if req.AutoReconcile != nil {
		template.AutoReconcile = *req.AutoReconcile
	}
	if req.IgnoreIncompleteMoves != nil {
		template.IgnoreIncompleteMoves = *req.IgnoreIncompleteMoves
	}
	if req.DiscountAccountIncome != nil {
		template.DiscountAccountIncomeID = *req.DiscountAccountIncome
	}
	if req.DiscountAccountExpense != nil {
		template.DiscountAccountExpenseID = *req.DiscountAccountExpense
	}
	if req.Mappings != nil {
		template.Mappings = buildMappings(template.TemplateID, req.Mappings)
	}
	template.LastUpdatedAt = time.Now()
	template.LastUpdatedBy = userID
	if err := s.importTemplateRepo.UpdateImportTemplate(ctx, *template); err != nil {
		return nil, err
	}
	return template, nil
}

func (s *templateService) GetImportTemplate(ctx context.Context, templateID string) (*domain.ImportTemplate, error) {
	return s.importTemplateRepo.FindImportTemplateByID(ctx, templateID)
}

func (s *templateService) ListImportTemplates(ctx context.Context, companyID string) ([]domain.ImportTemplate, error) {
	return s.importTemplateRepo.ListImportTemplates(ctx, companyID)
}

func (s *templateService) DeleteImportTemplate(ctx context.Context, templateID string) error {
	return s.importTemplateRepo.DeleteImportTemplate(ctx, templateID)
}
