package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/Finterra/ledger_exchange_app/internal/apperrors"
	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
	portssvc "github.com/Finterra/ledger_exchange_app/internal/core/ports/services"
	"github.com/Finterra/ledger_exchange_app/internal/core/services"
	"github.com/Finterra/ledger_exchange_app/internal/datev"
	"github.com/Finterra/ledger_exchange_app/internal/datev/accounts"
	"github.com/Finterra/ledger_exchange_app/internal/dto"
)

type TemplateServiceTestSuite struct {
	suite.Suite
	mockTemplateRepo       *mockTemplateRepository
	mockImportTemplateRepo *mockImportTemplateRepository
	service                portssvc.TemplateSvcFacade
	ctx                    context.Context
}

func (suite *TemplateServiceTestSuite) SetupTest() {
	suite.mockTemplateRepo = new(mockTemplateRepository)
	suite.mockImportTemplateRepo = new(mockImportTemplateRepository)
	suite.service = services.NewTemplateService(suite.mockTemplateRepo, suite.mockImportTemplateRepo)
	suite.ctx = context.Background()
}

func (suite *TemplateServiceTestSuite) TestCreateExportTemplate() {
	req := dto.CreateExportTemplateRequest{
		CompanyID: "co-1",
		Name:      "Buchungsstapel kompakt",
		Mode:      domain.ModeASCII,
		IsDefault: true,
		Lines: []dto.TemplateLineRequest{
			{Heading: "amount", Active: true},
			{Heading: "booking_text", Expression: `\s{2,}`, Active: true},
		},
	}

	var saved domain.ExportTemplate
	suite.mockTemplateRepo.On("SaveTemplate", suite.ctx, mock.AnythingOfType("domain.ExportTemplate")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(domain.ExportTemplate) }).
		Return(nil).Once()

	template, err := suite.service.CreateExportTemplate(suite.ctx, req, "user-1")

	suite.Require().NoError(err)
	suite.Require().NotNil(template)
	suite.NotEmpty(template.TemplateID)
	suite.Equal("co-1", template.CompanyID)
	suite.True(template.IsDefault)
	suite.Equal("user-1", template.CreatedBy)
	suite.Require().Len(template.Lines, 2)
	// Positions are filled in from request order when absent.
	suite.Equal(1, template.Lines[0].Position)
	suite.Equal(2, template.Lines[1].Position)
	suite.Equal(template.TemplateID, template.Lines[0].TemplateID)
	suite.Equal(template.TemplateID, saved.TemplateID)
	suite.mockTemplateRepo.AssertExpectations(suite.T())
}

func (suite *TemplateServiceTestSuite) TestCreateExportTemplateRejectsBadExpression() {
	req := dto.CreateExportTemplateRequest{
		CompanyID: "co-1",
		Name:      "Kaputt",
		Mode:      domain.ModeASCII,
		Lines: []dto.TemplateLineRequest{
			{Heading: "booking_text", Expression: `([`, Active: true},
		},
	}

	template, err := suite.service.CreateExportTemplate(suite.ctx, req, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "booking_text")
	suite.Nil(template)
	suite.mockTemplateRepo.AssertNotCalled(suite.T(), "SaveTemplate", mock.Anything, mock.Anything)
}

func (suite *TemplateServiceTestSuite) TestCreateExportTemplateRejectsBadForceValue() {
	req := dto.CreateExportTemplateRequest{
		CompanyID: "co-1",
		Name:      "Kaputt",
		Mode:      domain.ModeASCII,
		Lines: []dto.TemplateLineRequest{
			{Heading: "tax_key", ForceValue: `result = '9'`, Active: true},
		},
	}

	_, err := suite.service.CreateExportTemplate(suite.ctx, req, "user-1")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockTemplateRepo.AssertNotCalled(suite.T(), "SaveTemplate", mock.Anything, mock.Anything)
}

func (suite *TemplateServiceTestSuite) TestUpdateExportTemplateReplacesLines() {
	existing := &domain.ExportTemplate{
		TemplateID: "tpl-1",
		CompanyID:  "co-1",
		Name:       "Alt",
		Mode:       domain.ModeASCII,
		Lines: []domain.ExportTemplateLine{
			{LineID: "l-1", TemplateID: "tpl-1", Heading: "amount", Position: 1, Active: true},
		},
	}
	newName := "Neu"
	req := dto.UpdateExportTemplateRequest{
		Name: &newName,
		Lines: []dto.TemplateLineRequest{
			{Heading: "amount", Active: true},
			{Heading: "account", Active: true},
			{Heading: "counter_account", Active: true},
		},
	}

	suite.mockTemplateRepo.On("FindTemplateByID", suite.ctx, "tpl-1").Return(existing, nil).Once()
	suite.mockTemplateRepo.On("UpdateTemplate", suite.ctx, mock.AnythingOfType("domain.ExportTemplate")).Return(nil).Once()

	template, err := suite.service.UpdateExportTemplate(suite.ctx, "tpl-1", req, "user-2")

	suite.Require().NoError(err)
	suite.Equal("Neu", template.Name)
	suite.Len(template.Lines, 3)
	suite.Equal("user-2", template.LastUpdatedBy)
	suite.mockTemplateRepo.AssertExpectations(suite.T())
}

func (suite *TemplateServiceTestSuite) TestSeedDefaultTemplates() {
	suite.mockTemplateRepo.On("ListTemplates", suite.ctx, "co-1").Return([]domain.ExportTemplate{}, nil).Once()

	var seeded []domain.ExportTemplate
	suite.mockTemplateRepo.On("SaveTemplate", suite.ctx, mock.AnythingOfType("domain.ExportTemplate")).
		Run(func(args mock.Arguments) { seeded = append(seeded, args.Get(1).(domain.ExportTemplate)) }).
		Return(nil).Times(3)

	err := suite.service.SeedDefaultTemplates(suite.ctx, "co-1", "user-1")

	suite.Require().NoError(err)
	suite.Require().Len(seeded, 3)

	byMode := make(map[domain.ExportMode]domain.ExportTemplate, len(seeded))
	for _, t := range seeded {
		suite.True(t.IsDefault)
		suite.Equal("co-1", t.CompanyID)
		byMode[t.Mode] = t
	}

	// Flat-file modes expand to the full canonical column set.
	bookings := byMode[domain.ModeASCII]
	suite.Equal("Buchungsstapel Standard", bookings.Name)
	suite.Require().Len(bookings.Lines, len(datev.BookingFieldOrder))
	suite.Equal(datev.BookingFieldOrder[0], bookings.Lines[0].Heading)
	suite.Equal(1, bookings.Lines[0].Position)

	master := byMode[domain.ModeASCIIAccounts]
	suite.Len(master.Lines, len(accounts.FieldOrder))

	xml := byMode[domain.ModeXML]
	suite.Equal("Rechnungsexport XML", xml.Name)
	suite.Require().Len(xml.Lines, 1)
	suite.Equal("booking_text", xml.Lines[0].Heading)
	suite.Equal(`\s{2,}`, xml.Lines[0].Expression)
	suite.True(xml.Lines[0].Active)

	suite.mockTemplateRepo.AssertExpectations(suite.T())
}

func (suite *TemplateServiceTestSuite) TestSeedDefaultTemplatesSkipsExisting() {
	suite.mockTemplateRepo.On("ListTemplates", suite.ctx, "co-1").
		Return([]domain.ExportTemplate{{TemplateID: "tpl-1"}}, nil).Once()

	err := suite.service.SeedDefaultTemplates(suite.ctx, "co-1", "user-1")

	suite.Require().NoError(err)
	suite.mockTemplateRepo.AssertNotCalled(suite.T(), "SaveTemplate", mock.Anything, mock.Anything)
}

func (suite *TemplateServiceTestSuite) TestCreateImportTemplateDefaults() {
	req := dto.CreateImportTemplateRequest{
		CompanyID: "co-1",
		Name:      "DATEV Re-Import",
		HeaderRow: 1,
		Mappings: []dto.ImportMappingRequest{
			{Heading: "Umsatz", FieldType: domain.FieldAmount, ValueKind: domain.ValueDecimal, Required: true},
			{Heading: "Konto", FieldType: domain.FieldAccount},
			{Heading: "Beleginfo", FieldType: domain.FieldSkip},
		},
	}

	suite.mockImportTemplateRepo.On("SaveImportTemplate", suite.ctx, mock.AnythingOfType("domain.ImportTemplate")).Return(nil).Once()

	template, err := suite.service.CreateImportTemplate(suite.ctx, req, "user-1")

	suite.Require().NoError(err)
	suite.Equal(";", template.Delimiter)
	suite.Equal(`"`, template.QuoteChar)
	suite.Equal("latin1", template.Encoding)
	suite.Require().Len(template.Mappings, 3)
	suite.Equal(domain.ValueDecimal, template.Mappings[0].ValueKind)
	// ValueKind falls back to char when the request leaves it empty.
	suite.Equal(domain.ValueChar, template.Mappings[1].ValueKind)
	suite.True(template.Mappings[2].Skip)
	suite.mockImportTemplateRepo.AssertExpectations(suite.T())
}

func (suite *TemplateServiceTestSuite) TestUpdateImportTemplatePartial() {
	existing := &domain.ImportTemplate{
		TemplateID: "itpl-1",
		CompanyID:  "co-1",
		Name:       "DATEV Re-Import",
		Delimiter:  ";",
		QuoteChar:  `"`,
		Encoding:   "latin1",
		HeaderRow:  1,
		Mappings: []domain.ImportFieldMapping{
			{MappingID: "m-1", TemplateID: "itpl-1", Heading: "Umsatz", FieldType: domain.FieldAmount, ValueKind: domain.ValueDecimal},
		},
	}
	encoding := "utf8"
	postMoves := true
	req := dto.UpdateImportTemplateRequest{
		Encoding:  &encoding,
		PostMoves: &postMoves,
	}

	suite.mockImportTemplateRepo.On("FindImportTemplateByID", suite.ctx, "itpl-1").Return(existing, nil).Once()
	suite.mockImportTemplateRepo.On("UpdateImportTemplate", suite.ctx, mock.AnythingOfType("domain.ImportTemplate")).Return(nil).Once()

	template, err := suite.service.UpdateImportTemplate(suite.ctx, "itpl-1", req, "user-2")

	suite.Require().NoError(err)
	suite.Equal("utf8", template.Encoding)
	suite.True(template.PostMoves)
	suite.Equal("DATEV Re-Import", template.Name)
	// Mappings stay untouched when the request omits them.
	suite.Require().Len(template.Mappings, 1)
	suite.Equal("m-1", template.Mappings[0].MappingID)
	suite.Equal("user-2", template.LastUpdatedBy)
	suite.mockImportTemplateRepo.AssertExpectations(suite.T())
}

func TestTemplateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TemplateServiceTestSuite))
}
