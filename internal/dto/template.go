package dto

import (
	"time"

	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
)

// TemplateLineRequest defines one field rule of an export template.
type TemplateLineRequest struct {
	Heading    string `json:"heading" binding:"required"`
	Position   int    `json:"position"`
	Expression string `json:"expression"`
	ForceValue string `json:"forceValue"`
	Active     bool   `json:"active"`
}

// CreateExportTemplateRequest defines the data needed to create an export
// template.
type CreateExportTemplateRequest struct {
	CompanyID string                `json:"companyID" binding:"required"`
	Name      string                `json:"name" binding:"required"`
	Mode      domain.ExportMode     `json:"mode" binding:"required,oneof=datev_ascii datev_ascii_accounts datev_xml"`
	IsDefault bool                  `json:"isDefault"`
	Lines     []TemplateLineRequest `json:"lines"`
}

// UpdateExportTemplateRequest defines the data allowed for updating an export
// template. Lines always replace the existing set when provided.
type UpdateExportTemplateRequest struct {
	Name      *string               `json:"name"`
	IsDefault *bool                 `json:"isDefault"`
	Lines     []TemplateLineRequest `json:"lines"`
}

// ExportTemplateResponse defines the data returned for an export template.
type ExportTemplateResponse struct {
	TemplateID string                 `json:"templateID"`
	CompanyID  string                 `json:"companyID"`
	Name       string                 `json:"name"`
	Mode       domain.ExportMode      `json:"mode"`
	IsDefault  bool                   `json:"isDefault"`
	Lines      []TemplateLineResponse `json:"lines"`
	CreatedAt  time.Time              `json:"createdAt"`
	CreatedBy  string                 `json:"createdBy"`
}

// TemplateLineResponse defines the data returned for one template line.
type TemplateLineResponse struct {
	Heading    string `json:"heading"`
	Position   int    `json:"position"`
	Expression string `json:"expression"`
	ForceValue string `json:"forceValue"`
	Active     bool   `json:"active"`
}

// ToExportTemplateResponse converts a domain.ExportTemplate to its DTO.
func ToExportTemplateResponse(t *domain.ExportTemplate) ExportTemplateResponse {
	lines := make([]TemplateLineResponse, 0, len(t.Lines))
	for _, l := range t.Lines {
		lines = append(lines, TemplateLineResponse{
			Heading:    l.Heading,
			Position:   l.Position,
			Expression: l.Expression,
			ForceValue: l.ForceValue,
			Active:     l.Active,
		})
	}
	return ExportTemplateResponse{
		TemplateID: t.TemplateID,
		CompanyID:  t.CompanyID,
		Name:       t.Name,
		Mode:       t.Mode,
		IsDefault:  t.IsDefault,
		Lines:      lines,
		CreatedAt:  t.CreatedAt,
		CreatedBy:  t.CreatedBy,
	}
}

// ImportMappingRequest defines one column mapping of an import template.
type ImportMappingRequest struct {
	Heading    string                 `json:"heading" binding:"required"`
	FieldType  domain.ImportFieldType `json:"fieldType" binding:"required"`
	ValueKind  domain.ImportValueKind `json:"valueKind"`
	Padding    int                    `json:"padding"`
	DateFormat string                 `json:"dateFormat"`
	Required   bool                   `json:"required"`
	Skip       bool                   `json:"skip"`
}

// CreateImportTemplateRequest defines the data needed to create an import
// template.
type CreateImportTemplateRequest struct {
	CompanyID              string                 `json:"companyID" binding:"required"`
	Name                   string                 `json:"name" binding:"required"`
	Delimiter              string                 `json:"delimiter"`
	QuoteChar              string                 `json:"quoteChar"`
	Encoding               string                 `json:"encoding"`
	HeaderRow              int                    `json:"headerRow"`
	RemoveFileHeader       bool                   `json:"removeFileHeader"`
	PostMoves              bool                   `json:"postMoves"`
	AutoReconcile          bool                   `json:"autoReconcile"`
	IgnoreIncompleteMoves  bool                   `json:"ignoreIncompleteMoves"`
	DiscountAccountIncome  string                 `json:"discountAccountIncomeID"`
	DiscountAccountExpense string                 `json:"discountAccountExpenseID"`
	Mappings               []ImportMappingRequest `json:"mappings"`
}

// UpdateImportTemplateRequest defines the data allowed for updating an import
// template. Mappings always replace the existing set when provided.
type UpdateImportTemplateRequest struct {
	Name                   *string                `json:"name"`
	Delimiter              *string                `json:"delimiter"`
	QuoteChar              *string                `json:"quoteChar"`
	Encoding               *string                `json:"encoding"`
	HeaderRow              *int                   `json:"headerRow"`
	RemoveFileHeader       *bool                  `json:"removeFileHeader"`
	PostMoves              *bool                  `json:"postMoves"`
	AutoReconcile          *bool                  `json:"autoReconcile"`
	IgnoreIncompleteMoves  *bool                  `json:"ignoreIncompleteMoves"`
	DiscountAccountIncome  *string                `json:"discountAccountIncomeID"`
	DiscountAccountExpense *string                `json:"discountAccountExpenseID"`
	Mappings               []ImportMappingRequest `json:"mappings"`
}

// ImportTemplateResponse defines the data returned for an import template.
type ImportTemplateResponse struct {
	TemplateID             string                  `json:"templateID"`
	CompanyID              string                  `json:"companyID"`
	Name                   string                  `json:"name"`
	Delimiter              string                  `json:"delimiter"`
	QuoteChar              string                  `json:"quoteChar"`
	Encoding               string                  `json:"encoding"`
	HeaderRow              int                     `json:"headerRow"`
	RemoveFileHeader       bool                    `json:"removeFileHeader"`
	PostMoves              bool                    `json:"postMoves"`
	AutoReconcile          bool                    `json:"autoReconcile"`
	IgnoreIncompleteMoves  bool                    `json:"ignoreIncompleteMoves"`
	DiscountAccountIncome  string                  `json:"discountAccountIncomeID"`
	DiscountAccountExpense string                  `json:"discountAccountExpenseID"`
	Mappings               []ImportMappingResponse `json:"mappings"`
	CreatedAt              time.Time               `json:"createdAt"`
	CreatedBy              string                  `json:"createdBy"`
}

// ImportMappingResponse defines the data returned for one column mapping.
type ImportMappingResponse struct {
	Heading    string                 `json:"heading"`
	FieldType  domain.ImportFieldType `json:"fieldType"`
	ValueKind  domain.ImportValueKind `json:"valueKind"`
	Padding    int                    `json:"padding"`
	DateFormat string                 `json:"dateFormat"`
	Required   bool                   `json:"required"`
	Skip       bool                   `json:"skip"`
}

// ToImportTemplateResponse converts a domain.ImportTemplate to its DTO.
func ToImportTemplateResponse(t *domain.ImportTemplate) ImportTemplateResponse {
	mappings := make([]ImportMappingResponse, 0, len(t.Mappings))
	for _, m := range t.Mappings {
		mappings = append(mappings, ImportMappingResponse{
			Heading:    m.Heading,
			FieldType:  m.FieldType,
			ValueKind:  m.ValueKind,
			Padding:    m.Padding,
			DateFormat: m.DateFormat,
			Required:   m.Required,
			Skip:       m.Skip,
		})
	}
	return ImportTemplateResponse{
		TemplateID:             t.TemplateID,
		CompanyID:              t.CompanyID,
		Name:                   t.Name,
		Delimiter:              t.Delimiter,
		QuoteChar:              t.QuoteChar,
		Encoding:               t.Encoding,
		HeaderRow:              t.HeaderRow,
		RemoveFileHeader:       t.RemoveFileHeader,
		PostMoves:              t.PostMoves,
		AutoReconcile:          t.AutoReconcile,
		IgnoreIncompleteMoves:  t.IgnoreIncompleteMoves,
		DiscountAccountIncome:  t.DiscountAccountIncomeID,
		DiscountAccountExpense: t.DiscountAccountExpenseID,
		Mappings:               mappings,
		CreatedAt:              t.CreatedAt,
		CreatedBy:              t.CreatedBy,
	}
}
