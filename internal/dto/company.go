package dto

import (
	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
)

// UpdateExportConfigRequest defines the data allowed for updating a company's
// export configuration. Use pointers to distinguish zero-value updates from
// fields not provided.
type UpdateExportConfigRequest struct {
	AccountantNumber    *string                   `json:"accountantNumber"`
	ClientNumber        *string                   `json:"clientNumber"`
	ExportMethod        *domain.ExportMethod      `json:"exportMethod"`
	VoucherDateFormat   *string                   `json:"voucherDateFormat"`
	AccountCodeLength   *int                      `json:"accountCodeLength"`
	RemoveLeadingZeros  *bool                     `json:"removeLeadingZeros"`
	GroupLines          *bool                     `json:"groupLines"`
	UseDocumentLink     *bool                     `json:"useDocumentLink"`
	ExportRefAsName     *bool                     `json:"exportRefAsName"`
	FiscalYearLastMonth *int                      `json:"fiscalYearLastMonth"`
	BookingTextSource   *domain.BookingTextSource `json:"bookingTextSource"`
	Locked              *bool                     `json:"locked"`
	XMLMode             *string                   `json:"xmlMode" binding:"omitempty,oneof=standard extended bedi"`
}

// CompanyResponse defines the data returned for a company.
type CompanyResponse struct {
	CompanyID    string              `json:"companyID"`
	Name         string              `json:"name"`
	CurrencyCode string              `json:"currencyCode"`
	CountryCode  string              `json:"countryCode"`
	VATID        string              `json:"vatID"`
	Export       domain.ExportConfig `json:"export"`
}

// ToCompanyResponse converts a domain.Company to CompanyResponse DTO.
func ToCompanyResponse(c *domain.Company) CompanyResponse {
	return CompanyResponse{
		CompanyID:    c.CompanyID,
		Name:         c.Name,
		CurrencyCode: c.CurrencyCode,
		CountryCode:  c.CountryCode,
		VATID:        c.VATID,
		Export:       c.Export,
	}
}
