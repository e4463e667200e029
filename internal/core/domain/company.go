package domain

// ExportMethod selects how booking lines are amounted in exports.
type ExportMethod string

const (
	// ExportMethodNet keeps booking lines at their stored net amounts.
	ExportMethodNet ExportMethod = "net"
	// ExportMethodGross re-adds tax onto base lines so amounts match the
	// gross voucher totals.
	ExportMethodGross ExportMethod = "gross"
)

// Voucher date layouts (Go reference time), e.g. "0201" renders 24.03. as 2403.
const (
	VoucherDateDDMM     = "0201"
	VoucherDateDDMMYYYY = "02012006"
)

// ExportConfig holds the company-level settings that drive export and import
// behaviour. It is threaded explicitly through the engine instead of being
// read from ambient company state.
type ExportConfig struct {
	AccountantNumber    string            `json:"accountantNumber"`    // consultant number in file headers
	ClientNumber        string            `json:"clientNumber"`        // client number in file headers
	ExportMethod        ExportMethod      `json:"exportMethod"`        // net or gross
	VoucherDateFormat   string            `json:"voucherDateFormat"`   // layout for the voucher date, e.g. "0201"
	AccountCodeLength   int               `json:"accountCodeLength"`   // ledger account code length
	RemoveLeadingZeros  bool              `json:"removeLeadingZeros"`  // strip leading zeros from exported account codes
	GroupLines          bool              `json:"groupLines"`          // aggregate booking lines before serialization
	UseDocumentLink     bool              `json:"useDocumentLink"`     // emit document links (BEDI) for attachments
	ExportRefAsName     bool              `json:"exportRefAsName"`     // voucher field 1 carries move ref instead of name
	FiscalYearLastMonth int               `json:"fiscalYearLastMonth"` // 1..12, 12 means calendar years
	BookingTextSource   BookingTextSource `json:"bookingTextSource"`   // fallback when the journal has no sources
	Locked              bool              `json:"locked"`              // mark exported batches as finalized
	XMLMode             string            `json:"xmlMode"`             // standard, extended or bedi
}

// FiscalYearLastMonthOrDefault returns the configured fiscal year end month,
// defaulting to December when unset.
func (c ExportConfig) FiscalYearLastMonthOrDefault() int {
	if c.FiscalYearLastMonth >= 1 && c.FiscalYearLastMonth <= 12 {
		return c.FiscalYearLastMonth
	}
	return 12
}

// Company represents a legal entity whose ledger is exported or imported.
type Company struct {
	CompanyID    string       `json:"companyID"` // Primary Key (UUID)
	Name         string       `json:"name"`
	CurrencyCode string       `json:"currencyCode"` // company (base) currency
	CountryCode  string       `json:"countryCode"`
	VATID        string       `json:"vatID"`
	Export       ExportConfig `json:"export"`
	AuditFields
}
