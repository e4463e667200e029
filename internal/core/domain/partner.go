package domain

// PartnerBank holds one bank connection of a partner.
type PartnerBank struct {
	BankName      string `json:"bankName"`
	IBAN          string `json:"iban"`
	SWIFT         string `json:"swift"`
	AccountNumber string `json:"accountNumber"` // domestic account number when no IBAN
	BankCode      string `json:"bankCode"`
	CountryCode   string `json:"countryCode"`
	AccountHolder string `json:"accountHolder"`
}

// PaymentTermLine describes one step of a payment term (due days and cash
// discount) as carried into master data exports.
type PaymentTermLine struct {
	Days            int    `json:"days"`
	DiscountPercent string `json:"discountPercent"` // rendered with 2 decimals, empty for net terms
}

// PartnerAddress is a secondary address of a partner, such as a dedicated
// invoice address.
type PartnerAddress struct {
	Street      string `json:"street"`
	Street2     string `json:"street2"`
	Zip         string `json:"zip"`
	City        string `json:"city"`
	CountryCode string `json:"countryCode"`
}

// Partner represents a business partner (customer and/or supplier).
type Partner struct {
	PartnerID string `json:"partnerID"` // Primary Key (UUID)
	CompanyID string `json:"companyID"`
	Name      string `json:"name"`
	IsCompany bool   `json:"isCompany"`
	Ref       string `json:"ref"`

	// Subledger numbers. A partner may be debtor, creditor, or both.
	DebtorNumber   string `json:"debtorNumber"`
	CreditorNumber string `json:"creditorNumber"`
	CustomerNumber string `json:"customerNumber"` // partner's number for us as their supplier
	SupplierNumber string `json:"supplierNumber"` // partner's number for us as their customer

	VAT         string `json:"vat"` // VAT id including country prefix
	Street      string `json:"street"`
	Street2     string `json:"street2"`
	Zip         string `json:"zip"`
	City        string `json:"city"`
	CountryCode string `json:"countryCode"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Website     string `json:"website"`
	Industry    string `json:"industry"`
	Title       string `json:"title"`

	Banks []PartnerBank `json:"banks"`

	// Dedicated invoice address, when it differs from the main address.
	InvoiceAddress *PartnerAddress `json:"invoiceAddress,omitempty"`

	// Default open-item accounts for this partner.
	ReceivableAccountID string `json:"receivableAccountID"`
	PayableAccountID    string `json:"payableAccountID"`

	// Payment conditions used in master data exports. The condition codes
	// map the payment terms to the accounting system's condition table.
	CustomerPaymentTerms         []PaymentTermLine `json:"customerPaymentTerms"`
	SupplierPaymentTerms         []PaymentTermLine `json:"supplierPaymentTerms"`
	CustomerPaymentConditionCode string            `json:"customerPaymentConditionCode"`
	SupplierPaymentConditionCode string            `json:"supplierPaymentConditionCode"`

	// Active SEPA direct debit mandate references.
	SEPAMandateRefs []string `json:"sepaMandateRefs"`

	Exported bool `json:"exported"` // master data already transferred
	AuditFields
}

// EUCountryCodes lists the VAT prefixes treated as EU member states.
var EUCountryCodes = map[string]struct{}{
	"AT": {}, "BE": {}, "BG": {}, "CY": {}, "CZ": {}, "DE": {}, "DK": {},
	"EE": {}, "EL": {}, "ES": {}, "FI": {}, "FR": {}, "HR": {}, "HU": {},
	"IE": {}, "IT": {}, "LT": {}, "LU": {}, "LV": {}, "MT": {}, "NL": {},
	"PL": {}, "PT": {}, "RO": {}, "SE": {}, "SI": {}, "SK": {}, "XI": {},
}

// EUVAT splits the partner VAT id into EU country prefix and number. It
// returns empty strings when the prefix is not an EU member state.
func (p Partner) EUVAT() (country, number string) {
	if len(p.VAT) < 3 {
		return "", ""
	}
	prefix := p.VAT[:2]
	if _, ok := EUCountryCodes[prefix]; !ok {
		return "", ""
	}
	return prefix, p.VAT[2:]
}
