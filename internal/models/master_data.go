package models

// Company is the companies table row. The export configuration lives in
// dedicated columns so it can be updated atomically.
type Company struct {
	CompanyID    string `db:"company_id"`
	Name         string `db:"name"`
	CurrencyCode string `db:"currency_code"`
	CountryCode  string `db:"country_code"`
	VATID        string `db:"vat_id"`

	AccountantNumber    string `db:"accountant_number"`
	ClientNumber        string `db:"client_number"`
	ExportMethod        string `db:"export_method"`
	VoucherDateFormat   string `db:"voucher_date_format"`
	AccountCodeLength   int    `db:"account_code_length"`
	RemoveLeadingZeros  bool   `db:"remove_leading_zeros"`
	GroupLines          bool   `db:"group_lines"`
	UseDocumentLink     bool   `db:"use_document_link"`
	ExportRefAsName     bool   `db:"export_ref_as_name"`
	FiscalYearLastMonth int    `db:"fiscal_year_last_month"`
	BookingTextSource   string `db:"booking_text_source"`
	Locked              bool   `db:"locked"`
	XMLMode             string `db:"xml_mode"`
	AuditFields
}

// Account is the accounts table row.
type Account struct {
	AccountID       string   `db:"account_id"`
	CompanyID       string   `db:"company_id"`
	Code            string   `db:"code"`
	Name            string   `db:"name"`
	AccountType     string   `db:"account_type"`
	Automatic       bool     `db:"automatic"`
	AutomaticTaxIDs []string `db:"automatic_tax_ids"`
	NoTax           bool     `db:"no_tax"`
	VATIDRequired   bool     `db:"vat_id_required"`
	DiverseAccount  bool     `db:"diverse_account"`
	IsActive        bool     `db:"is_active"`
	AuditFields
}

// Partner is the partners table row. Banks, payment terms, the invoice
// address and mandate references are JSONB documents.
type Partner struct {
	PartnerID string `db:"partner_id"`
	CompanyID string `db:"company_id"`
	Name      string `db:"name"`
	IsCompany bool   `db:"is_company"`
	Ref       string `db:"ref"`

	DebtorNumber   string `db:"debtor_number"`
	CreditorNumber string `db:"creditor_number"`
	CustomerNumber string `db:"customer_number"`
	SupplierNumber string `db:"supplier_number"`

	VAT         string `db:"vat"`
	Street      string `db:"street"`
	Street2     string `db:"street2"`
	Zip         string `db:"zip"`
	City        string `db:"city"`
	CountryCode string `db:"country_code"`
	Phone       string `db:"phone"`
	Email       string `db:"email"`
	Website     string `db:"website"`
	Industry    string `db:"industry"`
	Title       string `db:"title"`

	Banks          []byte `db:"banks"`
	InvoiceAddress []byte `db:"invoice_address"`

	ReceivableAccountID string `db:"receivable_account_id"`
	PayableAccountID    string `db:"payable_account_id"`

	CustomerPaymentTerms         []byte `db:"customer_payment_terms"`
	SupplierPaymentTerms         []byte `db:"supplier_payment_terms"`
	CustomerPaymentConditionCode string `db:"customer_payment_condition_code"`
	SupplierPaymentConditionCode string `db:"supplier_payment_condition_code"`

	SEPAMandateRefs []string `db:"sepa_mandate_refs"`
	Exported        bool     `db:"exported"`
	AuditFields
}
