package domain

// ImportFieldType names the semantic role a file column plays during import.
type ImportFieldType string

const (
	FieldAmount         ImportFieldType = "amount"
	FieldBaseAmount     ImportFieldType = "base_amount"
	FieldMoveSign       ImportFieldType = "move_sign"
	FieldAccount        ImportFieldType = "account"
	FieldCounterAccount ImportFieldType = "counteraccount"
	FieldMoveDate       ImportFieldType = "move_date"
	FieldMoveName       ImportFieldType = "move_name"
	FieldMoveRef        ImportFieldType = "move_ref"
	FieldTaxKey         ImportFieldType = "tax_key"
	FieldCurrency       ImportFieldType = "currency"
	FieldGUID           ImportFieldType = "guid"
	FieldCost1          ImportFieldType = "cost1"
	FieldCost2          ImportFieldType = "cost2"
	FieldDiscountAmount ImportFieldType = "discount_amount"
	FieldSkip           ImportFieldType = "skip"
)

// ImportValueKind is the parse rule applied to a column's raw text.
type ImportValueKind string

const (
	ValueChar    ImportValueKind = "char"
	ValueDecimal ImportValueKind = "decimal"
	ValueDate    ImportValueKind = "date"
)

// ImportFieldMapping binds one heading of the import file to a field type.
type ImportFieldMapping struct {
	MappingID  string          `json:"mappingID"` // Primary Key (UUID)
	TemplateID string          `json:"templateID"`
	Heading    string          `json:"heading"` // column heading in the file
	FieldType  ImportFieldType `json:"fieldType"`
	ValueKind  ImportValueKind `json:"valueKind"`

	// Padding left-pads numeric lookups with zeros to this width.
	Padding int `json:"padding"`

	// DateFormat is the Go reference layout for date columns, e.g. "0201".
	DateFormat string `json:"dateFormat"`

	Required bool `json:"required"`
	Skip     bool `json:"skip"`
}

// ImportTemplate describes the shape of an uploaded booking file and how its
// columns map onto booking fields.
type ImportTemplate struct {
	TemplateID string `json:"templateID"` // Primary Key (UUID)
	CompanyID  string `json:"companyID"`
	Name       string `json:"name"`

	Delimiter        string `json:"delimiter"` // single rune, e.g. ";"
	QuoteChar        string `json:"quoteChar"`
	Encoding         string `json:"encoding"`         // "latin1" or "utf8"
	HeaderRow        int    `json:"headerRow"`        // 1-based row carrying the column headings
	RemoveFileHeader bool   `json:"removeFileHeader"` // drop the EXTF preamble line

	// PostMoves books created entries immediately after import.
	PostMoves bool `json:"postMoves"`

	// AutoReconcile matches created entries against open items by ref.
	AutoReconcile bool `json:"autoReconcile"`

	// Discount accounts are required when AutoReconcile is on.
	DiscountAccountIncomeID  string `json:"discountAccountIncomeID"`
	DiscountAccountExpenseID string `json:"discountAccountExpenseID"`

	// IgnoreIncompleteMoves drops rows without resolvable accounts instead
	// of failing the run.
	IgnoreIncompleteMoves bool `json:"ignoreIncompleteMoves"`

	Mappings []ImportFieldMapping `json:"mappings"`
	AuditFields
}

// MappingFor returns the mapping for a given heading.
func (t ImportTemplate) MappingFor(heading string) (ImportFieldMapping, bool) {
	for _, m := range t.Mappings {
		if m.Heading == heading {
			return m, true
		}
	}
	return ImportFieldMapping{}, false
}
