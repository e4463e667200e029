package domain

// AccountType mirrors the ledger chart taxonomy used by the booking engine.
type AccountType string

const (
	AssetReceivable     AccountType = "asset_receivable"
	AssetCash           AccountType = "asset_cash"
	AssetCurrent        AccountType = "asset_current"
	AssetNonCurrent     AccountType = "asset_non_current"
	AssetPrepayments    AccountType = "asset_prepayments"
	AssetFixed          AccountType = "asset_fixed"
	LiabilityPayable    AccountType = "liability_payable"
	LiabilityCreditCard AccountType = "liability_credit_card"
	LiabilityCurrent    AccountType = "liability_current"
	LiabilityNonCurrent AccountType = "liability_non_current"
	Equity              AccountType = "equity"
	EquityUnaffected    AccountType = "equity_unaffected"
	Income              AccountType = "income"
	IncomeOther         AccountType = "income_other"
	Expense             AccountType = "expense"
	ExpenseDepreciation AccountType = "expense_depreciation"
	ExpenseDirectCost   AccountType = "expense_direct_cost"
	OffBalance          AccountType = "off_balance"
)

// IsReceivable reports whether the type is a customer receivable.
func (t AccountType) IsReceivable() bool { return t == AssetReceivable }

// IsPayable reports whether the type is a supplier payable.
func (t AccountType) IsPayable() bool { return t == LiabilityPayable }

// IsReceivableOrPayable reports whether the type is an open-item type.
func (t AccountType) IsReceivableOrPayable() bool {
	return t == AssetReceivable || t == LiabilityPayable
}

// IsCostAccount reports whether the type is a profit-and-loss type that can
// carry cost centers and taxes during import.
func (t AccountType) IsCostAccount() bool {
	switch t {
	case Income, IncomeOther, Expense, ExpenseDepreciation, ExpenseDirectCost:
		return true
	}
	return false
}

// AllowsTax reports whether a booking on this account type may carry a tax.
func (t AccountType) AllowsTax() bool {
	switch t {
	case AssetReceivable, AssetCash, LiabilityPayable, LiabilityCreditCard,
		LiabilityCurrent, LiabilityNonCurrent, Equity, EquityUnaffected, OffBalance:
		return false
	}
	return true
}

// Account represents a ledger account within the core domain.
type Account struct {
	AccountID   string      `json:"accountID"` // Primary Key (UUID)
	CompanyID   string      `json:"companyID"`
	Code        string      `json:"code"` // numeric ledger code, zero padded
	Name        string      `json:"name"`
	AccountType AccountType `json:"accountType"`

	// Automatic accounts carry a fixed tax treatment in the target system.
	// Bookings on them must not transport a tax key of their own.
	Automatic bool `json:"automatic"`

	// AutomaticTaxIDs is the allow-list of taxes that may appear on an
	// automatic account. On import the price-included member supplies the
	// implicit tax.
	AutomaticTaxIDs []string `json:"automaticTaxIDs"`

	// NoTax marks an automatic account that books without tax despite its
	// automatic flag.
	NoTax bool `json:"noTax"`

	// VATIDRequired marks accounts (EU deliveries) whose bookings need the
	// partner VAT id in the export.
	VATIDRequired bool `json:"vatIDRequired"`

	// DiverseAccount marks collective debtor/creditor accounts in master
	// data exports.
	DiverseAccount bool `json:"diverseAccount"`

	IsActive bool `json:"isActive"`
	AuditFields
}
