package domain

import "github.com/shopspring/decimal"

// TaxUse distinguishes sale from purchase taxes.
type TaxUse string

const (
	TaxSale     TaxUse = "sale"
	TaxPurchase TaxUse = "purchase"
)

// Tax represents a percentage tax as used in bookings.
type Tax struct {
	TaxID     string `json:"taxID"` // Primary Key (UUID)
	CompanyID string `json:"companyID"`
	Name      string `json:"name"`
	TaxUse    TaxUse `json:"taxUse"`

	// Amount is the percentage, e.g. 19 for 19%.
	Amount decimal.Decimal `json:"amount"`

	// PriceInclude marks taxes whose base amounts are entered gross.
	PriceInclude bool `json:"priceInclude"`

	// TaxKey is the posting key transported in booking exports and imports
	// (BU-Schlüssel). Empty for taxes without a key.
	TaxKey string `json:"taxKey"`

	// CaseKey is the substitute legal-case key used when no posting key
	// applies (Sachverhalt, e.g. "40").
	CaseKey string `json:"caseKey"`

	// EUCountryCode marks intra-community taxes and feeds the EU member
	// state column together with the tax rate.
	EUCountryCode string `json:"euCountryCode"`

	// TaxAccountID receives the computed tax amount on imported bookings.
	TaxAccountID string `json:"taxAccountID"`

	// DiscountAccountID books cash discounts granted under this tax.
	DiscountAccountID string `json:"discountAccountID"`
	AuditFields
}

// TaxComputation is the result of applying a tax to an amount.
type TaxComputation struct {
	TotalExcluded decimal.Decimal // base without tax
	TotalIncluded decimal.Decimal // base plus tax
	TaxAmount     decimal.Decimal
}

// ComputeAll applies the tax to amount using banker's rounding at two
// decimals. For price-included taxes the amount is treated as gross and the
// tax is carved out; otherwise the tax is added on top.
func (t Tax) ComputeAll(amount decimal.Decimal) TaxComputation {
	hundred := decimal.NewFromInt(100)
	if t.PriceInclude {
		base := amount.Mul(hundred).Div(hundred.Add(t.Amount)).RoundBank(2)
		return TaxComputation{
			TotalExcluded: base,
			TotalIncluded: amount,
			TaxAmount:     amount.Sub(base),
		}
	}
	tax := amount.Mul(t.Amount).Div(hundred).RoundBank(2)
	return TaxComputation{
		TotalExcluded: amount,
		TotalIncluded: amount.Add(tax),
		TaxAmount:     tax,
	}
}
