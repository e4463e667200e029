// Package xmldoc builds the document export: one XML file per invoice, a
// documents.xml catalogue and the zip container that carries them together
// with the invoice PDFs.
package xmldoc

import (
	"encoding/xml"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
	"github.com/Finterra/ledger_exchange_app/internal/datev"
)

// Mode selects how much accounting detail the invoice documents carry.
type Mode string

const (
	ModeStandard Mode = "standard"
	ModeExtended Mode = "extended"
	ModeBEDI     Mode = "bedi" // PDF-only transfer referenced by document GUID
)

const (
	invoiceNS      = "http://xml.datev.de/bedi/tps/invoice/v050"
	invoiceSchema  = invoiceNS + " Belegverwaltung_online_invoice_v050.xsd"
	xsiNS          = "http://www.w3.org/2001/XMLSchema-instance"
	documentNS     = "http://xml.datev.de/bedi/tps/document/v05.0"
	documentSchema = documentNS + " document_v050.xsd"
)

// InvoiceDocument is the root element of one invoice XML file.
type InvoiceDocument struct {
	XMLName        xml.Name `xml:"invoice"`
	XMLNS          string   `xml:"xmlns,attr"`
	XMLNSXSI       string   `xml:"xmlns:xsi,attr"`
	SchemaLocation string   `xml:"xsi:schemaLocation,attr"`

	GeneratorInfo    string `xml:"generator_info,attr"`
	GeneratingSystem string `xml:"generating_system,attr"`
	Description      string `xml:"description,attr"`
	Version          string `xml:"version,attr"`
	XMLData          string `xml:"xml_data,attr"`

	InvoiceInfo       InvoiceInfo       `xml:"invoice_info"`
	AccountingInfo    *AccountingInfo   `xml:"accounting_info,omitempty"`
	InvoiceParty      Party             `xml:"invoice_party"`
	SupplierParty     Party             `xml:"supplier_party"`
	PaymentConditions *PaymentCondition `xml:"payment_conditions,omitempty"`
	Items             []InvoiceItem     `xml:"invoice_item_list"`
	TotalAmount       TotalAmount       `xml:"total_amount"`
	Footer            *Footer           `xml:"additional_info_footer,omitempty"`
}

type InvoiceInfo struct {
	InvoiceDate  string `xml:"invoice_date,attr,omitempty"`
	InvoiceType  string `xml:"invoice_type,attr,omitempty"`
	InvoiceID    string `xml:"invoice_id,attr,omitempty"`
	DeliveryDate string `xml:"delivery_date,attr,omitempty"`
	OrderID      string `xml:"order_id,attr,omitempty"`
}

type AccountingInfo struct {
	BookingText string `xml:"booking_text,attr,omitempty"`
}

type Party struct {
	VATID       string        `xml:"vat_id,attr,omitempty"`
	Address     *PartyAddress `xml:"address,omitempty"`
	Account     *PartyAccount `xml:"account,omitempty"`
	BookingInfo *BookingInfo  `xml:"booking_info_bp,omitempty"`
}

type PartyAddress struct {
	Name    string `xml:"name,attr,omitempty"`
	Street  string `xml:"street,attr,omitempty"`
	Zip     string `xml:"zip,attr,omitempty"`
	City    string `xml:"city,attr,omitempty"`
	Country string `xml:"country,attr,omitempty"`
	Phone   string `xml:"phone,attr,omitempty"`
	PartyID string `xml:"party_id,attr,omitempty"`
}

type PartyAccount struct {
	IBAN      string `xml:"iban,attr,omitempty"`
	SwiftCode string `xml:"swiftcode,attr,omitempty"`
	BankName  string `xml:"bank_name,attr,omitempty"`
}

type BookingInfo struct {
	AccountNo string `xml:"bp_account_no,attr,omitempty"`
}

type PaymentCondition struct {
	Currency string `xml:"currency,attr,omitempty"`
	DueDate  string `xml:"due_date,attr,omitempty"`
	Text     string `xml:"payment_conditions_text,attr,omitempty"`
	ID       string `xml:"payment_conditions_id,attr,omitempty"`
}

type InvoiceItem struct {
	DescriptionShort string              `xml:"description_short,attr,omitempty"`
	Quantity         string              `xml:"quantity,attr,omitempty"`
	PriceLineAmount  PriceLineAmount     `xml:"price_line_amount"`
	AccountingInfo   *ItemAccountingInfo `xml:"accounting_info,omitempty"`
}

type PriceLineAmount struct {
	Tax       string `xml:"tax,attr,omitempty"`
	TaxAmount string `xml:"tax_amount,attr,omitempty"`
	Gross     string `xml:"gross_price_line_amount,attr,omitempty"`
	Net       string `xml:"net_price_line_amount,attr,omitempty"`
	Currency  string `xml:"currency,attr,omitempty"`
}

type ItemAccountingInfo struct {
	AccountNo     string `xml:"account_no,attr,omitempty"`
	BUCode        string `xml:"bu_code,attr,omitempty"`
	ExchangeRate  string `xml:"exchange_rate,attr,omitempty"`
	BookingText   string `xml:"booking_text,attr,omitempty"`
	CostCategory1 string `xml:"cost_category_id,attr,omitempty"`
	CostCategory2 string `xml:"cost_category_id2,attr,omitempty"`
}

type TotalAmount struct {
	TotalGross string    `xml:"total_gross_amount_excluding_third-party_collection,attr"`
	NetTotal   string    `xml:"net_total_amount,attr,omitempty"`
	Currency   string    `xml:"currency,attr,omitempty"`
	TaxLines   []TaxLine `xml:"tax_line"`
}

type TaxLine struct {
	Tax       string `xml:"tax,attr"`
	Currency  string `xml:"currency,attr,omitempty"`
	Net       string `xml:"net_price_line_amount,attr,omitempty"`
	Gross     string `xml:"gross_price_line_amount,attr,omitempty"`
	TaxAmount string `xml:"tax_amount,attr,omitempty"`
}

type Footer struct {
	Type    string `xml:"type,attr"`
	Content string `xml:"content,attr"`
}

// ApplyFunc runs field transforms of the export template over a rendered
// value. A nil func leaves values untouched.
type ApplyFunc func(key, value string) string

// BuildInput collects everything needed to render one invoice document.
type BuildInput struct {
	Move           domain.Move
	Partner        domain.Partner // commercial partner of the invoice
	CompanyPartner domain.Partner // own company as a party
	Bank           *domain.PartnerBank
	Mode           Mode
	Apply          ApplyFunc

	AccountByID    func(id string) *domain.Account
	TaxByID        func(id string) *domain.Tax
	CostCenterByID func(id string) *domain.CostCenter

	GroupLines       bool // merge invoice lines with matching account, tax and cost data
	AnalyticAccounts bool // carry cost center references into the items
}

func (in BuildInput) apply(key, value string) string {
	if in.Apply == nil {
		return value
	}
	return in.Apply(key, value)
}

func (in BuildInput) account(id string) *domain.Account {
	if id == "" || in.AccountByID == nil {
		return nil
	}
	return in.AccountByID(id)
}

func (in BuildInput) tax(id string) *domain.Tax {
	if id == "" || in.TaxByID == nil {
		return nil
	}
	return in.TaxByID(id)
}

func amount2(d decimal.Decimal) string { return d.StringFixed(2) }

// BuildInvoice renders the invoice document tree for one move.
func BuildInvoice(in BuildInput) (*InvoiceDocument, error) {
	if !in.Move.MoveType.IsInvoice() {
		return nil, fmt.Errorf("move %s: type %s is not an invoice", in.Move.Name, in.Move.MoveType)
	}
	doc := &InvoiceDocument{
		XMLNS:            invoiceNS,
		XMLNSXSI:         xsiNS,
		SchemaLocation:   invoiceSchema,
		GeneratorInfo:    "Finterra Ledger Exchange",
		GeneratingSystem: "Ledger-Exchange Software",
		Description:      "DATEV Import invoices",
		Version:          "5.0",
		XMLData:          "Kopie nur zur Verbuchung berechtigt nicht zum Vorsteuerabzug",
	}
	doc.InvoiceInfo = buildInvoiceInfo(in)
	if in.Mode == ModeExtended {
		doc.AccountingInfo = &AccountingInfo{BookingText: in.apply("booking_text", bookingTextFor(in.Move.MoveType))}
	}
	doc.InvoiceParty = buildParty(in, true)
	doc.SupplierParty = buildParty(in, false)
	if in.Mode == ModeExtended && !in.Move.InvoiceDateDue.IsZero() {
		doc.PaymentConditions = buildPaymentConditions(in)
	}
	doc.Items = buildItems(in)
	doc.TotalAmount = buildTotalAmount(in)
	if in.Move.Narration != "" {
		doc.Footer = &Footer{
			Type:    in.apply("type", "text"),
			Content: in.apply("content", datev.CleanString(in.Move.Narration, 60)),
		}
	}
	return doc, nil
}

// Marshal renders the document with XML declaration and indentation.
func (d *InvoiceDocument) Marshal() ([]byte, error) {
	body, err := xml.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal invoice document: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

func bookingTextFor(t domain.MoveType) string {
	switch t {
	case domain.MoveOutInvoice:
		return "Erlöse"
	case domain.MoveOutRefund:
		return "Gutschrift Erlöse"
	case domain.MoveInInvoice:
		return "Aufwand"
	case domain.MoveInRefund:
		return "Gutschrift Aufwand"
	}
	return ""
}

func buildInvoiceInfo(in BuildInput) InvoiceInfo {
	m := in.Move
	info := InvoiceInfo{
		InvoiceID:    in.apply("invoice_id", datev.CleanString(invoiceRef(m), 36)),
		DeliveryDate: in.apply("delivery_date", m.Date.Format("2006-01-02")),
	}
	if !m.InvoiceDate.IsZero() {
		info.InvoiceDate = in.apply("invoice_date", m.InvoiceDate.Format("2006-01-02"))
	}
	switch m.MoveType {
	case domain.MoveOutInvoice, domain.MoveInInvoice:
		info.InvoiceType = in.apply("invoice_type", "Rechnung")
	case domain.MoveOutRefund, domain.MoveInRefund:
		info.InvoiceType = in.apply("invoice_type", "Gutschrift/Rechnungskorrektur")
	}
	if order := in.apply("order_id", ""); order != "" {
		info.OrderID = order
	}
	return info
}

func invoiceRef(m domain.Move) string {
	if m.Ref != "" {
		return m.Ref
	}
	return m.Name
}

func (in BuildInput) isOutgoing() bool {
	return in.Move.MoveType == domain.MoveOutInvoice || in.Move.MoveType == domain.MoveOutRefund
}

func buildParty(in BuildInput, invoiceSide bool) Party {
	// The invoice party is the customer on outgoing invoices and our own
	// company on incoming ones; the supplier party is the mirror image.
	partner := in.Partner
	withBooking := invoiceSide == in.isOutgoing()
	if !withBooking {
		partner = in.CompanyPartner
	}
	party := Party{}
	if country, _ := partner.EUVAT(); country != "" {
		party.VATID = in.apply("vat_id", partner.VAT)
	}
	party.Address = buildAddress(in, partner, invoiceSide)
	if in.Mode == ModeExtended && withBooking {
		if in.Bank != nil && in.Bank.IBAN != "" && in.Bank.BankName != "" {
			party.Account = &PartyAccount{
				IBAN:      in.apply("iban", in.Bank.IBAN),
				SwiftCode: in.apply("swiftcode", in.Bank.SWIFT),
				BankName:  in.apply("bank_name", datev.CleanString(in.Bank.BankName, 27)),
			}
		}
		code := partner.DebtorNumber
		fallback := in.account(partner.ReceivableAccountID)
		if !invoiceSide {
			code = partner.CreditorNumber
			fallback = in.account(partner.PayableAccountID)
		}
		if code == "" && fallback != nil {
			code = fallback.Code
		}
		party.BookingInfo = &BookingInfo{AccountNo: in.apply("bp_account_no", code)}
		if !invoiceSide && party.Address != nil {
			party.Address.PartyID = in.apply("party_id", code)
		}
	}
	return party
}

func buildAddress(in BuildInput, p domain.Partner, checkForRef bool) *PartyAddress {
	addr := &PartyAddress{
		Name:    in.apply("name", datev.CleanString(p.Name, 50)),
		Street:  in.apply("street", datev.CleanString(p.Street, 40)),
		Zip:     in.apply("zip", p.Zip),
		City:    in.apply("city", p.City),
		Country: in.apply("country", p.CountryCode),
	}
	if in.Mode == ModeExtended {
		if p.Phone != "" {
			addr.Phone = in.apply("phone", datev.CleanString(p.Phone, 20))
		}
		if p.Ref != "" && (!checkForRef || p.Ref != p.CustomerNumber) {
			addr.PartyID = in.apply("party_id", datev.CleanString(p.Ref, 15))
		}
	}
	return addr
}

func buildPaymentConditions(in BuildInput) *PaymentCondition {
	m := in.Move
	cond := &PaymentCondition{
		Currency: in.apply("currency", currencyOrDefault(m.CurrencyCode)),
		DueDate:  in.apply("due_date", m.InvoiceDateDue.Format("2006-01-02")),
	}
	code := in.Partner.CustomerPaymentConditionCode
	if !in.isOutgoing() {
		code = in.Partner.SupplierPaymentConditionCode
	}
	if code != "" {
		cond.ID = in.apply("payment_conditions_id", code)
	}
	return cond
}

func currencyOrDefault(code string) string {
	if code == "" {
		return "EUR"
	}
	return code
}

func refundSign(t domain.MoveType) decimal.Decimal {
	if t == domain.MoveOutRefund || t == domain.MoveInRefund {
		return decimal.NewFromInt(-1)
	}
	return decimal.NewFromInt(1)
}

// item carries the pre-rendered values of one invoice_item_list entry so
// matching lines can be merged before serialization.
type item struct {
	description string
	quantity    decimal.Decimal
	taxRate     decimal.Decimal
	taxAmount   decimal.Decimal
	hasTax      bool
	gross       decimal.Decimal
	net         decimal.Decimal
	currency    string
	accounting  *ItemAccountingInfo
}

func (it item) matches(other item) bool {
	if !it.taxRate.Equal(other.taxRate) {
		return false
	}
	a, b := it.accounting, other.accounting
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	return a.AccountNo == b.AccountNo &&
		a.CostCategory1 == b.CostCategory1 &&
		a.CostCategory2 == b.CostCategory2 &&
		a.BUCode == b.BUCode
}

func buildItems(in BuildInput) []InvoiceItem {
	var items []item
	for _, line := range in.Move.InvoiceLines() {
		items = append(items, buildItem(in, line))
	}
	if in.GroupLines && in.Mode == ModeExtended {
		items = groupItems(in, items)
	}
	items = balanceItems(in, items)

	out := make([]InvoiceItem, 0, len(items))
	for _, it := range items {
		entry := InvoiceItem{
			DescriptionShort: in.apply("description_short", it.description),
			Quantity:         in.apply("quantity", it.quantity.String()),
			PriceLineAmount:  PriceLineAmount{Tax: it.taxRate.StringFixed(2)},
			AccountingInfo:   it.accounting,
		}
		if in.Mode == ModeExtended {
			if it.hasTax {
				entry.PriceLineAmount.TaxAmount = amount2(it.taxAmount)
			}
			entry.PriceLineAmount.Gross = amount2(it.gross)
			entry.PriceLineAmount.Net = amount2(it.net)
			entry.PriceLineAmount.Currency = it.currency
		}
		out = append(out, entry)
	}
	return out
}

func buildItem(in BuildInput, line domain.MoveLine) item {
	name := line.Name
	if name == "" {
		name = "Description"
	}
	it := item{
		description: datev.CleanString(name, 40),
		quantity:    line.Quantity,
	}
	if it.quantity.IsZero() {
		it.quantity = decimal.NewFromInt(1)
	}
	var lineTax *domain.Tax
	if len(line.TaxIDs) > 0 {
		lineTax = in.tax(line.TaxIDs[0])
	}
	if lineTax != nil {
		it.taxRate = lineTax.Amount
	}
	if in.Mode != ModeExtended {
		return it
	}
	sign := refundSign(in.Move.MoveType)
	taxAmount := line.PriceTotal.Sub(line.PriceSubtotal).Round(2)
	if !taxAmount.IsZero() {
		it.taxAmount = taxAmount.Mul(sign)
		it.hasTax = true
	}
	it.gross = line.PriceTotal.Mul(sign)
	it.net = line.PriceSubtotal.Mul(sign)
	it.currency = currencyOrDefault(line.CurrencyCode)

	acc := &ItemAccountingInfo{}
	account := in.account(line.AccountID)
	if account != nil {
		acc.AccountNo = datev.StripLeadingZeros(account.Code, true)
	}
	if line.CurrencyCode != "" && !line.AmountCurrency.IsZero() && !line.Balance().IsZero() {
		rate, _ := line.AmountCurrency.Div(line.Balance()).Round(4).Float64()
		acc.ExchangeRate = fmt.Sprintf("%.4f00", rate)
	}
	acc.BookingText = datev.CleanString(in.apply("booking_text", name), 60)
	if account != nil && !account.Automatic && lineTax != nil && lineTax.TaxKey != "" && lineTax.TaxKey != "0" {
		acc.BUCode = lineTax.TaxKey
	}
	if in.AnalyticAccounts && in.CostCenterByID != nil {
		if cc := in.costCenter(line.CostCenter1ID); cc != "" {
			acc.CostCategory1 = datev.CleanString(in.apply("cost_category_id", cc), 36)
		}
		if cc := in.costCenter(line.CostCenter2ID); cc != "" {
			acc.CostCategory2 = datev.CleanString(in.apply("cost_category_id2", cc), 36)
		}
	}
	it.accounting = acc
	return it
}

func (in BuildInput) costCenter(id string) string {
	if id == "" {
		return ""
	}
	cc := in.CostCenterByID(id)
	if cc == nil {
		return ""
	}
	if cc.Code != "" {
		return cc.Code
	}
	return cc.Name
}

// groupItems merges lines that book to the same account with the same tax
// and cost data into one position, recomputing the gross from the summed net.
func groupItems(in BuildInput, items []item) []item {
	var grouped []item
	for _, it := range items {
		merged := false
		for i := range grouped {
			if !grouped[i].matches(it) {
				continue
			}
			grouped[i].description = "Grouped Invoice Line"
			grouped[i].net = grouped[i].net.Add(it.net)
			grouped[i].gross = grouped[i].gross.Add(it.gross)
			if it.hasTax {
				grouped[i].taxAmount = grouped[i].taxAmount.Add(it.taxAmount)
				grouped[i].hasTax = true
			}
			merged = true
			break
		}
		if !merged {
			grouped = append(grouped, it)
		}
	}
	out := grouped[:0]
	for _, it := range grouped {
		if it.net.IsZero() {
			continue
		}
		it.quantity = decimal.NewFromInt(1)
		if it.hasTax {
			hundred := decimal.NewFromInt(100)
			it.gross = it.net.Mul(hundred.Add(it.taxRate)).Div(hundred).Round(2)
			it.taxAmount = it.gross.Sub(it.net)
			if it.taxAmount.Round(2).IsZero() {
				it.hasTax = false
				it.taxAmount = decimal.Zero
			}
		}
		out = append(out, it)
	}
	return out
}

// balanceItems pushes any rounding difference between the summed item gross
// amounts and the invoice total into the last item.
func balanceItems(in BuildInput, items []item) []item {
	if len(items) == 0 || in.Mode != ModeExtended {
		return items
	}
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.gross)
	}
	want := in.Move.AmountTotal.Mul(refundSign(in.Move.MoveType))
	diff := total.Sub(want).Round(2)
	if diff.IsZero() {
		return items
	}
	last := &items[len(items)-1]
	if last.hasTax {
		last.taxAmount = last.taxAmount.Sub(diff).Round(2)
	}
	if !last.gross.IsZero() {
		last.gross = last.gross.Sub(diff).Round(2)
	}
	return items
}

func buildTotalAmount(in BuildInput) TotalAmount {
	m := in.Move
	sign := refundSign(m.MoveType)
	total := TotalAmount{
		TotalGross: in.apply("total_gross_amount_excluding_third-party_collection", amount2(m.AmountTotal.Mul(sign))),
		Currency:   in.apply("currency", currencyOrDefault(m.CurrencyCode)),
	}
	if in.Mode == ModeExtended {
		total.NetTotal = in.apply("net_total_amount", amount2(m.AmountUntaxed.Mul(sign)))
	}
	total.TaxLines = buildTaxLines(in)
	if len(total.TaxLines) == 0 {
		total.TaxLines = []TaxLine{{
			Tax:      "0.00",
			Currency: currencyOrDefault(m.CurrencyCode),
		}}
	}
	return total
}

// taxGroup accumulates the per-rate totals over the move's tax lines.
type taxGroup struct {
	rate   decimal.Decimal
	base   decimal.Decimal
	amount decimal.Decimal
}

func buildTaxLines(in BuildInput) []TaxLine {
	m := in.Move
	var groups []*taxGroup
	find := func(rate decimal.Decimal) *taxGroup {
		for _, g := range groups {
			if g.rate.Equal(rate) {
				return g
			}
		}
		g := &taxGroup{rate: rate}
		groups = append(groups, g)
		return g
	}
	for _, line := range m.Lines {
		if line.IsTaxLine() {
			tax := in.tax(line.TaxLineTaxID)
			if tax == nil {
				continue
			}
			g := find(tax.Amount)
			g.amount = g.amount.Add(line.Balance().Abs())
			continue
		}
		if len(line.TaxIDs) == 0 {
			continue
		}
		tax := in.tax(line.TaxIDs[0])
		if tax == nil {
			continue
		}
		g := find(tax.Amount)
		g.base = g.base.Add(line.Balance().Neg())
	}

	sign := refundSign(m.MoveType)
	out := make([]TaxLine, 0, len(groups))
	for _, g := range groups {
		line := TaxLine{
			Tax:      g.rate.StringFixed(2),
			Currency: currencyOrDefault(m.CurrencyCode),
		}
		if in.Mode == ModeExtended {
			base := g.base.Abs().Mul(sign)
			line.Net = amount2(base)
			line.Gross = amount2(base.Add(g.amount.Mul(sign)))
			if g.amount.IsPositive() {
				line.TaxAmount = amount2(g.amount.Mul(sign))
			}
		}
		out = append(out, line)
	}
	return out
}
