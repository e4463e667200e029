package services

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
	"github.com/Finterra/ledger_exchange_app/internal/datev"
)

// MoveContext carries the master data resolved for a batch of moves so the
// booking line generation works without further repository round trips.
type MoveContext struct {
	Company     domain.Company
	Journal     domain.Journal
	Accounts    map[string]domain.Account
	Partners    map[string]domain.Partner
	Taxes       map[string]domain.Tax
	CostCenters map[string]domain.CostCenter
	Plans       map[string]domain.CostCenterPlan
}

func (c MoveContext) account(id string) (domain.Account, bool) {
	a, ok := c.Accounts[id]
	return a, ok
}

func (c MoveContext) partner(id string) (domain.Partner, bool) {
	p, ok := c.Partners[id]
	return p, ok
}

func (c MoveContext) tax(id string) (domain.Tax, bool) {
	t, ok := c.Taxes[id]
	return t, ok
}

// ResolveCounterAccount determines the contra account of a move for the
// one-line-per-booking export format. The manual override wins; otherwise
// the journal type drives a cascade of heuristics, ending with the account
// used most often across the move's open-item lines.
func ResolveCounterAccount(ctx MoveContext, move domain.Move) (string, error) {
	if move.CounterAccountID != "" {
		return move.CounterAccountID, nil
	}

	// Bank and cash moves book against the journal's own account.
	if ctx.Journal.Type == domain.JournalBank || ctx.Journal.Type == domain.JournalCash {
		if id := ctx.Journal.DefaultAccountID; id != "" {
			for _, l := range move.Lines {
				if l.AccountID == id {
					return id, nil
				}
			}
		}
	}

	// Invoices book against their open-item line.
	if move.MoveType.IsInvoice() {
		for _, l := range move.Lines {
			if a, ok := ctx.account(l.AccountID); ok && a.AccountType.IsReceivableOrPayable() {
				return l.AccountID, nil
			}
		}
	}
	if move.MoveType == domain.MoveExpenseSheet && ctx.Journal.DefaultAccountID != "" {
		return ctx.Journal.DefaultAccountID, nil
	}

	// Automatic currency revaluations book against the single gain or loss
	// line when there is exactly one.
	if ctx.Journal.Type == domain.JournalGeneral && ctx.Journal.IsExchangeJournal {
		var matches []string
		for _, l := range move.Lines {
			if l.AccountID == ctx.Journal.GainAccountID || l.AccountID == ctx.Journal.LossAccountID {
				matches = append(matches, l.AccountID)
			}
		}
		if len(matches) == 1 {
			return matches[0], nil
		}
	}
	if ctx.Journal.Type == domain.JournalGeneral {
		for _, l := range move.Lines {
			if a, ok := ctx.account(l.AccountID); ok && a.AccountType.IsReceivableOrPayable() {
				return l.AccountID, nil
			}
		}
	}

	// A single debit-only or credit-only line identifies the counterpart,
	// preferring lines that are not generated tax lines.
	var debits, credits, debitsNoTax, creditsNoTax []domain.MoveLine
	for _, l := range move.Lines {
		if l.Debit.IsPositive() {
			debits = append(debits, l)
			if !l.IsTaxLine() {
				debitsNoTax = append(debitsNoTax, l)
			}
		}
		if l.Credit.IsPositive() {
			credits = append(credits, l)
			if !l.IsTaxLine() {
				creditsNoTax = append(creditsNoTax, l)
			}
		}
	}
	switch {
	case len(debits) == 1:
		return debits[0].AccountID, nil
	case len(credits) == 1:
		return credits[0].AccountID, nil
	case len(debitsNoTax) == 1:
		return debitsNoTax[0].AccountID, nil
	case len(creditsNoTax) == 1:
		return creditsNoTax[0].AccountID, nil
	}

	// Fall back to the account appearing most often, counting open-item
	// lines first and all lines only when there are none. Ties go to the
	// lowest account code so the outcome is stable.
	counts := map[string]int{}
	for _, l := range move.Lines {
		if a, ok := ctx.account(l.AccountID); ok && a.AccountType.IsReceivableOrPayable() {
			counts[l.AccountID]++
		}
	}
	if len(counts) == 0 {
		for _, l := range move.Lines {
			counts[l.AccountID]++
		}
	}
	best := ""
	for id, n := range counts {
		if best == "" || n > counts[best] || (n == counts[best] && accountCode(ctx, id) < accountCode(ctx, best)) {
			best = id
		}
	}
	if best == "" {
		return "", fmt.Errorf("move %s: no counterpart account resolvable", move.Name)
	}
	return best, nil
}

func accountCode(ctx MoveContext, id string) string {
	if a, ok := ctx.account(id); ok {
		return a.Code
	}
	return id
}

// CheckMoveLines validates a move against the export rules. A non-empty
// result blocks the export of the whole batch.
func CheckMoveLines(ctx MoveContext, move domain.Move) []string {
	var errs []string
	for _, line := range move.Lines {
		if line.IsTaxLine() {
			continue
		}
		account, _ := ctx.account(line.AccountID)
		lineName := fmt.Sprintf("%s with Label (%s)", account.Code, line.Name)
		if len(line.TaxIDs) > 1 {
			errs = append(errs, fmt.Sprintf("%s has more than one tax account, but allowed is only one.", lineName))
		}
		if account.Automatic {
			if !account.NoTax && len(line.TaxIDs) == 0 {
				errs = append(errs, fmt.Sprintf("%s has an automatic account, but there is no tax set.", lineName))
			} else {
				for _, taxID := range line.TaxIDs {
					if !contains(account.AutomaticTaxIDs, taxID) {
						tax, _ := ctx.tax(taxID)
						errs = append(errs, fmt.Sprintf("%s has an automatic account, but the tax %s is not in the list of the allowed taxes!", lineName, tax.Name))
					}
				}
			}
		}
		if !account.Automatic && len(line.TaxIDs) > 0 {
			if tax, ok := ctx.tax(line.TaxIDs[0]); ok && tax.TaxKey == "" {
				errs = append(errs, fmt.Sprintf("%s has taxes applied, but the tax has no posting key", lineName))
			}
		}
		if account.VATIDRequired {
			partner, _ := ctx.partner(line.PartnerID)
			if partner.VAT == "" {
				errs = append(errs, fmt.Sprintf("%s needs the VAT-ID, but in the Partner %s it is not set", lineName, partner.Name))
			}
		}
	}
	return errs
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// skipLine mirrors the invalid-line rule: generated tax lines are folded into
// their base lines under the gross method, the counterpart line never books
// against itself, and zero lines carry nothing.
func skipLine(ctx MoveContext, line domain.MoveLine, counterAccountID string) bool {
	if ctx.Company.Export.ExportMethod == domain.ExportMethodGross && line.IsTaxLine() {
		return true
	}
	if line.AccountID == counterAccountID {
		return true
	}
	return line.Balance().IsZero()
}

// GenerateBookingLines converts one move into booking rows against its
// resolved counterpart account.
func GenerateBookingLines(ctx MoveContext, move domain.Move) ([]datev.BookingLine, error) {
	counterID, err := ResolveCounterAccount(ctx, move)
	if err != nil {
		return nil, err
	}
	counterAccount, _ := ctx.account(counterID)
	var rows []datev.BookingLine
	for _, line := range move.Lines {
		if skipLine(ctx, line, counterID) {
			continue
		}
		rows = append(rows, generateBookingLine(ctx, move, line, counterAccount))
	}
	return rows, nil
}

func grossUp(total decimal.Decimal, tax domain.Tax) decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	return total.Add(total.Mul(tax.Amount).Div(hundred).RoundBank(2))
}

func generateBookingLine(ctx MoveContext, move domain.Move, line domain.MoveLine, counterAccount domain.Account) datev.BookingLine {
	cfg := ctx.Company.Export
	account, _ := ctx.account(line.AccountID)

	row := datev.BookingLine{Locked: cfg.Locked}

	isCurrDiff := line.CurrencyCode != "" &&
		line.CurrencyCode != ctx.Company.CurrencyCode &&
		!line.AmountCurrency.IsZero()

	total := line.Debit
	if total.IsZero() {
		total = line.Credit
	}
	if isCurrDiff {
		total = line.AmountCurrency.Abs()
	}

	var lineTax *domain.Tax
	if len(line.TaxIDs) > 0 {
		if t, ok := ctx.tax(line.TaxIDs[0]); ok {
			lineTax = &t
		}
	}

	if cfg.ExportMethod == domain.ExportMethodGross {
		if lineTax != nil {
			total = grossUp(total, *lineTax)
			if !account.Automatic {
				row.TaxKey = lineTax.TaxKey
				row.CaseKey = lineTax.CaseKey
			}
			if lineTax.EUCountryCode != "" {
				row.EUCountryVAT = lineTax.EUCountryCode
				row.EURate = datev.FormatAmount(lineTax.Amount)
			}
		} else if (account.Automatic && account.NoTax) || counterAccount.NoTax {
			row.TaxKey = "40"
		}
	}

	if isCurrDiff {
		base := line.Balance().Abs()
		if cfg.ExportMethod == domain.ExportMethodGross && lineTax != nil {
			base = grossUp(base, *lineTax)
		}
		row.CurrencyCode = line.CurrencyCode
		row.BaseAmount = base.RoundBank(2)
		row.HasBase = true
		row.BaseCurrency = ctx.Company.CurrencyCode
		row.Rate = line.AmountCurrency.Div(line.Balance())
	}
	row.Amount = total.RoundBank(2)

	if account.VATIDRequired {
		if p, ok := ctx.partner(move.PartnerID); ok && p.VAT != "" {
			row.EUCountryVAT = p.VAT
		} else if p, ok := ctx.partner(line.PartnerID); ok {
			row.EUCountryVAT = p.VAT
		}
	}
	row.OrderNumber = move.OrderNumber

	if line.Debit.IsPositive() {
		row.DebitCredit = "S"
	} else {
		row.DebitCredit = "H"
	}

	applyAccounts(ctx, move, line, account, counterAccount, &row)
	applyVoucherFields(ctx, move, &row)
	applyCostCenters(ctx, line, &row)
	row.BookingText = bookingText(ctx, move, line)
	if cfg.UseDocumentLink && move.DocumentGUID != "" {
		row.DocumentLink = fmt.Sprintf("BEDI %q", move.DocumentGUID)
	}
	row.MandateRef = move.SEPAMandateRef
	return row
}

// applyAccounts fills Konto and Gegenkonto, swapping in debtor or creditor
// numbers when the move clearly belongs to one partner and the account is an
// open-item account.
func applyAccounts(ctx MoveContext, move domain.Move, line domain.MoveLine, account, counterAccount domain.Account, row *datev.BookingLine) {
	cfg := ctx.Company.Export
	strip := func(code string) string {
		return datev.StripLeadingZeros(code, cfg.RemoveLeadingZeros)
	}

	var otherPartnerIDs []string
	for _, l := range move.Lines {
		if l.PartnerID != "" && l.PartnerID != line.PartnerID {
			otherPartnerIDs = append(otherPartnerIDs, l.PartnerID)
		}
	}
	isOnePartner := line.PartnerID != "" || len(otherPartnerIDs) == 1

	linePartner, _ := ctx.partner(line.PartnerID)
	var otherPartner domain.Partner
	if len(otherPartnerIDs) > 0 {
		otherPartner, _ = ctx.partner(otherPartnerIDs[0])
	}
	creditorNumber := linePartner.CreditorNumber
	if creditorNumber == "" {
		creditorNumber = otherPartner.CreditorNumber
	}
	debtorNumber := linePartner.DebtorNumber
	if debtorNumber == "" {
		debtorNumber = otherPartner.DebtorNumber
	}

	if isOnePartner {
		if account.AccountType.IsPayable() && linePartner.CreditorNumber != "" {
			row.Account = strip(linePartner.CreditorNumber)
		}
		if account.AccountType.IsReceivable() && linePartner.DebtorNumber != "" {
			row.Account = strip(linePartner.DebtorNumber)
		}
		if counterAccount.AccountType.IsPayable() && creditorNumber != "" {
			row.CounterAccount = strip(creditorNumber)
		}
		if counterAccount.AccountType.IsReceivable() && debtorNumber != "" {
			row.CounterAccount = strip(debtorNumber)
		}
	}
	if row.Account == "" {
		row.Account = strip(account.Code)
	}
	if row.CounterAccount == "" {
		row.CounterAccount = strip(counterAccount.Code)
	}
}

func applyVoucherFields(ctx MoveContext, move domain.Move, row *datev.BookingLine) {
	cfg := ctx.Company.Export
	layout := cfg.VoucherDateFormat
	if layout == "" {
		layout = domain.VoucherDateDDMM
	}
	row.VoucherDate = datev.ConvertDate(move.Date, layout)
	if !move.InvoiceDate.IsZero() && !move.InvoiceDate.Equal(move.Date) {
		row.VoucherDate = datev.ConvertDate(move.InvoiceDate, layout)
	}
	if !move.DeliveryDate.IsZero() {
		row.ServiceDate = datev.ConvertDate(move.DeliveryDate, datev.DefaultDateLayout)
	}

	ref := move.Ref
	if ref == "" || !cfg.ExportRefAsName {
		if move.Name != "" {
			ref = move.Name
		}
	}
	row.VoucherField1 = ref

	partner, _ := ctx.partner(move.PartnerID)
	condition := partner.CustomerPaymentConditionCode
	if move.MoveType == domain.MoveInInvoice || move.MoveType == domain.MoveInRefund {
		condition = partner.SupplierPaymentConditionCode
	}
	if condition != "" {
		row.VoucherField2 = condition
	} else if !move.InvoiceDateDue.IsZero() {
		row.VoucherField2 = datev.ConvertDate(move.InvoiceDateDue, datev.DefaultDateLayout)
	}
}

func applyCostCenters(ctx MoveContext, line domain.MoveLine, row *datev.BookingLine) {
	assign := func(id string) {
		cc, ok := ctx.CostCenters[id]
		if !ok {
			return
		}
		plan, ok := ctx.Plans[cc.PlanID]
		if !ok {
			return
		}
		switch plan.Target {
		case domain.CostCenterKost1:
			row.Cost1 = cc.Code
		case domain.CostCenterKost2:
			row.Cost2 = cc.Code
		}
	}
	if line.CostCenter1ID != "" {
		assign(line.CostCenter1ID)
	}
	if line.CostCenter2ID != "" {
		assign(line.CostCenter2ID)
	}
}

// bookingText joins the configured move attributes, falling back to the line
// label and finally the move name.
func bookingText(ctx MoveContext, move domain.Move, line domain.MoveLine) string {
	sources := ctx.Journal.BookingTextSources
	if len(sources) == 0 && ctx.Company.Export.BookingTextSource != "" {
		sources = []domain.BookingTextSource{ctx.Company.Export.BookingTextSource}
	}
	var parts []string
	for _, src := range sources {
		var v string
		switch src {
		case domain.BookingTextPartner:
			p, _ := ctx.partner(move.PartnerID)
			v = p.Name
		case domain.BookingTextMoveName:
			v = move.Name
		case domain.BookingTextRef:
			v = move.Ref
		case domain.BookingTextLineName:
			v = line.Name
		}
		if v != "" {
			parts = append(parts, v)
		}
	}
	text := strings.Join(parts, ", ")
	if text == "" {
		text = line.Name
	}
	if text == "" {
		text = move.Name
	}
	return datev.CleanString(text, 60)
}
