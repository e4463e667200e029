package xmldoc

import (
	"fmt"
	"unicode/utf8"
)

// ValidationError reports one schema violation in an invoice document.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the document against the structural rules of the invoice
// schema: required attributes present and length caps respected. It returns
// all violations so callers can report them per document.
func (d *InvoiceDocument) Validate() []ValidationError {
	var errs []ValidationError
	require := func(field, value string) {
		if value == "" {
			errs = append(errs, ValidationError{Field: field, Message: "required value missing"})
		}
	}
	maxLen := func(field, value string, limit int) {
		if utf8.RuneCountInString(value) > limit {
			errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf("exceeds %d characters", limit)})
		}
	}

	require("invoice_info/invoice_date", d.InvoiceInfo.InvoiceDate)
	require("invoice_info/invoice_type", d.InvoiceInfo.InvoiceType)
	require("invoice_info/invoice_id", d.InvoiceInfo.InvoiceID)
	maxLen("invoice_info/invoice_id", d.InvoiceInfo.InvoiceID, 36)

	validateParty := func(name string, p Party) {
		if p.Address == nil {
			errs = append(errs, ValidationError{Field: name + "/address", Message: "required element missing"})
			return
		}
		require(name+"/address/name", p.Address.Name)
		maxLen(name+"/address/name", p.Address.Name, 50)
		maxLen(name+"/address/street", p.Address.Street, 40)
		maxLen(name+"/address/phone", p.Address.Phone, 20)
		maxLen(name+"/address/party_id", p.Address.PartyID, 15)
		if p.Account != nil {
			maxLen(name+"/account/bank_name", p.Account.BankName, 27)
		}
	}
	validateParty("invoice_party", d.InvoiceParty)
	validateParty("supplier_party", d.SupplierParty)

	if len(d.Items) == 0 {
		errs = append(errs, ValidationError{Field: "invoice_item_list", Message: "invoice has no billable lines"})
	}
	for i, it := range d.Items {
		field := fmt.Sprintf("invoice_item_list[%d]", i)
		require(field+"/description_short", it.DescriptionShort)
		maxLen(field+"/description_short", it.DescriptionShort, 40)
		if it.AccountingInfo != nil {
			maxLen(field+"/accounting_info/booking_text", it.AccountingInfo.BookingText, 60)
			maxLen(field+"/accounting_info/cost_category_id", it.AccountingInfo.CostCategory1, 36)
			maxLen(field+"/accounting_info/cost_category_id2", it.AccountingInfo.CostCategory2, 36)
		}
	}

	require("total_amount/total_gross_amount_excluding_third-party_collection", d.TotalAmount.TotalGross)
	if len(d.TotalAmount.TaxLines) == 0 {
		errs = append(errs, ValidationError{Field: "total_amount/tax_line", Message: "at least one tax line required"})
	}
	return errs
}
