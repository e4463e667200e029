// Package accounts renders debtor/creditor master data rows for the V700
// master data export.
package accounts

import (
	"fmt"
	"strconv"

	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
	"github.com/Finterra/ledger_exchange_app/internal/datev"
)

// Kind selects the master data layout variant.
type Kind string

const (
	KindRewe Kind = "rewe" // standard accounting layout
	KindDuo  Kind = "duo"  // online portal layout
)

// Side marks whether a row describes the partner as debtor or creditor.
type Side byte

const (
	Debtor   Side = 'D'
	Creditor Side = 'C'
)

// SideFilter restricts which subledger sides an export covers.
type SideFilter string

const (
	SidesDebit  SideFilter = "debit"
	SidesCredit SideFilter = "credit"
	SidesBoth   SideFilter = "both"
)

// PartnerNumber is one subledger account a partner occupies.
type PartnerNumber struct {
	Side   Side
	Number string
}

// PartnerNumbers derives the subledger numbers to export for a partner. A
// missing debtor (creditor) number falls back to the partner's receivable
// (payable) account code when the partner has no number on the other side.
func PartnerNumbers(p domain.Partner, filter SideFilter, receivableCode, payableCode string) []PartnerNumber {
	var numbers []PartnerNumber
	if filter == SidesDebit || filter == SidesBoth {
		debside := p.DebtorNumber
		if debside == "" && p.CreditorNumber == "" {
			debside = receivableCode
		}
		if debside != "" {
			numbers = append(numbers, PartnerNumber{Side: Debtor, Number: debside})
		}
	}
	if filter == SidesCredit || filter == SidesBoth {
		credside := p.CreditorNumber
		if credside == "" && p.DebtorNumber == "" {
			credside = payableCode
		}
		if credside != "" {
			numbers = append(numbers, PartnerNumber{Side: Creditor, Number: credside})
		}
	}
	return numbers
}

// Row is one master data record keyed by column heading.
type Row map[string]string

// Record renders the row in file column order.
func (r Row) Record() []string {
	rec := make([]string, len(FieldOrder))
	for i, heading := range FieldOrder {
		rec[i] = r[heading]
	}
	return rec
}

// BuildRow fills a master data row for one partner number. account may be nil
// when no ledger account matches the number; the raw number is exported then.
func BuildRow(p domain.Partner, number PartnerNumber, account *domain.Account) Row {
	row := Row{}
	code := number.Number
	if account != nil {
		code = account.Code
	}
	row["Konto"] = code
	row["Kurzbezeichnung"] = datev.CleanString(p.Name, 15)
	if p.IsCompany {
		row["Name (Adressattyp Unternehmen)"] = datev.CleanString(p.Name, 50)
		row["Unternehmensgegenstand"] = datev.CleanString(p.Industry, 0)
		row["Adressattyp"] = "2"
	} else {
		row["Name (Adressattyp natürl. Person)"] = datev.CleanString(p.Name, 50)
		row["Adressattyp"] = "1"
	}
	if country, vat := p.EUVAT(); country != "" {
		row["EU-Land"] = country
		row["EU-UStID"] = vat
	}
	if p.Title != "" {
		row["Anrede"] = datev.CleanString(p.Title, 0)
	}
	row["Adressart"] = "STR"
	row["Straße"] = datev.CleanString(p.Street, 0)
	row["Postleitzahl"] = datev.CleanString(p.Zip, 0)
	row["Ort"] = datev.CleanString(p.City, 30)
	row["Land"] = datev.CleanString(p.CountryCode, 0)
	row["Telefon"] = datev.CleanString(p.Phone, 0)
	row["E-Mail"] = datev.CleanString(p.Email, 0)
	row["Internet"] = datev.CleanString(p.Website, 0)

	fillBanks(row, p)
	if addr := p.InvoiceAddress; addr != nil {
		row["Straße (Rechnungsadresse)"] = datev.CleanString(addr.Street, 0)
		row["Postleitzahl (Rechnungsadresse)"] = datev.CleanString(addr.Zip, 0)
		row["Ort (Rechnungsadresse)"] = datev.CleanString(addr.City, 30)
		row["Land (Rechnungsadresse)"] = datev.CleanString(addr.CountryCode, 0)
		row["Adresszusatz (Rechnungsadresse)"] = datev.CleanString(addr.Street2, 0)
	}
	fillCustomerSupplierNumber(row, p, number)
	if account != nil && account.DiverseAccount {
		row["Diverse-Konto"] = "1"
	} else {
		row["Diverse-Konto"] = "0"
	}
	fillPaymentTerms(row, p, number)
	fillMandates(row, p, number)
	return row
}

func fillBanks(row Row, p domain.Partner) {
	for i, bank := range p.Banks {
		if i >= 5 {
			break
		}
		n := i + 1
		row[fmt.Sprintf("Bankbezeichnung %d", n)] = datev.CleanString(bank.BankName, 0)
		row[fmt.Sprintf("Abw. Kontoinhaber %d", n)] = datev.CleanString(bank.AccountHolder, 0)
		if bank.IBAN != "" {
			row[fmt.Sprintf("IBAN-Nr. %d", n)] = datev.CleanString(bank.IBAN, 0)
			row[fmt.Sprintf("SWIFT-Code %d", n)] = datev.CleanString(bank.SWIFT, 0)
		} else {
			row[fmt.Sprintf("Bankleitzahl %d", n)] = datev.CleanString(bank.BankCode, 0)
			row[fmt.Sprintf("Bank-Kontonummer %d", n)] = datev.CleanString(bank.AccountNumber, 0)
			row[fmt.Sprintf("Länderkennzeichen %d", n)] = datev.CleanString(bank.CountryCode, 0)
		}
		if n == 1 {
			row["Kennz. Hauptbankverb. 1"] = "1"
		} else {
			row[fmt.Sprintf("Kennz. Hauptbankverb. %d", n)] = "0"
		}
	}
}

func fillCustomerSupplierNumber(row Row, p domain.Partner, number PartnerNumber) {
	row["Kunden-/Lief.-Nr."] = datev.CleanString(p.Ref, 0)
	if number.Side == Debtor {
		row["Kunden-/Lief.-Nr."] = datev.CleanString(p.CustomerNumber, 0)
	}
	if number.Side == Creditor {
		row["Kunden-/Lief.-Nr."] = datev.CleanString(p.SupplierNumber, 0)
	}
}

func fillPaymentTerms(row Row, p domain.Partner, number PartnerNumber) {
	if number.Side == Debtor && number.Number == p.DebtorNumber {
		for _, line := range p.CustomerPaymentTerms {
			if line.DiscountPercent == "" {
				row["Fälligkeit in Tagen (Debitor)"] = strconv.Itoa(line.Days)
			} else if row["Skonto in Prozent (Debitor)"] == "" {
				row["Skonto in Prozent (Debitor)"] = line.DiscountPercent
			}
		}
	}
	if number.Side == Creditor && number.Number == p.CreditorNumber {
		for i, line := range p.SupplierPaymentTerms {
			if i >= 5 {
				break
			}
			n := i + 1
			row[fmt.Sprintf("Kreditoren-Ziel %d Tg.", n)] = strconv.Itoa(line.Days)
			discount := line.DiscountPercent
			if discount == "" {
				discount = "0.00"
			}
			row[fmt.Sprintf("Kreditoren-Skonto %d %%", n)] = discount
		}
	}
}

func fillMandates(row Row, p domain.Partner, number PartnerNumber) {
	for i, ref := range p.SEPAMandateRefs {
		if i >= 10 {
			break
		}
		row[fmt.Sprintf("SEPA-Mandatsreferenz %d", i+1)] = datev.CleanString(ref, 0)
	}
	if number.Side == Debtor {
		row["Zahlungsbedingung"] = p.CustomerPaymentConditionCode
	}
	if number.Side == Creditor {
		row["Zahlungsbedingung"] = p.SupplierPaymentConditionCode
	}
}
