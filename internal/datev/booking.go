package datev

import "github.com/shopspring/decimal"

// Headings of the booking batch columns that the engine fills. The remaining
// columns of the V700 layout stay empty but keep their position.
const (
	HeadAmount         = "Umsatz (ohne Soll/Haben-Kz)"
	HeadDebitCredit    = "Soll/Haben-Kennzeichen"
	HeadCurrency       = "WKZ Umsatz"
	HeadRate           = "Kurs"
	HeadBaseAmount     = "Basis-Umsatz"
	HeadBaseCurrency   = "WKZ Basis-Umsatz"
	HeadAccount        = "Konto"
	HeadCounterAccount = "Gegenkonto (ohne BU-Schlüssel)"
	HeadTaxKey         = "BU-Schlüssel"
	HeadVoucherDate    = "Belegdatum"
	HeadVoucherField1  = "Belegfeld 1"
	HeadVoucherField2  = "Belegfeld 2"
	HeadBookingText    = "Buchungstext"
	HeadCaseKey        = "Sachverhalt"
	HeadDocumentLink   = "Beleglink"
	HeadCost1          = "KOST1 - Kostenstelle"
	HeadCost2          = "KOST2 - Kostenstelle"
	HeadEUCountryVAT   = "EU-Mitgliedstaat u. UStIdNr"
	HeadEURate         = "EU-Steuersatz"
	HeadOrderNumber    = "Auftragsnummer"
	HeadGUID           = "Buchungs GUID"
	HeadMandateRef     = "SEPA-Mandatsreferenz"
	HeadLocked         = "Festschreibung"
	HeadServiceDate    = "Leistungsdatum"
)

// BookingFieldOrder lists all columns of the V700 booking batch layout in
// file order.
var BookingFieldOrder = []string{
	HeadAmount, HeadDebitCredit, HeadCurrency, HeadRate, HeadBaseAmount,
	HeadBaseCurrency, HeadAccount, HeadCounterAccount, HeadTaxKey,
	HeadVoucherDate, HeadVoucherField1, HeadVoucherField2, "Skonto",
	HeadBookingText, "Postensperre", "Diverse Adressnummer",
	"Geschäftspartnerbank", HeadCaseKey, "Zinssperre", HeadDocumentLink,
	"Beleginfo - Art 1", "Beleginfo - Inhalt 1",
	"Beleginfo - Art 2", "Beleginfo - Inhalt 2",
	"Beleginfo - Art 3", "Beleginfo - Inhalt 3",
	"Beleginfo - Art 4", "Beleginfo - Inhalt 4",
	"Beleginfo - Art 5", "Beleginfo - Inhalt 5",
	"Beleginfo - Art 6", "Beleginfo - Inhalt 6",
	"Beleginfo - Art 7", "Beleginfo - Inhalt 7",
	"Beleginfo - Art 8", "Beleginfo - Inhalt 8",
	HeadCost1, HeadCost2, "Kost-Menge", HeadEUCountryVAT, HeadEURate,
	"Abw. Versteuerungsart", "Sachverhalt L+L", "Funktionsergänzung L+L",
	"BU 49 Hauptfunktionstyp", "BU 49 Hauptfunktionsnummer",
	"BU 49 Funktionsergänzung",
	"Zusatzinformation - Art 1", "Zusatzinformation- Inhalt 1",
	"Zusatzinformation - Art 2", "Zusatzinformation- Inhalt 2",
	"Zusatzinformation - Art 3", "Zusatzinformation- Inhalt 3",
	"Zusatzinformation - Art 4", "Zusatzinformation- Inhalt 4",
	"Zusatzinformation - Art 5", "Zusatzinformation- Inhalt 5",
	"Zusatzinformation - Art 6", "Zusatzinformation- Inhalt 6",
	"Zusatzinformation - Art 7", "Zusatzinformation- Inhalt 7",
	"Zusatzinformation - Art 8", "Zusatzinformation- Inhalt 8",
	"Zusatzinformation - Art 9", "Zusatzinformation- Inhalt 9",
	"Zusatzinformation - Art 10", "Zusatzinformation- Inhalt 10",
	"Zusatzinformation - Art 11", "Zusatzinformation- Inhalt 11",
	"Zusatzinformation - Art 12", "Zusatzinformation- Inhalt 12",
	"Zusatzinformation - Art 13", "Zusatzinformation- Inhalt 13",
	"Zusatzinformation - Art 14", "Zusatzinformation- Inhalt 14",
	"Zusatzinformation - Art 15", "Zusatzinformation- Inhalt 15",
	"Zusatzinformation - Art 16", "Zusatzinformation- Inhalt 16",
	"Zusatzinformation - Art 17", "Zusatzinformation- Inhalt 17",
	"Zusatzinformation - Art 18", "Zusatzinformation- Inhalt 18",
	"Zusatzinformation - Art 19", "Zusatzinformation- Inhalt 19",
	"Zusatzinformation - Art 20", "Zusatzinformation- Inhalt 20",
	"Stück", "Gewicht", "Zahlweise", "Forderungsart", "Veranlagungsjahr",
	"Zugeordnete Fälligkeit", "Skontotyp", HeadOrderNumber, "Buchungstyp",
	"USt-Schlüssel (Anzahlungen)", "EU-Land (Anzahlungen)",
	"Sachverhalt L+L (Anzahlungen)", "EU-Steuersatz (Anzahlungen)",
	"Erlöskonto (Anzahlungen)", "Herkunft-Kz", HeadGUID, "KOST-Datum",
	HeadMandateRef, "Skontosperre", "Gesellschaftername", "Beteiligtennummer",
	"Identifikationsnummer", "Zeichnernummer", "Postensperre bis",
	"Bezeichnung SoBil-Sachverhalt", "Kennzeichen SoBil-Buchung", HeadLocked,
	HeadServiceDate, "Datum Zuord. Steuerperiode", "Fälligkeit",
	"Generalumkehr (GU)", "Steuersatz", "Land",
}

// BookingLine is one row of a booking batch before serialization. Monetary
// values stay typed so grouping can aggregate them before they are rendered.
type BookingLine struct {
	Amount      decimal.Decimal // unsigned turnover
	DebitCredit string          // "S" or "H"

	CurrencyCode string          // set for foreign currency lines
	Rate         decimal.Decimal // foreign per company unit, zero when unused
	BaseAmount   decimal.Decimal // turnover in company currency
	HasBase      bool
	BaseCurrency string

	Account        string
	CounterAccount string
	TaxKey         string
	CaseKey        string

	VoucherDate   string // already rendered in the configured layout
	VoucherField1 string
	VoucherField2 string
	BookingText   string
	DocumentLink  string
	Cost1         string
	Cost2         string
	EUCountryVAT  string
	EURate        string
	OrderNumber   string
	GUID          string
	MandateRef    string
	Locked        bool
	ServiceDate   string
}

// FieldValue renders the value of a single column. Unknown or unfilled
// columns render empty.
func (l *BookingLine) FieldValue(heading string) string {
	switch heading {
	case HeadAmount:
		return FormatAmount(l.Amount)
	case HeadDebitCredit:
		return l.DebitCredit
	case HeadCurrency:
		return l.CurrencyCode
	case HeadRate:
		if l.Rate.IsZero() {
			return ""
		}
		return FormatRate(l.Rate)
	case HeadBaseAmount:
		if !l.HasBase {
			return ""
		}
		return FormatAmount(l.BaseAmount)
	case HeadBaseCurrency:
		return l.BaseCurrency
	case HeadAccount:
		return l.Account
	case HeadCounterAccount:
		return l.CounterAccount
	case HeadTaxKey:
		return l.TaxKey
	case HeadCaseKey:
		return l.CaseKey
	case HeadVoucherDate:
		return l.VoucherDate
	case HeadVoucherField1:
		return l.VoucherField1
	case HeadVoucherField2:
		return l.VoucherField2
	case HeadBookingText:
		return l.BookingText
	case HeadDocumentLink:
		return l.DocumentLink
	case HeadCost1:
		return l.Cost1
	case HeadCost2:
		return l.Cost2
	case HeadEUCountryVAT:
		return l.EUCountryVAT
	case HeadEURate:
		return l.EURate
	case HeadOrderNumber:
		return l.OrderNumber
	case HeadGUID:
		return l.GUID
	case HeadMandateRef:
		return l.MandateRef
	case HeadLocked:
		if l.Locked {
			return "1"
		}
		return "0"
	case HeadServiceDate:
		return l.ServiceDate
	}
	return ""
}

// Record renders the line into the given column order.
func (l *BookingLine) Record(order []string) []string {
	rec := make([]string, len(order))
	for i, heading := range order {
		rec[i] = l.FieldValue(heading)
	}
	return rec
}
