package datev

import (
	"fmt"
	"strconv"
	"time"
)

// Data categories and format names of the V700 file header.
const (
	CategoryBookings        = 21
	CategoryMasterData      = 16
	FormatBookings          = "Buchungsstapel"
	FormatMasterData        = "Debitoren/Kreditoren"
	FormatVersionBookings   = 9
	FormatVersionMasterData = 5
)

// HeaderFieldOrder lists the 31 preamble fields of a V700 flat file.
var HeaderFieldOrder = []string{
	"DATEVFormatKZ", "Versionsnummer", "Datenkategorie", "Formatname",
	"Formatversion", "Erzeugtam", "Importiert", "Herkunft", "Exportiertvon",
	"Importiertvon", "Berater", "Mandant", "WJBeginn", "Sachkontenlaenge",
	"Datumvon", "Datumbis", "Bezeichnung", "Diktatkuerzel", "Buchungstyp",
	"Rechnungslegungszweck", "Festschreibung", "WKZ", "res1",
	"Derivatskennzeichen", "res2", "res3", "SKR", "Branchenlösungs-Id",
	"res4", "res5", "Anwendungsinformationen",
}

// Header carries the values of the V700 preamble line.
type Header struct {
	Category        int
	FormatName      string
	FormatVersion   int
	CreatedAt       time.Time
	ExportedBy      string
	Consultant      string
	Client          string
	FiscalYearStart string // yyyymmdd
	AccountLength   int
	DateFrom        time.Time
	DateTo          time.Time
	Description     string
	BookingType     int // 1 for financial bookings
	Locked          bool
}

// FiscalYearStart computes the first day (yyyymmdd) of the fiscal year the
// period beginning dateFrom falls into. With a December year end the fiscal
// year starts January 1st of the same year; otherwise the start month follows
// the configured last month, eleven months back from dateFrom.
func FiscalYearStart(dateFrom time.Time, fiscalYearLastMonth int) string {
	if fiscalYearLastMonth == 12 || fiscalYearLastMonth < 1 || fiscalYearLastMonth > 12 {
		return dateFrom.Format("2006") + "0101"
	}
	yearFrom := dateFrom.AddDate(0, -11, 0)
	return fmt.Sprintf("%s%02d01", yearFrom.Format("2006"), fiscalYearLastMonth+1)
}

// Values renders the preamble in HeaderFieldOrder.
func (h Header) Values() []string {
	locked := "0"
	if h.Locked {
		locked = "1"
	}
	if h.Category == CategoryMasterData {
		// master data files leave the locking flag empty
		locked = ""
	}
	accountLength := ""
	if h.AccountLength > 0 {
		accountLength = strconv.Itoa(h.AccountLength)
	}
	dateFrom := ""
	if !h.DateFrom.IsZero() {
		dateFrom = h.DateFrom.Format("20060102")
	}
	dateTo := ""
	if !h.DateTo.IsZero() {
		dateTo = h.DateTo.Format("20060102")
	}
	bookingType := ""
	if h.BookingType > 0 {
		bookingType = strconv.Itoa(h.BookingType)
	}
	// Erzeugtam carries milliseconds, e.g. 20260115093004123.
	createdAt := h.CreatedAt.Format("20060102150405") +
		fmt.Sprintf("%03d", h.CreatedAt.Nanosecond()/1e6)
	return []string{
		"EXTF",
		"700",
		strconv.Itoa(h.Category),
		h.FormatName,
		strconv.Itoa(h.FormatVersion),
		createdAt,
		"",   // Importiert
		"OE", // Herkunft
		h.ExportedBy,
		"", // Importiertvon
		h.Consultant,
		h.Client,
		h.FiscalYearStart,
		accountLength,
		dateFrom,
		dateTo,
		h.Description,
		"", // Diktatkuerzel
		bookingType,
		"", // Rechnungslegungszweck
		locked,
		"", "", "", "", "", "", "", "", "", "",
	}
}
