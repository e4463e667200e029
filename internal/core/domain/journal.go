package domain

// JournalType classifies a booking journal.
type JournalType string

const (
	JournalBank     JournalType = "bank"
	JournalCash     JournalType = "cash"
	JournalSale     JournalType = "sale"
	JournalPurchase JournalType = "purchase"
	JournalGeneral  JournalType = "general"
)

// BookingTextSource names a move attribute that feeds the booking text.
type BookingTextSource string

const (
	BookingTextPartner  BookingTextSource = "partner"
	BookingTextMoveName BookingTextSource = "move_name"
	BookingTextRef      BookingTextSource = "ref"
	BookingTextLineName BookingTextSource = "line_name"
)

// Journal represents a booking journal (a book of entries, e.g. one bank
// account or the sales book).
type Journal struct {
	JournalID string      `json:"journalID"` // Primary Key (UUID)
	CompanyID string      `json:"companyID"`
	Code      string      `json:"code"`
	Name      string      `json:"name"`
	Type      JournalType `json:"type"`

	// DefaultAccountID is the journal's own ledger account (bank or cash
	// account, or the journal default for expense bookings).
	DefaultAccountID string `json:"defaultAccountID"`

	// Exchange difference accounts, set on the currency exchange journal.
	GainAccountID string `json:"gainAccountID"`
	LossAccountID string `json:"lossAccountID"`

	// IsExchangeJournal marks the journal holding currency revaluations.
	IsExchangeJournal bool `json:"isExchangeJournal"`

	// GroupLines overrides the company-wide grouping flag when set.
	GroupLines *bool `json:"groupLines"`

	// BookingTextSources lists the move attributes joined into the booking
	// text for this journal. Empty means use the company default.
	BookingTextSources []BookingTextSource `json:"bookingTextSources"`
	AuditFields
}

// GroupLinesEffective resolves the per-journal override against the company
// configuration.
func (j Journal) GroupLinesEffective(cfg ExportConfig) bool {
	if j.GroupLines != nil {
		return *j.GroupLines
	}
	return cfg.GroupLines
}
