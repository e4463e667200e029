package domain

import "time"

// ImportState is the lifecycle state of an import run.
type ImportState string

const (
	ImportDraft    ImportState = "draft"
	ImportError    ImportState = "error"
	ImportImported ImportState = "imported"
	ImportBooked   ImportState = "booked"
)

// LogSeverity classifies import log lines.
type LogSeverity string

const (
	LogInfo     LogSeverity = "info"
	LogWarning  LogSeverity = "warning"
	LogError    LogSeverity = "error"
	LogStandard LogSeverity = "standard"
)

// ImportLog is one line of an import run's protocol.
type ImportLog struct {
	LogID       string      `json:"logID"` // Primary Key (UUID)
	ImportRunID string      `json:"importRunID"`
	Line        int         `json:"line"` // 0 for run-level messages
	Message     string      `json:"message"`
	Severity    LogSeverity `json:"severity"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// ImportRun is one uploaded booking file worked through the import pipeline.
type ImportRun struct {
	ImportRunID string      `json:"importRunID"` // Primary Key (UUID)
	CompanyID   string      `json:"companyID"`
	Name        string      `json:"name"` // sequence number
	Description string      `json:"description"`
	TemplateID  string      `json:"templateID"`
	JournalID   string      `json:"journalID"`
	State       ImportState `json:"state"`

	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`

	Filename string `json:"filename"`
	Data     []byte `json:"-"` // raw uploaded file

	Logs []ImportLog `json:"logs"`
	AuditFields
}
