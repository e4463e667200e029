package domain

import "time"

// ExportState is the lifecycle state of an export job.
type ExportState string

const (
	ExportDraft ExportState = "draft"
	ExportDone  ExportState = "export"
)

// ExportJob is one export run: a period or selection of moves serialized
// into one or more artifacts.
type ExportJob struct {
	ExportID  string      `json:"exportID"` // Primary Key (UUID)
	CompanyID string      `json:"companyID"`
	Name      string      `json:"name"` // sequence number, also the artifact base name
	Mode      ExportMode  `json:"mode"`
	State     ExportState `json:"state"`

	PeriodStart time.Time `json:"periodStart"`
	PeriodEnd   time.Time `json:"periodEnd"`

	// JournalIDs restricts the export to the given journals. Empty means
	// all export-enabled journals.
	JournalIDs []string `json:"journalIDs"`

	// MoveIDs pins the export to an explicit selection instead of a period.
	MoveIDs []string `json:"moveIDs"`

	TemplateID string `json:"templateID"` // flat-file layout, empty for XML mode

	// Master data selection, used by the accounts mode only.
	PartnerSides string `json:"partnerSides"` // debit, credit or both
	PartnerScope string `json:"partnerScope"` // all or new

	Artifacts []Artifact `json:"artifacts"`
	AuditFields
}

// Artifact is a generated export file stored with its job.
type Artifact struct {
	ArtifactID string    `json:"artifactID"` // Primary Key (UUID)
	ExportID   string    `json:"exportID"`
	Name       string    `json:"name"`
	MimeType   string    `json:"mimeType"`
	Data       []byte    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Attachment is a stored document (e.g. an invoice PDF) linked to a move.
type Attachment struct {
	AttachmentID string `json:"attachmentID"` // Primary Key (UUID)
	MoveID       string `json:"moveID"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType"`
	Data         []byte `json:"-"`
	AuditFields
}
