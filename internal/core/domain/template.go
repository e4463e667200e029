package domain

import "sort"

// ExportMode identifies an export file format and its strategy.
type ExportMode string

const (
	// ModeASCII is the booking batch flat-file export.
	ModeASCII ExportMode = "datev_ascii"
	// ModeASCIIAccounts is the partner master data flat-file export.
	ModeASCIIAccounts ExportMode = "datev_ascii_accounts"
	// ModeXML is the per-document XML export with attachments.
	ModeXML ExportMode = "datev_xml"
)

// ExportTemplateLine configures one column of a flat-file export: its
// heading, position, and optional per-field transforms.
type ExportTemplateLine struct {
	LineID     string `json:"lineID"` // Primary Key (UUID)
	TemplateID string `json:"templateID"`
	Heading    string `json:"heading"`  // column heading in the output file
	Position   int    `json:"position"` // 1-based column position

	// Expression is a regular expression applied to the rendered value.
	// With capturing groups the whole match is replaced by the groups'
	// concatenation; without groups the match is deleted.
	Expression string `json:"expression"`

	// ForceValue is an expression in the restricted value language that
	// replaces the rendered value entirely.
	ForceValue string `json:"forceValue"`

	Active bool `json:"active"`
}

// ExportTemplate is the registry entry describing one flat-file layout.
type ExportTemplate struct {
	TemplateID string               `json:"templateID"` // Primary Key (UUID)
	CompanyID  string               `json:"companyID"`  // empty for the built-in defaults
	Name       string               `json:"name"`
	Mode       ExportMode           `json:"mode"`
	IsDefault  bool                 `json:"isDefault"` // picked when a job names no template
	Lines      []ExportTemplateLine `json:"lines"`
	AuditFields
}

// FieldOrder returns the active headings ordered by position.
func (t ExportTemplate) FieldOrder() []string {
	ordered := make([]ExportTemplateLine, 0, len(t.Lines))
	for _, l := range t.Lines {
		if l.Active {
			ordered = append(ordered, l)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})
	headings := make([]string, len(ordered))
	for i, l := range ordered {
		headings[i] = l.Heading
	}
	return headings
}
