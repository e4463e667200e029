package dto

import (
	"time"

	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
)

// CreateExportRequest defines the data needed to create a draft export job.
type CreateExportRequest struct {
	CompanyID   string            `json:"companyID" binding:"required"`
	Mode        domain.ExportMode `json:"mode" binding:"required,oneof=datev_ascii datev_ascii_accounts datev_xml"`
	PeriodStart time.Time         `json:"periodStart"`
	PeriodEnd   time.Time         `json:"periodEnd"`
	JournalIDs  []string          `json:"journalIDs"`
	MoveIDs     []string          `json:"moveIDs"`
	TemplateID  string            `json:"templateID"`

	// Master data selection, accounts mode only.
	PartnerSides string `json:"partnerSides" binding:"omitempty,oneof=debit credit both"`
	PartnerScope string `json:"partnerScope" binding:"omitempty,oneof=all new"`
}

// ArtifactResponse defines the metadata returned for a generated file. The
// content is served separately by the artifact download endpoint.
type ArtifactResponse struct {
	ArtifactID string    `json:"artifactID"`
	Name       string    `json:"name"`
	MimeType   string    `json:"mimeType"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ExportResponse defines the data returned for an export job.
type ExportResponse struct {
	ExportID    string             `json:"exportID"`
	CompanyID   string             `json:"companyID"`
	Name        string             `json:"name"`
	Mode        domain.ExportMode  `json:"mode"`
	State       domain.ExportState `json:"state"`
	PeriodStart time.Time          `json:"periodStart"`
	PeriodEnd   time.Time          `json:"periodEnd"`
	JournalIDs  []string           `json:"journalIDs"`
	MoveIDs     []string           `json:"moveIDs"`
	TemplateID  string             `json:"templateID"`
	Artifacts   []ArtifactResponse `json:"artifacts"`
	CreatedAt   time.Time          `json:"createdAt"`
	CreatedBy   string             `json:"createdBy"`
}

// ToExportResponse converts a domain.ExportJob to ExportResponse DTO.
func ToExportResponse(job *domain.ExportJob) ExportResponse {
	artifacts := make([]ArtifactResponse, 0, len(job.Artifacts))
	for _, a := range job.Artifacts {
		artifacts = append(artifacts, ArtifactResponse{
			ArtifactID: a.ArtifactID,
			Name:       a.Name,
			MimeType:   a.MimeType,
			CreatedAt:  a.CreatedAt,
		})
	}
	return ExportResponse{
		ExportID:    job.ExportID,
		CompanyID:   job.CompanyID,
		Name:        job.Name,
		Mode:        job.Mode,
		State:       job.State,
		PeriodStart: job.PeriodStart,
		PeriodEnd:   job.PeriodEnd,
		JournalIDs:  job.JournalIDs,
		MoveIDs:     job.MoveIDs,
		TemplateID:  job.TemplateID,
		Artifacts:   artifacts,
		CreatedAt:   job.CreatedAt,
		CreatedBy:   job.CreatedBy,
	}
}

// ListExportsResponse wraps a page of exports.
type ListExportsResponse struct {
	Exports []ExportResponse `json:"exports"`
}
