package dto

import (
	"time"

	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
)

// CreateImportRunRequest defines the data needed to start an import run.
// Content carries the uploaded file; JSON clients send it base64-encoded.
type CreateImportRunRequest struct {
	CompanyID   string    `json:"companyID" binding:"required"`
	TemplateID  string    `json:"templateID" binding:"required"`
	JournalID   string    `json:"journalID" binding:"required"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Filename    string    `json:"filename" binding:"required"`
	Content     []byte    `json:"content" binding:"required"`
}

// ImportLogResponse defines one protocol line of an import run.
type ImportLogResponse struct {
	Line     int                `json:"line"`
	Message  string             `json:"message"`
	Severity domain.LogSeverity `json:"severity"`
}

// ImportRunResponse defines the data returned for an import run.
type ImportRunResponse struct {
	ImportRunID string              `json:"importRunID"`
	CompanyID   string              `json:"companyID"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	TemplateID  string              `json:"templateID"`
	JournalID   string              `json:"journalID"`
	State       domain.ImportState  `json:"state"`
	StartDate   time.Time           `json:"startDate"`
	EndDate     time.Time           `json:"endDate"`
	Filename    string              `json:"filename"`
	Logs        []ImportLogResponse `json:"logs"`
	CreatedAt   time.Time           `json:"createdAt"`
	CreatedBy   string              `json:"createdBy"`
}

// ToImportRunResponse converts a domain.ImportRun to ImportRunResponse DTO.
func ToImportRunResponse(run *domain.ImportRun) ImportRunResponse {
	logs := make([]ImportLogResponse, 0, len(run.Logs))
	for _, l := range run.Logs {
		logs = append(logs, ImportLogResponse{
			Line:     l.Line,
			Message:  l.Message,
			Severity: l.Severity,
		})
	}
	return ImportRunResponse{
		ImportRunID: run.ImportRunID,
		CompanyID:   run.CompanyID,
		Name:        run.Name,
		Description: run.Description,
		TemplateID:  run.TemplateID,
		JournalID:   run.JournalID,
		State:       run.State,
		StartDate:   run.StartDate,
		EndDate:     run.EndDate,
		Filename:    run.Filename,
		Logs:        logs,
		CreatedAt:   run.CreatedAt,
		CreatedBy:   run.CreatedBy,
	}
}
