package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Finterra/ledger_exchange_app/internal/apperrors"
	portssvc "github.com/Finterra/ledger_exchange_app/internal/core/ports/services"
	"github.com/Finterra/ledger_exchange_app/internal/dto"
	"github.com/Finterra/ledger_exchange_app/internal/middleware"
)

// exportHandler handles HTTP requests for the export job lifecycle.
type exportHandler struct {
	exportService portssvc.ExportSvcFacade
}

func newExportHandler(es portssvc.ExportSvcFacade) *exportHandler {
	return &exportHandler{exportService: es}
}

func registerExportRoutes(rg *gin.RouterGroup, es portssvc.ExportSvcFacade) {
	h := newExportHandler(es)

	exports := rg.Group("/exports")
	{
		exports.POST("", h.createExport)
		exports.GET("", h.listExports)
		exports.GET("/:export_id", h.getExport)
		exports.POST("/:export_id/run", h.runExport)
		exports.POST("/:export_id/reset", h.resetExport)
	}

	// Artifact download lives outside the exports group; the file content is
	// served raw with its stored MIME type.
	rg.GET("/artifacts/:artifact_id", h.downloadArtifact)
}

func (h *exportHandler) createExport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req dto.CreateExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	job, err := h.exportService.CreateExport(c.Request.Context(), req, userID)
	if err != nil {
		logger.Error("Failed to create export", "companyID", req.CompanyID, "error", err)
		c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, dto.ToExportResponse(job))
}

func (h *exportHandler) listExports(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Query("companyID")
	if companyID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "companyID query parameter required"})
		return
	}
	limit, offset := listParams(c)

	jobs, err := h.exportService.ListExports(c.Request.Context(), companyID, limit, offset)
	if err != nil {
		logger.Error("Failed to list exports", "companyID", companyID, "error", err)
		c.JSON(statusForError(err), ErrorResponse{Error: "Failed to list exports"})
		return
	}
	resp := make([]dto.ExportResponse, 0, len(jobs))
	for i := range jobs {
		resp = append(resp, dto.ToExportResponse(&jobs[i]))
	}
	c.JSON(http.StatusOK, dto.ListExportsResponse{Exports: resp})
}

func (h *exportHandler) getExport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	exportID := c.Param("export_id")

	job, err := h.exportService.GetExport(c.Request.Context(), exportID)
	if err != nil {
		logger.Warn("Failed to get export", "exportID", exportID, "error", err)
		c.JSON(statusForError(err), ErrorResponse{Error: "Failed to get export"})
		return
	}
	c.JSON(http.StatusOK, dto.ToExportResponse(job))
}

// runExport generates the export files. Validation findings on the selected
// bookings come back as 422 with the full problem list in the error message.
func (h *exportHandler) runExport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	exportID := c.Param("export_id")
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	job, err := h.exportService.RunExport(c.Request.Context(), exportID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrExportBlocked) {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to run export", "exportID", exportID, "error", err)
		c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.ToExportResponse(job))
}

func (h *exportHandler) resetExport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	exportID := c.Param("export_id")
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	job, err := h.exportService.ResetExport(c.Request.Context(), exportID, userID)
	if err != nil {
		logger.Error("Failed to reset export", "exportID", exportID, "error", err)
		c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.ToExportResponse(job))
}

func (h *exportHandler) downloadArtifact(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	artifactID := c.Param("artifact_id")

	artifact, err := h.exportService.GetArtifact(c.Request.Context(), artifactID)
	if err != nil {
		logger.Warn("Failed to get artifact", "artifactID", artifactID, "error", err)
		c.JSON(statusForError(err), ErrorResponse{Error: "Failed to get artifact"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+artifact.Name+`"`)
	c.Data(http.StatusOK, artifact.MimeType, artifact.Data)
}
