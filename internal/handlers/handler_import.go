package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/Finterra/ledger_exchange_app/internal/core/ports/services"
	"github.com/Finterra/ledger_exchange_app/internal/dto"
	"github.com/Finterra/ledger_exchange_app/internal/middleware"
)

// importHandler handles HTTP requests for the import run lifecycle.
type importHandler struct {
	importService portssvc.ImportSvcFacade
}

func newImportHandler(is portssvc.ImportSvcFacade) *importHandler {
	return &importHandler{importService: is}
}

func registerImportRoutes(rg *gin.RouterGroup, is portssvc.ImportSvcFacade) {
	h := newImportHandler(is)

	imports := rg.Group("/imports")
	{
		imports.POST("", h.createImportRun)
		imports.GET("", h.listImportRuns)
		imports.GET("/:import_run_id", h.getImportRun)
		imports.POST("/:import_run_id/confirm", h.confirmImportRun)
		imports.POST("/:import_run_id/reset", h.resetImportRun)
	}
}

// createImportRun parses the uploaded file into draft moves. Row problems do
// not fail the request; they land in the run's log protocol.
func (h *importHandler) createImportRun(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req dto.CreateImportRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	run, err := h.importService.CreateImportRun(c.Request.Context(), req, userID)
	if err != nil {
		logger.Error("Failed to create import run", "companyID", req.CompanyID, "error", err)
		c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, dto.ToImportRunResponse(run))
}

func (h *importHandler) listImportRuns(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Query("companyID")
	if companyID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "companyID query parameter required"})
		return
	}
	limit, offset := listParams(c)

	runs, err := h.importService.ListImportRuns(c.Request.Context(), companyID, limit, offset)
	if err != nil {
		logger.Error("Failed to list import runs", "companyID", companyID, "error", err)
		c.JSON(statusForError(err), ErrorResponse{Error: "Failed to list import runs"})
		return
	}
	resp := make([]dto.ImportRunResponse, 0, len(runs))
	for i := range runs {
		resp = append(resp, dto.ToImportRunResponse(&runs[i]))
	}
	c.JSON(http.StatusOK, gin.H{"importRuns": resp})
}

func (h *importHandler) getImportRun(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	importRunID := c.Param("import_run_id")

	run, err := h.importService.GetImportRun(c.Request.Context(), importRunID)
	if err != nil {
		logger.Warn("Failed to get import run", "importRunID", importRunID, "error", err)
		c.JSON(statusForError(err), ErrorResponse{Error: "Failed to get import run"})
		return
	}
	c.JSON(http.StatusOK, dto.ToImportRunResponse(run))
}

func (h *importHandler) confirmImportRun(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	importRunID := c.Param("import_run_id")
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	run, err := h.importService.ConfirmImportRun(c.Request.Context(), importRunID, userID)
	if err != nil {
		logger.Error("Failed to confirm import run", "importRunID", importRunID, "error", err)
		c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.ToImportRunResponse(run))
}

func (h *importHandler) resetImportRun(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	importRunID := c.Param("import_run_id")
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	run, err := h.importService.ResetImportRun(c.Request.Context(), importRunID, userID)
	if err != nil {
		logger.Error("Failed to reset import run", "importRunID", importRunID, "error", err)
		c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.ToImportRunResponse(run))
}
