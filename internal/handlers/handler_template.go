package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/Finterra/ledger_exchange_app/internal/core/ports/services"
	"github.com/Finterra/ledger_exchange_app/internal/dto"
	"github.com/Finterra/ledger_exchange_app/internal/middleware"
)

// templateHandler handles HTTP requests for export and import templates.
type templateHandler struct {
	templateService portssvc.TemplateSvcFacade
}

func newTemplateHandler(ts portssvc.TemplateSvcFacade) *templateHandler {
	return &templateHandler{templateService: ts}
}

func registerTemplateRoutes(rg *gin.RouterGroup, ts portssvc.TemplateSvcFacade) {
	h := newTemplateHandler(ts)

	exportTemplates := rg.Group("/export-templates")
	{
		exportTemplates.POST("", h.createExportTemplate)
		exportTemplates.GET("", h.listExportTemplates)
		exportTemplates.GET("/:template_id", h.getExportTemplate)
		exportTemplates.PUT("/:template_id", h.updateExportTemplate)
		exportTemplates.DELETE("/:template_id", h.deleteExportTemplate)
	}

	importTemplates := rg.Group("/import-templates")
	{
		importTemplates.POST("", h.createImportTemplate)
		importTemplates.GET("", h.listImportTemplates)
		importTemplates.GET("/:template_id", h.getImportTemplate)
		importTemplates.PUT("/:template_id", h.updateImportTemplate)
		importTemplates.DELETE("/:template_id", h.deleteImportTemplate)
	}
}

func (h *templateHandler) createExportTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req dto.CreateExportTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	template, err := h.templateService.CreateExportTemplate(c.Request.Context(), req, userID)
	if err != nil {
		logger.Error("Failed to create export template", "error", err)
		c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, dto.ToExportTemplateResponse(template))
}

func (h *templateHandler) listExportTemplates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Query("companyID")
	if companyID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "companyID query parameter required"})
		return
	}

	templates, err := h.templateService.ListExportTemplates(c.Request.Context(), companyID)
	if err != nil {
		logger.Error("Failed to list export templates", "companyID", companyID, "error", err)
		c.JSON(statusForError(err), ErrorResponse{Error: "Failed to list export templates"})
		return
	}
	resp := make([]dto.ExportTemplateResponse, 0, len(templates))
	for i := range templates {
		resp = append(resp, dto.ToExportTemplateResponse(&templates[i]))
	}
	c.JSON(http.StatusOK, gin.H{"templates": resp})
}

func (h *templateHandler) getExportTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templateID := c.Param("template_id")

	template, err := h.templateService.GetExportTemplate(c.Request.Context(), templateID)
	if err != nil {
		logger.Warn("Failed to get export template", "templateID", templateID, "error", err)
		c.JSON(statusForError(err), ErrorResponse{Error: "Failed to get export template"})
		return
	}
	c.JSON(http.StatusOK, dto.ToExportTemplateResponse(template))
}

func (h *templateHandler) updateExportTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templateID := c.Param("template_id")
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req dto.UpdateExportTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	template, err := h.templateService.UpdateExportTemplate(c.Request.Context(), templateID, req, userID)
	if err != nil {
		logger.Error("Failed to update export template", "templateID", templateID, "error", err)
		c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.ToExportTemplateResponse(template))
}

func (h *templateHandler) deleteExportTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templateID := c.Param("template_id")

	if err := h.templateService.DeleteExportTemplate(c.Request.Context(), templateID); err != nil {
		logger.Error("Failed to delete export template", "templateID", templateID, "error", err)
		c.JSON(statusForError(err), ErrorResponse{Error: "Failed to delete export template"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *templateHandler) createImportTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req dto.CreateImportTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	template, err := h.templateService.CreateImportTemplate(c.Request.Context(), req, userID)
	if err != nil {
		logger.Error("Failed to create import template", "error", err)
		c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, dto.ToImportTemplateResponse(template))
}

func (h *templateHandler) listImportTemplates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Query("companyID")
	if companyID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "companyID query parameter required"})
		return
	}

	templates, err := h.templateService.ListImportTemplates(c.Request.Context(), companyID)
	if err != nil {
		logger.Error("Failed to list import templates", "companyID", companyID, "error", err)
		c.JSON(statusForError(err), ErrorResponse{Error: "Failed to list import templates"})
		return
	}
	resp := make([]dto.ImportTemplateResponse, 0, len(templates))
	for i := range templates {
		resp = append(resp, dto.ToImportTemplateResponse(&templates[i]))
	}
	c.JSON(http.StatusOK, gin.H{"templates": resp})
}

func (h *templateHandler) getImportTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templateID := c.Param("template_id")

	template, err := h.templateService.GetImportTemplate(c.Request.Context(), templateID)
	if err != nil {
		logger.Warn("Failed to get import template", "templateID", templateID, "error", err)
		c.JSON(statusForError(err), ErrorResponse{Error: "Failed to get import template"})
		return
	}
	c.JSON(http.StatusOK, dto.ToImportTemplateResponse(template))
}

func (h *templateHandler) updateImportTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templateID := c.Param("template_id")
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req dto.UpdateImportTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	template, err := h.templateService.UpdateImportTemplate(c.Request.Context(), templateID, req, userID)
	if err != nil {
		logger.Error("Failed to update import template", "templateID", templateID, "error", err)
		c.JSON(statusForError(err), ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.ToImportTemplateResponse(template))
}

func (h *templateHandler) deleteImportTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templateID := c.Param("template_id")

	if err := h.templateService.DeleteImportTemplate(c.Request.Context(), templateID); err != nil {
		logger.Error("Failed to delete import template", "templateID", templateID, "error", err)
		c.JSON(statusForError(err), ErrorResponse{Error: "Failed to delete import template"})
		return
	}
	c.Status(http.StatusNoContent)
}
