package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/Finterra/ledger_exchange_app/internal/core/ports/services"
	"github.com/Finterra/ledger_exchange_app/internal/dto"
	"github.com/Finterra/ledger_exchange_app/internal/middleware"
)

// companyHandler serves the company export configuration and the master data
// lookup lists clients need to build exports and imports.
type companyHandler struct {
	masterDataService portssvc.MasterDataSvcFacade
	templateService   portssvc.TemplateSvcFacade
}

func newCompanyHandler(mds portssvc.MasterDataSvcFacade, ts portssvc.TemplateSvcFacade) *companyHandler {
	return &companyHandler{masterDataService: mds, templateService: ts}
}

func registerCompanyRoutes(rg *gin.RouterGroup, mds portssvc.MasterDataSvcFacade, ts portssvc.TemplateSvcFacade) {
	h := newCompanyHandler(mds, ts)

	companies := rg.Group("/companies/:company_id")
	{
		companies.GET("", h.getCompany)
		companies.PUT("/export-config", h.updateExportConfig)
		companies.POST("/templates/seed", h.seedTemplates)

		companies.GET("/accounts", h.listAccounts)
		companies.GET("/partners", h.listPartners)
		companies.GET("/journals", h.listJournals)
		companies.GET("/taxes", h.listTaxes)
		companies.GET("/moves", h.listMoves)
	}
}

func (h *companyHandler) getCompany(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	company, err := h.masterDataService.GetCompany(c.Request.Context(), companyID)
	if err != nil {
		logger.Warn("Failed to get company", "companyID", companyID, "error", err)
		c.JSON(statusForError(err), ErrorResponse{Error: "Failed to get company"})
		return
	}
	c.JSON(http.StatusOK, dto.ToCompanyResponse(company))
}

func (h *companyHandler) updateExportConfig(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	var req dto.UpdateExportConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	company, err := h.masterDataService.UpdateExportConfig(c.Request.Context(), companyID, req, userID)
	if err != nil {
		logger.Error("Failed to update export config", "companyID", companyID, "error", err)
		c.JSON(statusForError(err), ErrorResponse{Error: "Failed to update export config"})
		return
	}
	c.JSON(http.StatusOK, dto.ToCompanyResponse(company))
}

// seedTemplates installs the built-in export templates for a company that has
// none yet.
func (h *companyHandler) seedTemplates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return
	}

	if err := h.templateService.SeedDefaultTemplates(c.Request.Context(), companyID, userID); err != nil {
		logger.Error("Failed to seed templates", "companyID", companyID, "error", err)
		c.JSON(statusForError(err), ErrorResponse{Error: "Failed to seed templates"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *companyHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	limit, offset := listParams(c)

	accounts, err := h.masterDataService.ListAccounts(c.Request.Context(), companyID, limit, offset)
	if err != nil {
		logger.Error("Failed to list accounts", "companyID", companyID, "error", err)
		c.JSON(statusForError(err), ErrorResponse{Error: "Failed to list accounts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

func (h *companyHandler) listPartners(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	limit, offset := listParams(c)

	partners, err := h.masterDataService.ListPartners(c.Request.Context(), companyID, limit, offset)
	if err != nil {
		logger.Error("Failed to list partners", "companyID", companyID, "error", err)
		c.JSON(statusForError(err), ErrorResponse{Error: "Failed to list partners"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"partners": partners})
}

func (h *companyHandler) listJournals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	journals, err := h.masterDataService.ListJournals(c.Request.Context(), companyID)
	if err != nil {
		logger.Error("Failed to list journals", "companyID", companyID, "error", err)
		c.JSON(statusForError(err), ErrorResponse{Error: "Failed to list journals"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"journals": journals})
}

func (h *companyHandler) listTaxes(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")

	taxes, err := h.masterDataService.ListTaxes(c.Request.Context(), companyID)
	if err != nil {
		logger.Error("Failed to list taxes", "companyID", companyID, "error", err)
		c.JSON(statusForError(err), ErrorResponse{Error: "Failed to list taxes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"taxes": taxes})
}

func (h *companyHandler) listMoves(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	companyID := c.Param("company_id")
	limit, offset := listParams(c)

	moves, err := h.masterDataService.ListMoves(c.Request.Context(), companyID, limit, offset)
	if err != nil {
		logger.Error("Failed to list moves", "companyID", companyID, "error", err)
		c.JSON(statusForError(err), ErrorResponse{Error: "Failed to list moves"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"moves": moves})
}
