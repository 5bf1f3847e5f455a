package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/coop_ledger/internal/core/ports/services"
	"github.com/SscSPs/coop_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// settingsHandler exposes the accounting settings document and member numbering.
type settingsHandler struct {
	settingsService portssvc.SettingsSvc
	sequenceService portssvc.SequenceSvc
}

func registerSettingsRoutes(rg *gin.RouterGroup, settingsService portssvc.SettingsSvc, sequenceService portssvc.SequenceSvc) {
	h := &settingsHandler{settingsService: settingsService, sequenceService: sequenceService}
	elevated := middleware.RequireRoles(domain.RoleNameAdmin, domain.RoleNameStaff, domain.RoleNameTreasurer)

	rg.GET("/settings/accounting", elevated, h.getAccountingSettings)
	rg.PUT("/settings/accounting", middleware.RequireRoles(domain.RoleNameAdmin), h.putAccountingSettings)
	rg.POST("/members/ids", elevated, h.nextMemberID)
}

// getAccountingSettings godoc
// @Summary Get accounting settings
// @Description Account-name mapping used by posting, with defaults filled in
// @Tags settings
// @Produce json
// @Success 200 {object} domain.AccountingSettings
// @Security BearerAuth
// @Router /settings/accounting [get]
func (h *settingsHandler) getAccountingSettings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	settings, err := h.settingsService.AccountingSettings(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to load accounting settings")
		return
	}
	c.JSON(http.StatusOK, settings)
}

// putAccountingSettings godoc
// @Summary Replace accounting settings
// @Description Blank fields fall back to the configured defaults (admin only)
// @Tags settings
// @Accept json
// @Produce json
// @Param settings body domain.AccountingSettings true "Settings"
// @Success 200 {object} domain.AccountingSettings
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /settings/accounting [put]
func (h *settingsHandler) putAccountingSettings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req domain.AccountingSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for accounting settings", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	if err := h.settingsService.SaveAccountingSettings(c.Request.Context(), req); err != nil {
		respondError(c, logger, err, "Failed to save accounting settings")
		return
	}
	h.getAccountingSettings(c)
}

type memberIDRequest struct {
	Year int `json:"year" binding:"omitempty,min=2000,max=9999"`
}

// nextMemberID godoc
// @Summary Issue the next member id
// @Description Year-scoped counter formatted as YYYY-0000n; year defaults to the current one
// @Tags settings
// @Accept json
// @Produce json
// @Param request body memberIDRequest false "Year"
// @Success 201 {object} map[string]string
// @Security BearerAuth
// @Router /members/ids [post]
func (h *settingsHandler) nextMemberID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req memberIDRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}
	if req.Year == 0 {
		req.Year = time.Now().Year()
	}
	id, err := h.sequenceService.NextMemberID(c.Request.Context(), req.Year)
	if err != nil {
		respondError(c, logger, err, "Failed to issue member id")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"memberID": id})
}
