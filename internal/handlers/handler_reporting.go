package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/coop_ledger/internal/core/ports/services"
	"github.com/SscSPs/coop_ledger/internal/dto"
	"github.com/SscSPs/coop_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers routes related to financial reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)
	elevated := middleware.RequireRoles(domain.RoleNameAdmin, domain.RoleNameStaff, domain.RoleNameTreasurer)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.POST("/rebuild", elevated, h.rebuild)
		reportingGroup.GET("/snapshots", h.listSnapshots)
		reportingGroup.POST("/snapshots/balance-sheet", elevated, h.saveBalanceSheetSnapshot)
		reportingGroup.GET("/:reportID", h.getReport)
	}
}

// rebuild godoc
// @Summary Rebuild the financial statements
// @Description Recomputes trial balance, income statement, balance sheet and cash flow and overwrites the auto_* caches
// @Tags reports
// @Produce json
// @Success 200 {object} dto.RebuildResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to rebuild reports"
// @Security BearerAuth
// @Router /reports/rebuild [post]
func (h *reportingHandler) rebuild(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if _, err := h.reportingService.Rebuild(c.Request.Context()); err != nil {
		respondError(c, logger, err, "Failed to rebuild reports")
		return
	}
	c.JSON(http.StatusOK, dto.RebuildResponse{OK: true})
}

// getReport godoc
// @Summary Get a cached report
// @Description Returns auto_tb, auto_is, auto_bs or auto_cf as written by the last rebuild
// @Tags reports
// @Produce json
// @Param reportID path string true "Report ID"
// @Success 200 {object} dto.ReportResponse
// @Failure 404 {object} map[string]string "Report not found"
// @Security BearerAuth
// @Router /reports/{reportID} [get]
func (h *reportingHandler) getReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	reportID := c.Param("reportID")
	report, err := h.reportingService.GetReport(c.Request.Context(), reportID)
	if err != nil {
		respondError(c, logger.With(slog.String("report_id", reportID)), err, "Failed to get report")
		return
	}
	c.JSON(http.StatusOK, dto.ToReportResponse(report))
}

// saveBalanceSheetSnapshot godoc
// @Summary Freeze the current balance sheet
// @Description Saves an immutable balance sheet snapshot; later rebuilds roll retained income forward from it
// @Tags reports
// @Produce json
// @Success 201 {object} domain.ReportSnapshot
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to save snapshot"
// @Security BearerAuth
// @Router /reports/snapshots/balance-sheet [post]
func (h *reportingHandler) saveBalanceSheetSnapshot(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	snapshot, err := h.reportingService.SaveBalanceSheetSnapshot(c.Request.Context(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to save snapshot")
		return
	}
	c.JSON(http.StatusCreated, snapshot)
}

// listSnapshots godoc
// @Summary List saved report snapshots
// @Tags reports
// @Produce json
// @Param type query string false "Report type (TB, IS, BS, CF)" default(BS)
// @Param limit query int false "Max rows" default(20)
// @Success 200 {array} domain.ReportSnapshot
// @Failure 400 {object} map[string]string "Invalid query"
// @Security BearerAuth
// @Router /reports/snapshots [get]
func (h *reportingHandler) listSnapshots(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListSnapshotsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	snapshots, err := h.reportingService.ListSnapshots(c.Request.Context(), domain.ReportType(strings.ToUpper(params.Type)), params.Limit)
	if err != nil {
		respondError(c, logger, err, "Failed to list snapshots")
		return
	}
	if snapshots == nil {
		snapshots = []domain.ReportSnapshot{}
	}
	c.JSON(http.StatusOK, snapshots)
}
