package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/coop_ledger/internal/core/ports/services"
	"github.com/SscSPs/coop_ledger/internal/dto"
	"github.com/SscSPs/coop_ledger/internal/middleware"
	"github.com/SscSPs/coop_ledger/internal/utils/accounting"
	"github.com/SscSPs/coop_ledger/internal/utils/pagination"
	"github.com/gin-gonic/gin"
)

// ledgerHandler exposes journal entries and the mirrored line ledger.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)
	elevated := middleware.RequireRoles(domain.RoleNameAdmin, domain.RoleNameStaff, domain.RoleNameTreasurer)

	ledger := rg.Group("/ledger")
	{
		ledger.GET("/lines", h.listLines)
		ledger.GET("/entries", h.listEntries)
		ledger.POST("/entries", elevated, h.createEntry)
		ledger.GET("/entries/:journalID", h.getEntry)
	}
}

// inclusiveTo moves a date-only upper bound to the end of that day.
func inclusiveTo(params *dto.ListLinesParams) {
	if params.To != nil {
		end := accounting.EndOfDay(*params.To)
		params.To = &end
	}
}

// listLines godoc
// @Summary List mirrored journal lines
// @Description Lines dated within [from, to], optionally for one account, with totals
// @Tags ledger
// @Produce json
// @Param accountID query string false "Account ID"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD), inclusive"
// @Success 200 {object} dto.ListLinesResponse
// @Failure 400 {object} map[string]string "Invalid query"
// @Security BearerAuth
// @Router /ledger/lines [get]
func (h *ledgerHandler) listLines(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListLinesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	inclusiveTo(&params)

	lines, err := h.ledgerService.LinesInRange(c.Request.Context(), params.AccountID, params.From, params.To)
	if err != nil {
		respondError(c, logger, err, "Failed to list journal lines")
		return
	}
	c.JSON(http.StatusOK, dto.ToListLinesResponse(lines))
}

// listEntries godoc
// @Summary List journal entries
// @Description Pages in date then reference order; pass nextToken back to continue.
// @Tags ledger
// @Produce json
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD), inclusive"
// @Param limit query int false "Page size (max 200)"
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListEntriesResponse
// @Security BearerAuth
// @Router /ledger/entries [get]
func (h *ledgerHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	after, err := pagination.DecodeEntryCursor(params.NextToken)
	if err != nil {
		respondError(c, logger, err, "Invalid page token")
		return
	}
	if params.To != nil {
		to := accounting.EndOfDay(*params.To)
		params.To = &to
	}

	entries, next, err := h.ledgerService.ListEntries(c.Request.Context(), domain.EntryQuery{
		From:  params.From,
		To:    params.To,
		After: after,
		Limit: params.Limit,
	})
	if err != nil {
		respondError(c, logger, err, "Failed to list journal entries")
		return
	}
	res := dto.ListEntriesResponse{
		Entries:   make([]dto.JournalEntryResponse, len(entries)),
		NextToken: pagination.EncodeEntryCursor(next),
	}
	for i := range entries {
		res.Entries[i] = dto.ToJournalEntryResponse(&entries[i])
	}
	c.JSON(http.StatusOK, res)
}

// createEntry godoc
// @Summary Record a manual journal entry
// @Description Validates balance and numbering; lines must not be negative
// @Tags ledger
// @Accept json
// @Produce json
// @Param entry body dto.CreateJournalEntryRequest true "Entry"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 400 {object} map[string]string "Unbalanced or invalid entry"
// @Security BearerAuth
// @Router /ledger/entries [post]
func (h *ledgerHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateJournalEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	entry, err := h.ledgerService.CreateManualEntry(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create journal entry")
		return
	}
	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(entry))
}

// getEntry godoc
// @Summary Get a journal entry
// @Tags ledger
// @Produce json
// @Param journalID path string true "Journal ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 404 {object} map[string]string "Entry not found"
// @Security BearerAuth
// @Router /ledger/entries/{journalID} [get]
func (h *ledgerHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entry, err := h.ledgerService.GetEntry(c.Request.Context(), c.Param("journalID"))
	if err != nil {
		respondError(c, logger, err, "Failed to get journal entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}
