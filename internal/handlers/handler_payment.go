package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/SscSPs/coop_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/coop_ledger/internal/core/ports/services"
	"github.com/SscSPs/coop_ledger/internal/dto"
	"github.com/SscSPs/coop_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// paymentHandler handles HTTP requests for the payment lifecycle.
type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
	gatewayService portssvc.GatewaySvc
}

func newPaymentHandler(ps portssvc.PaymentSvcFacade, gs portssvc.GatewaySvc) *paymentHandler {
	return &paymentHandler{paymentService: ps, gatewayService: gs}
}

// registerPaymentRoutes registers routes related to payments.
func registerPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade, gatewayService portssvc.GatewaySvc) {
	h := newPaymentHandler(paymentService, gatewayService)
	elevated := middleware.RequireRoles(domain.RoleNameAdmin, domain.RoleNameStaff, domain.RoleNameTreasurer)

	payments := rg.Group("/payments")
	{
		payments.POST("", h.createPayment)
		payments.GET("/:paymentID", h.getPayment)
		payments.POST("/:paymentID/approve", elevated, h.approvePayment)
		payments.POST("/:paymentID/reject", elevated, h.rejectPayment)
		payments.POST("/:paymentID/void", h.voidPayment)
		payments.POST("/:paymentID/refund", elevated, h.refundPayment)
		payments.POST("/:paymentID/repost", elevated, h.repostPayment)
		payments.POST("/:paymentID/checkout", h.createCheckout)
	}
}

// callerOrAbort fetches the authenticated caller or writes 401.
func callerOrAbort(c *gin.Context, logger *slog.Logger) (domain.Caller, bool) {
	caller, ok := middleware.GetCallerFromContext(c)
	if !ok {
		logger.Error("Caller not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
	return caller, ok
}

// createPayment godoc
// @Summary Record a member payment
// @Description Creates a pending payment for the caller, or for another member when the caller is elevated
// @Tags payments
// @Accept json
// @Produce json
// @Param payment body dto.CreatePaymentRequest true "Payment details"
// @Success 201 {object} domain.Payment
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to create payment"
// @Security BearerAuth
// @Router /payments [post]
func (h *paymentHandler) createPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caller, ok := callerOrAbort(c, logger)
	if !ok {
		return
	}

	var req dto.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	payment, err := h.paymentService.CreatePayment(c.Request.Context(), req, caller)
	if err != nil {
		respondError(c, logger, err, "Failed to create payment")
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// getPayment godoc
// @Summary Get a payment
// @Tags payments
// @Produce json
// @Param paymentID path string true "Payment ID"
// @Success 200 {object} domain.Payment
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Payment not found"
// @Security BearerAuth
// @Router /payments/{paymentID} [get]
func (h *paymentHandler) getPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caller, ok := callerOrAbort(c, logger)
	if !ok {
		return
	}
	payment, err := h.paymentService.GetPayment(c.Request.Context(), c.Param("paymentID"), caller)
	if err != nil {
		respondError(c, logger, err, "Failed to get payment")
		return
	}
	c.JSON(http.StatusOK, payment)
}

// approvePayment godoc
// @Summary Approve a pending payment
// @Description Marks the payment paid and posts it to the journal. Loan repayments may carry the principal/interest split.
// @Tags payments
// @Accept json
// @Produce json
// @Param paymentID path string true "Payment ID"
// @Param split body dto.ApprovePaymentRequest false "Loan split"
// @Success 200 {object} dto.PostingResponse
// @Failure 400 {object} map[string]string "Invalid transition or split"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "Payment not found"
// @Failure 500 {object} map[string]string "Posting failed"
// @Security BearerAuth
// @Router /payments/{paymentID}/approve [post]
func (h *paymentHandler) approvePayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caller, ok := callerOrAbort(c, logger)
	if !ok {
		return
	}

	var req dto.ApprovePaymentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for ApprovePayment", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	result, err := h.paymentService.ApprovePayment(c.Request.Context(), c.Param("paymentID"), req, caller)
	if err != nil {
		respondError(c, logger, err, "Failed to approve payment")
		return
	}
	c.JSON(http.StatusOK, dto.ToPostingResponse(result))
}

// rejectPayment godoc
// @Summary Reject a pending payment
// @Tags payments
// @Produce json
// @Param paymentID path string true "Payment ID"
// @Success 200 {object} domain.Payment
// @Failure 400 {object} map[string]string "Invalid transition"
// @Security BearerAuth
// @Router /payments/{paymentID}/reject [post]
func (h *paymentHandler) rejectPayment(c *gin.Context) {
	h.transition(c, "reject", h.paymentService.RejectPayment)
}

// voidPayment godoc
// @Summary Void a pending payment
// @Description The owner or an elevated caller may void a payment that is still pending.
// @Tags payments
// @Produce json
// @Param paymentID path string true "Payment ID"
// @Success 200 {object} domain.Payment
// @Failure 400 {object} map[string]string "Invalid transition"
// @Security BearerAuth
// @Router /payments/{paymentID}/void [post]
func (h *paymentHandler) voidPayment(c *gin.Context) {
	h.transition(c, "void", h.paymentService.VoidPayment)
}

// refundPayment godoc
// @Summary Refund a paid payment
// @Tags payments
// @Produce json
// @Param paymentID path string true "Payment ID"
// @Success 200 {object} domain.Payment
// @Failure 400 {object} map[string]string "Invalid transition"
// @Security BearerAuth
// @Router /payments/{paymentID}/refund [post]
func (h *paymentHandler) refundPayment(c *gin.Context) {
	h.transition(c, "refund", h.paymentService.RefundPayment)
}

type transitionFunc func(ctx context.Context, paymentID string, caller domain.Caller) (*domain.Payment, error)

func (h *paymentHandler) transition(c *gin.Context, action string, fn transitionFunc) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caller, ok := callerOrAbort(c, logger)
	if !ok {
		return
	}
	paymentID := c.Param("paymentID")
	payment, err := fn(c.Request.Context(), paymentID, caller)
	if err != nil {
		respondError(c, logger.With(slog.String("payment_id", paymentID)), err, "Failed to "+action+" payment")
		return
	}
	c.JSON(http.StatusOK, payment)
}

// repostPayment godoc
// @Summary Re-run posting for a paid payment
// @Description Idempotent; an already posted payment reports alreadyPosted.
// @Tags payments
// @Produce json
// @Param paymentID path string true "Payment ID"
// @Success 200 {object} dto.PostingResponse
// @Failure 409 {object} map[string]string "Posting already in progress"
// @Security BearerAuth
// @Router /payments/{paymentID}/repost [post]
func (h *paymentHandler) repostPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caller, ok := callerOrAbort(c, logger)
	if !ok {
		return
	}
	result, err := h.paymentService.RepostPayment(c.Request.Context(), c.Param("paymentID"), caller)
	if err != nil {
		respondError(c, logger, err, "Failed to repost payment")
		return
	}
	c.JSON(http.StatusOK, dto.ToPostingResponse(result))
}

// createCheckout godoc
// @Summary Open a hosted checkout for a pending payment
// @Tags payments
// @Accept json
// @Produce json
// @Param paymentID path string true "Payment ID"
// @Param checkout body dto.CheckoutRequest false "Return URL and method"
// @Success 200 {object} dto.CheckoutResponse
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 409 {object} map[string]string "Payment is not pending"
// @Failure 502 {object} map[string]string "Provider error"
// @Security BearerAuth
// @Router /payments/{paymentID}/checkout [post]
func (h *paymentHandler) createCheckout(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	caller, ok := callerOrAbort(c, logger)
	if !ok {
		return
	}

	var req dto.CheckoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	session, err := h.gatewayService.CreateCheckoutSession(c.Request.Context(), c.Param("paymentID"), req, caller)
	if err != nil {
		respondError(c, logger, err, "Failed to create checkout session")
		return
	}
	c.JSON(http.StatusOK, dto.CheckoutResponse{OK: session.OK, URL: session.URL, ProviderID: session.ProviderID})
}
