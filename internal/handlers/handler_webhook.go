package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/SscSPs/coop_ledger/internal/adapters/gateway"
	portssvc "github.com/SscSPs/coop_ledger/internal/core/ports/services"
	"github.com/SscSPs/coop_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// maxWebhookBody caps provider payloads; real events are a few KB.
const maxWebhookBody = 1 << 20

// webhookHandler receives payment provider events. It authenticates by
// signature, not JWT.
type webhookHandler struct {
	gatewayService portssvc.GatewaySvc
}

func newWebhookHandler(gs portssvc.GatewaySvc) *webhookHandler {
	return &webhookHandler{gatewayService: gs}
}

// registerWebhookRoutes mounts the provider callback. Methods other than POST get 405.
func registerWebhookRoutes(rg *gin.RouterGroup, gatewayService portssvc.GatewaySvc) {
	h := newWebhookHandler(gatewayService)
	rg.POST("/payments", h.receive)
	for _, method := range []string{
		http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete,
		http.MethodHead, http.MethodOptions,
	} {
		rg.Handle(method, "/payments", h.methodNotAllowed)
	}
}

// receive godoc
// @Summary Payment provider webhook
// @Description Verifies the X-Signature header over the raw body and marks the referenced payment paid
// @Tags webhooks
// @Accept json
// @Produce json
// @Param X-Signature header string true "t=<unix>,s=<hex hmac>"
// @Success 200 {object} map[string]bool
// @Failure 401 {object} map[string]string "Bad signature"
// @Failure 405 {object} map[string]string "Method not allowed"
// @Failure 500 {object} map[string]string "Processing failed"
// @Router /webhooks/payments [post]
func (h *webhookHandler) receive(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Payload too large"})
			return
		}
		logger.Warn("Failed to read webhook body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unreadable body"})
		return
	}

	if err := h.gatewayService.HandleWebhook(c.Request.Context(), c.GetHeader(gateway.SignatureHeader), body); err != nil {
		respondError(c, logger, err, "Failed to process webhook")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *webhookHandler) methodNotAllowed(c *gin.Context) {
	c.Header("Allow", http.MethodPost)
	c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
}
