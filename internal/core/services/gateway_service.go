package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/coop_ledger/internal/adapters/gateway"
	"github.com/SscSPs/coop_ledger/internal/apperrors"
	"github.com/SscSPs/coop_ledger/internal/core/domain"
	"github.com/SscSPs/coop_ledger/internal/core/ports/providers"
	portsrepo "github.com/SscSPs/coop_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/coop_ledger/internal/core/ports/services"
	"github.com/SscSPs/coop_ledger/internal/dto"
	"github.com/SscSPs/coop_ledger/internal/platform/metrics"
)

// Webhook outcomes recorded in metrics.
const (
	webhookApplied  = "applied"
	webhookIgnored  = "ignored"
	webhookRejected = "rejected"
	webhookFailed   = "failed"
)

type gatewayService struct {
	BaseService
	settings  portssvc.SettingsSvc
	lifecycle portssvc.PaymentSvcFacade
	payments  portsrepo.PaymentRepositoryFacade
	provider  providers.CheckoutProvider
	metrics   *metrics.Metrics
}

// GatewayServiceOption is a functional option for the gateway service
type GatewayServiceOption func(*gatewayService)

// WithGatewayMetrics records webhook outcomes.
func WithGatewayMetrics(m *metrics.Metrics) GatewayServiceOption {
	return func(s *gatewayService) {
		s.metrics = m
	}
}

// NewGatewayService creates the payment-provider integration service.
func NewGatewayService(
	settings portssvc.SettingsSvc,
	lifecycle portssvc.PaymentSvcFacade,
	payments portsrepo.PaymentRepositoryFacade,
	provider providers.CheckoutProvider,
	options ...GatewayServiceOption,
) portssvc.GatewaySvc {
	svc := &gatewayService{
		settings:  settings,
		lifecycle: lifecycle,
		payments:  payments,
		provider:  provider,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.GatewaySvc = (*gatewayService)(nil)

func (s *gatewayService) HandleWebhook(ctx context.Context, signatureHeader string, rawBody []byte) error {
	cfg, err := s.settings.PaymentSettings(ctx)
	if err != nil {
		s.metrics.WebhookReceived(webhookFailed)
		return err
	}
	if cfg.WebhookSecret == "" {
		s.metrics.WebhookReceived(webhookFailed)
		return fmt.Errorf("%w: webhook secret is not configured", apperrors.ErrInternal)
	}
	if err := gateway.VerifySignature(signatureHeader, rawBody, cfg.WebhookSecret, cfg.SignatureTolerance, s.Now()); err != nil {
		s.metrics.WebhookReceived(webhookRejected)
		s.LogWarn(ctx, "Rejected webhook", slog.String("reason", err.Error()))
		return err
	}

	event, err := gateway.ParseEvent(rawBody)
	if err != nil {
		s.metrics.WebhookReceived(webhookRejected)
		return err
	}
	logger := s.GetLogger(ctx).With(slog.String("event_id", event.ID), slog.String("event_type", event.Type))
	if !event.IsPaid() {
		s.metrics.WebhookReceived(webhookIgnored)
		logger.Debug("Ignoring webhook event")
		return nil
	}

	payment, err := s.resolvePayment(ctx, event, cfg.ReferencePrefix)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Acknowledge so the provider stops retrying an event we can never match.
			s.metrics.WebhookReceived(webhookIgnored)
			logger.Warn("Webhook references an unknown payment", slog.String("reference", event.Reference()))
			return nil
		}
		s.metrics.WebhookReceived(webhookFailed)
		return err
	}

	_, changed, err := s.lifecycle.MarkPaidFromGateway(ctx, payment.PaymentID)
	if errors.Is(err, domain.ErrInvalidTransition) {
		// Voided or rejected locally; redelivery cannot change that.
		s.metrics.WebhookReceived(webhookIgnored)
		logger.Warn("Webhook confirms a payment that can no longer be paid",
			slog.String("payment_id", payment.PaymentID), slog.String("status", string(payment.Status)))
		return nil
	}
	if err != nil {
		s.metrics.WebhookReceived(webhookFailed)
		logger.Error("Failed to apply payment confirmation", slog.String("payment_id", payment.PaymentID), slog.String("error", err.Error()))
		return err
	}
	s.metrics.WebhookReceived(webhookApplied)
	logger.Info("Payment confirmation applied", slog.String("payment_id", payment.PaymentID), slog.Bool("changed", changed))
	return nil
}

// resolvePayment tries metadata payment_id, then the reference with the prefix
// stripped as an id, then the full reference number.
func (s *gatewayService) resolvePayment(ctx context.Context, event *gateway.Event, prefix string) (*domain.Payment, error) {
	candidates := []string{}
	if event.PaymentID != "" {
		candidates = append(candidates, event.PaymentID)
	}
	ref := event.Reference()
	if stripped := gateway.StripPrefix(ref, prefix); stripped != "" {
		candidates = append(candidates, stripped)
	}
	for _, id := range candidates {
		payment, err := s.payments.FindPaymentByID(ctx, id)
		if err == nil {
			return payment, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	}
	if ref == "" {
		return nil, fmt.Errorf("%w: webhook carries no payment reference", apperrors.ErrNotFound)
	}
	return s.payments.FindPaymentByReference(ctx, ref)
}

func (s *gatewayService) CreateCheckoutSession(ctx context.Context, paymentID string, req dto.CheckoutRequest, caller domain.Caller) (*domain.CheckoutSession, error) {
	payment, err := s.lifecycle.GetPayment(ctx, paymentID, caller)
	if err != nil {
		return nil, err
	}
	if payment.Status != domain.PaymentPending {
		return nil, fmt.Errorf("%w: payment is %s, checkout needs a pending payment", apperrors.ErrConflict, payment.Status)
	}

	cfg, err := s.settings.PaymentSettings(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.ProviderBaseURL == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("%w: payment provider is not configured", apperrors.ErrUpstream)
	}

	successURL, cancelURL := cfg.SuccessURL, cfg.CancelURL
	if ret := strings.TrimSpace(req.ReturnURL); ret != "" {
		successURL, cancelURL = ret, ret
	}
	method := strings.TrimSpace(req.Method)
	if method == "" {
		method = payment.Method
	}

	result, err := s.provider.CreateCheckoutSession(ctx, providers.CheckoutParams{
		BaseURL:     cfg.ProviderBaseURL,
		SecretKey:   cfg.SecretKey,
		PaymentID:   payment.PaymentID,
		ReferenceNo: payment.ReferenceNo,
		Description: describe(payment),
		Amount:      payment.Amount,
		Currency:    cfg.Currency,
		Method:      method,
		SuccessURL:  successURL,
		CancelURL:   cancelURL,
	})
	if err != nil {
		s.LogError(ctx, err, "Checkout session creation failed", slog.String("payment_id", paymentID))
		return nil, err
	}

	if err := s.payments.UpdateCheckout(ctx, paymentID, result.CheckoutURL, result.ProviderID, s.Now()); err != nil {
		return nil, fmt.Errorf("failed to record checkout session: %w", err)
	}
	s.LogInfo(ctx, "Checkout session created", slog.String("payment_id", paymentID), slog.String("provider_id", result.ProviderID))
	return &domain.CheckoutSession{OK: true, URL: result.CheckoutURL, ProviderID: result.ProviderID}, nil
}
