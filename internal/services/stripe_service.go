package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/albanianalps/agency-backend/internal/config"
	"github.com/albanianalps/agency-backend/internal/models"
)

// StripeService verifies payments against the Stripe PaymentIntents API.
// Without a secret key it falls back to a format-only check that is logged as
// insecure and refused entirely in production mode.
type StripeService struct {
	cfg        config.StripeConfig
	production bool
	logger     *logrus.Logger
	client     *http.Client
}

// NewStripeService creates a new Stripe payment service
func NewStripeService(cfg config.StripeConfig, production bool, logger *logrus.Logger) *StripeService {
	return &StripeService{
		cfg:        cfg,
		production: production,
		logger:     logger,
		client:     newProviderClient(),
	}
}

// Method returns the payment method handled by this service
func (s *StripeService) Method() models.PaymentMethod {
	return models.PaymentMethodStripe
}

// Process verifies the referenced PaymentIntent and, on acceptance, stores
// the provider reference fields on the booking.
func (s *StripeService) Process(ctx context.Context, req *models.BookingRequest, booking *models.Booking) models.PaymentOutcome {
	info := req.Stripe
	if info == nil {
		return models.RejectedOutcome("stripe payment details are missing")
	}

	outcome := s.Verify(ctx, info.PaymentIntentID)
	if outcome.Accepted {
		intentID := strings.TrimSpace(info.PaymentIntentID)
		booking.StripePaymentIntentID = &intentID
	}
	return outcome
}

// Verify retrieves the PaymentIntent and accepts only status "succeeded".
func (s *StripeService) Verify(ctx context.Context, paymentIntentID string) models.PaymentOutcome {
	paymentIntentID = strings.TrimSpace(paymentIntentID)
	if paymentIntentID == "" {
		return models.RejectedOutcome("stripe payment intent id is missing")
	}

	if s.cfg.SecretKey == "" {
		return s.fallbackVerify(paymentIntentID)
	}

	intent, err := s.retrievePaymentIntent(ctx, paymentIntentID)
	if err != nil {
		s.logger.WithError(err).WithField("payment_intent_id", paymentIntentID).Error("Failed to retrieve Stripe payment intent")
		return models.RejectedOutcome(fmt.Sprintf("failed to retrieve stripe payment intent: %v", err))
	}

	if intent.Status != "succeeded" {
		return models.RejectedOutcome(fmt.Sprintf("stripe payment intent status is %s", intent.Status))
	}

	s.logger.WithField("payment_intent_id", intent.ID).Info("Stripe payment verified")
	return models.AcceptedOutcome(intent.ID)
}

// fallbackVerify accepts pi_-shaped ids without contacting Stripe.
// INSECURE: only for environments without credentials; a production build
// refuses this path.
func (s *StripeService) fallbackVerify(paymentIntentID string) models.PaymentOutcome {
	if s.production {
		s.logger.Error("Stripe secret key not configured in production, rejecting payment")
		return models.RejectedOutcome("stripe secret key is not configured")
	}

	s.logger.WithField("payment_intent_id", paymentIntentID).Warn(
		"STRIPE_SECRET_KEY not configured; accepting payment intent on format only. " +
			"This validation is INSECURE and must not be enabled in production.")

	if !strings.HasPrefix(paymentIntentID, "pi_") {
		return models.RejectedOutcome(fmt.Sprintf("invalid stripe payment intent id format: %s", paymentIntentID))
	}
	return models.AcceptedOutcome(paymentIntentID)
}

// CreatePaymentIntent creates a PaymentIntent for the given amount and
// returns its id. Amount is in major currency units.
func (s *StripeService) CreatePaymentIntent(ctx context.Context, amount float64, currency, description string) (string, error) {
	if s.cfg.SecretKey == "" {
		return "", fmt.Errorf("stripe secret key is not configured")
	}

	form := url.Values{}
	form.Set("amount", fmt.Sprintf("%d", int64(amount*100))) // cents
	form.Set("currency", strings.ToLower(currency))
	form.Set("description", description)
	form.Set("automatic_payment_methods[enabled]", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.cfg.BaseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.SecretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to create payment intent: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("stripe returned status %d: %s", resp.StatusCode, stripeErrorMessage(body))
	}

	var intent paymentIntent
	if err := json.Unmarshal(body, &intent); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"payment_intent_id": intent.ID,
		"amount":            amount,
		"currency":          currency,
	}).Info("Stripe payment intent created")

	return intent.ID, nil
}

type paymentIntent struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (s *StripeService) retrievePaymentIntent(ctx context.Context, paymentIntentID string) (*paymentIntent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.cfg.BaseURL+"/v1/payment_intents/"+url.PathEscape(paymentIntentID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.SecretKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stripe returned status %d: %s", resp.StatusCode, stripeErrorMessage(body))
	}

	var intent paymentIntent
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &intent, nil
}

func stripeErrorMessage(body []byte) string {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return string(body)
}
