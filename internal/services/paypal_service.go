package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/albanianalps/agency-backend/internal/config"
	"github.com/albanianalps/agency-backend/internal/models"
)

// syntheticTxnPrefixes mark transaction ids fabricated by legacy client-side
// fallback paths. They were never issued by PayPal and must never be accepted
// as proof of payment.
var syntheticTxnPrefixes = []string{"PAYPAL_FALLBACK_", "CARD_PAYPAL_"}

// disputedCaptureReasons are capture status reasons that carry a fraud or
// dispute signal.
var disputedCaptureReasons = map[string]bool{
	"BUYER_COMPLAINT": true,
	"CHARGEBACK":      true,
	"FRAUD":           true,
}

// PayPalService verifies and captures payments against the PayPal Orders v2
// API. Every operation performs its own client-credentials token exchange;
// tokens are deliberately not cached, so no token state is shared between
// concurrent bookings.
type PayPalService struct {
	cfg    config.PayPalConfig
	logger *logrus.Logger
	client *http.Client
}

// NewPayPalService creates a new PayPal payment service
func NewPayPalService(cfg config.PayPalConfig, logger *logrus.Logger) *PayPalService {
	return &PayPalService{
		cfg:    cfg,
		logger: logger,
		client: newProviderClient(),
	}
}

// Method returns the payment method handled by this service
func (s *PayPalService) Method() models.PaymentMethod {
	return models.PaymentMethodPayPal
}

// Process verifies the referenced PayPal order and, on acceptance, stores the
// provider reference fields on the booking.
func (s *PayPalService) Process(ctx context.Context, req *models.BookingRequest, booking *models.Booking) models.PaymentOutcome {
	info := req.Paypal
	if info == nil {
		return models.RejectedOutcome("paypal payment details are missing")
	}

	outcome := s.Verify(ctx, info.TransactionID, info.Email)
	if outcome.Accepted {
		email := strings.TrimSpace(info.Email)
		txn := strings.TrimSpace(info.TransactionID)
		booking.PaypalEmail = &email
		booking.PaypalTxn = &txn
	}
	return outcome
}

// IsSyntheticTransactionID reports whether the id matches a known
// locally-fabricated prefix.
func IsSyntheticTransactionID(transactionID string) bool {
	for _, prefix := range syntheticTxnPrefixes {
		if strings.HasPrefix(transactionID, prefix) {
			return true
		}
	}
	return false
}

// Verify fetches the referenced order and checks that its payment was
// actually captured. It accepts order status COMPLETED or APPROVED with a
// capture in status COMPLETED or PENDING, and rejects captures carrying a
// dispute reason.
func (s *PayPalService) Verify(ctx context.Context, transactionID, email string) models.PaymentOutcome {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return models.RejectedOutcome("paypal transaction id is missing")
	}

	if IsSyntheticTransactionID(transactionID) {
		s.logger.WithFields(logrus.Fields{
			"transaction_id": transactionID,
			"email":          email,
		}).Warn("Rejecting synthetic PayPal transaction id")
		return models.RejectedOutcome(fmt.Sprintf("transaction id %s was not issued by PayPal", transactionID))
	}

	if !s.cfg.Configured() {
		s.logger.Error("PayPal credentials not configured, rejecting transaction")
		return models.RejectedOutcome("paypal credentials are not configured")
	}

	token, err := s.accessToken(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get PayPal access token")
		return models.RejectedOutcome(fmt.Sprintf("paypal authentication failed: %v", err))
	}

	order, err := s.getOrder(ctx, token, transactionID)
	if err != nil {
		s.logger.WithError(err).WithField("transaction_id", transactionID).Error("Failed to fetch PayPal order")
		return models.RejectedOutcome(fmt.Sprintf("failed to fetch paypal order: %v", err))
	}

	if order.Status != "COMPLETED" && order.Status != "APPROVED" {
		return models.RejectedOutcome(fmt.Sprintf("paypal order status is %s", order.Status))
	}

	capture := order.firstCapture()
	if capture == nil {
		return models.RejectedOutcome("paypal order has no capture")
	}
	if capture.Status != "COMPLETED" && capture.Status != "PENDING" {
		return models.RejectedOutcome(fmt.Sprintf("paypal capture status is %s", capture.Status))
	}
	if capture.StatusDetails != nil && disputedCaptureReasons[capture.StatusDetails.Reason] {
		s.logger.WithFields(logrus.Fields{
			"transaction_id": transactionID,
			"capture_id":     capture.ID,
			"reason":         capture.StatusDetails.Reason,
		}).Warn("Rejecting PayPal capture with dispute reason")
		return models.RejectedOutcome(fmt.Sprintf("paypal capture flagged: %s", capture.StatusDetails.Reason))
	}

	s.logger.WithFields(logrus.Fields{
		"transaction_id": transactionID,
		"capture_id":     capture.ID,
		"order_status":   order.Status,
	}).Info("PayPal payment verified")

	return models.AcceptedOutcome(capture.ID)
}

// CreateOrder posts a single purchase-unit order with intent CAPTURE and
// returns the new order id.
func (s *PayPalService) CreateOrder(ctx context.Context, amount float64, currency, description, customID string) (string, error) {
	if !s.cfg.Configured() {
		return "", fmt.Errorf("paypal credentials are not configured")
	}

	token, err := s.accessToken(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get paypal access token: %w", err)
	}

	body := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{{
			"custom_id":   customID,
			"description": description,
			"amount": map[string]string{
				"currency_code": currency,
				"value":         fmt.Sprintf("%.2f", amount),
			},
		}},
	}

	var order orderResponse
	if err := s.doJSON(ctx, http.MethodPost, "/v2/checkout/orders", token, body, &order); err != nil {
		return "", fmt.Errorf("failed to create paypal order: %w", err)
	}
	if order.ID == "" {
		return "", fmt.Errorf("paypal returned no order id")
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":  order.ID,
		"amount":    amount,
		"currency":  currency,
		"custom_id": customID,
	}).Info("PayPal order created")

	return order.ID, nil
}

// CaptureResult is the outcome of capturing an approved order.
type CaptureResult struct {
	OrderID   string `json:"orderId"`
	CaptureID string `json:"captureId,omitempty"`
	Status    string `json:"status"`
}

// CaptureOrder finalizes an approved order. Capture is not idempotent at
// PayPal: a second capture call on an already-captured order fails, so the
// order state is re-queried first and an "already captured" response from the
// capture call is resolved by re-querying rather than propagated.
func (s *PayPalService) CaptureOrder(ctx context.Context, orderID string) (*CaptureResult, error) {
	if !s.cfg.Configured() {
		return nil, fmt.Errorf("paypal credentials are not configured")
	}

	token, err := s.accessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get paypal access token: %w", err)
	}

	order, err := s.getOrder(ctx, token, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch paypal order %s: %w", orderID, err)
	}

	if result := capturedResult(order); result != nil {
		s.logger.WithField("order_id", orderID).Info("PayPal order already captured, returning recorded state")
		return result, nil
	}

	if order.Status != "APPROVED" {
		return nil, fmt.Errorf("paypal order %s is not approved for capture (status %s)", orderID, order.Status)
	}

	var captured orderResponse
	err = s.doJSON(ctx, http.MethodPost, "/v2/checkout/orders/"+url.PathEscape(orderID)+"/capture", token, struct{}{}, &captured)
	if err != nil {
		if isAlreadyCaptured(err) {
			refetched, refetchErr := s.getOrder(ctx, token, orderID)
			if refetchErr == nil {
				if result := capturedResult(refetched); result != nil {
					s.logger.WithField("order_id", orderID).Info("PayPal capture raced a prior capture, resolved by re-query")
					return result, nil
				}
			}
		}
		return nil, fmt.Errorf("failed to capture paypal order %s: %w", orderID, err)
	}

	if result := capturedResult(&captured); result != nil {
		s.logger.WithFields(logrus.Fields{
			"order_id":   result.OrderID,
			"capture_id": result.CaptureID,
		}).Info("PayPal order captured")
		return result, nil
	}

	return &CaptureResult{OrderID: captured.ID, Status: captured.Status}, nil
}

// orderResponse is the subset of the Orders v2 order representation we use.
type orderResponse struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	PurchaseUnits []purchaseUnit `json:"purchase_units"`
}

type purchaseUnit struct {
	Payments struct {
		Captures []captureDetails `json:"captures"`
	} `json:"payments"`
}

type captureDetails struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	StatusDetails *struct {
		Reason string `json:"reason"`
	} `json:"status_details,omitempty"`
}

func (o *orderResponse) firstCapture() *captureDetails {
	if len(o.PurchaseUnits) == 0 {
		return nil
	}
	captures := o.PurchaseUnits[0].Payments.Captures
	if len(captures) == 0 {
		return nil
	}
	return &captures[0]
}

// capturedResult maps an order that already holds a completed capture (or is
// itself COMPLETED) to a successful CaptureResult, or nil.
func capturedResult(order *orderResponse) *CaptureResult {
	if capture := order.firstCapture(); capture != nil && capture.Status == "COMPLETED" {
		return &CaptureResult{OrderID: order.ID, CaptureID: capture.ID, Status: "COMPLETED"}
	}
	if order.Status == "COMPLETED" {
		return &CaptureResult{OrderID: order.ID, Status: "COMPLETED"}
	}
	return nil
}

// paypalAPIError is a non-2xx response from the PayPal API.
type paypalAPIError struct {
	StatusCode int
	Name       string
	Issue      string
	Body       string
}

func (e *paypalAPIError) Error() string {
	if e.Issue != "" {
		return fmt.Sprintf("paypal api error %d: %s (%s)", e.StatusCode, e.Name, e.Issue)
	}
	return fmt.Sprintf("paypal api error %d: %s", e.StatusCode, e.Name)
}

// isAlreadyCaptured reports whether the capture call failed because the order
// was captured by a concurrent or earlier call.
func isAlreadyCaptured(err error) bool {
	var apiErr *paypalAPIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity && apiErr.StatusCode != http.StatusConflict {
		return false
	}
	return apiErr.Issue == "ORDER_ALREADY_CAPTURED" || strings.Contains(apiErr.Body, "ORDER_ALREADY_CAPTURED")
}

// accessToken performs a client-credentials grant and returns the bearer
// token.
func (s *PayPalService) accessToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.cfg.BaseURL+"/v1/oauth2/token",
		strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.SetBasicAuth(s.cfg.ClientID, s.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", fmt.Errorf("failed to parse token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("token response contained no access token")
	}

	return tokenResp.AccessToken, nil
}

// getOrder fetches the order representation for the given id.
func (s *PayPalService) getOrder(ctx context.Context, token, orderID string) (*orderResponse, error) {
	var order orderResponse
	path := "/v2/checkout/orders/" + url.PathEscape(orderID)
	if err := s.doJSON(ctx, http.MethodGet, path, token, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// doJSON performs an authenticated JSON request against the PayPal API.
// Non-2xx responses are returned as *paypalAPIError.
func (s *PayPalService) doJSON(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.cfg.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &paypalAPIError{
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
		var parsed struct {
			Name    string `json:"name"`
			Details []struct {
				Issue string `json:"issue"`
			} `json:"details"`
		}
		if json.Unmarshal(respBody, &parsed) == nil {
			apiErr.Name = parsed.Name
			if len(parsed.Details) > 0 {
				apiErr.Issue = parsed.Details[0].Issue
			}
		}
		return apiErr
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}
