package services

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/albanianalps/agency-backend/internal/config"
	"github.com/albanianalps/agency-backend/internal/models"
)

// TwoC2PService handles 2C2P hosted-payment-page integration. It builds the
// signed redirect request; confirmation is a format-only sanity check until
// the merchant account gains access to the payment inquiry API.
//
// TODO: replace VerifyTransaction with a 2C2P payment inquiry call once
// inquiry API credentials are provisioned.
type TwoC2PService struct {
	cfg        config.TwoC2PConfig
	production bool
	logger     *logrus.Logger
}

// NewTwoC2PService creates a new 2C2P payment service
func NewTwoC2PService(cfg config.TwoC2PConfig, production bool, logger *logrus.Logger) *TwoC2PService {
	return &TwoC2PService{
		cfg:        cfg,
		production: production,
		logger:     logger,
	}
}

// Method returns the payment method handled by this service
func (s *TwoC2PService) Method() models.PaymentMethod {
	return models.PaymentMethodTwoC2P
}

// Process verifies the referenced 2C2P transaction and, on acceptance, stores
// the provider reference fields on the booking.
func (s *TwoC2PService) Process(ctx context.Context, req *models.BookingRequest, booking *models.Booking) models.PaymentOutcome {
	info := req.TwoC2P
	if info == nil {
		return models.RejectedOutcome("2c2p payment details are missing")
	}

	outcome := s.VerifyTransaction(ctx, info.TransactionID)
	if outcome.Accepted {
		txn := strings.TrimSpace(info.TransactionID)
		booking.TwoC2PTransactionID = &txn
	}
	return outcome
}

// VerifyTransaction performs a length/format sanity check on the transaction
// id. INSECURE as payment proof: without credentials this is an explicit
// fallback that a production build refuses.
func (s *TwoC2PService) VerifyTransaction(ctx context.Context, transactionID string) models.PaymentOutcome {
	transactionID = strings.TrimSpace(transactionID)

	if !s.cfg.Configured() {
		if s.production {
			s.logger.Error("2C2P credentials not configured in production, rejecting payment")
			return models.RejectedOutcome("2c2p credentials are not configured")
		}
		s.logger.WithField("transaction_id", transactionID).Warn(
			"2C2P credentials not configured; accepting transaction on format only. " +
				"This validation is INSECURE and must not be enabled in production.")
	}

	if transactionID == "" || len(transactionID) <= 10 {
		return models.RejectedOutcome(fmt.Sprintf("invalid 2c2p transaction id format: %q", transactionID))
	}

	return models.AcceptedOutcome(transactionID)
}

// BuildPaymentRedirectURL constructs the signed merchant payment request URL
// for the 2C2P hosted payment page. This is request construction, not a
// payment confirmation.
func (s *TwoC2PService) BuildPaymentRedirectURL(amount float64, currency, description, orderID string) (string, error) {
	if !s.cfg.Configured() {
		return "", fmt.Errorf("2c2p credentials are not configured")
	}

	paymentData := fmt.Sprintf(
		"merchantID=%s&invoiceNo=%s&description=%s&amount=%.2f&currencyCode=%s&paymentChannel=ALL",
		s.cfg.MerchantID, orderID, description, amount, currency,
	)

	signature := s.sign(paymentData)
	encodedData := base64.StdEncoding.EncodeToString([]byte(paymentData))

	query := url.Values{}
	query.Set("paymentRequest", encodedData)
	query.Set("signature", signature)

	s.logger.WithFields(logrus.Fields{
		"order_id": orderID,
		"amount":   amount,
		"currency": currency,
	}).Info("2C2P payment redirect built")

	return s.cfg.APIURL + "?" + query.Encode(), nil
}

// sign computes base64(sha256(data + secretKey)), the signature format the
// 2C2P redirect endpoint expects.
func (s *TwoC2PService) sign(data string) string {
	hash := sha256.Sum256([]byte(data + s.cfg.SecretKey))
	return base64.StdEncoding.EncodeToString(hash[:])
}
