package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/albanianalps/agency-backend/internal/models"
)

// CardService is a PLACEHOLDER card processor. It applies a card-number
// length heuristic and stores only the masked last four digits plus billing
// fields. It performs no charge and no real validation: it must be replaced
// with a tokenized (hosted-fields) card processor before production use.
type CardService struct {
	logger *logrus.Logger
}

// NewCardService creates the stub card payment service
func NewCardService(logger *logrus.Logger) *CardService {
	return &CardService{logger: logger}
}

// Method returns the payment method handled by this service
func (s *CardService) Method() models.PaymentMethod {
	return models.PaymentMethodCard
}

// Process checks the card number shape and stores masked card details on the
// booking.
func (s *CardService) Process(ctx context.Context, req *models.BookingRequest, booking *models.Booking) models.PaymentOutcome {
	info := req.Payment
	if info == nil {
		return models.RejectedOutcome("card payment details are missing")
	}

	number := strings.ReplaceAll(strings.TrimSpace(info.Number), " ", "")
	if len(number) < 13 || len(number) > 19 {
		return models.RejectedOutcome(fmt.Sprintf("invalid card number length: %d", len(number)))
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return models.RejectedOutcome("card number must contain only digits")
		}
	}

	last4 := number[len(number)-4:]
	booking.CardLast4 = &last4
	if info.Name != "" {
		booking.CardholderName = &info.Name
	}
	if info.Address != "" {
		booking.BillingAddress = &info.Address
	}
	if info.City != "" {
		booking.City = &info.City
	}
	if info.Zip != "" {
		booking.ZipCode = &info.Zip
	}
	if info.Country != "" {
		booking.Country = &info.Country
	}

	s.logger.WithFields(logrus.Fields{
		"card_last4":  last4,
		"card_holder": info.Name,
	}).Warn("Card payment accepted by stub processor; no charge was made")

	return models.AcceptedOutcome("card:****" + last4)
}
