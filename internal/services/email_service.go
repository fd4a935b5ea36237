package services

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/albanianalps/agency-backend/internal/config"
	"github.com/albanianalps/agency-backend/internal/models"
)

// EmailSender sends booking receipts. Implementations must be safe to call
// for both PAID and FAILED bookings.
type EmailSender interface {
	SendConfirmation(booking *models.Booking, tour *models.Tour) error
	SendNotification(booking *models.Booking, tour *models.Tour) error
}

// EmailService sends booking receipts over SMTP. In dev mode the message is
// logged instead of sent, so local runs need no mail server.
type EmailService struct {
	cfg    config.EmailConfig
	logger *logrus.Logger
}

// NewEmailService creates a new email service
func NewEmailService(cfg config.EmailConfig, logger *logrus.Logger) *EmailService {
	return &EmailService{
		cfg:    cfg,
		logger: logger,
	}
}

// SendConfirmation sends the itemized receipt to the customer.
func (s *EmailService) SendConfirmation(booking *models.Booking, tour *models.Tour) error {
	subject := fmt.Sprintf("Booking %s: %s", booking.Status, tour.Title)
	return s.send(booking.UserEmail, subject, s.receiptBody(booking, tour))
}

// SendNotification sends the agency its copy of the booking.
func (s *EmailService) SendNotification(booking *models.Booking, tour *models.Tour) error {
	if s.cfg.AgencyEmail == "" {
		return nil
	}
	subject := fmt.Sprintf("New booking %s (%s): %s", booking.BookingReference, booking.Status, tour.Title)
	return s.send(s.cfg.AgencyEmail, subject, s.receiptBody(booking, tour))
}

func (s *EmailService) send(to, subject, body string) error {
	if s.cfg.Mode != "production" {
		s.logger.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Info("Email (dev mode, not sent):\n" + body)
		return nil
	}

	if s.cfg.SMTPHost == "" {
		return fmt.Errorf("SMTP host is not configured")
	}

	msg := strings.Join([]string{
		"From: " + s.cfg.FromAddress,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	addr := s.cfg.SMTPHost + ":" + s.cfg.SMTPPort
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)
	}

	if err := smtp.SendMail(addr, auth, s.cfg.FromAddress, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"to":      to,
		"subject": subject,
	}).Info("Email sent")
	return nil
}

// receiptBody renders the plain-text itemized receipt. The total is the
// per-person price times guests, doubled for round trips; no tax lines.
func (s *EmailService) receiptBody(booking *models.Booking, tour *models.Tour) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Booking reference: %s\n", booking.BookingReference)
	fmt.Fprintf(&b, "Status: %s\n", booking.Status)
	if booking.FailureReason != nil {
		fmt.Fprintf(&b, "Failure reason: %s\n", *booking.FailureReason)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Tour: %s (%s)\n", tour.Title, tour.Location)
	fmt.Fprintf(&b, "Guest name: %s\n", booking.UserName)
	fmt.Fprintf(&b, "Departure: %s\n", booking.DepartureDate.Format("2006-01-02"))
	if booking.ReturnDate != nil {
		fmt.Fprintf(&b, "Return: %s\n", booking.ReturnDate.Format("2006-01-02"))
	}
	fmt.Fprintf(&b, "Guests: %d\n", booking.Guests)
	fmt.Fprintf(&b, "Payment method: %s\n", booking.PaymentMethod)
	b.WriteString("\n")

	fmt.Fprintf(&b, "Price per person: %.2f\n", tour.Price)
	if booking.IsRoundTrip() {
		fmt.Fprintf(&b, "Round trip: x2\n")
	}
	fmt.Fprintf(&b, "Total: %.2f\n", booking.TotalAmount)
	b.WriteString("\n")

	fmt.Fprintf(&b, "Booked at: %s\n", s.bookedAt(booking))

	return b.String()
}

func (s *EmailService) bookedAt(booking *models.Booking) string {
	at := booking.CreatedAt
	if at.IsZero() {
		at = time.Now()
	}
	return at.UTC().Format(time.RFC3339)
}
