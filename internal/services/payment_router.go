package services

import (
	"github.com/sirupsen/logrus"
	"github.com/albanianalps/agency-backend/internal/models"
)

// PaymentRouter selects the payment service for a payment method.
// The mapping is static: one service per method, registered at construction,
// no fallback between providers.
type PaymentRouter struct {
	services map[models.PaymentMethod]PaymentService
	logger   *logrus.Logger
}

// NewPaymentRouter creates a router over the given payment services.
func NewPaymentRouter(logger *logrus.Logger, services ...PaymentService) *PaymentRouter {
	byMethod := make(map[models.PaymentMethod]PaymentService, len(services))
	for _, svc := range services {
		byMethod[svc.Method()] = svc
	}
	return &PaymentRouter{
		services: byMethod,
		logger:   logger,
	}
}

// Route returns the payment service for the given method string
// (case-insensitive), or an UnsupportedMethodError.
func (r *PaymentRouter) Route(rawMethod string) (PaymentService, error) {
	method, ok := models.ParsePaymentMethod(rawMethod)
	if !ok {
		r.logger.WithField("payment_method", rawMethod).Warn("Unsupported payment method")
		return nil, &UnsupportedMethodError{Method: rawMethod}
	}

	svc, ok := r.services[method]
	if !ok {
		r.logger.WithField("payment_method", rawMethod).Warn("No payment service registered for method")
		return nil, &UnsupportedMethodError{Method: rawMethod}
	}

	return svc, nil
}
