package wire

import (
	"rental-booking/internal/adaptor"
	"rental-booking/pkg/middleware"
	"rental-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wirePayment(
	r chi.Router,
	paymentHandler *adaptor.PaymentHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PROVIDER CALLBACKS ====================
	// Authenticated by the shared secret header, not by a user session
	r.With(middleware.WebhookSecret(config.Payment.WebhookSecret, log)).
		Post("/api/payments/confirmations", paymentHandler.ConfirmPayment)
}
