package adaptor

import (
	"net/http"

	"rental-booking/internal/dto/request"
	"rental-booking/internal/usecase"
	"rental-booking/pkg/utils"

	"go.uber.org/zap"
)

// PaymentHandler receives settlement callbacks from the payment provider.
type PaymentHandler struct {
	service usecase.ReservationService
	log     *zap.Logger
}

func NewPaymentHandler(service usecase.ReservationService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log.With(zap.String("handler", "payment")),
	}
}

// ConfirmPayment handles POST /api/payments/confirmations
func (h *PaymentHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var req request.PaymentConfirmationRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	reservation, err := h.service.RecordPayment(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "record payment")
		return
	}

	h.log.Info("Payment recorded",
		zap.String("reservation_id", req.ReservationID),
		zap.String("transaction_id", req.TransactionID))

	utils.ResponseSuccess(w, "Payment recorded successfully", reservation)
}
