package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"rental-booking/internal/dto/request"
	"rental-booking/internal/usecase"
	"rental-booking/pkg/utils"

	"go.uber.org/zap"
)

// statusFor maps a domain error onto an HTTP status; 0 means unexpected.
func statusFor(err error) int {
	switch {
	case errors.Is(err, usecase.ErrValidation),
		errors.Is(err, usecase.ErrInvalidDateRange),
		errors.Is(err, usecase.ErrBelowMinNights),
		errors.Is(err, usecase.ErrAboveMaxNights),
		errors.Is(err, usecase.ErrCapacityExceeded),
		errors.Is(err, usecase.ErrPaymentMismatch):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, usecase.ErrPaymentFailed):
		return http.StatusPaymentRequired
	case errors.Is(err, usecase.ErrNotAvailable),
		errors.Is(err, usecase.ErrNotCancellable),
		errors.Is(err, usecase.ErrAlreadyCancelled),
		errors.Is(err, usecase.ErrIllegalStatusTransition),
		errors.Is(err, usecase.ErrAlreadyReviewed),
		errors.Is(err, usecase.ErrNotEligibleForReview):
		return http.StatusConflict
	}
	return 0
}

// handleServiceError writes the error envelope; the kind and any conflict
// context go in errors.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	var validation *usecase.ValidationError
	if errors.As(err, &validation) {
		log.Warn(operation+" validation failed", zap.Any("errors", validation.Fields))
		utils.ResponseBadRequest(w, "Validation failed", validation.Fields)
		return
	}

	status := statusFor(err)
	if status == 0 {
		log.Error(operation+" failed", zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
		return
	}

	details := map[string]any{"kind": usecase.ErrorKind(err)}
	var conflict *usecase.AvailabilityConflict
	if errors.As(err, &conflict) {
		details["reservation_code"] = conflict.ReservationCode
		details["check_in"] = utils.FormatDate(conflict.CheckIn)
		details["check_out"] = utils.FormatDate(conflict.CheckOut)
	}

	log.Warn(operation+" rejected",
		zap.Error(err),
		zap.String("operation", operation),
		zap.Int("status", status))
	utils.ResponseJSON(w, status, false, err.Error(), nil, details)
}

// decodeJSON rejects unknown fields so typos never reach the services.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func paginationFromQuery(r *http.Request) *request.PaginatedRequest {
	query := r.URL.Query()
	return &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), 10),
	}
}
