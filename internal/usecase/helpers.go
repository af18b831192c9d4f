package usecase

import (
	"errors"
	"fmt"
	"time"

	"rental-booking/internal/data/repository"
	"rental-booking/internal/dto/request"
	"rental-booking/pkg/utils"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

func validateRequest(log *zap.Logger, operation string, req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		log.Warn(operation+" validation failed", zap.Any("errors", errs))
		return validationFailed(errs)
	}
	return nil
}

func parseID(value, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, validationFailed(map[string]string{field: "Must be a valid UUID"})
	}
	return id, nil
}

// parseStay parses both dates and checks the range; past dates are allowed here.
func parseStay(d request.StayDates) (time.Time, time.Time, error) {
	checkIn, err := utils.ParseDate(d.CheckIn)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %v", ErrInvalidDateRange, err)
	}
	checkOut, err := utils.ParseDate(d.CheckOut)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %v", ErrInvalidDateRange, err)
	}
	if err := validateStayRange(checkIn, checkOut); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return checkIn, checkOut, nil
}

func rejectPastCheckIn(checkIn, now time.Time) error {
	if checkIn.Before(utils.DateOnly(now)) {
		return fmt.Errorf("%w: check-in %s is in the past", ErrInvalidDateRange, utils.FormatDate(checkIn))
	}
	return nil
}

// translateRepoError maps persistence conflicts onto the domain taxonomy.
func translateRepoError(err error) error {
	switch {
	case errors.Is(err, repository.ErrReservationOverlap):
		return ErrDatesNoLongerAvailable
	case errors.Is(err, repository.ErrStaleStatus):
		return fmt.Errorf("%w: %v", ErrIllegalStatusTransition, err)
	case errors.Is(err, repository.ErrDuplicateReview):
		return ErrAlreadyReviewed
	case errors.Is(err, repository.ErrDuplicateCode):
		return ErrCodeGeneration
	}
	return err
}

func finishSpan(span trace.Span, err error, okMessage string) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, okMessage)
}
