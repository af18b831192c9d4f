package usecase

import (
	"context"
	"fmt"

	"rental-booking/internal/data/repository"
	"rental-booking/internal/dto/request"
	"rental-booking/internal/dto/response"
	"rental-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PropertyService exposes read-only calendar and pricing answers for listings.
type PropertyService interface {
	GetProperty(ctx context.Context, propertyID string) (*response.PropertyResponse, error)
	CheckAvailability(ctx context.Context, propertyID string, req *request.AvailabilityRequest) (*response.AvailabilityResponse, error)
	CheckMultipleAvailability(ctx context.Context, req *request.MultiAvailabilityRequest) (map[string]response.PropertyAvailability, error)
	GetQuote(ctx context.Context, propertyID string, req *request.QuoteRequest) (*response.QuoteResponse, error)
}

type propertyService struct {
	repo         *repository.Repository
	availability *AvailabilityChecker
	log          *zap.Logger
}

func NewPropertyService(repo *repository.Repository, log *zap.Logger) PropertyService {
	return &propertyService{
		repo:         repo,
		availability: NewAvailabilityChecker(repo),
		log:          log.With(zap.String("service", "property")),
	}
}

func (s *propertyService) GetProperty(ctx context.Context, propertyID string) (*response.PropertyResponse, error) {
	id, err := parseID(propertyID, "property_id")
	if err != nil {
		return nil, err
	}

	property, err := s.repo.Property.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get property: %w", err)
	}
	if property == nil {
		return nil, fmt.Errorf("%w: property %s", ErrNotFound, id)
	}

	resp := response.PropertyToResponse(property)
	return &resp, nil
}

func (s *propertyService) CheckAvailability(ctx context.Context, propertyID string, req *request.AvailabilityRequest) (*response.AvailabilityResponse, error) {
	if err := validateRequest(s.log, "Check availability", req); err != nil {
		return nil, err
	}
	id, err := parseID(propertyID, "property_id")
	if err != nil {
		return nil, err
	}
	checkIn, checkOut, err := parseStay(req.StayDates)
	if err != nil {
		return nil, err
	}

	property, err := s.repo.Property.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get property: %w", err)
	}
	if property == nil {
		return nil, fmt.Errorf("%w: property %s", ErrNotFound, id)
	}

	conflict, err := s.availability.FindConflict(ctx, id, checkIn, checkOut, uuid.Nil)
	if err != nil {
		s.log.Error("Failed to check availability", zap.Error(err), zap.String("property_id", propertyID))
		return nil, err
	}

	resp := &response.AvailabilityResponse{
		PropertyID: propertyID,
		CheckIn:    utils.FormatDate(checkIn),
		CheckOut:   utils.FormatDate(checkOut),
		Available:  conflict == nil,
	}
	if conflict != nil {
		resp.Conflict = &response.ConflictResponse{
			ReservationCode: conflict.ReservationCode,
			CheckIn:         utils.FormatDate(conflict.CheckIn),
			CheckOut:        utils.FormatDate(conflict.CheckOut),
		}
	}

	return resp, nil
}

func (s *propertyService) CheckMultipleAvailability(ctx context.Context, req *request.MultiAvailabilityRequest) (map[string]response.PropertyAvailability, error) {
	if err := validateRequest(s.log, "Check multiple availability", req); err != nil {
		return nil, err
	}
	checkIn, checkOut, err := parseStay(req.StayDates)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(req.PropertyIDs))
	seen := make(map[uuid.UUID]bool, len(req.PropertyIDs))
	for _, raw := range req.PropertyIDs {
		id, err := parseID(raw, "property_ids")
		if err != nil {
			return nil, err
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	results, err := s.availability.CheckMultiple(ctx, ids, checkIn, checkOut, req.Adults)
	if err != nil {
		s.log.Error("Failed to check multiple availability", zap.Error(err))
		return nil, err
	}

	out := make(map[string]response.PropertyAvailability, len(results))
	for id, result := range results {
		out[id.String()] = response.PropertyAvailability{
			Available: result.Available,
			Reason:    result.Reason,
		}
	}

	return out, nil
}

func (s *propertyService) GetQuote(ctx context.Context, propertyID string, req *request.QuoteRequest) (*response.QuoteResponse, error) {
	if err := validateRequest(s.log, "Quote", req); err != nil {
		return nil, err
	}
	id, err := parseID(propertyID, "property_id")
	if err != nil {
		return nil, err
	}
	checkIn, checkOut, err := parseStay(req.StayDates)
	if err != nil {
		return nil, err
	}

	property, err := s.repo.Property.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get property: %w", err)
	}
	if property == nil {
		return nil, fmt.Errorf("%w: property %s", ErrNotFound, id)
	}

	if err := validateOccupancy(property, req.Adults, req.Children, req.Infants); err != nil {
		return nil, err
	}

	price, err := ComputePrice(property, checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	available, err := s.availability.IsAvailable(ctx, id, checkIn, checkOut, uuid.Nil)
	if err != nil {
		s.log.Error("Failed to check availability for quote", zap.Error(err), zap.String("property_id", propertyID))
		return nil, err
	}

	return &response.QuoteResponse{
		PropertyID: propertyID,
		CheckIn:    utils.FormatDate(checkIn),
		CheckOut:   utils.FormatDate(checkOut),
		Guests:     req.Adults + req.Children + req.Infants,
		Available:  available,
		Price:      response.PriceToResponse(price),
	}, nil
}
