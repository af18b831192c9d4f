package usecase

import (
	"context"
	"fmt"
	"math"

	"rental-booking/internal/data/entity"
	"rental-booking/internal/data/repository"
	"rental-booking/internal/dto/request"
	"rental-booking/internal/dto/response"
	"rental-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReviewService interface {
	// Guest endpoints
	CreateReview(ctx context.Context, userID string, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	GetUserReviews(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
	GetReviewEligibility(ctx context.Context, reservationID, userID string) (*response.ReviewEligibilityResponse, error)

	// Public endpoints
	GetPropertyReviews(ctx context.Context, propertyID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
	GetPropertyReviewStats(ctx context.Context, propertyID string) (*response.PropertyReviewStats, error)

	// IsEligibleForReview is true only for a completed stay without a review.
	IsEligibleForReview(ctx context.Context, reservationID uuid.UUID) (bool, error)
}

type reviewService struct {
	repo  *repository.Repository
	clock utils.Clock
	log   *zap.Logger
}

func NewReviewService(repo *repository.Repository, clock utils.Clock, log *zap.Logger) ReviewService {
	return &reviewService{
		repo:  repo,
		clock: clock,
		log:   log.With(zap.String("service", "review")),
	}
}

// eligibility explains why a reservation can or cannot be reviewed.
func (s *reviewService) eligibility(ctx context.Context, repos *repository.Repository, r *entity.Reservation) (bool, string, error) {
	if status := r.EffectiveStatus(s.clock.Now()); status != entity.StatusCompleted {
		return false, fmt.Sprintf("reservation is %s", status), nil
	}

	existing, err := repos.Review.FindByReservationID(ctx, r.ID)
	if err != nil {
		return false, "", fmt.Errorf("check existing review: %w", err)
	}
	if existing != nil {
		return false, "already reviewed", nil
	}

	return true, "", nil
}

func (s *reviewService) IsEligibleForReview(ctx context.Context, reservationID uuid.UUID) (bool, error) {
	r, err := s.repo.Reservation.FindByID(ctx, reservationID)
	if err != nil {
		return false, err
	}
	if r == nil {
		return false, fmt.Errorf("%w: reservation %s", ErrNotFound, reservationID)
	}

	eligible, _, err := s.eligibility(ctx, s.repo, r)
	return eligible, err
}

func (s *reviewService) GetReviewEligibility(ctx context.Context, reservationID, userID string) (*response.ReviewEligibilityResponse, error) {
	resID, err := parseID(reservationID, "reservation_id")
	if err != nil {
		return nil, err
	}
	userUUID, err := parseID(userID, "user_id")
	if err != nil {
		return nil, err
	}

	r, err := s.repo.Reservation.FindByID(ctx, resID)
	if err != nil {
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	if r == nil {
		return nil, fmt.Errorf("%w: reservation %s", ErrNotFound, resID)
	}
	if r.GuestID != userUUID {
		return nil, fmt.Errorf("%w: only the guest can review a stay", ErrUnauthorized)
	}

	eligible, reason, err := s.eligibility(ctx, s.repo, r)
	if err != nil {
		return nil, err
	}

	return &response.ReviewEligibilityResponse{
		ReservationID: reservationID,
		Eligible:      eligible,
		Reason:        reason,
	}, nil
}

func (s *reviewService) CreateReview(ctx context.Context, userID string, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	// Validate request
	if err := validateRequest(s.log, "Create review", req); err != nil {
		return nil, err
	}

	// Parse IDs
	userUUID, err := parseID(userID, "user_id")
	if err != nil {
		return nil, err
	}
	resID, err := parseID(req.ReservationID, "reservation_id")
	if err != nil {
		return nil, err
	}

	var review *entity.Review
	err = s.repo.Tx.WithinTx(ctx, func(ctx context.Context, repos *repository.Repository) error {
		r, err := repos.Reservation.FindByID(ctx, resID)
		if err != nil {
			return err
		}
		if r == nil {
			return fmt.Errorf("%w: reservation %s", ErrNotFound, resID)
		}
		if r.GuestID != userUUID {
			return fmt.Errorf("%w: only the guest can review a stay", ErrUnauthorized)
		}

		eligible, reason, err := s.eligibility(ctx, repos, r)
		if err != nil {
			return err
		}
		if !eligible {
			if reason == "already reviewed" {
				return ErrAlreadyReviewed
			}
			return fmt.Errorf("%w: %s", ErrNotEligibleForReview, reason)
		}

		review = &entity.Review{
			BaseSimple: entity.BaseSimple{
				ID:        uuid.New(),
				CreatedAt: s.clock.Now(),
			},
			ReservationID: r.ID,
			PropertyID:    r.PropertyID,
			UserID:        userUUID,
			Rating:        req.Rating,
			Comment:       req.Comment,
		}
		if err := repos.Review.Create(ctx, review); err != nil {
			return err
		}

		// Keep the property's average rating in step with its reviews
		avg, _, err := repos.Review.GetPropertyReviewStats(ctx, r.PropertyID)
		if err != nil {
			return err
		}
		return repos.Property.UpdateRating(ctx, r.PropertyID, math.Round(avg*100)/100)
	})
	if err != nil {
		err = translateRepoError(err)
		s.log.Warn("Create review rejected",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("reservation_id", req.ReservationID),
		)
		return nil, err
	}

	s.log.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("reservation_id", req.ReservationID),
		zap.Int("rating", req.Rating),
	)

	reviewResp := response.ReviewToResponse(review, s.username(ctx, userUUID, nil))
	return &reviewResp, nil
}

// username resolves display names, memoising lookups within one listing.
func (s *reviewService) username(ctx context.Context, userID uuid.UUID, cache map[uuid.UUID]string) string {
	if name, ok := cache[userID]; ok {
		return name
	}

	name := ""
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		s.log.Warn("Failed to load review author", zap.Error(err), zap.String("user_id", userID.String()))
	}
	if user != nil {
		name = user.Username
	}

	if cache != nil {
		cache[userID] = name
	}
	return name
}

func (s *reviewService) GetPropertyReviews(ctx context.Context, propertyID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	propertyUUID, err := parseID(propertyID, "property_id")
	if err != nil {
		return nil, err
	}

	limit := req.Limit()
	offset := req.Offset()

	// Get reviews
	reviews, err := s.repo.Review.FindByPropertyID(ctx, propertyUUID, limit, offset)
	if err != nil {
		s.log.Error("Failed to get property reviews",
			zap.Error(err),
			zap.String("property_id", propertyID),
			zap.Int("page", req.Page),
			zap.Int("per_page", req.PerPage),
		)
		return nil, fmt.Errorf("get property reviews: %w", err)
	}

	// Get total count
	total, err := s.repo.Review.CountByPropertyID(ctx, propertyUUID)
	if err != nil {
		s.log.Error("Failed to count property reviews", zap.Error(err))
		return nil, fmt.Errorf("count property reviews: %w", err)
	}

	names := make(map[uuid.UUID]string)
	reviewResponses := make([]response.ReviewResponse, len(reviews))
	for i, review := range reviews {
		reviewResponses[i] = response.ReviewToResponse(review, s.username(ctx, review.UserID, names))
	}

	return response.NewPaginatedResponse(reviewResponses, req.Page, limit, total), nil
}

func (s *reviewService) GetUserReviews(ctx context.Context, userID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	userUUID, err := parseID(userID, "user_id")
	if err != nil {
		return nil, err
	}

	limit := req.Limit()
	offset := req.Offset()

	reviews, err := s.repo.Review.FindByUserID(ctx, userUUID, limit, offset)
	if err != nil {
		s.log.Error("Failed to get user reviews",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("get user reviews: %w", err)
	}

	total, err := s.repo.Review.CountByUserID(ctx, userUUID)
	if err != nil {
		s.log.Error("Failed to count user reviews", zap.Error(err))
		return nil, fmt.Errorf("count user reviews: %w", err)
	}

	username := s.username(ctx, userUUID, nil)
	reviewResponses := make([]response.ReviewResponse, len(reviews))
	for i, review := range reviews {
		reviewResponses[i] = response.ReviewToResponse(review, username)
	}

	return response.NewPaginatedResponse(reviewResponses, req.Page, limit, total), nil
}

func (s *reviewService) GetPropertyReviewStats(ctx context.Context, propertyID string) (*response.PropertyReviewStats, error) {
	propertyUUID, err := parseID(propertyID, "property_id")
	if err != nil {
		return nil, err
	}

	property, err := s.repo.Property.FindByID(ctx, propertyUUID)
	if err != nil {
		return nil, fmt.Errorf("get property: %w", err)
	}
	if property == nil {
		return nil, fmt.Errorf("%w: property %s", ErrNotFound, propertyUUID)
	}

	avg, count, err := s.repo.Review.GetPropertyReviewStats(ctx, propertyUUID)
	if err != nil {
		s.log.Error("Failed to get property review stats", zap.Error(err), zap.String("property_id", propertyID))
		return nil, fmt.Errorf("get property review stats: %w", err)
	}

	return &response.PropertyReviewStats{
		PropertyID:    propertyID,
		AverageRating: math.Round(avg*100) / 100,
		ReviewCount:   count,
	}, nil
}
