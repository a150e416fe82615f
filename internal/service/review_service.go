package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"nativore/internal/featureflags"
	"nativore/internal/middleware"
	"nativore/internal/models"
	"nativore/internal/policy"
	"nativore/internal/repository"
)

// Review pagination bounds.
const (
	DefaultReviewLimit = 20
	MaxReviewLimit     = 100
	maxCommentLen      = 2000
)

type ReviewService struct {
	reviews  repository.ReviewRepository
	listings repository.ListingRepository
	flags    *featureflags.Manager
}

type SubmitReviewInput struct {
	Rating  float64 `json:"rating"`
	Comment *string `json:"comment"`
}

func NewReviewService(reviews repository.ReviewRepository, listings repository.ListingRepository, flags *featureflags.Manager) *ReviewService {
	return &ReviewService{reviews: reviews, listings: listings, flags: flags}
}

// Submit records actor's review of an active listing. The listing's derived
// rating is refreshed only when the review_recompute flag is on for actor.
func (s *ReviewService) Submit(ctx context.Context, actor *policy.Actor, listingID uint, in SubmitReviewInput) (*models.Review, error) {
	if err := policy.Authorize(policy.Authenticated, actor); err != nil {
		return nil, err
	}
	if in.Rating < models.MinReviewScore || in.Rating > models.MaxReviewScore {
		return nil, models.NewValidationError("rating must be between 1 and 5")
	}
	var comment *string
	if in.Comment != nil {
		trimmed := strings.TrimSpace(*in.Comment)
		if len(trimmed) > maxCommentLen {
			return nil, models.NewValidationError(fmt.Sprintf("comment too long (max %d characters)", maxCommentLen))
		}
		if trimmed != "" {
			comment = &trimmed
		}
	}

	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !listing.IsActive {
		return nil, models.NewValidationError("Restaurant is no longer accepting reviews")
	}

	review := &models.Review{
		UserID:    actor.ID,
		ListingID: listing.ID,
		Rating:    in.Rating,
		Comment:   comment,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	if s.flags.Enabled(featureflags.ReviewRecompute, actor.ID) {
		if err := s.listings.RecomputeRating(ctx, listing.ID); err != nil {
			middleware.Logger.ErrorContext(ctx, "rating recompute after review failed",
				slog.Uint64("listing_id", uint64(listing.ID)),
				slog.String("error", err.Error()))
		}
	}
	invalidateAnalytics(ctx)
	return review, nil
}

// ListForListing pages through a listing's reviews, newest first.
// Soft-deleted listings keep their reviews addressable.
func (s *ReviewService) ListForListing(ctx context.Context, listingID uint, offset, limit int) ([]models.Review, error) {
	if offset < 0 {
		return nil, models.NewValidationError("skip must be greater than or equal to 0")
	}
	if limit < 1 || limit > MaxReviewLimit {
		return nil, models.NewValidationError(fmt.Sprintf("limit must be between 1 and %d", MaxReviewLimit))
	}
	if _, err := s.listings.GetByID(ctx, listingID); err != nil {
		return nil, err
	}
	return s.reviews.ListByListing(ctx, listingID, offset, limit)
}
