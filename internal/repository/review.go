package repository

import (
	"context"

	"nativore/internal/models"
	"nativore/internal/observability"

	"gorm.io/gorm"
)

// ReviewRepository defines persistence operations for reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	ListByListing(ctx context.Context, listingID uint, offset, limit int) ([]models.Review, error)
	Count(ctx context.Context) (int64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository returns a new ReviewRepository implementation.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

const reviewsTable = "reviews"

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	defer observability.TrackQuery("create", reviewsTable)()
	if err := r.db.WithContext(ctx).Omit("User", "Listing").Create(review).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ListByListing returns the newest non-deleted reviews first, with their authors.
func (r *reviewRepository) ListByListing(ctx context.Context, listingID uint, offset, limit int) ([]models.Review, error) {
	defer observability.TrackQuery("list", reviewsTable)()
	reviews := []models.Review{}
	err := readDB(r.db).WithContext(ctx).
		Where("restaurant_id = ?", listingID).
		Preload("User").
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return reviews, nil
}

// Count returns the number of non-deleted reviews on active listings.
func (r *reviewRepository) Count(ctx context.Context) (int64, error) {
	defer observability.TrackQuery("count", reviewsTable)()
	var n int64
	err := readDB(r.db).WithContext(ctx).Model(&models.Review{}).
		Joins("JOIN restaurants ON restaurants.id = reviews.restaurant_id").
		Where("restaurants.is_active = ?", true).
		Count(&n).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}
