package repository

import (
	"context"
	"time"

	"nativore/internal/models"
	"nativore/internal/observability"

	"gorm.io/gorm"
)

// ListingRepository defines persistence operations for listings.
type ListingRepository interface {
	Create(ctx context.Context, listing *models.Listing) error
	GetByID(ctx context.Context, id uint) (*models.Listing, error)
	List(ctx context.Context, filter ListingFilter) ([]models.Listing, error)
	SearchByName(ctx context.Context, q string) ([]models.ListingSummary, error)
	Cities(ctx context.Context) ([]models.CityCount, error)
	Cuisines(ctx context.Context) ([]models.CuisineCount, error)
	InScope(ctx context.Context, scope AnalysisScope) ([]models.Listing, error)
	Update(ctx context.Context, listing *models.Listing, columns []string) error
	SoftDelete(ctx context.Context, id uint) error
	RecomputeRating(ctx context.Context, id uint) error
	RecomputeAllRatings(ctx context.Context) (int64, error)
}

type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository returns a new ListingRepository implementation.
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

const listingsTable = "restaurants"

// recomputeRatingSQL sets rating to the mean of the listing's non-deleted
// reviews rounded half up to one decimal, and review_count to their number.
// Review scores carry one decimal, so the mean is taken over integer tenths
// and rounded with integer division; both dialects then agree exactly.
const recomputeRatingSQL = `UPDATE restaurants SET
	rating = COALESCE((SELECT ((2 * SUM(CAST(ROUND(r.rating * 10) AS INTEGER)) + COUNT(*)) / NULLIF(2 * COUNT(*), 0)) / 10.0 FROM reviews r WHERE r.restaurant_id = restaurants.id AND r.deleted_at IS NULL), 0),
	review_count = (SELECT COUNT(*) FROM reviews r WHERE r.restaurant_id = restaurants.id AND r.deleted_at IS NULL),
	updated_at = ?`

func (r *listingRepository) Create(ctx context.Context, listing *models.Listing) error {
	defer observability.TrackQuery("create", listingsTable)()
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Listing already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// GetByID returns a listing whether or not it is active, so that historical
// reviews stay addressable after a soft delete.
func (r *listingRepository) GetByID(ctx context.Context, id uint) (*models.Listing, error) {
	defer observability.TrackQuery("get", listingsTable)()
	var listing models.Listing
	if err := readDB(r.db).WithContext(ctx).First(&listing, id).Error; err != nil {
		return nil, notFoundOr(err, "Restaurant", id)
	}
	return &listing, nil
}

func (r *listingRepository) List(ctx context.Context, filter ListingFilter) ([]models.Listing, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	defer observability.TrackQuery("list", listingsTable)()

	listings := []models.Listing{}
	if err := filter.apply(readDB(r.db).WithContext(ctx).Model(&models.Listing{})).Find(&listings).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return listings, nil
}

func (r *listingRepository) SearchByName(ctx context.Context, q string) ([]models.ListingSummary, error) {
	q, err := NormalizeSearchQuery(q)
	if err != nil {
		return nil, err
	}
	defer observability.TrackQuery("search", listingsTable)()

	results := []models.ListingSummary{}
	err = readDB(r.db).WithContext(ctx).Model(&models.Listing{}).
		Select("id, name, city, area, cuisine, rating, avg_price").
		Where("is_active = ?", true).
		Where(`LOWER(name) LIKE ? ESCAPE '\'`, containsPattern(q)).
		Order("id").
		Limit(SearchResultCap).
		Scan(&results).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return results, nil
}

func (r *listingRepository) Cities(ctx context.Context) ([]models.CityCount, error) {
	defer observability.TrackQuery("cities", listingsTable)()
	out := []models.CityCount{}
	err := readDB(r.db).WithContext(ctx).Model(&models.Listing{}).
		Select("city, COUNT(*) AS restaurant_count").
		Where("is_active = ?", true).
		Group("city").
		Order("city").
		Scan(&out).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return out, nil
}

func (r *listingRepository) Cuisines(ctx context.Context) ([]models.CuisineCount, error) {
	defer observability.TrackQuery("cuisines", listingsTable)()
	out := []models.CuisineCount{}
	err := readDB(r.db).WithContext(ctx).Model(&models.Listing{}).
		Select("cuisine, COUNT(*) AS restaurant_count").
		Where("is_active = ?", true).
		Group("cuisine").
		Order("cuisine").
		Scan(&out).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return out, nil
}

func (r *listingRepository) InScope(ctx context.Context, scope AnalysisScope) ([]models.Listing, error) {
	defer observability.TrackQuery("scope", listingsTable)()
	listings := []models.Listing{}
	if err := scope.apply(readDB(r.db).WithContext(ctx).Model(&models.Listing{})).Find(&listings).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return listings, nil
}

// Update writes only the named columns of listing.
func (r *listingRepository) Update(ctx context.Context, listing *models.Listing, columns []string) error {
	if len(columns) == 0 {
		return nil
	}
	defer observability.TrackQuery("update", listingsTable)()

	listing.UpdatedAt = time.Now()
	cols := append(append([]string{}, columns...), "updated_at")
	res := r.db.WithContext(ctx).Model(listing).Select(cols).Updates(listing)
	if res.Error != nil {
		if isUniqueConstraintError(res.Error) {
			return models.NewConflictError("Listing already exists")
		}
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Restaurant", listing.ID)
	}
	return nil
}

func (r *listingRepository) SoftDelete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("soft_delete", listingsTable)()
	res := r.db.WithContext(ctx).Model(&models.Listing{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_active": false, "updated_at": time.Now()})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Restaurant", id)
	}
	return nil
}

func (r *listingRepository) RecomputeRating(ctx context.Context, id uint) error {
	defer observability.TrackQuery("recompute", listingsTable)()
	res := r.db.WithContext(ctx).Exec(recomputeRatingSQL+" WHERE id = ?", time.Now(), id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Restaurant", id)
	}
	observability.RatingRecomputations.WithLabelValues("single").Inc()
	return nil
}

func (r *listingRepository) RecomputeAllRatings(ctx context.Context) (int64, error) {
	defer observability.TrackQuery("recompute_all", listingsTable)()
	res := r.db.WithContext(ctx).Exec(recomputeRatingSQL, time.Now())
	if res.Error != nil {
		return 0, models.NewInternalError(res.Error)
	}
	observability.RatingRecomputations.WithLabelValues("all").Inc()
	return res.RowsAffected, nil
}
