package service

import (
	"context"
	"log/slog"
	"strings"

	"nativore/internal/cache"
	"nativore/internal/middleware"
	"nativore/internal/models"
	"nativore/internal/observability"
	"nativore/internal/policy"
	"nativore/internal/repository"
	"nativore/internal/validation"
)

// DefaultSpendingIndex applies when a new listing does not state one.
const DefaultSpendingIndex = 1.0

const (
	maxNameLen        = 255
	maxAreaLen        = 100
	maxCuisineLen     = 100
	maxDescriptionLen = 5000
)

type ListingService struct {
	listings repository.ListingRepository
	audit    *observability.AuditLogger
}

// CreateListingInput carries the client-authored fields of a new listing.
// Rating and review count are derived and cannot be supplied.
type CreateListingInput struct {
	Name          string   `json:"name"`
	City          string   `json:"city"`
	Area          string   `json:"area"`
	Cuisine       string   `json:"cuisine"`
	AvgPrice      float64  `json:"avg_price"`
	Latitude      float64  `json:"latitude"`
	Longitude     float64  `json:"longitude"`
	SpendingIndex *float64 `json:"spending_index"`
	Description   string   `json:"description"`
	ImageURL      string   `json:"image_url"`
	Phone         string   `json:"phone"`
	Address       string   `json:"address"`
}

// UpdateListingInput is the allow-list of listing fields a client may change.
// Nil fields are left untouched.
type UpdateListingInput struct {
	Name          *string  `json:"name"`
	City          *string  `json:"city"`
	Area          *string  `json:"area"`
	Cuisine       *string  `json:"cuisine"`
	AvgPrice      *float64 `json:"avg_price"`
	Latitude      *float64 `json:"latitude"`
	Longitude     *float64 `json:"longitude"`
	SpendingIndex *float64 `json:"spending_index"`
	Description   *string  `json:"description"`
	ImageURL      *string  `json:"image_url"`
	Phone         *string  `json:"phone"`
	Address       *string  `json:"address"`
}

func NewListingService(listings repository.ListingRepository) *ListingService {
	return &ListingService{
		listings: listings,
		audit:    observability.NewAuditLogger("listing"),
	}
}

// WithAuditLogger replaces the audit sink.
func (s *ListingService) WithAuditLogger(l *observability.AuditLogger) *ListingService {
	s.audit = l
	return s
}

func (s *ListingService) List(ctx context.Context, filter repository.ListingFilter) ([]models.Listing, error) {
	return s.listings.List(ctx, filter)
}

// Get returns a listing by id, including soft-deleted ones.
func (s *ListingService) Get(ctx context.Context, id uint) (*models.Listing, error) {
	return s.listings.GetByID(ctx, id)
}

func (s *ListingService) SearchByName(ctx context.Context, q string) ([]models.ListingSummary, error) {
	q, err := repository.NormalizeSearchQuery(q)
	if err != nil {
		return nil, err
	}
	return s.listings.SearchByName(ctx, q)
}

func (s *ListingService) Cities(ctx context.Context) ([]models.CityCount, error) {
	return s.listings.Cities(ctx)
}

func (s *ListingService) Cuisines(ctx context.Context) ([]models.CuisineCount, error) {
	return s.listings.Cuisines(ctx)
}

func (s *ListingService) Create(ctx context.Context, actor *policy.Actor, in CreateListingInput) (*models.Listing, error) {
	if err := policy.Authorize(policy.Admin, actor); err != nil {
		return nil, err
	}

	listing := &models.Listing{
		Name:          strings.TrimSpace(in.Name),
		City:          strings.TrimSpace(in.City),
		Area:          strings.TrimSpace(in.Area),
		Cuisine:       strings.TrimSpace(in.Cuisine),
		AvgPrice:      in.AvgPrice,
		Latitude:      in.Latitude,
		Longitude:     in.Longitude,
		SpendingIndex: DefaultSpendingIndex,
		Description:   in.Description,
		ImageURL:      strings.TrimSpace(in.ImageURL),
		Phone:         strings.TrimSpace(in.Phone),
		Address:       in.Address,
		IsActive:      true,
	}
	if in.SpendingIndex != nil {
		listing.SpendingIndex = *in.SpendingIndex
	}
	if err := validateListing(listing); err != nil {
		return nil, err
	}

	if err := s.listings.Create(ctx, listing); err != nil {
		s.audit.Failure(ctx, observability.ActionCreate, actor.ID, err)
		return nil, err
	}

	s.audit.Record(ctx, observability.ActionCreate, actor.ID, map[string]any{
		"listing_id": listing.ID,
		"city":       listing.City,
		"cuisine":    listing.Cuisine,
	})
	invalidateAnalytics(ctx)
	return listing, nil
}

// Update applies the non-nil fields of in to listing id.
func (s *ListingService) Update(ctx context.Context, actor *policy.Actor, id uint, in UpdateListingInput) (*models.Listing, error) {
	if err := policy.Authorize(policy.Admin, actor); err != nil {
		return nil, err
	}

	listing, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	columns := applyListingUpdate(listing, in)
	if len(columns) == 0 {
		return nil, models.NewValidationError("No fields to update")
	}
	if err := validateListing(listing); err != nil {
		return nil, err
	}

	if err := s.listings.Update(ctx, listing, columns); err != nil {
		s.audit.Failure(ctx, observability.ActionUpdate, actor.ID, err)
		return nil, err
	}

	s.audit.Record(ctx, observability.ActionUpdate, actor.ID, map[string]any{
		"listing_id": listing.ID,
		"columns":    columns,
	})
	invalidateAnalytics(ctx)
	return listing, nil
}

// Delete soft-deletes a listing; its reviews stay addressable.
func (s *ListingService) Delete(ctx context.Context, actor *policy.Actor, id uint) error {
	if err := policy.Authorize(policy.Admin, actor); err != nil {
		return err
	}
	if err := s.listings.SoftDelete(ctx, id); err != nil {
		s.audit.Failure(ctx, observability.ActionDelete, actor.ID, err)
		return err
	}
	s.audit.Record(ctx, observability.ActionDelete, actor.ID, map[string]any{"listing_id": id})
	invalidateAnalytics(ctx)
	return nil
}

// RecomputeRating refreshes one listing's rating and review count from its reviews.
func (s *ListingService) RecomputeRating(ctx context.Context, actor *policy.Actor, id uint) (*models.Listing, error) {
	if err := policy.Authorize(policy.Admin, actor); err != nil {
		return nil, err
	}
	if err := s.listings.RecomputeRating(ctx, id); err != nil {
		s.audit.Failure(ctx, observability.ActionRecompute, actor.ID, err)
		return nil, err
	}
	s.audit.Record(ctx, observability.ActionRecompute, actor.ID, map[string]any{"listing_id": id})
	invalidateAnalytics(ctx)
	return s.listings.GetByID(ctx, id)
}

// RecomputeAllRatings refreshes every listing and returns how many rows changed.
func (s *ListingService) RecomputeAllRatings(ctx context.Context, actor *policy.Actor) (int64, error) {
	if err := policy.Authorize(policy.Admin, actor); err != nil {
		return 0, err
	}
	n, err := s.listings.RecomputeAllRatings(ctx)
	if err != nil {
		s.audit.Failure(ctx, observability.ActionRecompute, actor.ID, err)
		return 0, err
	}
	s.audit.Record(ctx, observability.ActionRecompute, actor.ID, map[string]any{"listings": n, "scope": "all"})
	invalidateAnalytics(ctx)
	return n, nil
}

func applyListingUpdate(l *models.Listing, in UpdateListingInput) []string {
	var cols []string
	setString := func(dst *string, v *string, col string, trim bool) {
		if v == nil {
			return
		}
		if trim {
			*dst = strings.TrimSpace(*v)
		} else {
			*dst = *v
		}
		cols = append(cols, col)
	}
	setFloat := func(dst *float64, v *float64, col string) {
		if v == nil {
			return
		}
		*dst = *v
		cols = append(cols, col)
	}

	setString(&l.Name, in.Name, "name", true)
	setString(&l.City, in.City, "city", true)
	setString(&l.Area, in.Area, "area", true)
	setString(&l.Cuisine, in.Cuisine, "cuisine", true)
	setFloat(&l.AvgPrice, in.AvgPrice, "avg_price")
	setFloat(&l.Latitude, in.Latitude, "latitude")
	setFloat(&l.Longitude, in.Longitude, "longitude")
	setFloat(&l.SpendingIndex, in.SpendingIndex, "spending_index")
	setString(&l.Description, in.Description, "description", false)
	setString(&l.ImageURL, in.ImageURL, "image_url", true)
	setString(&l.Phone, in.Phone, "phone", true)
	setString(&l.Address, in.Address, "address", false)
	return cols
}

func validateListing(l *models.Listing) error {
	checks := []error{
		validation.ValidateRequiredText("name", l.Name, maxNameLen),
		validation.ValidateRequiredText("area", l.Area, maxAreaLen),
		validation.ValidateRequiredText("cuisine", l.Cuisine, maxCuisineLen),
		validation.ValidateOptionalText("description", l.Description, maxDescriptionLen),
		validation.ValidatePhone(l.Phone),
		validation.ValidateImageURL(l.ImageURL),
		validation.ValidateCoordinates(l.Latitude, l.Longitude),
	}
	for _, err := range checks {
		if err != nil {
			return models.NewValidationError(err.Error())
		}
	}
	if !models.IsKnownCity(l.City) {
		return models.NewValidationError("city must be one of " + strings.Join(models.Cities, ", "))
	}
	if l.AvgPrice <= 0 {
		return models.NewValidationError("avg_price must be greater than 0")
	}
	if l.SpendingIndex < 0 {
		return models.NewValidationError("spending_index must be greater than or equal to 0")
	}
	return nil
}

// invalidateAnalytics drops every cached report after a write. A Redis
// failure leaves stale entries to expire with their TTL.
func invalidateAnalytics(ctx context.Context) {
	if err := cache.BumpAnalyticsGeneration(ctx); err != nil {
		middleware.Logger.WarnContext(ctx, "failed to invalidate analytics cache", slog.String("error", err.Error()))
	}
}
