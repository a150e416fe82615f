package repository

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"unicode/utf8"

	"nativore/internal/models"

	"gorm.io/gorm"
)

// Listing query bounds.
const (
	DefaultListingLimit = 50
	MaxListingLimit     = 100
	SearchResultCap     = 20
	MinSearchLength     = 2
)

// ListingFilter is the set of conjunctive filters for listing queries.
// Nil pointers and empty strings mean "no constraint".
type ListingFilter struct {
	City      string
	Cuisine   string
	MinRating *float64
	MaxPrice  *float64
	Offset    int
	Limit     int
}

// NewListingFilter returns a filter with the default page size.
func NewListingFilter() ListingFilter {
	return ListingFilter{Limit: DefaultListingLimit}
}

// Validate rejects malformed filters before any store access.
func (f ListingFilter) Validate() error {
	if f.Offset < 0 {
		return models.NewValidationError("skip must be greater than or equal to 0")
	}
	if f.Limit < 1 || f.Limit > MaxListingLimit {
		return models.NewValidationError(fmt.Sprintf("limit must be between 1 and %d", MaxListingLimit))
	}
	if f.MinRating != nil && !(*f.MinRating >= 0 && *f.MinRating <= 5) {
		return models.NewValidationError("min_rating must be between 0 and 5")
	}
	if f.MaxPrice != nil && (!(*f.MaxPrice > 0) || math.IsInf(*f.MaxPrice, 1)) {
		return models.NewValidationError("max_price must be greater than 0")
	}
	return nil
}

func (f ListingFilter) apply(q *gorm.DB) *gorm.DB {
	q = q.Where("is_active = ?", true)
	if f.City != "" {
		q = q.Where("city = ?", f.City)
	}
	if f.Cuisine != "" {
		q = q.Where("cuisine = ?", f.Cuisine)
	}
	if f.MinRating != nil {
		q = q.Where("rating >= ?", *f.MinRating)
	}
	if f.MaxPrice != nil {
		q = q.Where("avg_price <= ?", *f.MaxPrice)
	}
	return q.Order("id").Offset(f.Offset).Limit(f.Limit)
}

// AnalysisScope selects the active listings an analytics report runs over.
type AnalysisScope struct {
	City    string
	Cuisine string
}

func (s AnalysisScope) apply(q *gorm.DB) *gorm.DB {
	q = q.Where("is_active = ?", true)
	if s.City != "" {
		q = q.Where("city = ?", s.City)
	}
	if s.Cuisine != "" {
		q = q.Where("cuisine = ?", s.Cuisine)
	}
	return q.Order("id")
}

// Key renders the scope as a stable cache-key fragment.
func (s AnalysisScope) Key() string {
	v := url.Values{}
	if s.City != "" {
		v.Set("city", s.City)
	}
	if s.Cuisine != "" {
		v.Set("cuisine", s.Cuisine)
	}
	if len(v) == 0 {
		return "all"
	}
	return v.Encode()
}

// NormalizeSearchQuery trims q and enforces the minimum search length.
func NormalizeSearchQuery(q string) (string, error) {
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) < MinSearchLength {
		return "", models.NewValidationError(fmt.Sprintf("q must be at least %d characters", MinSearchLength))
	}
	return q, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a case-folded LIKE pattern with wildcards escaped.
func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
}
