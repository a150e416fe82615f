package repository

import (
	"math"
	"testing"

	"nativore/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestListingFilter_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(f *ListingFilter)
		wantErr bool
	}{
		{name: "Defaults", mutate: func(*ListingFilter) {}},
		{name: "Max Limit", mutate: func(f *ListingFilter) { f.Limit = 100 }},
		{name: "Zero Limit", mutate: func(f *ListingFilter) { f.Limit = 0 }, wantErr: true},
		{name: "Limit Too Large", mutate: func(f *ListingFilter) { f.Limit = 101 }, wantErr: true},
		{name: "Negative Offset", mutate: func(f *ListingFilter) { f.Offset = -1 }, wantErr: true},
		{name: "Min Rating Bounds", mutate: func(f *ListingFilter) { f.MinRating = ptr(5.0) }},
		{name: "Min Rating Too High", mutate: func(f *ListingFilter) { f.MinRating = ptr(5.1) }, wantErr: true},
		{name: "Negative Min Rating", mutate: func(f *ListingFilter) { f.MinRating = ptr(-0.5) }, wantErr: true},
		{name: "Zero Max Price", mutate: func(f *ListingFilter) { f.MaxPrice = ptr(0.0) }, wantErr: true},
		{name: "Positive Max Price", mutate: func(f *ListingFilter) { f.MaxPrice = ptr(250.0) }},
		{name: "NaN Min Rating", mutate: func(f *ListingFilter) { f.MinRating = ptr(math.NaN()) }, wantErr: true},
		{name: "NaN Max Price", mutate: func(f *ListingFilter) { f.MaxPrice = ptr(math.NaN()) }, wantErr: true},
		{name: "Infinite Max Price", mutate: func(f *ListingFilter) { f.MaxPrice = ptr(math.Inf(1)) }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewListingFilter()
			tt.mutate(&f)
			err := f.Validate()
			if tt.wantErr {
				assert.True(t, models.IsCode(err, models.CodeValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAnalysisScope_Key(t *testing.T) {
	assert.Equal(t, "all", AnalysisScope{}.Key())
	assert.Equal(t, "city=Chennai", AnalysisScope{City: "Chennai"}.Key())
	assert.Equal(t, "city=Chennai&cuisine=South+Indian", AnalysisScope{City: "Chennai", Cuisine: "South Indian"}.Key())
}

func TestNormalizeSearchQuery(t *testing.T) {
	q, err := NormalizeSearchQuery("  dosa  ")
	assert.NoError(t, err)
	assert.Equal(t, "dosa", q)

	_, err = NormalizeSearchQuery(" a ")
	assert.True(t, models.IsCode(err, models.CodeValidation))
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%saravana%", containsPattern("Saravana"))
	assert.Equal(t, `%100\%\_off%`, containsPattern("100%_off"))
}
