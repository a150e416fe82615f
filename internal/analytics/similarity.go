package analytics

import (
	"math"
	"sort"

	"nativore/internal/models"
)

// Similarity limits.
const (
	DefaultSimilarLimit = 5
	MaxSimilarLimit     = 20
)

// SimilarityScore rates candidate against a reference listing.
// Price proximity and the candidate's own rating weigh equally, so the score
// is symmetric only when both listings share a rating.
func SimilarityScore(reference, candidate models.Listing) float64 {
	priceScore := math.Max(0, 100-math.Abs(candidate.AvgPrice-reference.AvgPrice)/10)
	ratingScore := candidate.Rating * 20
	return round2((priceScore + ratingScore) / 2)
}

// SimilarListing is a scored candidate.
type SimilarListing struct {
	ID              uint    `json:"id"`
	Name            string  `json:"name"`
	Area            string  `json:"area"`
	Rating          float64 `json:"rating"`
	AvgPrice        float64 `json:"avg_price"`
	SimilarityScore float64 `json:"similarity_score"`
}

// Similar ranks candidates that share the reference's cuisine and city.
// Inactive candidates and the reference itself are skipped.
func Similar(reference models.Listing, candidates []models.Listing, limit int) []SimilarListing {
	out := make([]SimilarListing, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == reference.ID || !c.IsActive ||
			c.Cuisine != reference.Cuisine || c.City != reference.City {
			continue
		}
		out = append(out, SimilarListing{
			ID:              c.ID,
			Name:            c.Name,
			Area:            c.Area,
			Rating:          c.Rating,
			AvgPrice:        c.AvgPrice,
			SimilarityScore: SimilarityScore(reference, c),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SimilarityScore != out[j].SimilarityScore {
			return out[i].SimilarityScore > out[j].SimilarityScore
		}
		return out[i].ID < out[j].ID
	})
	return out[:capAt(len(out), limit)]
}
