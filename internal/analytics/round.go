// Package analytics computes descriptive statistics and scores over sets of
// restaurant listings. Every function is pure and deterministic: inputs are
// never mutated and ties are broken by name, then by ID.
package analytics

import (
	"math"
	"sort"

	"nativore/internal/models"
)

// Round rounds x half away from zero to the given number of decimals.
func Round(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(x*p) / p
}

// round2 is the precision used for means and scores.
func round2(x float64) float64 { return Round(x, 2) }

// percent returns part/total*100 rounded to one decimal, or 0 for an empty total.
func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return Round(float64(part)/float64(total)*100, 1)
}

// stats accumulates sums over a group of listings.
type stats struct {
	count    int
	price    float64
	rating   float64
	spending float64
}

func (s *stats) add(l *models.Listing) {
	s.count++
	s.price += l.AvgPrice
	s.rating += l.Rating
	s.spending += l.SpendingIndex
}

func (s stats) meanPrice() float64    { return safeDiv(s.price, s.count) }
func (s stats) meanRating() float64   { return safeDiv(s.rating, s.count) }
func (s stats) meanSpending() float64 { return safeDiv(s.spending, s.count) }

func safeDiv(sum float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// group is one bucket of listings keyed by a string field.
type group struct {
	key   string
	stats stats
	// distinct values of a secondary field, e.g. cuisines within an area
	distinct map[string]int
}

// groupBy buckets listings by key(l). The returned slice is sorted by key so
// callers start from a deterministic order before ranking.
func groupBy(listings []models.Listing, key func(*models.Listing) string, secondary func(*models.Listing) string) []*group {
	index := make(map[string]*group)
	for i := range listings {
		l := &listings[i]
		k := key(l)
		g, ok := index[k]
		if !ok {
			g = &group{key: k}
			if secondary != nil {
				g.distinct = make(map[string]int)
			}
			index[k] = g
		}
		g.stats.add(l)
		if secondary != nil {
			g.distinct[secondary(l)]++
		}
	}

	out := make([]*group, 0, len(index))
	for _, g := range index {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key < out[j].key })
	return out
}

// modal returns the most frequent key in counts; ties go to the lexically smallest key.
func modal(counts map[string]int) string {
	best, bestCount := "", -1
	for k, c := range counts {
		if c > bestCount || (c == bestCount && k < best) {
			best, bestCount = k, c
		}
	}
	return best
}

func byCity(l *models.Listing) string    { return l.City }
func byArea(l *models.Listing) string    { return l.Area }
func byCuisine(l *models.Listing) string { return l.Cuisine }

// capAt truncates n results to limit; a non-positive limit means no cap.
func capAt(n, limit int) int {
	if limit > 0 && limit < n {
		return limit
	}
	return n
}
