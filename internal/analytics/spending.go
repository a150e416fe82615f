package analytics

import "nativore/internal/models"

// Price bucket boundaries for two people.
const (
	BudgetCeiling = 300.0
	PremiumFloor  = 600.0
)

const (
	budgetLabel   = "< ₹300"
	midRangeLabel = "₹300 - ₹600"
	premiumLabel  = "> ₹600"
)

// PriceBucket reports one price range.
type PriceBucket struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
	AvgPrice   float64 `json:"avg_price"`
	Range      string  `json:"range"`
}

// PriceRanges holds the three price buckets.
type PriceRanges struct {
	Budget   PriceBucket `json:"budget"`
	MidRange PriceBucket `json:"mid_range"`
	Premium  PriceBucket `json:"premium"`
}

// SpendingDistribution partitions listings into price buckets.
type SpendingDistribution struct {
	TotalRestaurants int         `json:"total_restaurants"`
	PriceRanges      PriceRanges `json:"price_ranges"`
	AvgSpendingIndex float64     `json:"avg_spending_index"`
}

// PriceBand returns the bucket name for a price.
func PriceBand(price float64) string {
	switch {
	case price < BudgetCeiling:
		return "budget"
	case price < PremiumFloor:
		return "mid_range"
	default:
		return "premium"
	}
}

// Spending partitions listings into budget, mid-range and premium buckets.
func Spending(listings []models.Listing) SpendingDistribution {
	var budget, mid, premium, all stats
	for i := range listings {
		l := &listings[i]
		all.add(l)
		switch PriceBand(l.AvgPrice) {
		case "budget":
			budget.add(l)
		case "mid_range":
			mid.add(l)
		default:
			premium.add(l)
		}
	}

	total := len(listings)
	bucket := func(s stats, label string) PriceBucket {
		return PriceBucket{
			Count:      s.count,
			Percentage: percent(s.count, total),
			AvgPrice:   round2(s.meanPrice()),
			Range:      label,
		}
	}

	return SpendingDistribution{
		TotalRestaurants: total,
		PriceRanges: PriceRanges{
			Budget:   bucket(budget, budgetLabel),
			MidRange: bucket(mid, midRangeLabel),
			Premium:  bucket(premium, premiumLabel),
		},
		AvgSpendingIndex: round2(all.meanSpending()),
	}
}
