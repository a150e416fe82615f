package models

import (
	"time"
)

// Cities holds the fixed set of cities a listing may belong to.
var Cities = []string{"Chennai", "Coimbatore", "Tiruppur", "Madurai", "Thoothukudi"}

// IsKnownCity reports whether city is one of Cities.
func IsKnownCity(city string) bool {
	for _, c := range Cities {
		if c == city {
			return true
		}
	}
	return false
}

// Listing is a restaurant record. Rating and ReviewCount are derived from
// the listing's reviews and are never set by clients.
type Listing struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:255;not null;index" json:"name"`
	City          string    `gorm:"size:100;not null;index" json:"city"`
	Area          string    `gorm:"size:100;not null" json:"area"`
	Cuisine       string    `gorm:"size:100;not null;index" json:"cuisine"`
	AvgPrice      float64   `gorm:"not null" json:"avg_price"`
	Rating        float64   `gorm:"not null;default:0" json:"rating"`
	ReviewCount   int       `gorm:"not null;default:0" json:"review_count"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	SpendingIndex float64   `gorm:"not null" json:"spending_index"`
	Description   string    `gorm:"type:text" json:"description,omitempty"`
	ImageURL      string    `gorm:"size:500" json:"image_url,omitempty"`
	Phone         string    `gorm:"size:20" json:"phone,omitempty"`
	Address       string    `gorm:"type:text" json:"address,omitempty"`
	IsActive      bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Reviews       []Review  `gorm:"foreignKey:ListingID" json:"-"`
}

// TableName keeps the historical table name.
func (Listing) TableName() string {
	return "restaurants"
}

// ListingSummary is the compact shape returned by name search.
type ListingSummary struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	City     string  `json:"city"`
	Area     string  `json:"area"`
	Cuisine  string  `json:"cuisine"`
	Rating   float64 `json:"rating"`
	AvgPrice float64 `json:"avg_price"`
}

// CityCount pairs a city with its number of active listings.
type CityCount struct {
	City            string `json:"city"`
	RestaurantCount int64  `json:"restaurant_count"`
}

// CuisineCount pairs a cuisine with its number of active listings.
type CuisineCount struct {
	Cuisine         string `json:"cuisine"`
	RestaurantCount int64  `json:"restaurant_count"`
}
