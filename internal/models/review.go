package models

import (
	"time"

	"gorm.io/gorm"
)

// Review is a user's score for a listing.
type Review struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	ListingID uint           `gorm:"column:restaurant_id;not null;index" json:"restaurant_id"`
	Rating    float64        `gorm:"not null" json:"rating"`
	Comment   *string        `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	User      *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Listing   *Listing       `gorm:"foreignKey:ListingID" json:"-"`
}

// Score bounds for a review.
const (
	MinReviewScore = 1.0
	MaxReviewScore = 5.0
)
