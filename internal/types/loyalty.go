package types

import (
	"time"
)

// Tier is the coarse loyalty classification derived from total points.
type Tier string

const (
	TierBronze   Tier = "bronze"
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierPlatinum Tier = "platinum"
)

// LoyaltyAccount is the per-user running points balance. total_points is
// clamped at zero on every update; earned_points only ever grows.
type LoyaltyAccount struct {
	UserID         string       `gorm:"size:64;primaryKey" json:"user_id"`
	TotalPoints    int          `gorm:"not null;default:0" json:"total_points"`
	EarnedPoints   int          `gorm:"not null;default:0" json:"earned_points"`
	RedeemedPoints int          `gorm:"not null;default:0" json:"redeemed_points"`
	Tier           Tier         `gorm:"size:16;not null;default:bronze" json:"tier"`
	History        []PointEvent `gorm:"foreignKey:UserID;references:UserID" json:"history,omitempty"`
	CreatedAt      time.Time    `gorm:"not null" json:"created_at"`
	LastUpdated    time.Time    `gorm:"not null" json:"last_updated"`
}

func (LoyaltyAccount) TableName() string { return "user_loyalty_points" }

// PointEvent is one signed entry in a loyalty account's history.
type PointEvent struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	UserID      string    `gorm:"size:64;not null;index" json:"-"`
	Action      string    `gorm:"size:32;not null" json:"action"`
	Points      int       `gorm:"not null" json:"points"`
	ArticleID   string    `gorm:"size:64" json:"article_id,omitempty"`
	Description string    `gorm:"size:255" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"not null;index" json:"timestamp"`
}

func (PointEvent) TableName() string { return "user_point_events" }
