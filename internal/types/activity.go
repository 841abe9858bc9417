package types

import (
	"time"

	"gorm.io/datatypes"
)

// MaxActivityRecords caps the audit trail; oldest entries are evicted first.
const MaxActivityRecords = 1000

// ActivityRecord is one audit-trail entry for a point-earning action.
type ActivityRecord struct {
	ID           string         `gorm:"size:36;primaryKey" json:"id"`
	UserID       string         `gorm:"size:64;not null;index" json:"user_id"`
	Action       string         `gorm:"size:32;not null" json:"action"`
	Description  string         `gorm:"size:255" json:"description,omitempty"`
	PointsEarned int            `gorm:"not null;default:0" json:"points_earned"`
	ArticleID    string         `gorm:"size:64" json:"article_id,omitempty"`
	Metadata     datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt    time.Time      `gorm:"not null;index" json:"timestamp"`
}

func (ActivityRecord) TableName() string { return "user_activities" }
