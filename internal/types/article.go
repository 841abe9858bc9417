package types

import "time"

// Article carries only the view counter the tracker maintains; article content
// lives in the CMS proper.
type Article struct {
	ID        string    `gorm:"size:64;primaryKey" json:"id"`
	Views     int64     `gorm:"not null;default:0" json:"views"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Article) TableName() string { return "articles" }
