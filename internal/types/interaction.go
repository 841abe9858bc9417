package types

import (
	"time"
)

// InteractionType enumerates the user actions tracked against an article.
type InteractionType string

const (
	InteractionView    InteractionType = "view"
	InteractionRead    InteractionType = "read"
	InteractionLike    InteractionType = "like"
	InteractionUnlike  InteractionType = "unlike"
	InteractionShare   InteractionType = "share"
	InteractionComment InteractionType = "comment"
	InteractionSave    InteractionType = "save"
	InteractionUnsave  InteractionType = "unsave"
)

func (t InteractionType) Valid() bool {
	switch t {
	case InteractionView, InteractionRead, InteractionLike, InteractionUnlike,
		InteractionShare, InteractionComment, InteractionSave, InteractionUnsave:
		return true
	}
	return false
}

// GuestUserID is the sentinel for anonymous visitors; they never earn points.
const GuestUserID = "guest"

// Interaction is one user action on one article. The relational backend keeps
// one row per (user, article, type) and refreshes the timestamp on repeats;
// the file backend appends every occurrence.
type Interaction struct {
	ID        string          `gorm:"size:36;primaryKey" json:"id"`
	UserID    string          `gorm:"size:64;not null;uniqueIndex:idx_user_article_type,priority:1;index" json:"user_id"`
	ArticleID string          `gorm:"size:64;not null;uniqueIndex:idx_user_article_type,priority:2" json:"article_id"`
	Type      InteractionType `gorm:"column:interaction_type;size:16;not null;uniqueIndex:idx_user_article_type,priority:3" json:"interaction_type"`
	Source    string          `gorm:"size:32" json:"source,omitempty"`
	Device    string          `gorm:"size:32" json:"device,omitempty"`
	Duration  int             `json:"duration,omitempty"`
	Completed bool            `json:"completed,omitempty"`
	CreatedAt time.Time       `gorm:"not null;index" json:"timestamp"`
	UpdatedAt time.Time       `gorm:"not null" json:"updated_at,omitzero"`
}

func (Interaction) TableName() string { return "user_article_interactions" }
