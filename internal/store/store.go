package store

import (
	"context"
	"time"

	"github.com/sabq-ai/loyalty-backend/internal/repos"
	"github.com/sabq-ai/loyalty-backend/internal/types"
)

// Store is the single storage abstraction both backends implement. All
// business rules (point values, caps, tiers, guest handling) live above this
// interface so the relational and file paths cannot drift.
type Store interface {
	// RecordInteraction persists one interaction. The bool reports whether
	// a new record was created; the relational backend returns false for
	// repeats of the same (user, article, type) triple, the file backend
	// appends unconditionally and always returns true.
	RecordInteraction(ctx context.Context, in *types.Interaction) (bool, error)
	ListInteractions(ctx context.Context, f repos.InteractionFilter) ([]types.Interaction, error)
	CountInteractions(ctx context.Context, userID, articleID string, typ types.InteractionType) (int64, error)
	CountInteractionsSince(ctx context.Context, userID string, typ types.InteractionType, since time.Time) (int64, error)

	// GetAccount returns pkg/errors.ErrNotFound for users with no account.
	GetAccount(ctx context.Context, userID string) (*types.LoyaltyAccount, error)
	// SaveAccount upserts the account and, when event is non-nil, appends it
	// to the account's history in the same write.
	SaveAccount(ctx context.Context, acct *types.LoyaltyAccount, event *types.PointEvent) error

	AppendActivity(ctx context.Context, rec *types.ActivityRecord) error
	ListActivities(ctx context.Context, userID string, limit int) ([]types.ActivityRecord, error)

	IncrementArticleViews(ctx context.Context, articleID string) error

	// Name identifies the backend in logs ("db" or "file").
	Name() string
}
