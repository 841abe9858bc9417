package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/sabq-ai/loyalty-backend/internal/logger"
	"github.com/sabq-ai/loyalty-backend/internal/repos"
	"github.com/sabq-ai/loyalty-backend/internal/rules"
	"github.com/sabq-ai/loyalty-backend/internal/store/filestore"
	"github.com/sabq-ai/loyalty-backend/internal/types"
)

func TestAllowPerArticleCap(t *testing.T) {
	log, err := logger.New("development")
	if err != nil {
		t.Fatal(err)
	}
	st, err := filestore.New(t.TempDir(), log)
	if err != nil {
		t.Fatal(err)
	}
	svc := NewLimitService(st, log)
	ctx := context.Background()

	rule := rules.Rule{Points: 1, MaxPerArticle: 1}
	if !svc.Allow(ctx, "u1", "a1", types.InteractionLike, rule) {
		t.Fatal("fresh pair should be allowed")
	}

	if _, err := st.RecordInteraction(ctx, &types.Interaction{UserID: "u1", ArticleID: "a1", Type: types.InteractionLike}); err != nil {
		t.Fatal(err)
	}
	if svc.Allow(ctx, "u1", "a1", types.InteractionLike, rule) {
		t.Fatal("cap of 1 should deny after one interaction")
	}
	if !svc.Allow(ctx, "u1", "a2", types.InteractionLike, rule) {
		t.Fatal("cap is per article; another article should be allowed")
	}
}

func TestAllowPerDayCap(t *testing.T) {
	log, err := logger.New("development")
	if err != nil {
		t.Fatal(err)
	}
	st, err := filestore.New(t.TempDir(), log)
	if err != nil {
		t.Fatal(err)
	}
	svc := NewLimitService(st, log)
	ctx := context.Background()

	rule := rules.Rule{Points: 3, MaxPerDay: 2}
	now := time.Now().UTC()
	// one interaction yesterday does not count toward today
	if _, err := st.RecordInteraction(ctx, &types.Interaction{
		UserID: "u1", ArticleID: "old", Type: types.InteractionShare, CreatedAt: now.Add(-26 * time.Hour),
	}); err != nil {
		t.Fatal(err)
	}
	if !svc.Allow(ctx, "u1", "a1", types.InteractionShare, rule) {
		t.Fatal("yesterday's share should not count")
	}

	for i := 0; i < 2; i++ {
		if _, err := st.RecordInteraction(ctx, &types.Interaction{
			UserID: "u1", ArticleID: fmt.Sprintf("a%d", i), Type: types.InteractionShare, CreatedAt: now,
		}); err != nil {
			t.Fatal(err)
		}
	}
	if svc.Allow(ctx, "u1", "zz", types.InteractionShare, rule) {
		t.Fatal("daily cap of 2 should deny the third share")
	}
}

// failingStore errors on every read; the checker must fail open.
type failingStore struct{}

func (failingStore) RecordInteraction(context.Context, *types.Interaction) (bool, error) {
	return false, fmt.Errorf("down")
}
func (failingStore) ListInteractions(context.Context, repos.InteractionFilter) ([]types.Interaction, error) {
	return nil, fmt.Errorf("down")
}
func (failingStore) CountInteractions(context.Context, string, string, types.InteractionType) (int64, error) {
	return 0, fmt.Errorf("down")
}
func (failingStore) CountInteractionsSince(context.Context, string, types.InteractionType, time.Time) (int64, error) {
	return 0, fmt.Errorf("down")
}
func (failingStore) GetAccount(context.Context, string) (*types.LoyaltyAccount, error) {
	return nil, fmt.Errorf("down")
}
func (failingStore) SaveAccount(context.Context, *types.LoyaltyAccount, *types.PointEvent) error {
	return fmt.Errorf("down")
}
func (failingStore) AppendActivity(context.Context, *types.ActivityRecord) error {
	return fmt.Errorf("down")
}
func (failingStore) ListActivities(context.Context, string, int) ([]types.ActivityRecord, error) {
	return nil, fmt.Errorf("down")
}
func (failingStore) IncrementArticleViews(context.Context, string) error { return fmt.Errorf("down") }
func (failingStore) Name() string                                        { return "failing" }

func TestAllowFailsOpen(t *testing.T) {
	log, err := logger.New("development")
	if err != nil {
		t.Fatal(err)
	}
	svc := NewLimitService(failingStore{}, log)

	rule := rules.Rule{Points: 1, MaxPerArticle: 1, MaxPerDay: 1}
	if !svc.Allow(context.Background(), "u1", "a1", types.InteractionLike, rule) {
		t.Fatal("checker must fail open when the store is unreadable")
	}
}
