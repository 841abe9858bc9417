package filestore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sabq-ai/loyalty-backend/internal/logger"
	pkgerrors "github.com/sabq-ai/loyalty-backend/internal/pkg/errors"
	"github.com/sabq-ai/loyalty-backend/internal/repos"
	"github.com/sabq-ai/loyalty-backend/internal/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	st, err := New(t.TempDir(), log)
	if err != nil {
		t.Fatalf("filestore: %v", err)
	}
	return st
}

func TestRecordInteractionAppends(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		created, err := st.RecordInteraction(ctx, &types.Interaction{
			UserID:    "u1",
			ArticleID: "a1",
			Type:      types.InteractionLike,
		})
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
		if !created {
			t.Fatalf("record %d: file backend should always report created", i)
		}
	}

	count, err := st.CountInteractions(ctx, "u1", "a1", types.InteractionLike)
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Fatalf("count=%d, want 3 (append-only, no dedup)", count)
	}

	// the document lands on disk with an updated_at stamp
	raw, err := os.ReadFile(filepath.Join(st.dir, interactionsFile))
	if err != nil {
		t.Fatalf("document not written: %v", err)
	}
	if len(raw) == 0 {
		t.Fatal("document is empty")
	}
}

func TestConcurrentWritesLeaveCleanDocuments(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	wg.Add(2 * n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if _, err := st.RecordInteraction(ctx, &types.Interaction{
				UserID:    "u1",
				ArticleID: "a1",
				Type:      types.InteractionLike,
			}); err != nil {
				t.Error(err)
			}
		}()
		go func(i int) {
			defer wg.Done()
			if err := st.AppendActivity(ctx, &types.ActivityRecord{
				UserID:       "u1",
				Action:       "like",
				PointsEarned: i,
			}); err != nil {
				t.Error(err)
			}
		}(i)
	}
	wg.Wait()

	count, err := st.CountInteractions(ctx, "u1", "a1", types.InteractionLike)
	if err != nil {
		t.Fatal(err)
	}
	if count != n {
		t.Fatalf("count=%d, want %d (no lost appends)", count, n)
	}
	activities, err := st.ListActivities(ctx, "u1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(activities) != n {
		t.Fatalf("activities=%d, want %d", len(activities), n)
	}

	// every rewrite must finish its rename; leftover temp files mean a
	// torn write path
	leftovers, err := filepath.Glob(filepath.Join(st.dir, "*.tmp-*"))
	if err != nil {
		t.Fatal(err)
	}
	if len(leftovers) != 0 {
		t.Fatalf("temp files left behind: %v", leftovers)
	}
}

func TestListInteractionsFilterAndOrder(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	seed := []types.Interaction{
		{UserID: "u1", ArticleID: "a1", Type: types.InteractionRead, CreatedAt: base},
		{UserID: "u1", ArticleID: "a2", Type: types.InteractionLike, CreatedAt: base.Add(2 * time.Minute)},
		{UserID: "u1", ArticleID: "a1", Type: types.InteractionShare, CreatedAt: base.Add(time.Minute)},
		{UserID: "u2", ArticleID: "a1", Type: types.InteractionRead, CreatedAt: base.Add(3 * time.Minute)},
	}
	for i := range seed {
		if _, err := st.RecordInteraction(ctx, &seed[i]); err != nil {
			t.Fatal(err)
		}
	}

	list, err := st.ListInteractions(ctx, repos.InteractionFilter{UserID: "u1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 {
		t.Fatalf("len=%d, want 3", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].CreatedAt.Before(list[i].CreatedAt) {
			t.Fatalf("not sorted descending at %d: %v < %v", i, list[i-1].CreatedAt, list[i].CreatedAt)
		}
	}

	byArticle, err := st.ListInteractions(ctx, repos.InteractionFilter{UserID: "u1", ArticleID: "a1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(byArticle) != 2 {
		t.Fatalf("article filter len=%d, want 2", len(byArticle))
	}

	byType, err := st.ListInteractions(ctx, repos.InteractionFilter{UserID: "u1", Type: types.InteractionLike})
	if err != nil {
		t.Fatal(err)
	}
	if len(byType) != 1 || byType[0].ArticleID != "a2" {
		t.Fatalf("type filter wrong: %+v", byType)
	}
}

func TestCountInteractionsSince(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	seed := []types.Interaction{
		{UserID: "u1", ArticleID: "a1", Type: types.InteractionShare, CreatedAt: now.Add(-48 * time.Hour)},
		{UserID: "u1", ArticleID: "a2", Type: types.InteractionShare, CreatedAt: now.Add(-time.Minute)},
		{UserID: "u1", ArticleID: "a3", Type: types.InteractionShare, CreatedAt: now},
	}
	for i := range seed {
		if _, err := st.RecordInteraction(ctx, &seed[i]); err != nil {
			t.Fatal(err)
		}
	}

	count, err := st.CountInteractionsSince(ctx, "u1", types.InteractionShare, now.Add(-time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Fatalf("count=%d, want 2", count)
	}
}

func TestAccountRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	if _, err := st.GetAccount(ctx, "u1"); !errors.Is(err, pkgerrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	acct := &types.LoyaltyAccount{
		UserID:       "u1",
		TotalPoints:  5,
		EarnedPoints: 5,
		Tier:         types.TierBronze,
		CreatedAt:    time.Now().UTC(),
		LastUpdated:  time.Now().UTC(),
	}
	event := &types.PointEvent{UserID: "u1", Action: "like", Points: 5, CreatedAt: time.Now().UTC()}
	if err := st.SaveAccount(ctx, acct, event); err != nil {
		t.Fatal(err)
	}

	got, err := st.GetAccount(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if got.TotalPoints != 5 || got.EarnedPoints != 5 {
		t.Fatalf("unexpected account %+v", got)
	}
	if len(got.History) != 1 || got.History[0].Points != 5 {
		t.Fatalf("history not persisted: %+v", got.History)
	}

	// second save replaces the account and appends to history
	acct.TotalPoints = 8
	acct.EarnedPoints = 8
	if err := st.SaveAccount(ctx, acct, &types.PointEvent{UserID: "u1", Action: "share", Points: 3, CreatedAt: time.Now().UTC()}); err != nil {
		t.Fatal(err)
	}
	got, err = st.GetAccount(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if got.TotalPoints != 8 || len(got.History) != 2 {
		t.Fatalf("account not updated: total=%d history=%d", got.TotalPoints, len(got.History))
	}
}

func TestActivityCapEvictsOldestFirst(t *testing.T) {
	st := newTestStore(t)
	st.maxActivities = 5
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 8; i++ {
		rec := &types.ActivityRecord{
			UserID:       "u1",
			Action:       "like",
			PointsEarned: i,
			CreatedAt:    base.Add(time.Duration(i) * time.Second),
		}
		if err := st.AppendActivity(ctx, rec); err != nil {
			t.Fatal(err)
		}
	}

	list, err := st.ListActivities(ctx, "u1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 5 {
		t.Fatalf("len=%d, want cap 5", len(list))
	}
	// newest first; the three oldest (0,1,2) are gone
	if list[0].PointsEarned != 7 || list[len(list)-1].PointsEarned != 3 {
		t.Fatalf("unexpected eviction order: first=%d last=%d", list[0].PointsEarned, list[len(list)-1].PointsEarned)
	}
}

func TestListActivitiesLimit(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		if err := st.AppendActivity(ctx, &types.ActivityRecord{
			UserID:    "u1",
			Action:    "read",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}); err != nil {
			t.Fatal(err)
		}
	}

	list, err := st.ListActivities(ctx, "u1", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("len=%d, want 2", len(list))
	}
}
