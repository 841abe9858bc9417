package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sabq-ai/loyalty-backend/internal/logger"
	pkgerrors "github.com/sabq-ai/loyalty-backend/internal/pkg/errors"
	"github.com/sabq-ai/loyalty-backend/internal/repos"
	"github.com/sabq-ai/loyalty-backend/internal/types"
)

const (
	interactionsFile = "user_article_interactions.json"
	loyaltyFile      = "user_loyalty_points.json"
	activitiesFile   = "user_activities.json"
)

// Store implements store.Store over JSON documents in a data directory.
// Every document is read and rewritten in full, so each document has its own
// mutex serializing the read-modify-write cycle, and writes go through a
// temp file + rename to stay atomic under crashes.
type Store struct {
	dir string
	log *logger.Logger

	interactionsMu sync.Mutex
	loyaltyMu      sync.Mutex
	activitiesMu   sync.Mutex

	maxActivities int
}

func New(dir string, baseLog *logger.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{
		dir:           dir,
		log:           baseLog.With("store", "file"),
		maxActivities: types.MaxActivityRecords,
	}, nil
}

func (s *Store) Name() string { return "file" }

func (s *Store) readJSON(name string, v any) error {
	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", name, err)
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func (s *Store) writeJSON(name string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	path := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("temp file for %s: %w", name, err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

func (s *Store) RecordInteraction(ctx context.Context, in *types.Interaction) (bool, error) {
	s.interactionsMu.Lock()
	defer s.interactionsMu.Unlock()

	var doc types.InteractionsDocument
	if err := s.readJSON(interactionsFile, &doc); err != nil {
		return false, err
	}

	now := time.Now().UTC()
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = now
	}
	in.UpdatedAt = now

	doc.Interactions = append(doc.Interactions, *in)
	doc.UpdatedAt = now.Format(time.RFC3339)
	if err := s.writeJSON(interactionsFile, &doc); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) ListInteractions(ctx context.Context, f repos.InteractionFilter) ([]types.Interaction, error) {
	s.interactionsMu.Lock()
	defer s.interactionsMu.Unlock()

	var doc types.InteractionsDocument
	if err := s.readJSON(interactionsFile, &doc); err != nil {
		return nil, err
	}

	results := make([]types.Interaction, 0)
	for _, in := range doc.Interactions {
		if f.UserID != "" && in.UserID != f.UserID {
			continue
		}
		if f.ArticleID != "" && in.ArticleID != f.ArticleID {
			continue
		}
		if f.Type != "" && in.Type != f.Type {
			continue
		}
		results = append(results, in)
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	return results, nil
}

func (s *Store) CountInteractions(ctx context.Context, userID, articleID string, typ types.InteractionType) (int64, error) {
	list, err := s.ListInteractions(ctx, repos.InteractionFilter{UserID: userID, ArticleID: articleID, Type: typ})
	if err != nil {
		return 0, err
	}
	return int64(len(list)), nil
}

func (s *Store) CountInteractionsSince(ctx context.Context, userID string, typ types.InteractionType, since time.Time) (int64, error) {
	list, err := s.ListInteractions(ctx, repos.InteractionFilter{UserID: userID, Type: typ})
	if err != nil {
		return 0, err
	}
	var count int64
	for _, in := range list {
		if !in.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (s *Store) GetAccount(ctx context.Context, userID string) (*types.LoyaltyAccount, error) {
	s.loyaltyMu.Lock()
	defer s.loyaltyMu.Unlock()

	var doc types.LoyaltyDocument
	if err := s.readJSON(loyaltyFile, &doc); err != nil {
		return nil, err
	}
	for i := range doc.Users {
		if doc.Users[i].UserID == userID {
			acct := doc.Users[i]
			return &acct, nil
		}
	}
	return nil, pkgerrors.ErrNotFound
}

func (s *Store) SaveAccount(ctx context.Context, acct *types.LoyaltyAccount, event *types.PointEvent) error {
	s.loyaltyMu.Lock()
	defer s.loyaltyMu.Unlock()

	var doc types.LoyaltyDocument
	if err := s.readJSON(loyaltyFile, &doc); err != nil {
		return err
	}

	saved := *acct
	if event != nil {
		saved.History = append(saved.History, *event)
	}

	replaced := false
	for i := range doc.Users {
		if doc.Users[i].UserID == saved.UserID {
			doc.Users[i] = saved
			replaced = true
			break
		}
	}
	if !replaced {
		doc.Users = append(doc.Users, saved)
	}
	if err := s.writeJSON(loyaltyFile, &doc); err != nil {
		return err
	}
	acct.History = saved.History
	return nil
}

func (s *Store) AppendActivity(ctx context.Context, rec *types.ActivityRecord) error {
	s.activitiesMu.Lock()
	defer s.activitiesMu.Unlock()

	var doc types.ActivitiesDocument
	if err := s.readJSON(activitiesFile, &doc); err != nil {
		return err
	}

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	doc.Activities = append(doc.Activities, *rec)
	if excess := len(doc.Activities) - s.maxActivities; excess > 0 {
		doc.Activities = doc.Activities[excess:]
	}
	return s.writeJSON(activitiesFile, &doc)
}

func (s *Store) ListActivities(ctx context.Context, userID string, limit int) ([]types.ActivityRecord, error) {
	s.activitiesMu.Lock()
	defer s.activitiesMu.Unlock()

	var doc types.ActivitiesDocument
	if err := s.readJSON(activitiesFile, &doc); err != nil {
		return nil, err
	}

	results := make([]types.ActivityRecord, 0)
	for _, rec := range doc.Activities {
		if userID != "" && rec.UserID != userID {
			continue
		}
		results = append(results, rec)
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// IncrementArticleViews is a no-op on the file backend; view counters live in
// the articles table and are only maintained on the relational path.
func (s *Store) IncrementArticleViews(ctx context.Context, articleID string) error {
	return nil
}
