package services

import (
	"context"
	"fmt"

	"github.com/sabq-ai/loyalty-backend/internal/logger"
	pkgerrors "github.com/sabq-ai/loyalty-backend/internal/pkg/errors"
	"github.com/sabq-ai/loyalty-backend/internal/repos"
	"github.com/sabq-ai/loyalty-backend/internal/rules"
	"github.com/sabq-ai/loyalty-backend/internal/store"
	"github.com/sabq-ai/loyalty-backend/internal/types"
)

// TrackInput is one interaction to record.
type TrackInput struct {
	UserID    string
	ArticleID string
	Type      types.InteractionType
	Source    string
	Device    string
	Duration  int
	Completed bool
}

// TrackResult reports what the recorder did. PointsEarned is zero for guest
// users, non-earning types, repeats and capped actions.
type TrackResult struct {
	Created      bool
	PointsEarned int
	Message      string
}

// TrackingService is the interaction recorder: it validates, persists via
// the active backend (falling back to the secondary on failure), consults
// the limit checker, and drives the ledger and audit trail. Only the
// interaction write itself is load-bearing; points and activity are
// best-effort.
type TrackingService interface {
	Track(ctx context.Context, in TrackInput) (TrackResult, error)
	List(ctx context.Context, f repos.InteractionFilter) ([]types.Interaction, error)
}

type trackingService struct {
	primary  store.Store
	fallback store.Store
	log      *logger.Logger
	cfg      rules.Config
	limits   LimitService
	loyalty  LoyaltyService
	activity ActivityService
}

// NewTrackingService wires the recorder. fallback may be nil; limits,
// loyalty and activity are required.
func NewTrackingService(primary, fallback store.Store, baseLog *logger.Logger, cfg rules.Config, limits LimitService, loyalty LoyaltyService, activity ActivityService) TrackingService {
	return &trackingService{
		primary:  primary,
		fallback: fallback,
		log:      baseLog.With("service", "TrackingService"),
		cfg:      cfg,
		limits:   limits,
		loyalty:  loyalty,
		activity: activity,
	}
}

func (s *trackingService) Track(ctx context.Context, in TrackInput) (TrackResult, error) {
	if in.UserID == "" || in.ArticleID == "" || in.Type == "" {
		return TrackResult{}, fmt.Errorf("%w: user_id, article_id and interaction_type are required", pkgerrors.ErrInvalidArgument)
	}
	if !in.Type.Valid() {
		return TrackResult{}, fmt.Errorf("%w: unknown interaction_type %q", pkgerrors.ErrInvalidArgument, in.Type)
	}

	rule, hasRule := s.cfg.RuleFor(in.Type)
	earning := hasRule && rule.Points != 0 && in.UserID != types.GuestUserID

	// caps are checked before the write so the just-recorded interaction
	// does not count against its own limit
	allowed := true
	if earning {
		allowed = s.limits.Allow(ctx, in.UserID, in.ArticleID, in.Type, rule)
	}

	interaction := &types.Interaction{
		UserID:    in.UserID,
		ArticleID: in.ArticleID,
		Type:      in.Type,
		Source:    in.Source,
		Device:    in.Device,
		Duration:  in.Duration,
		Completed: in.Completed,
	}

	active := s.primary
	created, err := active.RecordInteraction(ctx, interaction)
	if err != nil && s.fallback != nil {
		s.log.Warn("primary store write failed, degrading to fallback", "backend", active.Name(), "error", err)
		active = s.fallback
		created, err = active.RecordInteraction(ctx, interaction)
	}
	if err != nil {
		return TrackResult{}, err
	}

	if in.Type == types.InteractionView {
		if err := active.IncrementArticleViews(ctx, in.ArticleID); err != nil {
			s.log.Warn("view counter increment failed", "article_id", in.ArticleID, "error", err)
		}
	}

	res := TrackResult{Created: created, Message: "تم تسجيل التفاعل بنجاح"}
	if !earning || !allowed || !created {
		return res, nil
	}

	if _, err := s.loyalty.AddPoints(ctx, in.UserID, rule.Points, string(in.Type), in.ArticleID, rule.Description); err != nil {
		s.log.Warn("loyalty update failed", "user_id", in.UserID, "type", in.Type, "error", err)
		return res, nil
	}
	res.PointsEarned = rule.Points
	res.Message = "تم تسجيل التفاعل ومنح النقاط"
	s.activity.Log(ctx, in.UserID, string(in.Type), rule.Description, rule.Points, in.ArticleID, map[string]any{
		"source": in.Source,
		"device": in.Device,
	})
	return res, nil
}

func (s *trackingService) List(ctx context.Context, f repos.InteractionFilter) ([]types.Interaction, error) {
	if f.UserID == "" {
		return nil, fmt.Errorf("%w: user_id is required", pkgerrors.ErrInvalidArgument)
	}
	list, err := s.primary.ListInteractions(ctx, f)
	if err != nil && s.fallback != nil {
		s.log.Warn("primary store read failed, degrading to fallback", "backend", s.primary.Name(), "error", err)
		return s.fallback.ListInteractions(ctx, f)
	}
	return list, err
}
