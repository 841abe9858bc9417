package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sabq-ai/loyalty-backend/internal/logger"
	pkgerrors "github.com/sabq-ai/loyalty-backend/internal/pkg/errors"
	"github.com/sabq-ai/loyalty-backend/internal/repos"
	"github.com/sabq-ai/loyalty-backend/internal/services"
	"github.com/sabq-ai/loyalty-backend/internal/types"
)

type InteractionHandler struct {
	log      *logger.Logger
	tracking services.TrackingService
}

func NewInteractionHandler(log *logger.Logger, tracking services.TrackingService) *InteractionHandler {
	return &InteractionHandler{
		log:      log.With("handler", "InteractionHandler"),
		tracking: tracking,
	}
}

// trackRequest tolerates both camelCase and snake_case key variants; clients
// of the original CMS sent either.
type trackRequest struct {
	UserID         string `json:"user_id"`
	UserIDCamel    string `json:"userId"`
	ArticleID      string `json:"article_id"`
	ArticleIDCamel string `json:"articleId"`
	Type           string `json:"interaction_type"`
	TypeCamel      string `json:"interactionType"`
	Source         string `json:"source"`
	Device         string `json:"device"`
	Duration       int    `json:"duration"`
	Completed      bool   `json:"completed"`
}

func coalesce(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// POST /api/interactions/track
func (h *InteractionHandler) Track(c *gin.Context) {
	var req trackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	in := services.TrackInput{
		UserID:    coalesce(req.UserID, req.UserIDCamel),
		ArticleID: coalesce(req.ArticleID, req.ArticleIDCamel),
		Type:      types.InteractionType(coalesce(req.Type, req.TypeCamel)),
		Source:    req.Source,
		Device:    req.Device,
		Duration:  req.Duration,
		Completed: req.Completed,
	}
	if in.UserID == "" || in.ArticleID == "" || in.Type == "" {
		RespondError(c, http.StatusBadRequest, "Missing required fields: user_id, article_id, interaction_type")
		return
	}

	res, err := h.tracking.Track(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrInvalidArgument) {
			RespondError(c, http.StatusBadRequest, err.Error())
			return
		}
		h.log.Error("track failed", "user_id", in.UserID, "article_id", in.ArticleID, "type", in.Type, "error", err)
		RespondError(c, http.StatusInternalServerError, "Failed to track interaction")
		return
	}

	RespondOK(c, gin.H{
		"message":       res.Message,
		"points_earned": res.PointsEarned,
	})
}

// GET /api/interactions/track?userId=&articleId=&type=
func (h *InteractionHandler) List(c *gin.Context) {
	userID := coalesce(c.Query("userId"), c.Query("user_id"))
	if userID == "" {
		RespondError(c, http.StatusBadRequest, "Missing required query parameter: userId")
		return
	}

	f := repos.InteractionFilter{
		UserID:    userID,
		ArticleID: coalesce(c.Query("articleId"), c.Query("article_id")),
		Type:      types.InteractionType(c.Query("type")),
	}
	list, err := h.tracking.List(c.Request.Context(), f)
	if err != nil {
		h.log.Error("list failed", "user_id", userID, "error", err)
		RespondError(c, http.StatusInternalServerError, "Failed to load interactions")
		return
	}
	if list == nil {
		list = []types.Interaction{}
	}
	RespondOK(c, gin.H{
		"interactions": list,
		"total":        len(list),
	})
}
