package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sabq-ai/loyalty-backend/internal/logger"
	"github.com/sabq-ai/loyalty-backend/internal/services"
	"github.com/sabq-ai/loyalty-backend/internal/types"
)

type ActivityHandler struct {
	log      *logger.Logger
	activity services.ActivityService
}

func NewActivityHandler(log *logger.Logger, activity services.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		log:      log.With("handler", "ActivityHandler"),
		activity: activity,
	}
}

// GET /api/activities?userId=&limit=
func (h *ActivityHandler) List(c *gin.Context) {
	userID := coalesce(c.Query("userId"), c.Query("user_id"))
	if userID == "" {
		RespondError(c, http.StatusBadRequest, "Missing required query parameter: userId")
		return
	}
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	list, err := h.activity.List(c.Request.Context(), userID, limit)
	if err != nil {
		h.log.Error("activity list failed", "user_id", userID, "error", err)
		RespondError(c, http.StatusInternalServerError, "Failed to load activities")
		return
	}
	if list == nil {
		list = []types.ActivityRecord{}
	}
	RespondOK(c, gin.H{
		"activities": list,
		"total":      len(list),
	})
}
