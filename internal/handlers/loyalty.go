package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sabq-ai/loyalty-backend/internal/logger"
	"github.com/sabq-ai/loyalty-backend/internal/services"
)

type LoyaltyHandler struct {
	log     *logger.Logger
	loyalty services.LoyaltyService
}

func NewLoyaltyHandler(log *logger.Logger, loyalty services.LoyaltyService) *LoyaltyHandler {
	return &LoyaltyHandler{
		log:     log.With("handler", "LoyaltyHandler"),
		loyalty: loyalty,
	}
}

// GET /api/loyalty/points?userId=
// Unknown users get a zero-value bronze account, not a 404.
func (h *LoyaltyHandler) GetPoints(c *gin.Context) {
	userID := coalesce(c.Query("userId"), c.Query("user_id"))
	if userID == "" {
		RespondError(c, http.StatusBadRequest, "Missing required query parameter: userId")
		return
	}

	acct, err := h.loyalty.GetAccount(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("account load failed", "user_id", userID, "error", err)
		RespondError(c, http.StatusInternalServerError, "Failed to load loyalty points")
		return
	}
	RespondOK(c, gin.H{"account": acct})
}
