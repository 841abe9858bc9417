package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// The CMS wire format: every body carries a success flag, failures carry a
// short free-text error.

func RespondOK(c *gin.Context, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

func RespondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}
