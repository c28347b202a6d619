package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetPresenceCount reports how many users currently have a live heartbeat.
func (h *Handler) GetPresenceCount(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"online": h.presence.Count()})
}

type presenceRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
}

// PutHeartbeat marks the user online, refreshing their presence TTL.
func (h *Handler) PutHeartbeat(c *gin.Context) {
	var req presenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.presence.Heartbeat(req.UserID)
	c.Status(http.StatusNoContent)
}

// DeletePresence marks the user offline immediately.
func (h *Handler) DeletePresence(c *gin.Context) {
	var req presenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.presence.Offline(req.UserID)
	c.Status(http.StatusNoContent)
}
