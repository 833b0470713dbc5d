package handlers

import (
	"net/http"

	"github.com/MAHIRE-7/drive-clone/pkg/redisclient"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ActivityHandler serves the per-user activity feed that the consumer
// builds up in Redis from drive.activity events.
type ActivityHandler struct {
	cache *redisclient.DriveCache
}

func NewActivityHandler(cache *redisclient.DriveCache) *ActivityHandler {
	return &ActivityHandler{cache: cache}
}

// GetActivities returns the caller's activity feed, newest first
func (h *ActivityHandler) GetActivities(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found"})
		return
	}

	currentUserID := userID.(uuid.UUID)

	if h.cache == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Activity feed unavailable"})
		return
	}

	activities, err := h.cache.GetActivities(c.Request.Context(), currentUserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch activities"})
		return
	}

	c.JSON(http.StatusOK, activities)
}
