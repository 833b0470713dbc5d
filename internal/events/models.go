package events

import (
	"time"

	"github.com/google/uuid"
)

// ActivityEvent represents a single action on a file or folder. It is
// published to Kafka by the API and rendered as the user's activity feed.
type ActivityEvent struct {
	EventType string    `json:"eventType"`
	AssetType string    `json:"assetType"` // "file" or "folder"
	AssetID   string    `json:"assetId"`
	AssetName string    `json:"assetName"`
	ActorID   string    `json:"actorId"`
	Timestamp time.Time `json:"timestamp"`
	// Set on sharing events only.
	SharedWithUserID *string `json:"sharedWithUserId,omitempty"`
}

// NewActivityEvent creates an event for a plain file/folder action.
func NewActivityEvent(eventType, assetType string, assetID uuid.UUID, assetName string, actorID uuid.UUID) *ActivityEvent {
	return &ActivityEvent{
		EventType: eventType,
		AssetType: assetType,
		AssetID:   assetID.String(),
		AssetName: assetName,
		ActorID:   actorID.String(),
		Timestamp: time.Now(),
	}
}

// NewSharingEvent creates an event for a share action.
func NewSharingEvent(eventType, assetType string, assetID uuid.UUID, assetName string, actorID, sharedWith uuid.UUID) *ActivityEvent {
	event := NewActivityEvent(eventType, assetType, assetID, assetName, actorID)
	sharedWithStr := sharedWith.String()
	event.SharedWithUserID = &sharedWithStr
	return event
}
