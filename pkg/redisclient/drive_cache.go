package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/MAHIRE-7/drive-clone/internal/events"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	maxRecentFiles = 10
	maxActivities  = 50
)

// DriveCache keeps per-user drive state in Redis: starred file ids,
// recently accessed file ids and the activity feed. The frontend used to
// hold these in localStorage; they live server-side now so every session
// sees the same state.
type DriveCache struct {
	client *redis.Client
}

// NewDriveCache creates a new DriveCache instance
func NewDriveCache(client *redis.Client) *DriveCache {
	return &DriveCache{
		client: client,
	}
}

func (dc *DriveCache) starredKey(userID uuid.UUID) string {
	return fmt.Sprintf("user:%s:starred", userID)
}

func (dc *DriveCache) recentKey(userID uuid.UUID) string {
	return fmt.Sprintf("user:%s:recent", userID)
}

func (dc *DriveCache) activityKey(userID uuid.UUID) string {
	return fmt.Sprintf("user:%s:activities", userID)
}

// StarFile adds a file to the user's starred set
func (dc *DriveCache) StarFile(ctx context.Context, userID, fileID uuid.UUID) error {
	if dc.client == nil {
		return fmt.Errorf("Redis client not initialized")
	}
	return dc.client.SAdd(ctx, dc.starredKey(userID), fileID.String()).Err()
}

// UnstarFile removes a file from the user's starred set
func (dc *DriveCache) UnstarFile(ctx context.Context, userID, fileID uuid.UUID) error {
	if dc.client == nil {
		return fmt.Errorf("Redis client not initialized")
	}
	return dc.client.SRem(ctx, dc.starredKey(userID), fileID.String()).Err()
}

// GetStarredFiles returns the user's starred file ids
func (dc *DriveCache) GetStarredFiles(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	if dc.client == nil {
		return nil, fmt.Errorf("Redis client not initialized")
	}

	members, err := dc.client.SMembers(ctx, dc.starredKey(userID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	return parseIDs(members), nil
}

// RemoveStarsForFile drops a deleted file from every given user's starred set
func (dc *DriveCache) RemoveStarsForFile(ctx context.Context, userIDs []uuid.UUID, fileID uuid.UUID) {
	if dc.client == nil {
		return
	}

	pipe := dc.client.Pipeline()
	for _, userID := range userIDs {
		pipe.SRem(ctx, dc.starredKey(userID), fileID.String())
		pipe.LRem(ctx, dc.recentKey(userID), 0, fileID.String())
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("Failed to clean up caches for file %s: %v", fileID, err)
	}
}

// TouchRecentFile pushes a file to the front of the user's recent list,
// deduplicated and capped.
func (dc *DriveCache) TouchRecentFile(ctx context.Context, userID, fileID uuid.UUID) error {
	if dc.client == nil {
		return fmt.Errorf("Redis client not initialized")
	}

	key := dc.recentKey(userID)

	pipe := dc.client.Pipeline()
	pipe.LRem(ctx, key, 0, fileID.String())
	pipe.LPush(ctx, key, fileID.String())
	pipe.LTrim(ctx, key, 0, maxRecentFiles-1)

	_, err := pipe.Exec(ctx)
	return err
}

// GetRecentFiles returns the user's recent file ids, newest first
func (dc *DriveCache) GetRecentFiles(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	if dc.client == nil {
		return nil, fmt.Errorf("Redis client not initialized")
	}

	members, err := dc.client.LRange(ctx, dc.recentKey(userID), 0, -1).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	return parseIDs(members), nil
}

// AppendActivity prepends an event to a user's activity feed, capped.
func (dc *DriveCache) AppendActivity(ctx context.Context, userID uuid.UUID, event *events.ActivityEvent) error {
	if dc.client == nil {
		return fmt.Errorf("Redis client not initialized")
	}

	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	key := dc.activityKey(userID)

	pipe := dc.client.Pipeline()
	pipe.LPush(ctx, key, value)
	pipe.LTrim(ctx, key, 0, maxActivities-1)

	_, err = pipe.Exec(ctx)
	return err
}

// GetActivities returns a user's activity feed, newest first
func (dc *DriveCache) GetActivities(ctx context.Context, userID uuid.UUID) ([]events.ActivityEvent, error) {
	if dc.client == nil {
		return nil, fmt.Errorf("Redis client not initialized")
	}

	raw, err := dc.client.LRange(ctx, dc.activityKey(userID), 0, -1).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	activities := make([]events.ActivityEvent, 0, len(raw))
	for _, item := range raw {
		var event events.ActivityEvent
		if err := json.Unmarshal([]byte(item), &event); err != nil {
			log.Printf("Invalid activity entry in cache: %v", err)
			continue
		}
		activities = append(activities, event)
	}

	return activities, nil
}

func parseIDs(members []string) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(members))
	for _, member := range members {
		id, err := uuid.Parse(member)
		if err != nil {
			log.Printf("Invalid UUID in cache: %s", member)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
