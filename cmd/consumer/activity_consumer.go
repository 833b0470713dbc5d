package main

import (
	"context"
	"log"

	"github.com/MAHIRE-7/drive-clone/internal/events"
	"github.com/MAHIRE-7/drive-clone/pkg/redisclient"

	"github.com/google/uuid"
)

// ActivityFeeder appends consumed drive events to the Redis activity
// feed of the acting user, and of the target user on sharing events.
type ActivityFeeder struct {
	cache *redisclient.DriveCache
}

func NewActivityFeeder(cache *redisclient.DriveCache) *ActivityFeeder {
	return &ActivityFeeder{cache: cache}
}

func (f *ActivityFeeder) Handle(event events.ActivityEvent) error {
	ctx := context.Background()

	actorID, err := uuid.Parse(event.ActorID)
	if err != nil {
		log.Printf("Invalid actor id in event: %s", event.ActorID)
		return nil
	}

	if err := f.cache.AppendActivity(ctx, actorID, &event); err != nil {
		return err
	}

	// Shared-with users see the share in their own feed too.
	if event.SharedWithUserID != nil {
		targetID, err := uuid.Parse(*event.SharedWithUserID)
		if err != nil {
			log.Printf("Invalid target id in event: %s", *event.SharedWithUserID)
			return nil
		}
		if err := f.cache.AppendActivity(ctx, targetID, &event); err != nil {
			return err
		}
	}

	return nil
}
