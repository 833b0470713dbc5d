package events

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewSharingEvent(t *testing.T) {
	assetID := uuid.New()
	actor := uuid.New()
	target := uuid.New()

	event := NewSharingEvent(FileShared, "file", assetID, "report.pdf", actor, target)

	if event.EventType != FileShared || event.AssetType != "file" {
		t.Errorf("unexpected event type: %s/%s", event.EventType, event.AssetType)
	}
	if event.AssetID != assetID.String() || event.ActorID != actor.String() {
		t.Errorf("ids not carried over: %+v", event)
	}
	if event.SharedWithUserID == nil || *event.SharedWithUserID != target.String() {
		t.Errorf("sharedWithUserId missing or wrong: %v", event.SharedWithUserID)
	}
	if event.Timestamp.IsZero() {
		t.Error("timestamp should be set")
	}

	plain := NewActivityEvent(FileUploaded, "file", assetID, "report.pdf", actor)
	if plain.SharedWithUserID != nil {
		t.Error("plain events must not carry sharedWithUserId")
	}
}
