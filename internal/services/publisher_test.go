package services

import (
	"encoding/json"
	"testing"

	"cryptoguides-backend/internal/guide"
)

func TestFinalizeForPublish_IDStableAcrossRepublish(t *testing.T) {
	session := guide.NewSession()
	title, _ := json.Marshal("Bitcoin Basics")
	if err := session.SetField("title", title); err != nil {
		t.Fatalf("SetField failed: %v", err)
	}

	finalizeForPublish(session, SaveModeCreate, "2026-08-28T10:00:00Z")
	firstID := session.Meta.ID
	if firstID == "" {
		t.Fatal("Expected first publish to mint an id")
	}
	if session.Meta.PublishedDate != "2026-08-28T10:00:00Z" {
		t.Errorf("Expected publishedDate stamped, got %q", session.Meta.PublishedDate)
	}

	// Simulate the save-and-reload a draft goes through between publishes.
	state, err := json.Marshal(session)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	reloaded := guide.NewSession()
	if err := json.Unmarshal(state, reloaded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	finalizeForPublish(reloaded, SaveModeUpdate, "2026-08-28T11:30:00Z")
	if reloaded.Meta.ID != firstID {
		t.Errorf("Expected republish to reuse id %q, got %q", firstID, reloaded.Meta.ID)
	}
	if reloaded.Meta.PublishedDate != "2026-08-28T10:00:00Z" {
		t.Errorf("Expected update mode to keep publishedDate, got %q", reloaded.Meta.PublishedDate)
	}
	if reloaded.Meta.UpdatedDate != "2026-08-28T11:30:00Z" {
		t.Errorf("Expected updatedDate re-stamped, got %q", reloaded.Meta.UpdatedDate)
	}
}

func TestFinalizeForPublish_CreateModeRestampsPublishedDate(t *testing.T) {
	session := guide.NewSession()
	session.Meta.ID = "existing-id"
	session.Meta.PublishedDate = "2026-01-01T00:00:00Z"

	finalizeForPublish(session, SaveModeCreate, "2026-08-28T12:00:00Z")

	if session.Meta.ID != "existing-id" {
		t.Errorf("Expected existing id kept, got %q", session.Meta.ID)
	}
	if session.Meta.PublishedDate != "2026-08-28T12:00:00Z" {
		t.Errorf("Expected create mode to re-stamp publishedDate, got %q", session.Meta.PublishedDate)
	}
}
