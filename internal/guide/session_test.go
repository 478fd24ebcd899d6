package guide

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestSetFieldDerivesSlug(t *testing.T) {
	s := NewSession()

	if err := s.SetField("title", json.RawMessage(`"My First Guide!"`)); err != nil {
		t.Fatalf("SetField(title) failed: %v", err)
	}

	if s.Meta.Slug != "my-first-guide" {
		t.Errorf("Expected slug 'my-first-guide', got %q", s.Meta.Slug)
	}
}

func TestSetFieldSlugOverride(t *testing.T) {
	s := NewSession()

	if err := s.SetField("slug", json.RawMessage(`"Custom Slug Here"`)); err != nil {
		t.Fatalf("SetField(slug) failed: %v", err)
	}
	if s.Meta.Slug != "custom-slug-here" {
		t.Errorf("Expected slug 'custom-slug-here', got %q", s.Meta.Slug)
	}

	// A later title edit must not clobber the hand-set slug.
	if err := s.SetField("title", json.RawMessage(`"Totally Different Title"`)); err != nil {
		t.Fatalf("SetField(title) failed: %v", err)
	}
	if s.Meta.Slug != "custom-slug-here" {
		t.Errorf("Title edit overwrote manual slug: got %q", s.Meta.Slug)
	}
}

func TestSetFieldClosedSet(t *testing.T) {
	s := NewSession()

	tests := []struct {
		field string
		value string
	}{
		{"author.name", `"Satoshi"`},
		{"author.bio", `"Writes about cold storage."`},
		{"category", `"wallets"`},
		{"tags", `["bitcoin","security"]`},
		{"readTime", `7`},
	}
	for _, tc := range tests {
		if err := s.SetField(tc.field, json.RawMessage(tc.value)); err != nil {
			t.Fatalf("SetField(%s) failed: %v", tc.field, err)
		}
	}

	if s.Meta.Author.Name != "Satoshi" {
		t.Errorf("Expected author name 'Satoshi', got %q", s.Meta.Author.Name)
	}
	if s.Meta.ReadTime != 7 {
		t.Errorf("Expected readTime 7, got %d", s.Meta.ReadTime)
	}

	if err := s.SetField("author.shoe_size", json.RawMessage(`"44"`)); !errors.Is(err, ErrUnknownField) {
		t.Errorf("Expected ErrUnknownField for unlisted path, got %v", err)
	}
	if err := s.SetField("readTime", json.RawMessage(`0`)); err == nil {
		t.Error("Expected error for non-positive readTime")
	}
}

func TestAddSectionDefaults(t *testing.T) {
	s := NewSession()
	sec := s.AddSection()

	if sec.ID == "" {
		t.Error("Expected a generated section id")
	}
	if sec.Title != "New Section" {
		t.Errorf("Expected placeholder title 'New Section', got %q", sec.Title)
	}
	if sec.Content != "" {
		t.Errorf("Expected empty body, got %q", sec.Content)
	}

	other := s.AddSection()
	if other.ID == sec.ID {
		t.Error("Section ids must be unique")
	}
}

func TestRemoveSectionOutOfRange(t *testing.T) {
	s := NewSession()
	s.AddSection()

	if err := s.RemoveSection(5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Expected ErrIndexOutOfRange, got %v", err)
	}
	if err := s.RemoveSection(-1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Expected ErrIndexOutOfRange for negative index, got %v", err)
	}
	if err := s.RemoveSection(0); err != nil {
		t.Errorf("Expected in-range remove to succeed, got %v", err)
	}
	if len(s.Sections) != 0 {
		t.Errorf("Expected 0 sections after remove, got %d", len(s.Sections))
	}
}

func TestMoveSectionStable(t *testing.T) {
	s := NewSession()
	for _, title := range []string{"A", "B", "C", "D"} {
		sec := s.AddSection()
		sec.Title = title
	}

	if err := s.MoveSection(0, 2); err != nil {
		t.Fatalf("MoveSection failed: %v", err)
	}

	got := []string{}
	for _, sec := range s.Sections {
		got = append(got, sec.Title)
	}
	want := []string{"B", "C", "A", "D"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected order %v after move, got %v", want, got)
		}
	}

	// Moving back should restore the original ordering.
	if err := s.MoveSection(2, 0); err != nil {
		t.Fatalf("MoveSection failed: %v", err)
	}
	if s.Sections[0].Title != "A" || s.Sections[3].Title != "D" {
		t.Errorf("Expected A..D restored, got %v", s.Sections)
	}
}

func TestAttachCreatesDefaultsAndTags(t *testing.T) {
	s := NewSession()
	s.AddSection()

	elem, err := s.Attach(KindQuiz, 0)
	if err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	if elem.Quiz == nil || len(elem.Quiz.Questions) == 0 {
		t.Fatal("Expected quiz defaults with at least one question")
	}
	if elem.SectionID == nil || *elem.SectionID != s.Sections[0].ID {
		t.Error("Expected binding to target the section id")
	}
	if len(s.Sections[0].ElementKinds) != 1 || s.Sections[0].ElementKinds[0] != KindQuiz {
		t.Errorf("Expected section tag list [quiz], got %v", s.Sections[0].ElementKinds)
	}
}

func TestAttachMovesBindingBetweenSections(t *testing.T) {
	s := NewSession()
	s.AddSection()
	s.AddSection()

	if _, err := s.Attach(KindCodeBlock, 0); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	if _, err := s.Attach(KindCodeBlock, 1); err != nil {
		t.Fatalf("Re-attach failed: %v", err)
	}

	if len(s.Sections[0].ElementKinds) != 0 {
		t.Errorf("Expected old section tag list cleared, got %v", s.Sections[0].ElementKinds)
	}
	if len(s.Sections[1].ElementKinds) != 1 {
		t.Errorf("Expected new section to carry the tag, got %v", s.Sections[1].ElementKinds)
	}
	if *s.Elements[KindCodeBlock].SectionID != s.Sections[1].ID {
		t.Error("Expected binding moved to the second section")
	}
}

func TestDetachPreservesContent(t *testing.T) {
	s := NewSession()
	s.AddSection()

	if _, err := s.Attach(KindQuiz, 0); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	if err := s.UpdateElement(KindQuiz, json.RawMessage(`{"title":"Wallet Safety Check"}`)); err != nil {
		t.Fatalf("UpdateElement failed: %v", err)
	}

	if err := s.Detach(KindQuiz); err != nil {
		t.Fatalf("Detach failed: %v", err)
	}
	if s.Elements[KindQuiz].SectionID != nil {
		t.Error("Expected binding cleared after detach")
	}
	if len(s.Sections[0].ElementKinds) != 0 {
		t.Errorf("Expected tag removed from section, got %v", s.Sections[0].ElementKinds)
	}

	// Soft remove: re-attaching restores the edited quiz, not the template.
	elem, err := s.Attach(KindQuiz, 0)
	if err != nil {
		t.Fatalf("Re-attach failed: %v", err)
	}
	if elem.Quiz.Title != "Wallet Safety Check" {
		t.Errorf("Expected edited title preserved across detach, got %q", elem.Quiz.Title)
	}
}

func TestPurgeDiscardsContent(t *testing.T) {
	s := NewSession()
	s.AddSection()

	if _, err := s.Attach(KindCallToAction, 0); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	if err := s.UpdateElement(KindCallToAction, json.RawMessage(`{"text":"Join now"}`)); err != nil {
		t.Fatalf("UpdateElement failed: %v", err)
	}
	if err := s.Purge(KindCallToAction); err != nil {
		t.Fatalf("Purge failed: %v", err)
	}

	if _, exists := s.Elements[KindCallToAction]; exists {
		t.Error("Expected element removed from registry after purge")
	}
	if len(s.Sections[0].ElementKinds) != 0 {
		t.Errorf("Expected tag removed from section, got %v", s.Sections[0].ElementKinds)
	}

	elem, err := s.Attach(KindCallToAction, 0)
	if err != nil {
		t.Fatalf("Attach after purge failed: %v", err)
	}
	if elem.CTA.Text == "Join now" {
		t.Error("Expected template defaults after purge, not the purged content")
	}
}

func TestUpdateElementValidation(t *testing.T) {
	s := NewSession()
	s.AddSection()

	if err := s.UpdateElement(KindQuiz, json.RawMessage(`{}`)); !errors.Is(err, ErrElementNotAttached) {
		t.Errorf("Expected ErrElementNotAttached for missing element, got %v", err)
	}

	if _, err := s.Attach(KindCodeBlock, 0); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	if err := s.UpdateElement(KindCodeBlock, json.RawMessage(`{"language":"cobol"}`)); err == nil {
		t.Error("Expected error for language outside the fixed enumeration")
	}
	if err := s.UpdateElement(KindCodeBlock, json.RawMessage(`{"language":"solidity","code":"pragma solidity ^0.8.0;"}`)); err != nil {
		t.Errorf("Expected valid language to pass, got %v", err)
	}
}

func TestSessionRoundTripsThroughJSON(t *testing.T) {
	s := NewSession()
	s.SetField("title", json.RawMessage(`"Staking 101"`))
	s.AddSection()
	s.Attach(KindVideoPlayer, 0)
	s.UpdateElement(KindVideoPlayer, json.RawMessage(`{"videoId":"dQw4w9WgXcQ"}`))

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal session: %v", err)
	}

	restored := NewSession()
	if err := json.Unmarshal(data, restored); err != nil {
		t.Fatalf("Unmarshal session: %v", err)
	}

	if restored.Meta.Slug != "staking-101" {
		t.Errorf("Expected slug preserved, got %q", restored.Meta.Slug)
	}
	elem := restored.Elements[KindVideoPlayer]
	if elem == nil || elem.Video == nil || elem.Video.VideoID != "dQw4w9WgXcQ" {
		t.Error("Expected video element to survive the draft round trip")
	}
	if elem.SectionID == nil || *elem.SectionID != restored.Sections[0].ID {
		t.Error("Expected binding to survive the draft round trip")
	}
}
