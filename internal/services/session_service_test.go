package services

import (
	"strings"
	"testing"

	"agristore/internal/models"
)

func TestSessionIDFormat(t *testing.T) {
	sess := NewSession()
	if !strings.HasPrefix(sess.ID, "sess_") {
		t.Errorf("session id %q missing sess_ prefix", sess.ID)
	}
	if parts := strings.Split(sess.ID, "_"); len(parts) != 3 {
		t.Errorf("session id %q has %d parts, want 3", sess.ID, len(parts))
	}
	if sess.LastPath != "/" {
		t.Errorf("new session LastPath = %q, want /", sess.LastPath)
	}
	if len(sess.History) != 0 {
		t.Errorf("new session has %d history entries, want 0", len(sess.History))
	}
}

func TestMemoryStoreMintsOnEmptyAndUnknown(t *testing.T) {
	store := NewMemorySessionStore()

	a, err := store.Get("")
	if err != nil {
		t.Fatalf("Get(\"\") error: %v", err)
	}
	b, err := store.Get("sess_0_nosuch")
	if err != nil {
		t.Fatalf("Get(unknown) error: %v", err)
	}
	if a.ID == b.ID {
		t.Error("two minted sessions share an id")
	}
	if b.ID == "sess_0_nosuch" {
		t.Error("unknown id was adopted instead of minting a fresh one")
	}
	if store.Count() != 2 {
		t.Errorf("Count() = %d, want 2", store.Count())
	}
}

func TestMemoryStoreIdentityStable(t *testing.T) {
	store := NewMemorySessionStore()

	sess, _ := store.Get("")
	sess.State.AgentRequested = true
	sess.History = append(sess.History, models.ChatMessage{Role: models.RoleUser, Text: "hi"})
	if err := store.Save(sess); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	again, _ := store.Get(sess.ID)
	if again != sess {
		t.Error("Get returned a different record for a known id")
	}
	if !again.State.AgentRequested || len(again.History) != 1 {
		t.Error("mutations not visible through the store")
	}
}
