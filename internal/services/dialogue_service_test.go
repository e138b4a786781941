package services

import (
	"strings"
	"testing"

	"agristore/internal/models"
)

func testKB() *models.KnowledgeBase {
	return &models.KnowledgeBase{
		Pages: []models.Page{
			{URL: "https://shop.example.com/", Title: "home", Topics: []string{}, CTAs: []string{}},
			{URL: "https://shop.example.com/products/brush-cutter", Title: "brush-cutter", Content: "Heavy duty brush cutter for field clearing", Topics: []string{}, CTAs: []string{}},
			{URL: "https://shop.example.com/products/power-weeder", Title: "power-weeder", Content: "Power weeder with sprayer attachment", Topics: []string{}, CTAs: []string{}},
			{URL: "https://shop.example.com/contact", Title: "contact", Content: "Reach us by phone or email", Topics: []string{}, CTAs: []string{}},
		},
	}
}

func TestDetectIntentPriority(t *testing.T) {
	engine := NewDialogueEngine()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"greeting", "hi there", models.IntentGreet},
		{"greeting beats products", "hello, what products do you sell?", models.IntentGreet},
		{"products", "what is the price of the weeder?", models.IntentProducts},
		{"products beats contact", "price list and contact details", models.IntentProducts},
		{"contact", "how do I reach your office?", models.IntentContact},
		{"contact beats agent", "contact a support person", models.IntentContact},
		{"agent", "I want to talk to a human", models.IntentAgent},
		{"case insensitive", "HELLO", models.IntentGreet},
		{"no match", "qwerty asdf", models.IntentFallback},
		{"substring hi not matched", "this is high quality", models.IntentFallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := engine.DetectIntent(tt.text); got != tt.want {
				t.Errorf("DetectIntent(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestAgentHandshake(t *testing.T) {
	engine := NewDialogueEngine()
	kb := testKB()
	graph := BuildGraphFromKB(kb)
	sess := NewSession()

	first := engine.Respond("connect me to an agent", kb, graph, sess)
	if first.Intent != models.IntentAgent {
		t.Fatalf("first turn intent = %q, want %q", first.Intent, models.IntentAgent)
	}
	if first.Reply != replyAgentConfirm {
		t.Errorf("first turn reply = %q, want confirmation offer", first.Reply)
	}
	if !sess.State.AgentRequested {
		t.Error("AgentRequested flag not set after first agent turn")
	}

	second := engine.Respond("yes, agent please", kb, graph, sess)
	if second.Reply != replyAgentNotify {
		t.Errorf("second turn reply = %q, want notify reply", second.Reply)
	}

	// Repeated requests stay on the notify reply
	third := engine.Respond("agent", kb, graph, sess)
	if third.Reply != replyAgentNotify {
		t.Errorf("third turn reply = %q, want notify reply", third.Reply)
	}
}

func TestFallbackLoopAvoidance(t *testing.T) {
	engine := NewDialogueEngine()
	kb := testKB()
	graph := BuildGraphFromKB(kb)
	sess := NewSession()
	sess.LastPath = "/about" // no query string, so retrieval yields nothing

	first := engine.Respond("zzz unknown", kb, graph, sess)
	if first.Reply != replyFallbackOffer {
		t.Fatalf("first fallback reply = %q, want agent offer", first.Reply)
	}

	// The caller records the turn; simulate that before the next one.
	sess.History = append(sess.History,
		models.ChatMessage{Role: models.RoleUser, Text: "zzz unknown"},
		models.ChatMessage{Role: models.RoleBot, Text: first.Reply},
	)

	second := engine.Respond("zzz still unknown", kb, graph, sess)
	if second.Reply != replyClarify {
		t.Errorf("second fallback reply = %q, want clarifying question", second.Reply)
	}
	if second.Reply == first.Reply {
		t.Error("bot repeated the agent offer two turns in a row")
	}
}

func TestRespondNeverAppendsHistory(t *testing.T) {
	engine := NewDialogueEngine()
	kb := testKB()
	graph := BuildGraphFromKB(kb)
	sess := NewSession()

	engine.Respond("hi", kb, graph, sess)
	engine.Respond("what machines do you sell?", kb, graph, sess)

	if len(sess.History) != 0 {
		t.Errorf("engine appended %d history entries, want 0", len(sess.History))
	}
}

func TestProductsReplyUsesSection(t *testing.T) {
	engine := NewDialogueEngine()
	kb := testKB()
	graph := BuildGraphFromKB(kb)
	sess := NewSession()
	sess.LastPath = "/products/brush-cutter"

	result := engine.Respond("show me your machines", kb, graph, sess)
	if result.Intent != models.IntentProducts {
		t.Fatalf("intent = %q, want %q", result.Intent, models.IntentProducts)
	}
	if !strings.Contains(result.Reply, "power-weeder") {
		t.Errorf("products reply did not surface the sibling product page: %q", result.Reply)
	}
	if strings.Count(result.Reply, "](") > 3 {
		t.Errorf("products reply has more than 3 links: %q", result.Reply)
	}
}

func TestFallbackRetrievalByQueryTerms(t *testing.T) {
	engine := NewDialogueEngine()
	kb := testKB()
	graph := BuildGraphFromKB(kb)

	sess := NewSession()
	sess.LastPath = "/search?q=sprayer"

	result := engine.Respond("zzz unknown", kb, graph, sess)
	if !strings.Contains(result.Reply, "Here are relevant pages I found") {
		t.Fatalf("expected retrieval reply, got %q", result.Reply)
	}
	if !strings.Contains(result.Reply, "power-weeder") {
		t.Errorf("retrieval missed the page mentioning the query term: %q", result.Reply)
	}

	// Same inputs, same ranking
	sess2 := NewSession()
	sess2.LastPath = "/search?q=sprayer"
	again := engine.Respond("zzz unknown", kb, graph, sess2)
	if again.Reply != result.Reply {
		t.Errorf("retrieval not deterministic:\n first: %q\nsecond: %q", result.Reply, again.Reply)
	}
}

func TestContactReply(t *testing.T) {
	engine := NewDialogueEngine()
	kb := testKB()
	graph := BuildGraphFromKB(kb)
	sess := NewSession()

	result := engine.Respond("what is your phone number?", kb, graph, sess)
	if result.Intent != models.IntentContact {
		t.Fatalf("intent = %q, want %q", result.Intent, models.IntentContact)
	}
	if !strings.Contains(result.Reply, "+91 7726017648") {
		t.Errorf("contact reply missing phone number: %q", result.Reply)
	}
	if !strings.Contains(result.Reply, "https://shop.example.com/contact") {
		t.Errorf("contact reply missing contact page link: %q", result.Reply)
	}
}
