package models

import "time"

// Intent labels used by the dialogue engine. Order of evaluation lives in the
// engine itself; these are just the names it reports.
const (
	IntentGreet    = "greet"
	IntentProducts = "products"
	IntentContact  = "contact"
	IntentAgent    = "agent"
	IntentFallback = "fallback"
)

// Chat message roles
const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// Page is a single crawled site page in the knowledge base.
// Topics and CTAs are carried for API compatibility and are always empty.
type Page struct {
	URL     string   `json:"url"`
	Title   string   `json:"title"`
	Topics  []string `json:"topics"`
	CTAs    []string `json:"ctas"`
	Content string   `json:"content,omitempty"`
}

// KnowledgeBase is the crawled collection of site pages. Built once per
// process and held in memory for the process lifetime.
type KnowledgeBase struct {
	GeneratedAt time.Time `json:"generatedAt"`
	Pages       []Page    `json:"pages"`
}

// ChatMessage is one entry in a session's conversation history.
type ChatMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// SessionState holds the dialogue flags the engine mutates between turns.
type SessionState struct {
	LastIntent     string `json:"lastIntent"`
	AgentRequested bool   `json:"agentRequested"`
}

// Session is per-conversation memory keyed by an opaque identifier.
type Session struct {
	ID       string        `json:"id"`
	History  []ChatMessage `json:"history"`
	LastPath string        `json:"lastPath"`
	State    SessionState  `json:"state"`
}

// Suggestion is a call-to-action offered alongside a chat reply.
type Suggestion struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	URL   string `json:"url"`
}
