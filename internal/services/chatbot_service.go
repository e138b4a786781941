package services

import (
	"context"

	"agristore/internal/logging"
	"agristore/internal/models"
)

// ChatTurn is the outcome of one inbound chat message.
type ChatTurn struct {
	Reply       string
	Intent      string
	SessionID   string
	Suggestions []models.Suggestion
}

// ChatbotService orchestrates a dialogue turn: knowledge lookup, session
// bookkeeping, reply generation and suggestions. History is appended here,
// after the engine returns, so the engine never sees its own pending reply.
type ChatbotService struct {
	knowledge   *KnowledgeService
	sessions    SessionStore
	engine      *DialogueEngine
	transcripts *TranscriptService // optional, nil when MongoDB is not configured
}

// NewChatbotService creates the chatbot orchestrator
func NewChatbotService(knowledge *KnowledgeService, sessions SessionStore, transcripts *TranscriptService) *ChatbotService {
	return &ChatbotService{
		knowledge:   knowledge,
		sessions:    sessions,
		engine:      NewDialogueEngine(),
		transcripts: transcripts,
	}
}

// Knowledge exposes the knowledge service for the /knowledge endpoint.
func (s *ChatbotService) Knowledge() *KnowledgeService {
	return s.knowledge
}

// Chat runs one turn. The knowledge base degrades to a minimal fallback when
// the sitemap is unreadable; a chat turn itself only fails on a session
// backend error.
func (s *ChatbotService) Chat(ctx context.Context, siteBaseURL, message, sessionID, lastPath string) (*ChatTurn, error) {
	kb, graph := s.knowledge.EnsureOrFallback(ctx, siteBaseURL)

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}

	if lastPath != "" {
		sess.LastPath = lastPath
	}

	result := s.engine.Respond(message, kb, graph, sess)
	turnLog := logging.WithSession(sess.ID, sess.LastPath)

	sess.History = append(sess.History,
		models.ChatMessage{Role: models.RoleUser, Text: message},
		models.ChatMessage{Role: models.RoleBot, Text: result.Reply},
	)
	if err := s.sessions.Save(sess); err != nil {
		turnLog.Warn("failed to save session", "error", err)
	}
	turnLog.Debug("chat turn complete", "intent", result.Intent)

	recordChatTurn(result.Intent)
	if s.transcripts != nil {
		s.transcripts.Record(sess.ID, message, result.Reply, result.Intent)
	}

	return &ChatTurn{
		Reply:       result.Reply,
		Intent:      result.Intent,
		SessionID:   sess.ID,
		Suggestions: SuggestForPath(sess.LastPath),
	}, nil
}
