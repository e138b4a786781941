package handlers

import (
	"fmt"
	"log"

	"agristore/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ChatbotHandler handles the conversational endpoints
type ChatbotHandler struct {
	chatbot       *services.ChatbotService
	publicBaseURL string
}

// NewChatbotHandler creates a new chatbot handler
func NewChatbotHandler(chatbot *services.ChatbotService, publicBaseURL string) *ChatbotHandler {
	return &ChatbotHandler{chatbot: chatbot, publicBaseURL: publicBaseURL}
}

// chatRequest is the inbound chat turn payload
type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
	LastPath  string `json:"last_path"`
}

// GetKnowledge returns the crawled knowledge base, building it on first call.
func (h *ChatbotHandler) GetKnowledge(c *fiber.Ctx) error {
	kb, _, err := h.chatbot.Knowledge().Ensure(c.Context(), h.siteBaseURL(c))
	if err != nil {
		log.Printf("❌ [KNOWLEDGE] Build failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to build knowledge base",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    kb,
	})
}

// Chat runs one dialogue turn.
func (h *ChatbotHandler) Chat(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	turn, err := h.chatbot.Chat(c.Context(), h.siteBaseURL(c), req.Message, req.SessionID, req.LastPath)
	if err != nil {
		log.Printf("❌ [CHAT] Turn failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Chat service unavailable",
		})
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"reply":       turn.Reply,
		"intent":      turn.Intent,
		"session_id":  turn.SessionID,
		"suggestions": turn.Suggestions,
	})
}

// AgentConnect acknowledges a live-agent request. No bridge to a human inbox
// is wired up yet, and the response says so.
func (h *ChatbotHandler) AgentConnect(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"status": "agent-bridge-not-configured",
		},
	})
}

// siteBaseURL resolves the site origin for crawling, honoring reverse-proxy
// headers unless an explicit override is configured.
func (h *ChatbotHandler) siteBaseURL(c *fiber.Ctx) string {
	if h.publicBaseURL != "" {
		return h.publicBaseURL
	}
	return fmt.Sprintf("%s://%s", c.Protocol(), c.Hostname())
}
