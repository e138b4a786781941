package services

import (
	"context"
	"log"
	"time"

	"agristore/internal/database"

	"go.mongodb.org/mongo-driver/bson"
)

// TranscriptService archives completed chat turns to MongoDB for analytics.
// Fire-and-forget: the in-memory session store remains the sole owner of live
// conversation state, and archive failures never affect a chat turn.
type TranscriptService struct {
	mongoDB *database.MongoDB
}

// NewTranscriptService creates a transcript archiver
func NewTranscriptService(mongoDB *database.MongoDB) *TranscriptService {
	return &TranscriptService{mongoDB: mongoDB}
}

// Record archives one turn asynchronously.
func (s *TranscriptService) Record(sessionID, userText, botText, intent string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_, err := s.mongoDB.Collection(database.CollectionChatTranscripts).InsertOne(ctx, bson.M{
			"session_id": sessionID,
			"user_text":  userText,
			"bot_text":   botText,
			"intent":     intent,
			"created_at": time.Now(),
		})
		if err != nil {
			log.Printf("⚠️  [TRANSCRIPT] Failed to archive turn for %s: %v", sessionID, err)
		}
	}()
}
