package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Init configures the global slog logger.
// In production (ENVIRONMENT=production) it uses JSON output for log aggregation.
// Otherwise it uses the human-readable text handler.
func Init() {
	env := strings.ToLower(os.Getenv("ENVIRONMENT"))

	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	slog.SetDefault(slog.New(handler))
}

// WithSession returns a logger with chat session context fields attached.
// Use this for all logging within a dialogue turn.
func WithSession(sessionID, lastPath string) *slog.Logger {
	return slog.With(
		"session_id", sessionID,
		"last_path", lastPath,
	)
}

// WithTransaction returns a logger scoped to a payment transaction.
func WithTransaction(transactionID, invoiceID string) *slog.Logger {
	return slog.With(
		"transaction_id", transactionID,
		"invoice_id", invoiceID,
	)
}
