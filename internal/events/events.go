// Package events publishes domain events to an AMQP topic exchange.
package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/m3rciful/quizbot/core/logger"
)

// Event types, also used as routing keys.
const (
	QuestionAdded   = "question.added"
	QuestionDeleted = "question.deleted"
	QuizAnswered    = "quiz.answered"
	QuizCompleted   = "quiz.completed"
	AdminGranted    = "admin.granted"
	AdminRevoked    = "admin.revoked"
)

// Envelope is the JSON body of every published message.
type Envelope struct {
	Type    string    `json:"type"`
	Payload any       `json:"payload"`
	At      time.Time `json:"at"`
}

// QuestionAddedPayload describes a stored question.
type QuestionAddedPayload struct {
	QuestionID int64  `json:"question_id"`
	Topic      string `json:"topic"`
	By         int64  `json:"by"`
}

// QuestionDeletedPayload describes a delete-by-text.
type QuestionDeletedPayload struct {
	Question string `json:"question"`
	Count    int64  `json:"count"`
	By       int64  `json:"by"`
}

// AnsweredPayload describes one scored answer.
type AnsweredPayload struct {
	UserID     int64  `json:"user_id"`
	Topic      string `json:"topic"`
	QuestionID int64  `json:"question_id"`
	Answer     string `json:"answer"`
	Correct    bool   `json:"correct"`
}

// CompletedPayload describes a finished quiz.
type CompletedPayload struct {
	UserID int64  `json:"user_id"`
	Topic  string `json:"topic"`
	Score  int    `json:"score"`
	Total  int    `json:"total"`
}

// AdminPayload describes an administrator change. A supervisor may react to it
// (for example by restarting workers that cache the admin list).
type AdminPayload struct {
	TargetID int64 `json:"target_id"`
	By       int64 `json:"by"`
}

// Publisher sends events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
	Close() error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
func (Nop) Close() error                               { return nil }

// Emit publishes and logs failures. Events never interrupt the user flow.
func Emit(ctx context.Context, p Publisher, eventType string, payload any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, eventType, payload); err != nil {
		logger.Events.LogAttrs(ctx, slog.LevelWarn, "publish failed",
			slog.String("event", "events.publish"),
			slog.String("topic", eventType),
			logger.Err(err),
		)
		return
	}
	logger.Events.LogAttrs(ctx, slog.LevelDebug, "published",
		slog.String("event", "events.publish"),
		slog.String("topic", eventType),
	)
}
