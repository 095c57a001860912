// Package storage persists the question bank, administrators and user statistics.
package storage

import (
	"context"
	"errors"

	"github.com/m3rciful/quizbot/internal/quiz"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("storage: not found")
	// ErrAlreadyAdmin is returned by AddAdmin for an existing administrator.
	ErrAlreadyAdmin = errors.New("storage: already an administrator")
)

// Store is the capability set the bot needs from persistence.
// Every method is a single statement; none of them spans a transaction.
type Store interface {
	// AddQuestion inserts q and returns its id.
	AddQuestion(ctx context.Context, q quiz.Question) (int64, error)
	// Topics lists distinct topics in alphabetical order.
	Topics(ctx context.Context) ([]string, error)
	// QuestionsByTopic returns the questions of topic in insertion order.
	QuestionsByTopic(ctx context.Context, topic string) ([]quiz.Question, error)
	// ListQuestions returns the whole bank ordered by topic, then id.
	ListQuestions(ctx context.Context) ([]quiz.Question, error)
	CountQuestions(ctx context.Context) (int, error)
	// DeleteQuestion removes every question whose text equals text exactly and
	// reports how many rows went away.
	DeleteQuestion(ctx context.Context, text string) (int64, error)

	IsAdmin(ctx context.Context, telegramID int64) (bool, error)
	// AddAdmin fails with ErrAlreadyAdmin when telegramID is already present.
	AddAdmin(ctx context.Context, telegramID int64, username *string) error
	// RemoveAdmin fails with ErrNotFound when telegramID is not an administrator.
	RemoveAdmin(ctx context.Context, telegramID int64) error
	ListAdmins(ctx context.Context) ([]quiz.Administrator, error)

	// UpdateUserStats records one answered question: total_tests grows by one
	// and correct_answers by correct (0 or 1). The row is created on first use.
	UpdateUserStats(ctx context.Context, telegramID int64, correct int) error
	// UserStats fails with ErrNotFound for users who never answered.
	UserStats(ctx context.Context, telegramID int64) (quiz.UserStats, error)

	Ping(ctx context.Context) error
}
