// Package quiz holds the quiz domain: questions, per-user statistics and the two
// conversational state machines (admin question entry and quiz sessions).
// It has no knowledge of Telegram or the database.
package quiz

import (
	"errors"
	"fmt"
	"strings"
)

// Letter identifies one of the four answer options.
type Letter string

const (
	LetterA Letter = "A"
	LetterB Letter = "B"
	LetterC Letter = "C"
	LetterD Letter = "D"
)

// Letters lists the options in display order.
var Letters = [4]Letter{LetterA, LetterB, LetterC, LetterD}

var (
	// ErrInvalidLetter is returned for anything other than A, B, C or D.
	ErrInvalidLetter = errors.New("quiz: option must be one of A, B, C, D")
	// ErrNoQuestions is returned when a topic has nothing to ask.
	ErrNoQuestions = errors.New("quiz: topic has no questions")
	// ErrSessionFinished is returned when answering after the last question.
	ErrSessionFinished = errors.New("quiz: session already finished")
)

// ParseLetter upper-cases and trims s, then validates it.
func ParseLetter(s string) (Letter, error) {
	l := Letter(strings.ToUpper(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", ErrInvalidLetter
	}
	return l, nil
}

// Valid reports whether l is one of the four option letters.
func (l Letter) Valid() bool {
	switch l {
	case LetterA, LetterB, LetterC, LetterD:
		return true
	}
	return false
}

// Question is a multiple-choice question stored under a topic.
type Question struct {
	ID            int64  `db:"id" yaml:"-"`
	Topic         string `db:"topic" yaml:"topic"`
	Question      string `db:"question" yaml:"question"`
	OptionA       string `db:"option_a" yaml:"a"`
	OptionB       string `db:"option_b" yaml:"b"`
	OptionC       string `db:"option_c" yaml:"c"`
	OptionD       string `db:"option_d" yaml:"d"`
	CorrectOption Letter `db:"correct_option" yaml:"correct"`
}

// Option returns the text shown next to letter l.
func (q Question) Option(l Letter) string {
	switch l {
	case LetterA:
		return q.OptionA
	case LetterB:
		return q.OptionB
	case LetterC:
		return q.OptionC
	case LetterD:
		return q.OptionD
	}
	return ""
}

// IsCorrect reports whether l is the stored correct option.
func (q Question) IsCorrect(l Letter) bool {
	return l == q.CorrectOption
}

// Validate checks the fields required to persist a question.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Topic) == "" {
		return fmt.Errorf("quiz: empty topic")
	}
	if strings.TrimSpace(q.Question) == "" {
		return fmt.Errorf("quiz: empty question text")
	}
	if !q.CorrectOption.Valid() {
		return ErrInvalidLetter
	}
	return nil
}

// Administrator grants access to privileged commands.
type Administrator struct {
	TelegramID int64   `db:"telegram_id"`
	Username   *string `db:"username"`
}

// UserStats accumulates answers per user. TotalTests counts answered questions.
type UserStats struct {
	TelegramID     int64 `db:"telegram_id"`
	TotalTests     int   `db:"total_tests"`
	CorrectAnswers int   `db:"correct_answers"`
}
