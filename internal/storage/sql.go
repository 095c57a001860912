package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/quizbot/internal/quiz"
)

const questionColumns = "id, topic, question, option_a, option_b, option_c, option_d, correct_option"

// SQLStore implements Store on PostgreSQL or SQLite through sqlx.
// Queries are written with '?' placeholders and rebound for the driver.
type SQLStore struct {
	db *sqlx.DB
}

// NewSQLStore wraps an open, migrated database handle.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) q(query string) string {
	return s.db.Rebind(query)
}

func (s *SQLStore) AddQuestion(ctx context.Context, q quiz.Question) (int64, error) {
	if err := q.Validate(); err != nil {
		return 0, err
	}
	var id int64
	err := s.db.QueryRowxContext(ctx, s.q(`
		INSERT INTO questions (topic, question, option_a, option_b, option_c, option_d, correct_option)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`),
		q.Topic, q.Question, q.OptionA, q.OptionB, q.OptionC, q.OptionD, string(q.CorrectOption),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("add question: %w", err)
	}
	return id, nil
}

func (s *SQLStore) Topics(ctx context.Context) ([]string, error) {
	var topics []string
	if err := s.db.SelectContext(ctx, &topics, `SELECT DISTINCT topic FROM questions ORDER BY topic`); err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	return topics, nil
}

func (s *SQLStore) QuestionsByTopic(ctx context.Context, topic string) ([]quiz.Question, error) {
	var qs []quiz.Question
	err := s.db.SelectContext(ctx, &qs, s.q(`SELECT `+questionColumns+` FROM questions WHERE topic = ? ORDER BY id`), topic)
	if err != nil {
		return nil, fmt.Errorf("questions by topic: %w", err)
	}
	return qs, nil
}

func (s *SQLStore) ListQuestions(ctx context.Context) ([]quiz.Question, error) {
	var qs []quiz.Question
	if err := s.db.SelectContext(ctx, &qs, `SELECT `+questionColumns+` FROM questions ORDER BY topic, id`); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return qs, nil
}

func (s *SQLStore) CountQuestions(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM questions`); err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}

func (s *SQLStore) DeleteQuestion(ctx context.Context, text string) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM questions WHERE question = ?`), text)
	if err != nil {
		return 0, fmt.Errorf("delete question: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete question: rows affected: %w", err)
	}
	return n, nil
}

func (s *SQLStore) IsAdmin(ctx context.Context, telegramID int64) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, s.q(`SELECT EXISTS (SELECT 1 FROM admins WHERE telegram_id = ?)`), telegramID)
	if err != nil {
		return false, fmt.Errorf("is admin: %w", err)
	}
	return exists, nil
}

func (s *SQLStore) AddAdmin(ctx context.Context, telegramID int64, username *string) error {
	res, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO admins (telegram_id, username) VALUES (?, ?)
		ON CONFLICT (telegram_id) DO NOTHING`),
		telegramID, username,
	)
	if err != nil {
		return fmt.Errorf("add admin: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("add admin: rows affected: %w", err)
	}
	if n == 0 {
		return ErrAlreadyAdmin
	}
	return nil
}

func (s *SQLStore) RemoveAdmin(ctx context.Context, telegramID int64) error {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM admins WHERE telegram_id = ?`), telegramID)
	if err != nil {
		return fmt.Errorf("remove admin: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove admin: rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) ListAdmins(ctx context.Context) ([]quiz.Administrator, error) {
	var admins []quiz.Administrator
	if err := s.db.SelectContext(ctx, &admins, `SELECT telegram_id, username FROM admins ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	return admins, nil
}

func (s *SQLStore) UpdateUserStats(ctx context.Context, telegramID int64, correct int) error {
	if correct < 0 || correct > 1 {
		return fmt.Errorf("update user stats: correct must be 0 or 1, got %d", correct)
	}
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO user_stats (telegram_id, total_tests, correct_answers) VALUES (?, 1, ?)
		ON CONFLICT (telegram_id) DO UPDATE SET
			total_tests = user_stats.total_tests + 1,
			correct_answers = user_stats.correct_answers + excluded.correct_answers`),
		telegramID, correct,
	)
	if err != nil {
		return fmt.Errorf("update user stats: %w", err)
	}
	return nil
}

func (s *SQLStore) UserStats(ctx context.Context, telegramID int64) (quiz.UserStats, error) {
	var st quiz.UserStats
	err := s.db.GetContext(ctx, &st, s.q(`
		SELECT telegram_id, total_tests, correct_answers FROM user_stats WHERE telegram_id = ?`), telegramID)
	if errors.Is(err, sql.ErrNoRows) {
		return quiz.UserStats{}, ErrNotFound
	}
	if err != nil {
		return quiz.UserStats{}, fmt.Errorf("user stats: %w", err)
	}
	return st, nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
