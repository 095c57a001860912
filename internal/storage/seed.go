package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"gopkg.in/yaml.v3"

	"github.com/m3rciful/quizbot/core/bootstrap"
	"github.com/m3rciful/quizbot/core/logger"
	"github.com/m3rciful/quizbot/internal/quiz"
)

// SeedFile is the YAML layout of a question bank:
//
//	topics:
//	  - name: Go
//	    questions:
//	      - question: ...
//	        a: ...
//	        b: ...
//	        c: ...
//	        d: ...
//	        correct: B
type SeedFile struct {
	Topics []SeedTopic `yaml:"topics"`
}

// SeedTopic groups questions under one topic name.
type SeedTopic struct {
	Name      string          `yaml:"name"`
	Questions []quiz.Question `yaml:"questions"`
}

// ParseSeed decodes and validates a seed document.
func ParseSeed(data []byte) ([]quiz.Question, error) {
	var f SeedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	var out []quiz.Question
	for _, t := range f.Topics {
		for i, q := range t.Questions {
			q.Topic = strings.TrimSpace(t.Name)
			letter, err := quiz.ParseLetter(string(q.CorrectOption))
			if err != nil {
				return nil, fmt.Errorf("seed topic %q question %d: %w", t.Name, i+1, err)
			}
			q.CorrectOption = letter
			if err := q.Validate(); err != nil {
				return nil, fmt.Errorf("seed topic %q question %d: %w", t.Name, i+1, err)
			}
			out = append(out, q)
		}
	}
	return out, nil
}

// Seed inserts questions when the bank is empty and reports how many were added.
func Seed(ctx context.Context, s Store, questions []quiz.Question) (int, error) {
	n, err := s.CountQuestions(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	for i, q := range questions {
		if _, err := s.AddQuestion(ctx, q); err != nil {
			return i, err
		}
	}
	return len(questions), nil
}

// FileSeeder returns a bootstrap hook that loads path into an empty bank.
// An empty path disables seeding.
func FileSeeder(path string) bootstrap.Seeder {
	return bootstrap.SeederFunc(func(ctx context.Context, db *sqlx.DB) error {
		if strings.TrimSpace(path) == "" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read seed file: %w", err)
		}
		questions, err := ParseSeed(data)
		if err != nil {
			return err
		}
		added, err := Seed(ctx, NewSQLStore(db), questions)
		if err != nil {
			return err
		}
		logger.SEED.Info("seed applied",
			slog.String("event", "seed"),
			slog.String("payload", path),
			slog.Int("count", added),
		)
		return nil
	})
}
