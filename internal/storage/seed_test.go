package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/quizbot/internal/quiz"
)

const seedYAML = `
topics:
  - name: Go
    questions:
      - question: Which keyword starts a goroutine?
        a: go
        b: async
        c: spawn
        d: thread
        correct: a
      - question: What is the zero value of a map?
        a: empty map
        b: nil
        c: panic
        d: "{}"
        correct: B
  - name: SQL
    questions:
      - question: Which clause filters groups?
        a: WHERE
        b: ORDER BY
        c: HAVING
        d: LIMIT
        correct: C
`

func TestParseSeed(t *testing.T) {
	qs, err := ParseSeed([]byte(seedYAML))
	require.NoError(t, err)
	require.Len(t, qs, 3)
	assert.Equal(t, "Go", qs[0].Topic)
	assert.Equal(t, quiz.LetterA, qs[0].CorrectOption)
	assert.Equal(t, "nil", qs[1].OptionB)
	assert.Equal(t, "SQL", qs[2].Topic)
}

func TestParseSeedRejectsBadLetter(t *testing.T) {
	_, err := ParseSeed([]byte("topics:\n  - name: Go\n    questions:\n      - question: q\n        correct: E\n"))
	assert.ErrorIs(t, err, quiz.ErrInvalidLetter)
}

func TestFileSeederOnlyFillsEmptyBank(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	path := filepath.Join(t.TempDir(), "questions.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o600))

	seeder := FileSeeder(path)
	require.NoError(t, seeder.Seed(ctx, s.db))
	require.NoError(t, seeder.Seed(ctx, s.db))

	n, err := s.CountQuestions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	assert.NoError(t, FileSeeder("").Seed(ctx, s.db))
	assert.Error(t, FileSeeder(filepath.Join(t.TempDir(), "missing.yaml")).Seed(ctx, s.db))
}
