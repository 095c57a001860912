package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLetter(t *testing.T) {
	for _, in := range []string{"A", "b", " c ", "D\n"} {
		l, err := ParseLetter(in)
		require.NoError(t, err, in)
		assert.True(t, l.Valid())
	}
	for _, in := range []string{"", "E", "AB", "1", "а"} {
		_, err := ParseLetter(in)
		assert.ErrorIs(t, err, ErrInvalidLetter, in)
	}
}

func TestQuestionOptionAndValidate(t *testing.T) {
	q := Question{Topic: "Go", Question: "q", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d", CorrectOption: LetterC}
	require.NoError(t, q.Validate())
	assert.Equal(t, "c", q.Option(LetterC))
	assert.Empty(t, q.Option("Z"))
	assert.True(t, q.IsCorrect(LetterC))
	assert.False(t, q.IsCorrect(LetterA))

	bad := q
	bad.Topic = " "
	assert.Error(t, bad.Validate())
	bad = q
	bad.Question = ""
	assert.Error(t, bad.Validate())
	bad = q
	bad.CorrectOption = "E"
	assert.ErrorIs(t, bad.Validate(), ErrInvalidLetter)
}
