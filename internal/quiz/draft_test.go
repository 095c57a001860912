package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftWalksEveryStep(t *testing.T) {
	d := NewDraft()
	inputs := []string{"Geo", "Capital?", "Paris", "Rome", "", "Madrid"}
	for i, in := range inputs {
		assert.Equal(t, Step(i), d.Step)
		q, err := d.Accept(in)
		require.NoError(t, err)
		assert.Nil(t, q)
	}
	assert.Equal(t, StepCorrect, d.Step)
	assert.Equal(t, "correct", d.Step.String())

	q, err := d.Accept("maybe")
	assert.ErrorIs(t, err, ErrInvalidLetter)
	assert.Nil(t, q)
	assert.Equal(t, StepCorrect, d.Step)

	q, err = d.Accept("d")
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, Question{
		Topic: "Geo", Question: "Capital?",
		OptionA: "Paris", OptionB: "Rome", OptionC: "", OptionD: "Madrid",
		CorrectOption: LetterD,
	}, *q)
	assert.Equal(t, StepDone, d.Step)

	_, err = d.Accept("A")
	assert.ErrorIs(t, err, ErrSessionFinished)
}

func TestStepString(t *testing.T) {
	assert.Equal(t, "topic", StepTopic.String())
	assert.Equal(t, "option_b", StepOptionB.String())
	assert.Equal(t, "done", StepDone.String())
	assert.Equal(t, "unknown", Step(42).String())
}
