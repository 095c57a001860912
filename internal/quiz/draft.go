package quiz

// Step is the field the question-entry dialogue is waiting for.
type Step int

const (
	StepTopic Step = iota
	StepQuestion
	StepOptionA
	StepOptionB
	StepOptionC
	StepOptionD
	StepCorrect
	// StepDone means the draft produced a question.
	StepDone
)

var stepNames = [...]string{"topic", "question", "option_a", "option_b", "option_c", "option_d", "correct", "done"}

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return "unknown"
	}
	return stepNames[s]
}

// Draft collects a question across the linear admin dialogue
// topic → question → option_a → option_b → option_c → option_d → correct.
type Draft struct {
	Step     Step
	Topic    string
	Question string
	Options  [4]string
}

// NewDraft starts a dialogue at the topic step.
func NewDraft() *Draft {
	return &Draft{Step: StepTopic}
}

// Accept consumes one message. Intermediate steps store the text verbatim and
// advance unconditionally. On the final step the text must name a valid letter;
// otherwise ErrInvalidLetter is returned and the draft stays on StepCorrect.
// A valid letter completes the draft and returns the assembled question.
func (d *Draft) Accept(text string) (*Question, error) {
	switch d.Step {
	case StepTopic:
		d.Topic = text
	case StepQuestion:
		d.Question = text
	case StepOptionA, StepOptionB, StepOptionC, StepOptionD:
		d.Options[d.Step-StepOptionA] = text
	case StepCorrect:
		letter, err := ParseLetter(text)
		if err != nil {
			return nil, err
		}
		d.Step = StepDone
		return &Question{
			Topic:         d.Topic,
			Question:      d.Question,
			OptionA:       d.Options[0],
			OptionB:       d.Options[1],
			OptionC:       d.Options[2],
			OptionD:       d.Options[3],
			CorrectOption: letter,
		}, nil
	default:
		return nil, ErrSessionFinished
	}
	d.Step++
	return nil, nil
}
