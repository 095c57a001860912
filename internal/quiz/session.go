package quiz

// Session walks a user through the questions of one topic in the order given.
type Session struct {
	Topic     string
	Questions []Question
	Current   int
	Correct   int
}

// Outcome describes one scored answer.
type Outcome struct {
	Question Question
	Answer   Letter
	Correct  bool
	// Finished is set when the answered question was the last one.
	Finished bool
}

// Score returns 1 for a correct answer and 0 otherwise.
func (o Outcome) Score() int {
	if o.Correct {
		return 1
	}
	return 0
}

// NewSession starts a quiz on topic. It fails with ErrNoQuestions when qs is empty.
func NewSession(topic string, qs []Question) (*Session, error) {
	if len(qs) == 0 {
		return nil, ErrNoQuestions
	}
	return &Session{Topic: topic, Questions: qs}, nil
}

// CurrentQuestion returns the question awaiting an answer.
func (s *Session) CurrentQuestion() (Question, bool) {
	if s.Done() {
		return Question{}, false
	}
	return s.Questions[s.Current], true
}

// Answer scores letter against the current question and advances.
func (s *Session) Answer(letter Letter) (Outcome, error) {
	if !letter.Valid() {
		return Outcome{}, ErrInvalidLetter
	}
	q, ok := s.CurrentQuestion()
	if !ok {
		return Outcome{}, ErrSessionFinished
	}
	out := Outcome{Question: q, Answer: letter, Correct: q.IsCorrect(letter)}
	if out.Correct {
		s.Correct++
	}
	s.Current++
	out.Finished = s.Done()
	return out, nil
}

// Done reports whether every question has been answered.
func (s *Session) Done() bool {
	return s.Current >= len(s.Questions)
}

// Total is the number of questions in the session.
func (s *Session) Total() int {
	return len(s.Questions)
}

// Position is the 1-based number of the current question.
func (s *Session) Position() int {
	return s.Current + 1
}
