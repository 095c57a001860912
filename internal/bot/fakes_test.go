package bot

import (
	"context"
	"sort"
	"strings"
	"sync"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/quizbot/internal/quiz"
	"github.com/m3rciful/quizbot/internal/storage"
)

type sentMessage struct {
	text   string
	markup *tele.ReplyMarkup
}

// fakeContext records what handlers send. Methods it does not override panic,
// which flags handlers reaching for Telegram APIs unexpectedly.
type fakeContext struct {
	tele.Context
	updateID  int
	user      *tele.User
	msg       *tele.Message
	cb        *tele.Callback
	values    map[string]any
	sent      []sentMessage
	responses []string
	deleted   int
}

func (c *fakeContext) Update() tele.Update {
	return tele.Update{ID: c.updateID, Message: c.msg, Callback: c.cb}
}
func (c *fakeContext) Sender() *tele.User      { return c.user }
func (c *fakeContext) Chat() *tele.Chat        { return &tele.Chat{ID: c.user.ID, Type: tele.ChatPrivate} }
func (c *fakeContext) Callback() *tele.Callback { return c.cb }
func (c *fakeContext) Get(key string) any      { return c.values[key] }
func (c *fakeContext) Set(key string, v any)   { c.values[key] = v }

func (c *fakeContext) Message() *tele.Message {
	if c.cb != nil {
		return c.cb.Message
	}
	return c.msg
}

func (c *fakeContext) Text() string {
	if m := c.Message(); m != nil {
		return m.Text
	}
	return ""
}

func (c *fakeContext) Send(what any, opts ...any) error {
	text, _ := what.(string)
	m := sentMessage{text: text}
	for _, o := range opts {
		switch v := o.(type) {
		case *tele.SendOptions:
			m.markup = v.ReplyMarkup
		case *tele.ReplyMarkup:
			m.markup = v
		}
	}
	c.sent = append(c.sent, m)
	return nil
}

func (c *fakeContext) Respond(resp ...*tele.CallbackResponse) error {
	text := ""
	if len(resp) > 0 && resp[0] != nil {
		text = resp[0].Text
	}
	c.responses = append(c.responses, text)
	return nil
}

func (c *fakeContext) Delete() error {
	c.deleted++
	return nil
}

func (c *fakeContext) texts() []string {
	out := make([]string, len(c.sent))
	for i, m := range c.sent {
		out[i] = m.text
	}
	return out
}

func (c *fakeContext) last() sentMessage {
	if len(c.sent) == 0 {
		return sentMessage{}
	}
	return c.sent[len(c.sent)-1]
}

func replyLabels(m *tele.ReplyMarkup) []string {
	if m == nil {
		return nil
	}
	var out []string
	for _, row := range m.ReplyKeyboard {
		for _, b := range row {
			out = append(out, b.Text)
		}
	}
	return out
}

// memStore is an in-memory storage.Store.
type memStore struct {
	mu        sync.Mutex
	nextID    int64
	questions []quiz.Question
	admins    map[int64]*string
	stats     map[int64]quiz.UserStats
	failStats error
}

var _ storage.Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{admins: map[int64]*string{}, stats: map[int64]quiz.UserStats{}}
}

func (s *memStore) AddQuestion(_ context.Context, q quiz.Question) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	q.ID = s.nextID
	s.questions = append(s.questions, q)
	return q.ID, nil
}

func (s *memStore) Topics(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[string]bool{}
	var out []string
	for _, q := range s.questions {
		if !seen[q.Topic] {
			seen[q.Topic] = true
			out = append(out, q.Topic)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *memStore) QuestionsByTopic(_ context.Context, topic string) ([]quiz.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []quiz.Question
	for _, q := range s.questions {
		if q.Topic == topic {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *memStore) ListQuestions(context.Context) ([]quiz.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]quiz.Question(nil), s.questions...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Topic < out[j].Topic })
	return out, nil
}

func (s *memStore) CountQuestions(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.questions), nil
}

func (s *memStore) DeleteQuestion(_ context.Context, text string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.questions[:0]
	var n int64
	for _, q := range s.questions {
		if q.Question == text {
			n++
			continue
		}
		kept = append(kept, q)
	}
	s.questions = kept
	return n, nil
}

func (s *memStore) IsAdmin(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.admins[id]
	return ok, nil
}

func (s *memStore) AddAdmin(_ context.Context, id int64, username *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.admins[id]; ok {
		return storage.ErrAlreadyAdmin
	}
	s.admins[id] = username
	return nil
}

func (s *memStore) RemoveAdmin(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.admins[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.admins, id)
	return nil
}

func (s *memStore) ListAdmins(context.Context) ([]quiz.Administrator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []quiz.Administrator
	for id, name := range s.admins {
		out = append(out, quiz.Administrator{TelegramID: id, Username: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TelegramID < out[j].TelegramID })
	return out, nil
}

func (s *memStore) UpdateUserStats(_ context.Context, id int64, correct int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failStats != nil {
		return s.failStats
	}
	st := s.stats[id]
	st.TelegramID = id
	st.TotalTests++
	st.CorrectAnswers += correct
	s.stats[id] = st
	return nil
}

func (s *memStore) UserStats(_ context.Context, id int64) (quiz.UserStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stats[id]
	if !ok {
		return quiz.UserStats{}, storage.ErrNotFound
	}
	return st, nil
}

func (s *memStore) Ping(context.Context) error { return nil }

type published struct {
	topic   string
	payload any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{topic: topic, payload: payload})
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.topic
	}
	return out
}

func commandWord(text string) string {
	word, _, _ := strings.Cut(strings.TrimSpace(text), " ")
	return word
}
