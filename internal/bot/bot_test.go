package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	tg "github.com/m3rciful/quizbot/core/telegram"
	"github.com/m3rciful/quizbot/core/telegram/router"
	"github.com/m3rciful/quizbot/internal/access"
	"github.com/m3rciful/quizbot/internal/events"
	"github.com/m3rciful/quizbot/internal/quiz"
)

const (
	superAdminID int64 = 1
	adminID      int64 = 100
	userID       int64 = 500
)

type notice struct {
	to   int64
	text string
}

type harness struct {
	t         *testing.T
	bot       *Bot
	store     *memStore
	pub       *recordingPublisher
	commands  map[string]tele.HandlerFunc
	text      tele.HandlerFunc
	callback  tele.HandlerFunc
	notices   []notice
	notifyErr error
	updates   int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{t: t, store: newMemStore(), pub: &recordingPublisher{}}
	h.store.admins[adminID] = nil

	policy := access.NewPolicy(superAdminID, h.store)
	h.bot = New(Deps{
		Store:      h.store,
		Policy:     policy,
		Events:     h.pub,
		DonateText: "Support the project",
		Notify: func(_ tele.Context, to int64, text string) error {
			h.notices = append(h.notices, notice{to: to, text: text})
			return h.notifyErr
		},
	})

	reg := tg.NewRegistry()
	h.bot.Register(reg)
	opts := router.AccessOptions{Authorizer: policy, OnReject: h.bot.Reject}

	h.commands = map[string]tele.HandlerFunc{}
	for _, r := range router.CommandRoutes(reg, opts) {
		h.commands[r.Endpoint.(string)] = r.Handler
	}
	h.text = router.TextRoutes(h.bot.Sessions(), reg, router.TextOptions{Access: opts})[0].Handler
	h.callback = router.CallbackRoute(reg, router.CallbackOptions{}).Handler
	return h
}

func (h *harness) newContext(uid int64) *fakeContext {
	h.updates++
	return &fakeContext{
		updateID: h.updates,
		user:     &tele.User{ID: uid},
		values:   map[string]any{},
	}
}

// say delivers a text message the way telebot would: registered commands by
// endpoint, everything else through OnText.
func (h *harness) say(uid int64, text string) *fakeContext {
	h.t.Helper()
	c := h.newContext(uid)
	c.msg = &tele.Message{ID: h.updates, Text: text, Sender: c.user}
	handler := h.text
	if strings.HasPrefix(text, "/") {
		word := commandWord(text)
		c.msg.Payload = strings.TrimSpace(strings.TrimPrefix(text, word))
		if cmd, ok := h.commands[word]; ok {
			handler = cmd
		}
	}
	require.NoError(h.t, handler(c))
	return c
}

func (h *harness) press(uid int64, data string) *fakeContext {
	h.t.Helper()
	c := h.newContext(uid)
	c.cb = &tele.Callback{ID: "cb", Data: data, Sender: c.user, Message: &tele.Message{ID: 42}}
	require.NoError(h.t, h.callback(c))
	return c
}

func (h *harness) addQuestion(topic, text string, correct quiz.Letter) quiz.Question {
	q := quiz.Question{
		Topic: topic, Question: text,
		OptionA: "a1", OptionB: "b1", OptionC: "c1", OptionD: "d1",
		CorrectOption: correct,
	}
	id, err := h.store.AddQuestion(context.Background(), q)
	require.NoError(h.t, err)
	q.ID = id
	return q
}

func TestStartShowsMenuByRole(t *testing.T) {
	h := newHarness(t)

	c := h.say(adminID, "/start")
	assert.Equal(t, msgWelcomeAdmin, c.last().text)
	assert.Contains(t, replyLabels(c.last().markup), LabelAddQuestion)
	assert.Contains(t, replyLabels(c.last().markup), LabelTakeQuiz)

	c = h.say(superAdminID, "/start")
	assert.Equal(t, msgWelcomeAdmin, c.last().text)

	c = h.say(userID, "/start")
	assert.Equal(t, msgWelcomeUser, c.last().text)
	labels := replyLabels(c.last().markup)
	assert.NotContains(t, labels, LabelAddQuestion)
	assert.NotContains(t, labels, LabelAllQuestions)
	assert.ElementsMatch(t, []string{LabelTakeQuiz, LabelTopics, LabelMyStats, LabelDonate}, labels)
}

func TestQuestionEntryDialogue(t *testing.T) {
	h := newHarness(t)

	c := h.say(adminID, LabelAddQuestion)
	assert.Equal(t, promptTopic, c.last().text)

	steps := []struct{ in, prompt string }{
		{"Geography", promptQuestion},
		{"Capital of France?", promptOptionA},
		{"Paris", promptOptionB},
		{"Rome", promptOptionC},
		{"Berlin", promptOptionD},
		{"Madrid", promptCorrect},
		{"x", msgOnlyLetters},
		{"E", msgOnlyLetters},
	}
	for _, s := range steps {
		c = h.say(adminID, s.in)
		assert.Equal(t, s.prompt, c.last().text, "after %q", s.in)
	}
	assert.Empty(t, h.store.questions)

	c = h.say(adminID, " a ")
	assert.Equal(t, msgSaved, c.last().text)
	assert.Contains(t, replyLabels(c.last().markup), LabelAddQuestion)

	require.Len(t, h.store.questions, 1)
	q := h.store.questions[0]
	assert.Equal(t, "Geography", q.Topic)
	assert.Equal(t, "Capital of France?", q.Question)
	assert.Equal(t, [4]string{"Paris", "Rome", "Berlin", "Madrid"}, [4]string{q.OptionA, q.OptionB, q.OptionC, q.OptionD})
	assert.Equal(t, quiz.LetterA, q.CorrectOption)
	assert.False(t, h.bot.Sessions().InProgress(adminID))
	assert.Equal(t, []string{events.QuestionAdded}, h.pub.topics())
}

func TestAddQuestionRequiresAdmin(t *testing.T) {
	h := newHarness(t)

	c := h.say(userID, LabelAddQuestion)
	assert.Equal(t, []string{msgNoRights}, c.texts())
	assert.False(t, h.bot.Sessions().InProgress(userID))

	c = h.say(userID, LabelAllQuestions)
	assert.Equal(t, []string{msgNoRights}, c.texts())
}

func TestQuestionEntryStopsWhenRightsRevoked(t *testing.T) {
	h := newHarness(t)
	h.say(adminID, LabelAddQuestion)
	h.say(adminID, "History")

	delete(h.store.admins, adminID)
	c := h.say(adminID, "When?")
	assert.Equal(t, []string{msgNoRights}, c.texts())

	d, ok := h.bot.draftOf(adminID)
	require.True(t, ok)
	assert.Equal(t, quiz.StepQuestion, d.Step)
	assert.Equal(t, "History", d.Topic)
	assert.Empty(t, h.store.questions)
}

func TestCancelAndBackClearSession(t *testing.T) {
	h := newHarness(t)
	h.say(adminID, LabelAddQuestion)
	require.True(t, h.bot.Sessions().InProgress(adminID))

	c := h.say(adminID, "/cancel")
	assert.Equal(t, msgCancelled, c.last().text)
	assert.False(t, h.bot.Sessions().InProgress(adminID))

	h.addQuestion("Go", "q1", quiz.LetterA)
	h.say(userID, LabelTopics)
	require.True(t, h.bot.Sessions().InProgress(userID))
	c = h.say(userID, LabelBack)
	assert.Equal(t, msgBackToMenu, c.last().text)
	assert.False(t, h.bot.Sessions().InProgress(userID))
}

func TestQuizRun(t *testing.T) {
	h := newHarness(t)
	q1 := h.addQuestion("Go", "What keyword starts a goroutine?", quiz.LetterB)
	q2 := h.addQuestion("Go", "Zero value of a map?", quiz.LetterC)
	h.addQuestion("SQL", "Unrelated", quiz.LetterA)

	c := h.say(userID, LabelTakeQuiz)
	assert.Equal(t, msgChooseTopic, c.last().text)
	assert.Equal(t, []string{"Go", "SQL", LabelBack}, replyLabels(c.last().markup))

	c = h.say(userID, "Go")
	require.Len(t, c.sent, 2)
	assert.True(t, strings.HasPrefix(c.sent[1].text, "❓ 1/2. "+q1.Question), c.sent[1].text)
	kb := c.sent[1].markup
	require.NotNil(t, kb)
	require.Len(t, kb.InlineKeyboard, 2)
	assert.Len(t, kb.InlineKeyboard[0], 2)

	c = h.say(userID, "B")
	assert.Equal(t, []string{msgUseButtons}, c.texts())

	c = h.press(userID, answerData(quiz.LetterB, q1.ID))
	assert.Equal(t, []string{msgAnswerCorrect}, c.responses)
	assert.Equal(t, 1, c.deleted)
	require.Len(t, c.sent, 1)
	assert.True(t, strings.HasPrefix(c.sent[0].text, "❓ 2/2. "+q2.Question))
	assert.Equal(t, quiz.UserStats{TelegramID: userID, TotalTests: 1, CorrectAnswers: 1}, h.store.stats[userID])

	c = h.press(userID, answerData(quiz.LetterA, q2.ID))
	assert.Equal(t, []string{fmt.Sprintf(msgAnswerWrong, quiz.LetterC)}, c.responses)
	assert.Equal(t, fmt.Sprintf(msgQuizFinished, 1, 2), c.last().text)
	assert.Equal(t, quiz.UserStats{TelegramID: userID, TotalTests: 2, CorrectAnswers: 1}, h.store.stats[userID])
	assert.False(t, h.bot.Sessions().InProgress(userID))

	assert.Equal(t, []string{events.QuizAnswered, events.QuizAnswered, events.QuizCompleted}, h.pub.topics())

	c = h.say(userID, LabelMyStats)
	assert.Equal(t, fmt.Sprintf(msgStats, 2, 1), c.last().text)
}

func TestStaleAndOrphanAnswers(t *testing.T) {
	h := newHarness(t)
	q1 := h.addQuestion("Go", "q1", quiz.LetterA)
	h.addQuestion("Go", "q2", quiz.LetterA)

	c := h.press(userID, answerData(quiz.LetterA, q1.ID))
	assert.Equal(t, []string{msgQuizInactive}, c.responses)
	assert.Empty(t, c.sent)

	h.say(userID, LabelTakeQuiz)
	h.say(userID, "Go")
	h.press(userID, answerData(quiz.LetterA, q1.ID))

	c = h.press(userID, answerData(quiz.LetterA, q1.ID))
	assert.Equal(t, []string{msgQuestionExpired}, c.responses)
	assert.Zero(t, c.deleted)
	assert.Equal(t, 1, h.store.stats[userID].TotalTests)

	c = h.press(userID, "\fanswer_Z|2")
	assert.Equal(t, []string{msgQuizInactive}, c.responses)

	c = h.press(userID, "\fsomething_else")
	assert.Equal(t, []string{msgQuizInactive}, c.responses)
}

func TestStatsFailureEndsQuiz(t *testing.T) {
	h := newHarness(t)
	q := h.addQuestion("Go", "q1", quiz.LetterA)
	h.say(userID, LabelTakeQuiz)
	h.say(userID, "Go")

	h.store.failStats = errors.New("disk full")
	c := h.press(userID, answerData(quiz.LetterA, q.ID))
	assert.Equal(t, msgFailure, c.last().text)
	assert.False(t, h.bot.Sessions().InProgress(userID))
	assert.Empty(t, h.pub.topics())
}

func TestTopicSelectionEdgeCases(t *testing.T) {
	h := newHarness(t)

	c := h.say(userID, LabelTopics)
	assert.Equal(t, msgNoTopics, c.last().text)
	assert.False(t, h.bot.Sessions().InProgress(userID))

	h.addQuestion("Go", "q1", quiz.LetterA)
	h.say(userID, LabelTopics)
	c = h.say(userID, "Rust")
	assert.Equal(t, msgNoQuestionsFor, c.last().text)
	assert.False(t, h.bot.Sessions().InProgress(userID))
}

func TestMyStatsAndDonate(t *testing.T) {
	h := newHarness(t)

	c := h.say(userID, LabelMyStats)
	assert.Equal(t, msgNoStats, c.last().text)

	c = h.say(userID, LabelDonate)
	assert.Equal(t, "Support the project", c.last().text)

	c = h.say(userID, "hello?")
	assert.Equal(t, msgChooseAction, c.last().text)
}

func TestAllQuestionsListing(t *testing.T) {
	h := newHarness(t)

	c := h.say(adminID, LabelAllQuestions)
	assert.Equal(t, msgNoQuestions, c.last().text)

	h.addQuestion("SQL", "What is a JOIN?", quiz.LetterD)
	h.addQuestion("Go", "What is a channel?", quiz.LetterB)
	c = h.say(adminID, LabelAllQuestions)
	require.Len(t, c.sent, 1)
	body := c.sent[0].text
	assert.True(t, strings.HasPrefix(body, msgQuestionsHeader))
	assert.Contains(t, body, `"What is a channel?" - B`)
	assert.Contains(t, body, `"What is a JOIN?" - D`)
	assert.Less(t, strings.Index(body, "📚 Go"), strings.Index(body, "📚 SQL"))
}

func TestDeleteQuestion(t *testing.T) {
	h := newHarness(t)
	h.addQuestion("Go", "Dup", quiz.LetterA)
	h.addQuestion("SQL", "Dup", quiz.LetterB)

	c := h.say(adminID, "/delete")
	assert.Equal(t, msgDeleteUsage, c.last().text)

	c = h.say(adminID, "/delete Missing")
	assert.Equal(t, msgDeleteNotFound, c.last().text)

	c = h.say(userID, "/delete Dup")
	assert.Equal(t, msgNoRights, c.last().text)
	assert.Len(t, h.store.questions, 2)

	c = h.say(adminID, "/delete Dup")
	assert.Equal(t, fmt.Sprintf(msgDeleted, "Dup"), c.last().text)
	assert.Empty(t, h.store.questions)
	require.Len(t, h.pub.events, 1)
	assert.Equal(t, events.QuestionDeletedPayload{Question: "Dup", Count: 2, By: adminID}, h.pub.events[0].payload)
}

func TestAdminManagement(t *testing.T) {
	h := newHarness(t)

	c := h.say(adminID, "/add_admin 200")
	assert.Equal(t, []string{msgNoRights}, c.texts())
	_, ok := h.store.admins[200]
	assert.False(t, ok)

	c = h.say(superAdminID, "/add_admin")
	assert.Equal(t, msgAddAdminUsage, c.last().text)
	c = h.say(superAdminID, "/add_admin abc")
	assert.Equal(t, msgBadUserID, c.last().text)

	c = h.say(superAdminID, "/add_admin 200")
	assert.Equal(t, fmt.Sprintf(msgAdminAdded, 200), c.last().text)
	assert.Equal(t, []notice{{to: 200, text: msgNotifyGranted}}, h.notices)
	ok, err := h.bot.policy.IsAdmin(context.Background(), 200)
	require.NoError(t, err)
	assert.True(t, ok)

	c = h.say(superAdminID, "/add_admin 200")
	assert.Equal(t, fmt.Sprintf(msgAlreadyAdmin, 200), c.last().text)

	c = h.say(200, LabelAddQuestion)
	assert.Equal(t, promptTopic, c.last().text)

	h.notifyErr = errors.New("blocked")
	c = h.say(superAdminID, "/remove_admin 200")
	require.Len(t, c.sent, 2)
	assert.Equal(t, fmt.Sprintf(msgNotifyRemoveFailed, h.notifyErr), c.sent[0].text)
	assert.Equal(t, fmt.Sprintf(msgAdminRemoved, 200), c.sent[1].text)

	c = h.say(superAdminID, "/remove_admin 200")
	assert.Equal(t, fmt.Sprintf(msgNotAdmin, 200), c.last().text)

	assert.Equal(t, []string{events.AdminGranted, events.AdminRevoked}, h.pub.topics())
}

func TestListAdmins(t *testing.T) {
	h := newHarness(t)
	name := "alice"
	h.store.admins[300] = &name

	c := h.say(superAdminID, "/admins")
	assert.Equal(t, msgAdminsHeader+fmt.Sprintf(msgSuperAdminLine, superAdminID)+"• 100\n• 300 (@alice)", c.last().text)

	c = h.say(adminID, "/admins")
	assert.Equal(t, msgNoRights, c.last().text)
}
