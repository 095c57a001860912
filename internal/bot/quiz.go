package bot

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/quizbot/core/logger"
	"github.com/m3rciful/quizbot/core/telegram/callbacks"
	"github.com/m3rciful/quizbot/core/telegram/helpers"
	"github.com/m3rciful/quizbot/internal/events"
	"github.com/m3rciful/quizbot/internal/quiz"
	"github.com/m3rciful/quizbot/internal/storage"
)

// handleChooseTopic abandons any running quiz and offers the topic list.
func (b *Bot) handleChooseTopic(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	uid := c.Sender().ID
	b.sessions.Clear(uid)

	topics, err := b.store.Topics(ctx)
	if err != nil {
		return b.fail(c, "quiz.topics", err)
	}
	if len(topics) == 0 {
		return helpers.SendText(c, msgNoTopics, b.menu(ctx, uid))
	}
	b.sessions.Set(uid, StateTopicSelect, nil)
	return helpers.SendText(c, msgChooseTopic, topicsMenu(topics))
}

func (b *Bot) handleTopicChosen(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	uid := c.Sender().ID
	topic := strings.TrimSpace(c.Text())

	qs, err := b.store.QuestionsByTopic(ctx, topic)
	if err != nil {
		return b.fail(c, "quiz.questions", err)
	}
	sess, err := quiz.NewSession(topic, qs)
	if errors.Is(err, quiz.ErrNoQuestions) {
		b.sessions.Clear(uid)
		return helpers.SendText(c, msgNoQuestionsFor, b.menu(ctx, uid))
	}
	if err != nil {
		return b.fail(c, "quiz.start", err)
	}

	b.sessions.Set(uid, StateAnswering, sess)
	logger.Quiz.LogAttrs(ctx, slog.LevelInfo, "quiz started",
		slog.String("event", "quiz.start"),
		slog.String("topic", topic),
		slog.Int("questions", sess.Total()),
	)
	if err := helpers.SendText(c, "🏁 "+topic, b.menu(ctx, uid)); err != nil {
		return err
	}
	return b.sendQuestion(c, sess)
}

func (b *Bot) handleTextWhileAnswering(c tele.Context) error {
	return helpers.SendText(c, msgUseButtons)
}

func (b *Bot) sendQuestion(c tele.Context, sess *quiz.Session) error {
	q, ok := sess.CurrentQuestion()
	if !ok {
		return nil
	}
	return helpers.SendText(c, questionText(q, sess.Position(), sess.Total()), answerKeyboard(q))
}

// handleAnswer scores an inline button press. The button must belong to the
// question the session is waiting for; anything else is acknowledged and
// ignored.
func (b *Bot) handleAnswer(c tele.Context) error {
	uid := c.Sender().ID
	return b.sessions.Serialize(uid, func() error {
		return b.answer(c, uid)
	})
}

func (b *Bot) answer(c tele.Context, uid int64) error {
	ctx := helpers.BuildContext(c)

	key, payload := callbacks.ParseCallbackData(c.Callback())
	letter, err := quiz.ParseLetter(strings.TrimPrefix(key, answerPrefix))
	if err != nil {
		return c.Respond(&tele.CallbackResponse{Text: msgQuizInactive})
	}

	s := b.sessions.Get(uid)
	sess, ok := s.Data.(*quiz.Session)
	if s.State != StateAnswering || !ok || sess == nil {
		return c.Respond(&tele.CallbackResponse{Text: msgQuizInactive})
	}
	current, ok := sess.CurrentQuestion()
	if !ok {
		b.sessions.Clear(uid)
		return c.Respond(&tele.CallbackResponse{Text: msgQuizInactive})
	}
	if id, err := strconv.ParseInt(strings.TrimSpace(payload), 10, 64); err != nil || id != current.ID {
		return c.Respond(&tele.CallbackResponse{Text: msgQuestionExpired})
	}

	out, err := sess.Answer(letter)
	if err != nil {
		_ = c.Respond()
		return b.fail(c, "quiz.answer", err)
	}
	if err := b.store.UpdateUserStats(ctx, uid, out.Score()); err != nil {
		_ = c.Respond()
		return b.fail(c, "quiz.stats", err)
	}

	toast := msgAnswerCorrect
	if !out.Correct {
		toast = fmt.Sprintf(msgAnswerWrong, out.Question.CorrectOption)
	}
	_ = c.Respond(&tele.CallbackResponse{Text: toast})
	_ = helpers.DeleteMessage(c)

	events.Emit(ctx, b.events, events.QuizAnswered, events.AnsweredPayload{
		UserID:     uid,
		Topic:      sess.Topic,
		QuestionID: out.Question.ID,
		Answer:     string(out.Answer),
		Correct:    out.Correct,
	})

	if !out.Finished {
		return b.sendQuestion(c, sess)
	}

	b.sessions.Clear(uid)
	logger.Quiz.LogAttrs(ctx, slog.LevelInfo, "quiz finished",
		slog.String("event", "quiz.finish"),
		slog.String("topic", sess.Topic),
		slog.Int("score", sess.Correct),
		slog.Int("total", sess.Total()),
	)
	events.Emit(ctx, b.events, events.QuizCompleted, events.CompletedPayload{
		UserID: uid,
		Topic:  sess.Topic,
		Score:  sess.Correct,
		Total:  sess.Total(),
	})
	return helpers.SendText(c, fmt.Sprintf(msgQuizFinished, sess.Correct, sess.Total()), b.menu(ctx, uid))
}

func (b *Bot) handleMyStats(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	uid := c.Sender().ID
	st, err := b.store.UserStats(ctx, uid)
	if errors.Is(err, storage.ErrNotFound) {
		return helpers.SendText(c, msgNoStats, b.menu(ctx, uid))
	}
	if err != nil {
		return b.fail(c, "stats.get", err)
	}
	return helpers.SendText(c, fmt.Sprintf(msgStats, st.TotalTests, st.CorrectAnswers), b.menu(ctx, uid))
}
