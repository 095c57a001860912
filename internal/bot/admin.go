package bot

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/quizbot/core/logger"
	"github.com/m3rciful/quizbot/core/telegram/format"
	"github.com/m3rciful/quizbot/core/telegram/helpers"
	"github.com/m3rciful/quizbot/core/telegram/keyboard"
	"github.com/m3rciful/quizbot/internal/events"
	"github.com/m3rciful/quizbot/internal/quiz"
	"github.com/m3rciful/quizbot/internal/storage"
)

var stepPrompts = map[quiz.Step]string{
	quiz.StepTopic:    promptTopic,
	quiz.StepQuestion: promptQuestion,
	quiz.StepOptionA:  promptOptionA,
	quiz.StepOptionB:  promptOptionB,
	quiz.StepOptionC:  promptOptionC,
	quiz.StepOptionD:  promptOptionD,
	quiz.StepCorrect:  promptCorrect,
}

func (b *Bot) handleAddQuestion(c tele.Context) error {
	uid := c.Sender().ID
	b.sessions.Set(uid, StateQuestionEntry, quiz.NewDraft())
	return helpers.SendText(c, promptTopic, keyboard.RemoveKeyboard())
}

// handleQuestionEntryStep consumes one answer of the dialogue. Rights are
// checked again on every step; a user who lost them is told so and the draft is
// left untouched.
func (b *Bot) handleQuestionEntryStep(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	uid := c.Sender().ID

	ok, err := b.policy.IsAdmin(ctx, uid)
	if err != nil {
		return b.fail(c, "question_entry.access", err)
	}
	if !ok {
		return b.Reject(c)
	}

	draft, ok := b.draftOf(uid)
	if !ok {
		b.sessions.Clear(uid)
		return b.handleFallback(c)
	}

	q, err := draft.Accept(c.Text())
	switch {
	case errors.Is(err, quiz.ErrInvalidLetter):
		return helpers.SendText(c, msgOnlyLetters)
	case err != nil:
		return b.fail(c, "question_entry.accept", err)
	case q == nil:
		return helpers.SendText(c, stepPrompts[draft.Step])
	}

	id, err := b.store.AddQuestion(ctx, *q)
	if err != nil {
		return b.fail(c, "question_entry.save", err)
	}
	b.sessions.Clear(uid)
	logger.Admin.LogAttrs(ctx, slog.LevelInfo, "question added",
		slog.String("event", "question.added"),
		slog.Int64("question_id", id),
		slog.String("topic", q.Topic),
	)
	events.Emit(ctx, b.events, events.QuestionAdded, events.QuestionAddedPayload{
		QuestionID: id,
		Topic:      q.Topic,
		By:         uid,
	})
	return helpers.SendText(c, msgSaved, adminMenu())
}

func (b *Bot) draftOf(uid int64) (*quiz.Draft, bool) {
	s := b.sessions.Get(uid)
	if s.State != StateQuestionEntry {
		return nil, false
	}
	d, ok := s.Data.(*quiz.Draft)
	return d, ok && d != nil
}

func (b *Bot) handleAllQuestions(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	qs, err := b.store.ListQuestions(ctx)
	if err != nil {
		return b.fail(c, "questions.list", err)
	}
	if len(qs) == 0 {
		return helpers.SendText(c, msgNoQuestions, adminMenu())
	}
	return helpers.SendChunks(c, questionListing(qs), adminMenu())
}

// questionListing renders `"question" - X` lines grouped under their topic and
// splits the result into messages that fit the Telegram limit.
func questionListing(qs []quiz.Question) []string {
	var lines []string
	topic := ""
	for i, q := range qs {
		if i == 0 || q.Topic != topic {
			if i > 0 {
				lines = append(lines, "")
			}
			topic = q.Topic
			lines = append(lines, "📚 "+topic)
		}
		lines = append(lines, fmt.Sprintf("%q - %s", q.Question, q.CorrectOption))
	}
	return format.Split(msgQuestionsHeader, lines, format.MessageLimit)
}

func (b *Bot) handleDelete(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	text := commandArgs(c)
	if text == "" {
		return helpers.SendText(c, msgDeleteUsage)
	}
	n, err := b.store.DeleteQuestion(ctx, text)
	if err != nil {
		return b.fail(c, "question.delete", err)
	}
	if n == 0 {
		return helpers.SendText(c, msgDeleteNotFound)
	}
	uid := c.Sender().ID
	logger.Admin.LogAttrs(ctx, slog.LevelInfo, "question deleted",
		slog.String("event", "question.deleted"),
		slog.Int64("rows", n),
	)
	events.Emit(ctx, b.events, events.QuestionDeleted, events.QuestionDeletedPayload{
		Question: text,
		Count:    n,
		By:       uid,
	})
	return helpers.SendText(c, fmt.Sprintf(msgDeleted, text))
}

func (b *Bot) handleAddAdmin(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	target, usage := parseUserID(commandArgs(c), msgAddAdminUsage)
	if usage != "" {
		return helpers.SendText(c, usage)
	}

	err := b.store.AddAdmin(ctx, target, nil)
	switch {
	case errors.Is(err, storage.ErrAlreadyAdmin):
		return helpers.SendText(c, fmt.Sprintf(msgAlreadyAdmin, target))
	case err != nil:
		return b.fail(c, "admin.grant", err)
	}

	b.logAdminChange(c, "admin.granted", target)
	events.Emit(ctx, b.events, events.AdminGranted, events.AdminPayload{TargetID: target, By: c.Sender().ID})
	if err := b.notify(c, target, msgNotifyGranted); err != nil {
		_ = helpers.SendText(c, fmt.Sprintf(msgNotifyAddFailed, err))
	}
	return helpers.SendText(c, fmt.Sprintf(msgAdminAdded, target))
}

func (b *Bot) handleRemoveAdmin(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	target, usage := parseUserID(commandArgs(c), msgRemoveAdminUsage)
	if usage != "" {
		return helpers.SendText(c, usage)
	}

	err := b.store.RemoveAdmin(ctx, target)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return helpers.SendText(c, fmt.Sprintf(msgNotAdmin, target))
	case err != nil:
		return b.fail(c, "admin.revoke", err)
	}

	b.logAdminChange(c, "admin.revoked", target)
	events.Emit(ctx, b.events, events.AdminRevoked, events.AdminPayload{TargetID: target, By: c.Sender().ID})
	if err := b.notify(c, target, msgNotifyRevoked); err != nil {
		_ = helpers.SendText(c, fmt.Sprintf(msgNotifyRemoveFailed, err))
	}
	return helpers.SendText(c, fmt.Sprintf(msgAdminRemoved, target))
}

func (b *Bot) handleListAdmins(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	admins, err := b.store.ListAdmins(ctx)
	if err != nil {
		return b.fail(c, "admin.list", err)
	}
	var sb strings.Builder
	sb.WriteString(msgAdminsHeader)
	if id := b.policy.SuperAdmin(); id != 0 {
		fmt.Fprintf(&sb, msgSuperAdminLine, id)
	}
	for _, a := range admins {
		if name := format.DerefString(a.Username, ""); name != "" {
			fmt.Fprintf(&sb, "• %d (@%s)\n", a.TelegramID, name)
			continue
		}
		fmt.Fprintf(&sb, "• %d\n", a.TelegramID)
	}
	return helpers.SendText(c, strings.TrimRight(sb.String(), "\n"))
}

func (b *Bot) logAdminChange(c tele.Context, event string, target int64) {
	ctx := helpers.BuildContext(c)
	logger.Admin.LogAttrs(ctx, slog.LevelInfo, "administrators changed",
		slog.String("event", event),
		slog.Int64("target_id", target),
	)
}

// commandArgs returns the text after the command word.
func commandArgs(c tele.Context) string {
	if m := c.Message(); m != nil && m.Payload != "" {
		return strings.TrimSpace(m.Payload)
	}
	_, rest, _ := strings.Cut(strings.TrimSpace(c.Text()), " ")
	return strings.TrimSpace(rest)
}

// parseUserID returns the id or the reply explaining what is wrong with arg.
func parseUserID(arg, missing string) (int64, string) {
	if arg == "" {
		return 0, missing
	}
	id, err := strconv.ParseInt(strings.Fields(arg)[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, msgBadUserID
	}
	return id, ""
}
