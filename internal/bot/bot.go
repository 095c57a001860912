// Package bot implements the quiz bot conversation: menus, the admin question
// entry dialogue, quiz sessions and administrator management.
package bot

import (
	"context"
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/quizbot/core/logger"
	tg "github.com/m3rciful/quizbot/core/telegram"
	"github.com/m3rciful/quizbot/core/telegram/commands"
	"github.com/m3rciful/quizbot/core/telegram/helpers"
	"github.com/m3rciful/quizbot/core/telegram/state"
	"github.com/m3rciful/quizbot/internal/access"
	"github.com/m3rciful/quizbot/internal/events"
	"github.com/m3rciful/quizbot/internal/quiz"
	"github.com/m3rciful/quizbot/internal/storage"
)

// Conversation states.
const (
	StateQuestionEntry state.State = "question_entry"
	StateTopicSelect   state.State = "quiz_topic"
	StateAnswering     state.State = "quiz_answer"
)

// Notifier delivers a direct message to userID outside the current chat.
type Notifier func(c tele.Context, userID int64, text string) error

// Deps are the collaborators of Bot.
type Deps struct {
	Store    storage.Store
	Policy   *access.Policy
	Sessions state.Manager
	Events   events.Publisher
	// DonateText is shown for the donate button.
	DonateText string
	// Notify defaults to sending through the bot API.
	Notify Notifier
}

// Bot holds the handlers. It keeps no per-user data of its own; conversation
// state lives in the session manager.
type Bot struct {
	store    storage.Store
	policy   *access.Policy
	sessions state.Manager
	events   events.Publisher
	donate   string
	notify   Notifier
}

// New builds a Bot. Missing optional dependencies get defaults.
func New(d Deps) *Bot {
	b := &Bot{
		store:    d.Store,
		policy:   d.Policy,
		sessions: d.Sessions,
		events:   d.Events,
		donate:   d.DonateText,
		notify:   d.Notify,
	}
	if b.sessions == nil {
		b.sessions = state.NewMemoryManager()
	}
	if b.events == nil {
		b.events = events.Nop{}
	}
	if b.notify == nil {
		b.notify = sendDirect
	}
	if b.policy == nil {
		b.policy = access.NewPolicy(0, d.Store)
	}
	return b
}

// Sessions exposes the manager so the text router can dispatch state steps.
func (b *Bot) Sessions() state.Manager {
	return b.sessions
}

// Register binds every command, menu label, callback and state step.
func (b *Bot) Register(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     b.handleStart,
		Description: "Open the main menu",
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Handler:     b.handleCancel,
		Description: "Abort the current action",
	})
	reg.RegisterCommand("/delete", commands.Command{
		Handler:     b.handleDelete,
		Description: "Delete a question by its exact text",
		Access:      commands.Admin,
	})
	reg.RegisterCommand("/add_admin", commands.Command{
		Handler:     b.handleAddAdmin,
		Description: "Grant administrator rights",
		Access:      commands.SuperAdmin,
	})
	reg.RegisterCommand("/remove_admin", commands.Command{
		Handler:     b.handleRemoveAdmin,
		Description: "Revoke administrator rights",
		Access:      commands.SuperAdmin,
	})
	reg.RegisterCommand("/admins", commands.Command{
		Handler:     b.handleListAdmins,
		Description: "List administrators",
		Access:      commands.SuperAdmin,
	})

	reg.RegisterText(LabelAddQuestion, commands.Command{Handler: b.handleAddQuestion, Access: commands.Admin})
	reg.RegisterText(LabelAllQuestions, commands.Command{Handler: b.handleAllQuestions, Access: commands.Admin})
	reg.RegisterText(LabelTakeQuiz, commands.Command{Handler: b.handleChooseTopic})
	reg.RegisterText(LabelTopics, commands.Command{Handler: b.handleChooseTopic})
	reg.RegisterText(LabelMyStats, commands.Command{Handler: b.handleMyStats})
	reg.RegisterText(LabelDonate, commands.Command{Handler: b.handleDonate})
	reg.RegisterText(LabelBack, commands.Command{Handler: b.handleBack})

	for _, l := range quiz.Letters {
		_ = reg.RegisterCallback(answerPrefix+string(l), b.handleAnswer)
	}
	reg.SetCallbackNotFound(b.handleUnknownCallback)
	reg.SetTextFallback(b.handleFallback)

	b.sessions.Handle(StateQuestionEntry, b.handleQuestionEntryStep)
	b.sessions.Handle(StateTopicSelect, b.handleTopicChosen)
	b.sessions.Handle(StateAnswering, b.handleTextWhileAnswering)
}

// Reject answers users lacking the rights for a privileged action.
func (b *Bot) Reject(c tele.Context) error {
	if c.Callback() != nil {
		return c.Respond(&tele.CallbackResponse{Text: msgNoRights})
	}
	return helpers.SendText(c, msgNoRights)
}

func (b *Bot) handleStart(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	uid := c.Sender().ID
	b.sessions.Clear(uid)
	if b.isAdmin(ctx, uid) {
		return helpers.SendText(c, msgWelcomeAdmin, adminMenu())
	}
	return helpers.SendText(c, msgWelcomeUser, userMenu())
}

func (b *Bot) handleCancel(c tele.Context) error {
	return b.backToMenu(c, msgCancelled)
}

func (b *Bot) handleBack(c tele.Context) error {
	return b.backToMenu(c, msgBackToMenu)
}

func (b *Bot) backToMenu(c tele.Context, text string) error {
	ctx := helpers.BuildContext(c)
	uid := c.Sender().ID
	b.sessions.Clear(uid)
	return helpers.SendText(c, text, b.menu(ctx, uid))
}

func (b *Bot) handleDonate(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	return helpers.SendText(c, b.donate, b.menu(ctx, c.Sender().ID))
}

func (b *Bot) handleFallback(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	return helpers.SendText(c, msgChooseAction, b.menu(ctx, c.Sender().ID))
}

func (b *Bot) handleUnknownCallback(c tele.Context) error {
	return c.Respond(&tele.CallbackResponse{Text: msgQuizInactive})
}

// menu returns the keyboard matching the privileges of uid.
func (b *Bot) menu(ctx context.Context, uid int64) *tele.ReplyMarkup {
	if b.isAdmin(ctx, uid) {
		return adminMenu()
	}
	return userMenu()
}

// isAdmin treats lookup failures as "not an admin".
func (b *Bot) isAdmin(ctx context.Context, uid int64) bool {
	ok, err := b.policy.IsAdmin(ctx, uid)
	if err != nil {
		logger.Admin.LogAttrs(ctx, slog.LevelError, "admin lookup failed",
			slog.String("event", "admin.lookup"),
			slog.Int64("user_id", uid),
			logger.Err(err),
		)
		return false
	}
	return ok
}

// fail logs err, resets the conversation and tells the user something went wrong.
func (b *Bot) fail(c tele.Context, event string, err error) error {
	ctx := helpers.BuildContext(c)
	uid := c.Sender().ID
	logger.FromContext(ctx).LogAttrs(ctx, slog.LevelError, "handler failed",
		slog.String("event", event),
		logger.Err(err),
	)
	b.sessions.Clear(uid)
	return helpers.SendText(c, msgFailure, b.menu(ctx, uid))
}

func sendDirect(c tele.Context, userID int64, text string) error {
	_, err := c.Bot().Send(tele.ChatID(userID), text)
	return err
}
