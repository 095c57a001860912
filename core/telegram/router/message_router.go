package router

import (
	"time"

	tele "gopkg.in/telebot.v4"

	tg "github.com/m3rciful/quizbot/core/telegram"
	"github.com/m3rciful/quizbot/core/telegram/commands"
	"github.com/m3rciful/quizbot/core/telegram/middleware"
)

// FSM defines the minimal interface for an FSM manager.
type FSM interface {
	InProgress(userID int64) bool
	ManagerHandler(c tele.Context) error
}

// TextOptions controls access checks and fallback behaviour for text updates.
type TextOptions struct {
	Access      AccessOptions
	UnknownText tele.HandlerFunc
}

// TextRoutes builds the OnText handler. Resolution order: command aliases,
// exact-text handlers (reply keyboard labels), the active FSM step, then fallbacks.
func TextRoutes(fsmMgr FSM, reg *tg.Registry, opts TextOptions) []tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
				return handleWithSummary(c, normalizeHandlerName(key), start, "", "", func() error {
					return guarded(c, cmd, opts.Access)
				})
			}
			if cmd, ok := reg.LookupText(text); ok {
				return handleWithSummary(c, "text."+normalizeHandlerName(text), start, "", "", func() error {
					return guarded(c, cmd, opts.Access)
				})
			}
		}

		if fsmMgr != nil && c.Sender() != nil && fsmMgr.InProgress(c.Sender().ID) {
			return handleWithSummary(c, "fsm", start, "", "", func() error {
				return fsmMgr.ManagerHandler(c)
			})
		}

		if reg != nil {
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, "", "", func() error {
					return fb(c)
				})
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, "", "", func() error {
				return opts.UnknownText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", "ok", nil)
		return nil
	}

	return []tg.Route{
		{
			Endpoint: tele.OnText,
			Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
		},
	}
}

func guarded(c tele.Context, cmd commands.Command, opts AccessOptions) error {
	return middleware.AccessMiddleware(cmd.Access, middleware.AccessOptions{
		Authorizer: opts.Authorizer,
		OnReject:   opts.OnReject,
	})(cmd.Handler)(c)
}
