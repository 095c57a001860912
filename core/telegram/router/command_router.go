package router

import (
	"log/slog"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/quizbot/core/logger"
	tg "github.com/m3rciful/quizbot/core/telegram"
	"github.com/m3rciful/quizbot/core/telegram/commands"
	"github.com/m3rciful/quizbot/core/telegram/middleware"
)

// AccessOptions configures privilege checks shared by command and text routes.
type AccessOptions struct {
	Authorizer middleware.Authorizer
	OnReject   tele.HandlerFunc
}

// CommandRoutes prepares command handlers wrapped with shared middleware.
func CommandRoutes(reg *tg.Registry, opts AccessOptions) []tg.Route {
	if reg == nil {
		return nil
	}

	routes := make([]tg.Route, 0, len(reg.Commands()))
	for cmd, def := range reg.Commands() {
		routes = append(routes, tg.Route{
			Endpoint: cmd,
			Handler:  wrap(normalizeHandlerName(cmd), def, opts),
		})
	}

	logger.TWire.Info("tg.wire",
		slog.String("event", "complete"),
		slog.Int("commands", len(reg.Commands())),
		slog.Int("texts", len(reg.Texts())),
		slog.Int("callbacks", len(reg.ListCallbacks())),
	)

	return routes
}

// wrap applies access control and the summary line to a registered handler.
func wrap(name string, def commands.Command, opts AccessOptions) tele.HandlerFunc {
	h := func(c tele.Context) error {
		return handleWithSummary(c, name, time.Now(), "", "", func() error {
			return guarded(c, def, opts)
		})
	}
	return middleware.RecoverMiddleware(middleware.LoggerMiddleware(h))
}
