package middleware

import (
	"context"
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/quizbot/core/logger"
	"github.com/m3rciful/quizbot/core/telegram/commands"
	tghelpers "github.com/m3rciful/quizbot/core/telegram/helpers"
)

// Authorizer answers privilege questions for a Telegram user.
type Authorizer interface {
	IsSuperAdmin(userID int64) bool
	IsAdmin(ctx context.Context, userID int64) (bool, error)
}

// AccessOptions defines how access checks should behave.
type AccessOptions struct {
	Authorizer Authorizer
	OnReject   tele.HandlerFunc
}

// Allowed evaluates level for the sender of c. Lookup errors deny access.
func Allowed(c tele.Context, level commands.Access, auth Authorizer) bool {
	if level == commands.Public {
		return true
	}
	user := c.Sender()
	if user == nil || auth == nil {
		return false
	}
	if level == commands.SuperAdmin {
		return auth.IsSuperAdmin(user.ID)
	}
	ctx := tghelpers.BuildContext(c)
	ok, err := auth.IsAdmin(ctx, user.ID)
	if err != nil {
		logger.TG.LogAttrs(ctx, slog.LevelError, "access check failed",
			slog.String("event", "access.lookup"),
			slog.Int64("user_id", user.ID),
			logger.Err(err),
		)
		return false
	}
	return ok
}

// AccessMiddleware lets the request through only when the sender holds level.
// Rejected requests run OnReject and nothing else.
func AccessMiddleware(level commands.Access, opts AccessOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		if level == commands.Public {
			return next
		}
		return func(c tele.Context) error {
			if !Allowed(c, level, opts.Authorizer) {
				ctx := tghelpers.BuildContext(c)
				logger.TG.LogAttrs(ctx, slog.LevelInfo, "access denied",
					slog.String("event", "access.denied"),
					slog.String("mode", level.String()),
				)
				if opts.OnReject != nil {
					return opts.OnReject(c)
				}
				return nil
			}
			return next(c)
		}
	}
}
