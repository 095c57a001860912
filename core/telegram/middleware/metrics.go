package middleware

import (
	"sync/atomic"

	tele "gopkg.in/telebot.v4"
)

const countersKey = "send_counters"

// counters are shared with dispatcher workers, hence atomics.
type counters struct {
	messages atomic.Int64
	keyboard atomic.Bool
	answered atomic.Bool
	deleted  atomic.Int64
}

// metricsContext wraps tele.Context to count outbound calls made for one update.
type metricsContext struct {
	tele.Context
	n *counters
}

func hasKeyboard(opts []interface{}) bool {
	for _, o := range opts {
		switch v := o.(type) {
		case *tele.SendOptions:
			if v != nil && v.ReplyMarkup != nil {
				return true
			}
		case *tele.ReplyMarkup:
			if v != nil {
				return true
			}
		}
	}
	return false
}

func (m metricsContext) sent(opts []interface{}) {
	m.n.messages.Add(1)
	if hasKeyboard(opts) {
		m.n.keyboard.Store(true)
	}
}

// Send proxies tele.Context.Send while updating message counters.
func (m metricsContext) Send(what interface{}, opts ...interface{}) error {
	err := m.Context.Send(what, opts...)
	if err == nil {
		m.sent(opts)
	}
	return err
}

// Reply proxies tele.Context.Reply while updating message counters.
func (m metricsContext) Reply(what interface{}, opts ...interface{}) error {
	err := m.Context.Reply(what, opts...)
	if err == nil {
		m.sent(opts)
	}
	return err
}

// Respond proxies tele.Context.Respond and remembers that the callback was answered.
func (m metricsContext) Respond(resp ...*tele.CallbackResponse) error {
	err := m.Context.Respond(resp...)
	if err == nil {
		m.n.answered.Store(true)
	}
	return err
}

// Delete proxies tele.Context.Delete while counting removed messages.
func (m metricsContext) Delete() error {
	err := m.Context.Delete()
	if err == nil {
		m.n.deleted.Add(1)
	}
	return err
}

// MessageMetricsMiddleware instruments context to track what a handler sent.
func MessageMetricsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		n := &counters{}
		c.Set(countersKey, n)
		return next(metricsContext{Context: c, n: n})
	}
}

func countersOf(c tele.Context) *counters {
	if n, ok := c.Get(countersKey).(*counters); ok {
		return n
	}
	return nil
}

// GetCounters reports how many messages were sent and whether any carried a keyboard.
// Sends still queued in the dispatcher are not counted yet.
func GetCounters(c tele.Context) (int, bool) {
	n := countersOf(c)
	if n == nil {
		return 0, false
	}
	return int(n.messages.Load()), n.keyboard.Load()
}

// CallbackAnswered reports whether the handler answered the callback query.
func CallbackAnswered(c tele.Context) bool {
	n := countersOf(c)
	return n != nil && n.answered.Load()
}
