package state

import tele "gopkg.in/telebot.v4"

// State identifies a finite-state-machine step used in conversations.
type State string

const (
	// StateIdle indicates there is no active conversation with the user.
	StateIdle State = "idle"
)

// Session is the conversation of one user: the current tag and its payload.
// Data is owned by whoever set the state; the manager never inspects it.
type Session struct {
	State State
	Data  any
}

// Manager orchestrates user sessions and FSM state transitions.
type Manager interface {
	// Get returns the session of userID or an idle one.
	Get(userID int64) Session
	// Set replaces the session of userID.
	Set(userID int64, st State, data any)
	// Clear drops the session; the user becomes idle.
	Clear(userID int64)
	InProgress(userID int64) bool

	// Serialize runs fn while holding the per-user lock.
	Serialize(userID int64, fn func() error) error

	// Handle binds h to st for ManagerHandler dispatch.
	Handle(st State, h tele.HandlerFunc)
	ManagerHandler(c tele.Context) error
}

// DataAs returns the session payload as T.
func DataAs[T any](s Session) (T, bool) {
	v, ok := s.Data.(T)
	return v, ok
}
