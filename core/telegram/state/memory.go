package state

import (
	"log/slog"
	"sync"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/quizbot/core/logger"
	tghelpers "github.com/m3rciful/quizbot/core/telegram/helpers"
)

type memoryManager struct {
	mu       sync.RWMutex
	sessions map[int64]Session
	handlers map[State]tele.HandlerFunc

	locksMu sync.Mutex
	locks   map[int64]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

// NewMemoryManager constructs an in-memory Manager. Sessions do not survive restarts.
func NewMemoryManager() Manager {
	return &memoryManager{
		sessions: make(map[int64]Session),
		handlers: make(map[State]tele.HandlerFunc),
		locks:    make(map[int64]*userLock),
	}
}

func (m *memoryManager) Get(userID int64) Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[userID]; ok {
		return s
	}
	return Session{State: StateIdle}
}

func (m *memoryManager) Set(userID int64, st State, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st == StateIdle {
		delete(m.sessions, userID)
		return
	}
	m.sessions[userID] = Session{State: st, Data: data}
}

func (m *memoryManager) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

func (m *memoryManager) InProgress(userID int64) bool {
	return m.Get(userID).State != StateIdle
}

func (m *memoryManager) Serialize(userID int64, fn func() error) error {
	m.locksMu.Lock()
	l, ok := m.locks[userID]
	if !ok {
		l = &userLock{}
		m.locks[userID] = l
	}
	l.refs++
	m.locksMu.Unlock()

	l.mu.Lock()
	defer func() {
		l.mu.Unlock()
		m.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, userID)
		}
		m.locksMu.Unlock()
	}()
	return fn()
}

func (m *memoryManager) Handle(st State, h tele.HandlerFunc) {
	if h == nil || st == StateIdle {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[st] = h
}

// ManagerHandler executes the handler registered for the user's current state, if any.
func (m *memoryManager) ManagerHandler(c tele.Context) error {
	user := c.Sender()
	if user == nil {
		return nil
	}
	return m.Serialize(user.ID, func() error {
		current := m.Get(user.ID).State
		ctx := tghelpers.BuildContext(c)
		logger.Debug(ctx, "tg", "fsm.manager",
			slog.String("status", "ok"),
			slog.String("state", string(current)),
		)

		m.mu.RLock()
		handler, ok := m.handlers[current]
		m.mu.RUnlock()
		if !ok {
			return nil
		}
		return handler(c)
	})
}
