package state

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

type senderContext struct {
	tele.Context
	user *tele.User
	data map[string]any
}

func (c *senderContext) Sender() *tele.User    { return c.user }
func (c *senderContext) Chat() *tele.Chat      { return &tele.Chat{ID: c.user.ID} }
func (c *senderContext) Update() tele.Update   { return tele.Update{ID: 1} }
func (c *senderContext) Get(key string) any    { return c.data[key] }
func (c *senderContext) Set(key string, v any) { c.data[key] = v }

func newSenderContext(id int64) *senderContext {
	return &senderContext{user: &tele.User{ID: id}, data: map[string]any{}}
}

func TestSessionLifecycle(t *testing.T) {
	m := NewMemoryManager()

	s := m.Get(7)
	assert.Equal(t, StateIdle, s.State)
	assert.Nil(t, s.Data)
	assert.False(t, m.InProgress(7))

	m.Set(7, "entry", 42)
	assert.True(t, m.InProgress(7))
	v, ok := DataAs[int](m.Get(7))
	require.True(t, ok)
	assert.Equal(t, 42, v)

	_, ok = DataAs[string](m.Get(7))
	assert.False(t, ok)

	m.Set(7, StateIdle, "ignored")
	assert.False(t, m.InProgress(7))

	m.Set(7, "entry", nil)
	m.Clear(7)
	assert.Equal(t, StateIdle, m.Get(7).State)
	assert.False(t, m.InProgress(8))
}

func TestManagerHandlerDispatchesByState(t *testing.T) {
	m := NewMemoryManager()
	var calls []State
	m.Handle("a", func(tele.Context) error { calls = append(calls, "a"); return nil })
	m.Handle("b", func(tele.Context) error { calls = append(calls, "b"); return nil })

	c := newSenderContext(1)
	require.NoError(t, m.ManagerHandler(c))
	assert.Empty(t, calls)

	m.Set(1, "b", nil)
	require.NoError(t, m.ManagerHandler(c))
	m.Set(1, "a", nil)
	require.NoError(t, m.ManagerHandler(c))
	m.Set(1, "unbound", nil)
	require.NoError(t, m.ManagerHandler(c))

	assert.Equal(t, []State{"b", "a"}, calls)
}

func TestSerializeIsPerUser(t *testing.T) {
	m := NewMemoryManager()

	var (
		mu      sync.Mutex
		active  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Serialize(5, func() error {
				mu.Lock()
				active++
				if active > maxSeen {
					maxSeen = active
				}
				mu.Unlock()
				time.Sleep(2 * time.Millisecond)
				mu.Lock()
				active--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)

	// Another user is not blocked by a held lock.
	release := make(chan struct{})
	held := make(chan struct{})
	go func() {
		_ = m.Serialize(5, func() error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held
	done := make(chan struct{})
	go func() {
		_ = m.Serialize(6, func() error { return nil })
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("user 6 blocked by user 5")
	}
	close(release)
}
