package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/quizbot/core/telegram/commands"
)

func noop(tele.Context) error { return nil }

func TestRegistryCommands(t *testing.T) {
	r := NewRegistry()
	r.RegisterCommand("/start", commands.Command{Handler: noop, Description: "Open the menu", Aliases: []string{"menu"}})
	r.RegisterCommand("/delete", commands.Command{Handler: noop, Description: "Delete", Access: commands.Admin})
	r.RegisterCommand("/secret", commands.Command{Handler: noop, Description: "Hidden", Hidden: true})
	r.RegisterCommand("noslash", commands.Command{Handler: noop, Description: "x"})
	r.RegisterCommand("/nodesc", commands.Command{Handler: noop})
	r.RegisterCommand("/start", commands.Command{Handler: noop, Description: "duplicate"})

	assert.Len(t, r.Commands(), 3)
	assert.Equal(t, "Open the menu", r.Commands()["/start"].Description)

	visible := r.ListCommands(true)
	require.Len(t, visible, 1)
	assert.Equal(t, "/start", visible[0].Text)
	assert.Len(t, r.ListCommands(false), 3)

	key, _, ok := r.LookupCommand("menu")
	require.True(t, ok)
	assert.Equal(t, "/start", key)
	_, _, ok = r.LookupCommand("/nope")
	assert.False(t, ok)
}

func TestRegistryTexts(t *testing.T) {
	r := NewRegistry()
	r.RegisterText("📚 Topics", commands.Command{Handler: noop})
	r.RegisterText("  ", commands.Command{Handler: noop})
	r.RegisterText("Back", commands.Command{})

	_, ok := r.LookupText(" 📚 Topics\n")
	assert.True(t, ok)
	_, ok = r.LookupText("Back")
	assert.False(t, ok)
	assert.Len(t, r.Texts(), 1)
}

func TestRegistryCallbacks(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RegisterCallback("answer_B", noop))
	require.NoError(t, r.RegisterCallback("answer_A", noop))
	assert.Error(t, r.RegisterCallback("answer_A", noop))
	assert.Error(t, r.RegisterCallback("", noop))

	assert.Equal(t, []string{"answer_A", "answer_B"}, r.ListCallbacks())
	_, ok := r.GetCallback("answer_C")
	assert.False(t, ok)

	require.NotNil(t, r.CallbackNotFound())
	r.SetCallbackNotFound(nil)
	require.NotNil(t, r.CallbackNotFound())
}
