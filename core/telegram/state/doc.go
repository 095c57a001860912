// Package state keeps per-user conversation state for Telegram bots.
// A session is a tag plus one typed payload; handlers are bound to tags on the
// manager and dispatched for text messages while a conversation is active.
package state
