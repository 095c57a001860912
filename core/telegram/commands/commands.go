package commands

import (
	tele "gopkg.in/telebot.v4"
)

// Access is the privilege required to run a command.
type Access int

const (
	// Public commands are open to every user.
	Public Access = iota
	// Admin commands require the super admin or a stored administrator.
	Admin
	// SuperAdmin commands require the configured super admin.
	SuperAdmin
)

func (a Access) String() string {
	switch a {
	case Admin:
		return "admin"
	case SuperAdmin:
		return "super_admin"
	}
	return "public"
}

// Command represents a bot command with its handler, description, and metadata.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	Access      Access
	Hidden      bool
	Aliases     []string
}

// Privileged reports whether the command is gated behind an access check.
func (c Command) Privileged() bool {
	return c.Access != Public
}
