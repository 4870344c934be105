package palette

import (
	"fmt"
	"strings"
)

// Handler runs a command. It takes no arguments.
type Handler func() error

// Command is an invokable action registered in the palette.
type Command struct {
	// ID is the unique command identifier.
	ID string

	// Title is the label shown in the palette. May be empty.
	Title string

	// Description provides additional context about the command.
	Description string

	// Source indicates who registered the command, e.g. "core" or
	// "plugin:open-specific-notes".
	Source string

	// Handler executes the command.
	Handler Handler
}

// Label returns the display label, falling back to the ID when Title is
// empty.
func (c *Command) Label() string {
	if strings.TrimSpace(c.Title) == "" {
		return c.ID
	}
	return c.Title
}

// Execute runs the command handler.
func (c *Command) Execute() error {
	if c.Handler == nil {
		return fmt.Errorf("command %q has no handler", c.ID)
	}
	return c.Handler()
}

// SearchText returns the text used for fuzzy searching.
func (c *Command) SearchText() string {
	desc := strings.TrimSpace(c.Description)
	if desc == "" {
		return c.Label()
	}
	return c.Label() + " " + desc
}
