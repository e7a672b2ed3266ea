package commands

import (
	"errors"

	"dispatcher/internal/core/domain/model/kernel"
	"dispatcher/internal/pkg/errs"
	"dispatcher/internal/pkg/guard"
)

var ErrChatCommandIsNotConstructed = errors.New(
	"ChatCommand must be created via NewChatCommand constructor",
)

// ChatCommand represents one dispatcher message sent into a session's
// conversation with the assistant.
type ChatCommand struct { //nolint:recvcheck //using for validation
	sessionID kernel.UUID
	message   string

	guard guard.ConstructorGuard
}

// NewChatCommand creates a command for one chat exchange.
// The session id must be valid and the message non-empty.
func NewChatCommand(sessionID kernel.UUID, message string) (ChatCommand, error) {
	cmd := ChatCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setSessionID(sessionID),
		cmd.setMessage(message),
	); err != nil {
		return ChatCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ChatCommand) Validate() error {
	return c.guard.Validate(ErrChatCommandIsNotConstructed)
}

// SessionID returns the id of the conversation session.
func (c ChatCommand) SessionID() kernel.UUID {
	return c.sessionID
}

// Message returns the dispatcher's message text.
func (c ChatCommand) Message() string {
	return c.message
}

func (c *ChatCommand) setSessionID(sessionID kernel.UUID) error {
	if err := sessionID.Validate(); err != nil {
		return err
	}

	c.sessionID = sessionID
	return nil
}

func (c *ChatCommand) setMessage(message string) error {
	if message == "" {
		return errs.NewValueIsRequiredError("message")
	}

	c.message = message
	return nil
}
