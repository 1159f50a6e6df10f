package commands

import (
	"errors"

	"marketplace/internal/pkg/guard"
)

var ErrMatchRidersCommandIsNotConstructed = errors.New(
	"MatchRidersCommand must be created via NewMatchRidersCommand constructor",
)

// MatchRidersCommand triggers one matching round over the pending deliveries.
// The scheduler issues it every second; it carries no parameters of its own.
type MatchRidersCommand struct {
	guard guard.ConstructorGuard
}

// NewMatchRidersCommand creates a matching round command.
func NewMatchRidersCommand() MatchRidersCommand {
	return MatchRidersCommand{guard: guard.NewConstructorGuard()}
}

// Validate ensures the command was created through the constructor.
func (c MatchRidersCommand) Validate() error {
	return c.guard.Validate(ErrMatchRidersCommandIsNotConstructed)
}
