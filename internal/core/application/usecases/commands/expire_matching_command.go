package commands

import (
	"errors"
	"time"

	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrExpireMatchingCommandIsNotConstructed = errors.New(
	"ExpireMatchingCommand must be created via NewExpireMatchingCommand constructor",
)

// ExpireMatchingCommand sweeps the deliveries whose matching window elapsed
// without any rider accepting them.
type ExpireMatchingCommand struct {
	now    time.Time
	window time.Duration

	guard guard.ConstructorGuard
}

// NewExpireMatchingCommand creates a sweep command for the given moment and
// matching window.
func NewExpireMatchingCommand(now time.Time, window time.Duration) (ExpireMatchingCommand, error) {
	if now.IsZero() {
		return ExpireMatchingCommand{}, errs.NewValueIsRequiredError("now")
	}
	if window <= 0 {
		return ExpireMatchingCommand{}, errs.NewValueIsInvalidError("matching window")
	}
	return ExpireMatchingCommand{
		now:    now,
		window: window,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ExpireMatchingCommand) Validate() error {
	return c.guard.Validate(ErrExpireMatchingCommandIsNotConstructed)
}

// Now returns the moment the sweep measures against.
func (c ExpireMatchingCommand) Now() time.Time { return c.now }

// Window returns how long a delivery may wait for a rider.
func (c ExpireMatchingCommand) Window() time.Duration { return c.window }
