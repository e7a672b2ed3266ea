package kernel

import (
	"errors"

	"dispatcher/internal/pkg/errs"
	"dispatcher/internal/pkg/guard"
)

// ErrRouteConstraintsAreNotConstructed is returned when attempting to use
// improperly initialized RouteConstraints. Use NewRouteConstraints.
var ErrRouteConstraintsAreNotConstructed = errs.NewValueIsRequiredError(
	"route constraints must be created via NewRouteConstraints constructor")

// RouteConstraints is an immutable value object carrying the physical limits
// of a single delivery run: how many units the vehicle holds and how many
// minutes the delivery window spans.
type RouteConstraints struct { //nolint:recvcheck //using for validation
	capacityUnits int
	windowMinutes int

	guard guard.ConstructorGuard
}

// NewRouteConstraints creates RouteConstraints with a positive vehicle
// capacity in units and a positive delivery window in minutes.
func NewRouteConstraints(capacityUnits int, windowMinutes int) (RouteConstraints, error) {
	constraints := RouteConstraints{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		constraints.setCapacityUnits(capacityUnits),
		constraints.setWindowMinutes(windowMinutes),
	); err != nil {
		return RouteConstraints{}, err
	}

	return constraints, nil
}

// Validate checks that the constraints were created via NewRouteConstraints.
func (c RouteConstraints) Validate() error {
	return c.guard.Validate(ErrRouteConstraintsAreNotConstructed)
}

// CapacityUnits returns the vehicle capacity in units.
func (c RouteConstraints) CapacityUnits() int {
	return c.capacityUnits
}

// WindowMinutes returns the delivery window length in minutes.
func (c RouteConstraints) WindowMinutes() int {
	return c.windowMinutes
}

func (c *RouteConstraints) setCapacityUnits(capacityUnits int) error {
	if capacityUnits <= 0 {
		return errs.NewValueIsInvalidError("capacityUnits must be greater than 0")
	}

	c.capacityUnits = capacityUnits
	return nil
}

func (c *RouteConstraints) setWindowMinutes(windowMinutes int) error {
	if windowMinutes <= 0 {
		return errs.NewValueIsInvalidError("windowMinutes must be greater than 0")
	}

	c.windowMinutes = windowMinutes
	return nil
}
