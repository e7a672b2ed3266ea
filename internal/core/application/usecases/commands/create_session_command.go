// Package commands contains the state-changing use cases of the dispatcher:
// opening a conversation session, moving sandbox orders between buckets, and
// running a chat exchange with the assistant. Each use case follows the
// Command pattern with separate command and handler types; commands validate
// their input at construction time.
package commands

import (
	"errors"

	"dispatcher/internal/core/domain/model/catalog"
	"dispatcher/internal/core/domain/model/kernel"
	"dispatcher/internal/core/domain/model/sandbox"
	"dispatcher/internal/pkg/errs"
	"dispatcher/internal/pkg/guard"
)

var ErrCreateSessionCommandIsNotConstructed = errors.New(
	"CreateSessionCommand must be created via NewCreateSessionCommand constructor",
)

// CreateSessionCommand represents a request to open a conversation session for
// one optimization run. It carries the run's immutable inputs and the
// optimizer's classified orders that seed the sandbox.
type CreateSessionCommand struct { //nolint:recvcheck //using for validation
	depotAddress string
	catalog      catalog.Catalog
	orders       []sandbox.Order
	matrix       kernel.TimeMatrix
	serviceTimes kernel.ServiceTimes
	constraints  kernel.RouteConstraints

	guard guard.ConstructorGuard
}

// NewCreateSessionCommand creates a command to open a session.
// The depot address must be non-empty and the catalog, matrix and constraints
// properly constructed. The sandbox orders themselves are validated when the
// handler assembles the sandbox.
func NewCreateSessionCommand(
	depotAddress string,
	cat catalog.Catalog,
	orders []sandbox.Order,
	matrix kernel.TimeMatrix,
	serviceTimes kernel.ServiceTimes,
	constraints kernel.RouteConstraints,
) (CreateSessionCommand, error) {
	cmd := CreateSessionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDepotAddress(depotAddress),
		cat.Validate(),
		matrix.Validate(),
		constraints.Validate(),
	); err != nil {
		return CreateSessionCommand{}, err
	}

	cmd.catalog = cat
	cmd.orders = orders
	cmd.matrix = matrix
	cmd.serviceTimes = serviceTimes
	cmd.constraints = constraints

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateSessionCommand) Validate() error {
	return c.guard.Validate(ErrCreateSessionCommandIsNotConstructed)
}

// DepotAddress returns the fulfillment location address.
func (c CreateSessionCommand) DepotAddress() string {
	return c.depotAddress
}

// Catalog returns the order catalog of the run.
func (c CreateSessionCommand) Catalog() catalog.Catalog {
	return c.catalog
}

// Orders returns the optimizer's classified orders.
func (c CreateSessionCommand) Orders() []sandbox.Order {
	return c.orders
}

// Matrix returns the travel time matrix of the run.
func (c CreateSessionCommand) Matrix() kernel.TimeMatrix {
	return c.matrix
}

// ServiceTimes returns the per-node unload durations of the run.
func (c CreateSessionCommand) ServiceTimes() kernel.ServiceTimes {
	return c.serviceTimes
}

// Constraints returns the vehicle capacity and delivery window of the run.
func (c CreateSessionCommand) Constraints() kernel.RouteConstraints {
	return c.constraints
}

func (c *CreateSessionCommand) setDepotAddress(depotAddress string) error {
	if depotAddress == "" {
		return errs.NewValueIsRequiredError("depotAddress")
	}

	c.depotAddress = depotAddress
	return nil
}
