package sandbox

import (
	"errors"

	"dispatcher/internal/core/domain/model/catalog"
	"dispatcher/internal/core/domain/model/kernel"
	"dispatcher/internal/pkg/errs"
	"dispatcher/internal/pkg/guard"
)

var (
	// ErrRouteStopIsNotConstructed is returned when attempting to use an
	// improperly initialized RouteStop. Use NewRouteStop.
	ErrRouteStopIsNotConstructed = errs.NewValueIsRequiredError(
		"route stop must be created via NewRouteStop constructor")

	// ErrSandboxOrderIsNotConstructed is returned when attempting to use an
	// improperly initialized Order. Use NewRoutedOrder or NewShelvedOrder.
	ErrSandboxOrderIsNotConstructed = errs.NewValueIsRequiredError(
		"sandbox order must be created via NewRoutedOrder or NewShelvedOrder constructors")
)

// RouteStop is the routing data a kept order carries: its travel matrix node,
// its 0-based position in the visiting sequence, and its estimated arrival in
// minutes from route start. An estimated arrival of 0 is a placeholder meaning
// the arrival has not been computed since the last mutation.
type RouteStop struct { //nolint:recvcheck //using for validation
	node             kernel.Node
	sequenceIndex    int
	estimatedArrival int

	guard guard.ConstructorGuard
}

// NewRouteStop creates a RouteStop. The node must be an order node (>= 1,
// node 0 is the depot), the sequence index must be non-negative, and the
// estimated arrival must be non-negative.
func NewRouteStop(node kernel.Node, sequenceIndex int, estimatedArrivalMinutes int) (RouteStop, error) {
	stop := RouteStop{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		stop.setNode(node),
		stop.setSequenceIndex(sequenceIndex),
		stop.setEstimatedArrival(estimatedArrivalMinutes),
	); err != nil {
		return RouteStop{}, err
	}

	return stop, nil
}

// Validate ensures the stop was created through the constructor.
func (s RouteStop) Validate() error {
	return s.guard.Validate(ErrRouteStopIsNotConstructed)
}

// Node returns the order's travel matrix node.
func (s RouteStop) Node() kernel.Node {
	return s.node
}

// SequenceIndex returns the 0-based position of the stop in the route.
func (s RouteStop) SequenceIndex() int {
	return s.sequenceIndex
}

// EstimatedArrivalMinutes returns the estimated arrival in minutes from route
// start, 0 when not yet computed.
func (s RouteStop) EstimatedArrivalMinutes() int {
	return s.estimatedArrival
}

func (s *RouteStop) setNode(node kernel.Node) error {
	if node < 1 {
		return errs.NewValueIsInvalidError("node must be an order node (>= 1)")
	}

	s.node = node
	return nil
}

func (s *RouteStop) setSequenceIndex(sequenceIndex int) error {
	if sequenceIndex < 0 {
		return errs.NewValueIsInvalidError("sequenceIndex cannot be negative")
	}

	s.sequenceIndex = sequenceIndex
	return nil
}

func (s *RouteStop) setEstimatedArrival(estimatedArrivalMinutes int) error {
	if estimatedArrivalMinutes < 0 {
		return errs.NewValueIsInvalidError("estimatedArrivalMinutes cannot be negative")
	}

	s.estimatedArrival = estimatedArrivalMinutes
	return nil
}

// Order is one order's disposition inside the sandbox. It pairs the immutable
// catalog record with a category and the dispatcher- or assistant-supplied
// reason for that disposition. Only the Keep variant carries a RouteStop;
// constructing any other variant with routing data is impossible, which is
// what keeps the "shelved orders have no route fields" invariant structural.
type Order struct {
	source   catalog.Order
	category Category
	reason   string
	stop     *RouteStop

	guard guard.ConstructorGuard
}

// NewRoutedOrder creates a sandbox order in the Keep category with its route stop.
func NewRoutedOrder(source catalog.Order, reason string, stop RouteStop) (Order, error) {
	if err := source.Validate(); err != nil {
		return Order{}, err
	}
	if err := stop.Validate(); err != nil {
		return Order{}, err
	}

	return Order{
		source:   source,
		category: Keep,
		reason:   reason,
		stop:     &stop,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// NewShelvedOrder creates a sandbox order in one of the non-route categories
// (Early, Reschedule or Cancel). Shelved orders carry no routing data.
func NewShelvedOrder(source catalog.Order, category Category, reason string) (Order, error) {
	if err := source.Validate(); err != nil {
		return Order{}, err
	}
	if err := category.Validate(); err != nil {
		return Order{}, err
	}
	if category == Keep {
		return Order{}, errs.NewValueIsInvalidError("category: kept orders must be created via NewRoutedOrder")
	}

	return Order{
		source:   source,
		category: category,
		reason:   reason,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the order was created through a constructor.
func (o Order) Validate() error {
	return o.guard.Validate(ErrSandboxOrderIsNotConstructed)
}

// Source returns the underlying catalog order.
func (o Order) Source() catalog.Order {
	return o.source
}

// ID returns the order identifier.
func (o Order) ID() string {
	return o.source.ID()
}

// Units returns the order size in capacity units.
func (o Order) Units() int {
	return o.source.Units()
}

// Category returns the order's current disposition.
func (o Order) Category() Category {
	return o.category
}

// Reason returns the explanation recorded for the current disposition.
func (o Order) Reason() string {
	return o.reason
}

// Stop returns the route stop of a kept order.
// The second return value is false for shelved orders.
func (o Order) Stop() (RouteStop, bool) {
	if o.stop == nil {
		return RouteStop{}, false
	}
	return *o.stop, true
}
