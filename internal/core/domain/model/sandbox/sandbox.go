// Package sandbox implements the dispatcher sandbox: the mutable working copy
// of an optimization result that a dispatcher adjusts through conversation.
// Each order in the catalog sits in exactly one of four buckets (KEEP, EARLY,
// RESCHEDULE, CANCEL); moving orders between buckets is the only mutation.
package sandbox

import (
	"errors"
	"fmt"
	"sort"

	"dispatcher/internal/core/domain/model/catalog"
	"dispatcher/internal/core/domain/model/kernel"
	"dispatcher/internal/pkg/errs"
	"dispatcher/internal/pkg/guard"
)

var (
	// ErrSandboxIsNotConstructed is returned when attempting to use an
	// improperly initialized Sandbox. Use NewSandbox.
	ErrSandboxIsNotConstructed = errs.NewValueIsRequiredError(
		"sandbox must be created via NewSandbox constructor")

	// ErrCapacityExceeded is the sentinel for capacity rejections when moving
	// an order into the route.
	ErrCapacityExceeded = errors.New("vehicle capacity exceeded")

	// ErrNodeUnresolved is the sentinel for orders whose travel matrix node
	// cannot be resolved through the catalog.
	ErrNodeUnresolved = errors.New("order node unresolved")
)

// CapacityExceededError reports that adding an order to the route would
// overflow the vehicle. It carries the numbers needed to tell the dispatcher
// by exactly how much.
type CapacityExceededError struct {
	OrderID       string
	RequiredUnits int
	UsedUnits     int
	CapacityUnits int
}

// OverflowUnits returns how many units over capacity the move would go.
func (e *CapacityExceededError) OverflowUnits() int {
	return e.UsedUnits + e.RequiredUnits - e.CapacityUnits
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("%s: order %s needs %d units, route uses %d/%d",
		ErrCapacityExceeded, e.OrderID, e.RequiredUnits, e.UsedUnits, e.CapacityUnits)
}

func (e *CapacityExceededError) Unwrap() error {
	return ErrCapacityExceeded
}

// NodeUnresolvedError reports that an order present in the sandbox could not
// be resolved to a travel matrix node through the catalog.
type NodeUnresolvedError struct {
	OrderID string
	Cause   error
}

func (e *NodeUnresolvedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: order %s (cause: %s)", ErrNodeUnresolved, e.OrderID, e.Cause)
	}
	return fmt.Sprintf("%s: order %s", ErrNodeUnresolved, e.OrderID)
}

func (e *NodeUnresolvedError) Unwrap() error {
	return ErrNodeUnresolved
}

// MoveResult describes the outcome of a successful MoveOrder call.
type MoveResult struct {
	// From is the bucket the order was found in.
	From Category
	// To is the requested target bucket.
	To Category
	// NoOp is true when the order already sat in the target bucket and the
	// sandbox was left untouched.
	NoOp bool
}

// Sandbox is the mutable working copy of an optimization result.
//
// Invariants, maintained by construction and by MoveOrder:
//   - an order id appears in at most one bucket;
//   - every kept order carries a RouteStop, shelved orders never do;
//   - kept orders' sequence indexes are contiguous 0..n-1 in visiting order.
//
// Sandbox is not safe for concurrent use. Callers serialize access per
// conversation; see the session aggregate.
type Sandbox struct {
	kept       []Order
	early      []Order
	reschedule []Order
	cancelled  []Order

	guard guard.ConstructorGuard
}

// NewSandbox creates a sandbox from the optimizer's classified orders.
// Orders are distributed into buckets by their category. Kept orders are
// stored in visiting order and their sequence indexes must form the
// contiguous range 0..n-1. Duplicate order ids are rejected.
func NewSandbox(orders []Order) (*Sandbox, error) {
	s := &Sandbox{
		guard: guard.NewConstructorGuard(),
	}

	seen := make(map[string]struct{}, len(orders))
	for _, o := range orders {
		if err := o.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[o.ID()]; dup {
			return nil, errs.NewValueIsInvalidError(
				fmt.Sprintf("orders: order %s appears in more than one bucket", o.ID()))
		}
		seen[o.ID()] = struct{}{}

		switch o.Category() {
		case Keep:
			s.kept = append(s.kept, o)
		case Early:
			s.early = append(s.early, o)
		case Reschedule:
			s.reschedule = append(s.reschedule, o)
		case Cancel:
			s.cancelled = append(s.cancelled, o)
		default:
			return nil, errs.NewValueIsInvalidError("orders: unknown category")
		}
	}

	sort.SliceStable(s.kept, func(i, j int) bool {
		a, _ := s.kept[i].Stop()
		b, _ := s.kept[j].Stop()
		return a.SequenceIndex() < b.SequenceIndex()
	})
	for i, o := range s.kept {
		stop, _ := o.Stop()
		if stop.SequenceIndex() != i {
			return nil, errs.NewValueIsInvalidError(
				fmt.Sprintf("orders: kept sequence indexes must be contiguous, got %d at position %d",
					stop.SequenceIndex(), i))
		}
	}

	return s, nil
}

// Validate checks that the sandbox was created via NewSandbox.
func (s *Sandbox) Validate() error {
	return s.guard.Validate(ErrSandboxIsNotConstructed)
}

// Kept returns a copy of the route bucket in visiting order.
func (s *Sandbox) Kept() []Order {
	return copyOrders(s.kept)
}

// Early returns a copy of the early delivery bucket.
func (s *Sandbox) Early() []Order {
	return copyOrders(s.early)
}

// Rescheduled returns a copy of the reschedule bucket.
func (s *Sandbox) Rescheduled() []Order {
	return copyOrders(s.reschedule)
}

// Cancelled returns a copy of the cancel bucket.
func (s *Sandbox) Cancelled() []Order {
	return copyOrders(s.cancelled)
}

// AllOrders returns a copy of every sandbox order in bucket scan order
// (KEEP, EARLY, RESCHEDULE, CANCEL).
func (s *Sandbox) AllOrders() []Order {
	all := make([]Order, 0, len(s.kept)+len(s.early)+len(s.reschedule)+len(s.cancelled))
	all = append(all, s.kept...)
	all = append(all, s.early...)
	all = append(all, s.reschedule...)
	all = append(all, s.cancelled...)
	return all
}

// Find locates an order by id, scanning buckets in the fixed order
// KEEP, EARLY, RESCHEDULE, CANCEL.
func (s *Sandbox) Find(orderID string) (Order, bool) {
	for _, bucket := range [][]Order{s.kept, s.early, s.reschedule, s.cancelled} {
		for _, o := range bucket {
			if o.ID() == orderID {
				return o, true
			}
		}
	}
	return Order{}, false
}

// KeptUnits returns the capacity units currently used by the route.
func (s *Sandbox) KeptUnits() int {
	units := 0
	for _, o := range s.kept {
		units += o.Units()
	}
	return units
}

// DriveTimeMinutes computes the driving time of the current route:
// depot to first stop, consecutive legs, and last stop back to depot.
// Legs whose nodes fall outside the matrix contribute zero minutes.
func (s *Sandbox) DriveTimeMinutes(matrix kernel.TimeMatrix) int {
	if len(s.kept) == 0 {
		return 0
	}

	nodes := make([]kernel.Node, len(s.kept))
	for i, o := range s.kept {
		stop, _ := o.Stop()
		nodes[i] = stop.Node()
	}

	total := travelOrZero(matrix, kernel.DepotNode, nodes[0])
	for i := 0; i < len(nodes)-1; i++ {
		total += travelOrZero(matrix, nodes[i], nodes[i+1])
	}
	total += travelOrZero(matrix, nodes[len(nodes)-1], kernel.DepotNode)

	return total
}

// ServiceTimeMinutes sums the recorded unload durations of all kept stops.
// Stops without a recorded duration contribute zero minutes.
func (s *Sandbox) ServiceTimeMinutes(serviceTimes kernel.ServiceTimes) int {
	total := 0
	for _, o := range s.kept {
		stop, _ := o.Stop()
		total += serviceTimes.At(stop.Node())
	}
	return total
}

// RouteTimeMinutes computes the full route time: drive time plus service time.
func (s *Sandbox) RouteTimeMinutes(matrix kernel.TimeMatrix, serviceTimes kernel.ServiceTimes) int {
	return s.DriveTimeMinutes(matrix) + s.ServiceTimeMinutes(serviceTimes)
}

// MoveOrder moves an order to the target bucket, recording the supplied
// reason on the moved copy.
//
// Failure modes, each leaving the sandbox unchanged:
//   - the order id is in no bucket: ObjectNotFoundError;
//   - the target is KEEP and the order would overflow the vehicle:
//     CapacityExceededError (capacity is the only constraint checked at move
//     time; the time window is advisory and checked by the feasibility service);
//   - the target is KEEP and the order has no catalog node: NodeUnresolvedError.
//
// Moving an order to its current bucket is a successful no-op.
//
// A move into KEEP appends the order at the route tail with sequence index
// len(kept-before-append) and a zero estimated arrival placeholder. A move
// out of KEEP reindexes the remaining route to keep sequence indexes
// contiguous.
func (s *Sandbox) MoveOrder(
	orderID string,
	target Category,
	reason string,
	cat catalog.Catalog,
	constraints kernel.RouteConstraints,
) (MoveResult, error) {
	if err := errors.Join(s.Validate(), target.Validate(), constraints.Validate()); err != nil {
		return MoveResult{}, err
	}

	found, ok := s.Find(orderID)
	if !ok {
		return MoveResult{}, errs.NewObjectNotFoundError("orderID", orderID)
	}
	current := found.Category()

	if current == target {
		return MoveResult{From: current, To: target, NoOp: true}, nil
	}

	var node kernel.Node
	if target == Keep {
		if used := s.KeptUnits(); used+found.Units() > constraints.CapacityUnits() {
			return MoveResult{}, &CapacityExceededError{
				OrderID:       orderID,
				RequiredUnits: found.Units(),
				UsedUnits:     used,
				CapacityUnits: constraints.CapacityUnits(),
			}
		}

		resolved, err := cat.NodeOf(orderID)
		if err != nil {
			return MoveResult{}, &NodeUnresolvedError{OrderID: orderID, Cause: err}
		}
		node = resolved
	}

	var moved Order
	var err error
	if target == Keep {
		// Sequence index is the route length before the append; the order
		// is removed from a shelf bucket, so the route length is unaffected
		// by the removal.
		stop, stopErr := NewRouteStop(node, len(s.kept), 0)
		if stopErr != nil {
			return MoveResult{}, stopErr
		}
		moved, err = NewRoutedOrder(found.Source(), reason, stop)
	} else {
		moved, err = NewShelvedOrder(found.Source(), target, reason)
	}
	if err != nil {
		return MoveResult{}, err
	}

	s.removeFromBucket(orderID, current)
	s.appendToBucket(moved)

	return MoveResult{From: current, To: target}, nil
}

func (s *Sandbox) removeFromBucket(orderID string, category Category) {
	remove := func(bucket []Order) []Order {
		filtered := bucket[:0]
		for _, o := range bucket {
			if o.ID() != orderID {
				filtered = append(filtered, o)
			}
		}
		return filtered
	}

	switch category {
	case Keep:
		s.kept = remove(s.kept)
		s.reindexRoute()
	case Early:
		s.early = remove(s.early)
	case Reschedule:
		s.reschedule = remove(s.reschedule)
	case Cancel:
		s.cancelled = remove(s.cancelled)
	case Unknown:
	}
}

func (s *Sandbox) appendToBucket(o Order) {
	switch o.Category() {
	case Keep:
		s.kept = append(s.kept, o)
	case Early:
		s.early = append(s.early, o)
	case Reschedule:
		s.reschedule = append(s.reschedule, o)
	case Cancel:
		s.cancelled = append(s.cancelled, o)
	case Unknown:
	}
}

// reindexRoute restores the contiguous 0..n-1 sequence after a removal from
// the route. Estimated arrivals are left as they were; they are placeholders
// until the route is re-optimized.
func (s *Sandbox) reindexRoute() {
	for i, o := range s.kept {
		stop, _ := o.Stop()
		if stop.SequenceIndex() == i {
			continue
		}

		newStop, err := NewRouteStop(stop.Node(), i, stop.EstimatedArrivalMinutes())
		if err != nil {
			continue
		}
		reindexed, err := NewRoutedOrder(o.Source(), o.Reason(), newStop)
		if err != nil {
			continue
		}
		s.kept[i] = reindexed
	}
}

func copyOrders(orders []Order) []Order {
	copied := make([]Order, len(orders))
	copy(copied, orders)
	return copied
}

func travelOrZero(matrix kernel.TimeMatrix, from kernel.Node, to kernel.Node) int {
	minutes, err := matrix.Travel(from, to)
	if err != nil {
		return 0
	}
	return minutes
}
