package services

import (
	"errors"
	"fmt"

	"dispatcher/internal/core/domain/model/catalog"
	"dispatcher/internal/core/domain/model/kernel"
	"dispatcher/internal/core/domain/model/sandbox"
)

// defaultCandidateServiceMinutes is assumed for a candidate stop whose node
// has no recorded service time.
const defaultCandidateServiceMinutes = 3

// Verdict classifies the outcome of a feasibility check.
type Verdict int

const (
	// VerdictNotFound means the order is in no sandbox bucket.
	VerdictNotFound Verdict = iota
	// VerdictAlreadyKept means the order is already on the route.
	VerdictAlreadyKept
	// VerdictFeasible means both capacity and time allow adding the order.
	VerdictFeasible
	// VerdictQuestionable means capacity allows it but time is tight.
	VerdictQuestionable
	// VerdictNotFeasible means capacity forbids it. Capacity dominates:
	// a capacity violation is NotFeasible regardless of time.
	VerdictNotFeasible
)

// String returns the dispatcher-facing name of the verdict.
func (v Verdict) String() string {
	switch v {
	case VerdictNotFound:
		return "NOT_FOUND"
	case VerdictAlreadyKept:
		return "ALREADY_KEPT"
	case VerdictFeasible:
		return "FEASIBLE"
	case VerdictQuestionable:
		return "QUESTIONABLE"
	case VerdictNotFeasible:
		return "NOT_FEASIBLE"
	default:
		return "UNKNOWN"
	}
}

// FeasibilityReport is the result of asking whether an order could be added
// to the route. The numeric fields are only meaningful for the three
// computed verdicts (Feasible, Questionable, NotFeasible).
type FeasibilityReport struct {
	OrderID string
	Verdict Verdict

	RequiredUnits          int
	RemainingCapacityUnits int
	CurrentRouteMinutes    int
	RemainingMinutes       int
	EstimatedMinutes       int

	CapacityOK   bool
	TimeOK       bool
	NodeResolved bool
}

// Summary renders the dispatcher-facing analysis text for the report.
// The text is relayed verbatim to the assistant as a tool result.
func (r FeasibilityReport) Summary() string {
	switch r.Verdict {
	case VerdictNotFound:
		return fmt.Sprintf("❌ Order #%s not found.", r.OrderID)
	case VerdictAlreadyKept:
		return fmt.Sprintf("ℹ️ Order #%s is already in the route (KEEP status).", r.OrderID)
	}

	capacityMsg := fmt.Sprintf("Capacity: %d units needed, %d units available",
		r.RequiredUnits, r.RemainingCapacityUnits)
	if r.CapacityOK {
		capacityMsg += " ✅"
	} else {
		capacityMsg += fmt.Sprintf(" ❌ (exceeds by %d units)", r.RequiredUnits-r.RemainingCapacityUnits)
	}

	var timeMsg string
	if r.NodeResolved {
		timeMsg = fmt.Sprintf("Time: ~%d min estimated (round trip), %d min available",
			r.EstimatedMinutes, r.RemainingMinutes)
		if r.TimeOK {
			timeMsg += " ✅"
		} else {
			timeMsg += fmt.Sprintf(" ❌ (exceeds by ~%d min)", r.EstimatedMinutes-r.RemainingMinutes)
		}
	} else {
		timeMsg = "Time: Could not estimate (order node not found)"
	}

	switch r.Verdict {
	case VerdictFeasible:
		return fmt.Sprintf(
			"\n\n✅ **FEASIBLE**: Order #%s can likely be added to the route.\n%s\n%s\n\n"+
				"Note: This is an estimate. Actual route time depends on optimal sequencing.",
			r.OrderID, capacityMsg, timeMsg)
	case VerdictQuestionable:
		return fmt.Sprintf(
			"\n\n⚠️ **QUESTIONABLE**: Order #%s might fit, but time is tight.\n%s\n%s\n\n"+
				"Consider removing another order first to free up time.",
			r.OrderID, capacityMsg, timeMsg)
	default:
		return fmt.Sprintf(
			"\n\n❌ **NOT FEASIBLE**: Order #%s cannot be added.\n%s\n%s\n\n"+
				"You must remove other orders first to free up capacity.",
			r.OrderID, capacityMsg, timeMsg)
	}
}

// FeasibilityChecker is a domain service answering "could this order be added
// to the route?" without touching the sandbox. The check is an estimate: the
// candidate is costed as a round trip from the depot plus its service time,
// not as an optimally re-sequenced insertion.
//
// Example:
//
//	checker := services.NewFeasibilityChecker()
//	report, err := checker.Check("70610", sb, cat, matrix, serviceTimes, constraints)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(report.Summary())
type FeasibilityChecker struct{}

// NewFeasibilityChecker creates a FeasibilityChecker.
func NewFeasibilityChecker() FeasibilityChecker {
	return FeasibilityChecker{}
}

// Check computes a feasibility report for adding an order to the route.
//
// The shelf buckets (EARLY, RESCHEDULE, CANCEL) are searched first; an order
// found on the route instead yields VerdictAlreadyKept without computation,
// and an order in no bucket yields VerdictNotFound.
//
// For a shelved candidate the report compares its units against remaining
// capacity, and a round-trip time estimate (2 x depot travel + service time,
// defaulting to 3 minutes when unrecorded) against the minutes left in the
// delivery window after the current route. A candidate whose node cannot be
// resolved, or whose depot leg lies outside the matrix, fails the time check.
// Capacity dominates: a capacity violation is NOT_FEASIBLE even when time
// also fails.
func (c FeasibilityChecker) Check(
	orderID string,
	sb *sandbox.Sandbox,
	cat catalog.Catalog,
	matrix kernel.TimeMatrix,
	serviceTimes kernel.ServiceTimes,
	constraints kernel.RouteConstraints,
) (FeasibilityReport, error) {
	if err := errors.Join(
		sb.Validate(), cat.Validate(), matrix.Validate(), constraints.Validate(),
	); err != nil {
		return FeasibilityReport{}, err
	}

	found, ok := sb.Find(orderID)
	if !ok {
		return FeasibilityReport{OrderID: orderID, Verdict: VerdictNotFound}, nil
	}
	if found.Category() == sandbox.Keep {
		return FeasibilityReport{OrderID: orderID, Verdict: VerdictAlreadyKept}, nil
	}

	report := FeasibilityReport{
		OrderID:       orderID,
		RequiredUnits: found.Units(),
	}

	usedUnits := sb.KeptUnits()
	report.RemainingCapacityUnits = constraints.CapacityUnits() - usedUnits
	report.CapacityOK = report.RequiredUnits <= report.RemainingCapacityUnits

	report.CurrentRouteMinutes = sb.RouteTimeMinutes(matrix, serviceTimes)
	report.RemainingMinutes = constraints.WindowMinutes() - report.CurrentRouteMinutes

	node, nodeErr := cat.NodeOf(orderID)
	if nodeErr == nil {
		depotLeg, travelErr := matrix.Travel(kernel.DepotNode, node)
		if travelErr == nil {
			report.NodeResolved = true

			serviceMinutes := defaultCandidateServiceMinutes
			if serviceTimes.Has(node) {
				serviceMinutes = serviceTimes.At(node)
			}
			report.EstimatedMinutes = 2*depotLeg + serviceMinutes
			report.TimeOK = report.EstimatedMinutes <= report.RemainingMinutes
		}
	}

	switch {
	case report.CapacityOK && report.TimeOK:
		report.Verdict = VerdictFeasible
	case report.CapacityOK:
		report.Verdict = VerdictQuestionable
	default:
		report.Verdict = VerdictNotFeasible
	}

	return report, nil
}
