package kernel

import (
	"dispatcher/internal/pkg/errs"
	"dispatcher/internal/pkg/guard"
)

// Node is an index into the travel time matrix.
// Node 0 is always the depot; order nodes start at 1 and correspond to
// catalog positions (catalog index + 1).
type Node int

// DepotNode is the matrix index of the fulfillment location.
const DepotNode Node = 0

// ErrTimeMatrixIsNotConstructed is returned when attempting to use an improperly
// initialized TimeMatrix. Matrices must be created via NewTimeMatrix.
var ErrTimeMatrixIsNotConstructed = errs.NewValueIsRequiredError(
	"time matrix must be created via NewTimeMatrix constructor")

// TimeMatrix is an immutable square matrix of travel times in minutes between
// route nodes. Row index is the origin node, column index is the destination
// node. The matrix is not assumed to be symmetric: one-way streets and turn
// restrictions make Travel(a, b) and Travel(b, a) legitimately different.
//
// Example:
//
//	matrix, err := kernel.NewTimeMatrix([][]int{
//	    {0, 10, 15},
//	    {12, 0, 5},
//	    {14, 6, 0},
//	})
//	if err != nil {
//	    // handle validation error
//	}
//	minutes, _ := matrix.Travel(kernel.DepotNode, 1) // 10
type TimeMatrix struct {
	minutes [][]int
	guard   guard.ConstructorGuard
}

// NewTimeMatrix creates a TimeMatrix from a row-major minutes table.
// The table must be non-empty and square, and every entry must be non-negative.
// The input is copied, so later mutation of the argument does not affect the matrix.
func NewTimeMatrix(minutes [][]int) (TimeMatrix, error) {
	if len(minutes) == 0 {
		return TimeMatrix{}, errs.NewValueIsRequiredError("minutes")
	}

	size := len(minutes)
	rows := make([][]int, size)
	for i, row := range minutes {
		if len(row) != size {
			return TimeMatrix{}, errs.NewValueIsInvalidError("minutes: matrix must be square")
		}
		for _, v := range row {
			if v < 0 {
				return TimeMatrix{}, errs.NewValueIsInvalidError("minutes: travel time cannot be negative")
			}
		}
		rows[i] = make([]int, size)
		copy(rows[i], row)
	}

	return TimeMatrix{
		minutes: rows,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate checks that the matrix was created via NewTimeMatrix.
func (m TimeMatrix) Validate() error {
	return m.guard.Validate(ErrTimeMatrixIsNotConstructed)
}

// Size returns the number of nodes covered by the matrix, including the depot.
func (m TimeMatrix) Size() int {
	return len(m.minutes)
}

// Travel returns the travel time in minutes from one node to another.
// Returns a range error when either node is outside the matrix.
func (m TimeMatrix) Travel(from Node, to Node) (int, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}

	size := Node(len(m.minutes))
	if from < 0 || from >= size {
		return 0, errs.NewValueIsOutOfRangeError("from", int(from), 0, int(size)-1)
	}
	if to < 0 || to >= size {
		return 0, errs.NewValueIsOutOfRangeError("to", int(to), 0, int(size)-1)
	}

	return m.minutes[from][to], nil
}

// ServiceTimes holds per-node unload durations in minutes.
// The zero value is valid and reports every node as unrecorded.
// Nodes without a recorded duration contribute zero minutes, which keeps
// route time math total even for sparse inputs.
type ServiceTimes struct {
	minutes []int
}

// NewServiceTimes creates ServiceTimes from a slice indexed by node.
// Durations must be non-negative. The input is copied.
func NewServiceTimes(minutes []int) (ServiceTimes, error) {
	for _, v := range minutes {
		if v < 0 {
			return ServiceTimes{}, errs.NewValueIsInvalidError("minutes: service time cannot be negative")
		}
	}

	copied := make([]int, len(minutes))
	copy(copied, minutes)
	return ServiceTimes{minutes: copied}, nil
}

// At returns the recorded service time for a node, or 0 when the node has
// no recording or lies outside the slice.
func (s ServiceTimes) At(node Node) int {
	if !s.Has(node) {
		return 0
	}
	return s.minutes[node]
}

// Has reports whether a service time was recorded for the node.
func (s ServiceTimes) Has(node Node) bool {
	return node >= 0 && int(node) < len(s.minutes)
}
