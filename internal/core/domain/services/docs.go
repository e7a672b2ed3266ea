// Package services provides domain services that orchestrate business operations
// across multiple domain entities in the dispatcher system. It implements complex
// business workflows that don't naturally belong to a single aggregate root.
//
// The package includes:
//   - FeasibilityChecker: A domain service estimating whether an order could be
//     added to the current route within capacity and time constraints
//
// Domain services coordinate between aggregates, implementing business logic that
// spans multiple bounded contexts following Domain-Driven Design principles.
package services
