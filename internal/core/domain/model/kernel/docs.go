// Package kernel provides core domain primitives and utilities for the dispatcher system.
// It implements fundamental building blocks following Domain-Driven Design principles
// that are used throughout the domain model.
//
// The package includes:
//   - UUID: A value object for unique identifiers with validation and comparison capabilities
//   - Node: An index into the travel time matrix, with node 0 reserved for the depot
//   - TimeMatrix: A validated square matrix of travel minutes between route nodes
//   - ServiceTimes: Per-node unload durations with a zero default for unrecorded nodes
//   - RouteConstraints: The vehicle capacity and delivery window limits of a run
//
// These primitives enforce domain invariants and validation rules, ensuring that
// domain objects are always in a valid state. They are designed to be immutable
// and thread-safe, making them suitable for concurrent use.
//
// The package follows Domain-Driven Design best practices, providing rich domain
// behavior and encapsulation of implementation details.
package kernel
