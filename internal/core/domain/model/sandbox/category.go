package sandbox

import (
	"dispatcher/internal/pkg/errs"
)

// Category is the disposition of an order inside the dispatcher sandbox.
// The zero value Unknown is invalid; sandbox orders always carry one of the
// four named categories.
type Category int

const (
	// Unknown is the invalid zero value.
	Unknown Category = iota
	// Keep marks an order as part of the planned route.
	Keep
	// Early marks an order for delivery ahead of its window.
	Early
	// Reschedule marks an order for a different delivery window.
	Reschedule
	// Cancel marks an order as dropped from delivery.
	Cancel
)

var categoryNames = map[Category]string{
	Keep:       "KEEP",
	Early:      "EARLY",
	Reschedule: "RESCHEDULE",
	Cancel:     "CANCEL",
}

var categoryValues = map[string]Category{
	"KEEP":       Keep,
	"EARLY":      Early,
	"RESCHEDULE": Reschedule,
	"CANCEL":     Cancel,
}

// actionVerbs are the confirmation phrases echoed to the dispatcher after a
// successful move into each category.
var actionVerbs = map[Category]string{
	Keep:       "added to route",
	Early:      "moved to early delivery",
	Reschedule: "moved to reschedule",
	Cancel:     "removed from route (cancelled)",
}

// CategoryFromString parses the wire representation of a category
// ("KEEP", "EARLY", "RESCHEDULE", "CANCEL").
func CategoryFromString(s string) (Category, error) {
	category, ok := categoryValues[s]
	if !ok {
		return Unknown, errs.NewValueIsInvalidError("category: " + s)
	}
	return category, nil
}

// Validate checks that the category is one of the four named values.
func (c Category) Validate() error {
	if _, ok := categoryNames[c]; !ok {
		return errs.NewValueIsInvalidError("category")
	}
	return nil
}

// String returns the wire representation of the category, or "UNKNOWN"
// for invalid values.
func (c Category) String() string {
	name, ok := categoryNames[c]
	if !ok {
		return "UNKNOWN"
	}
	return name
}

// ActionVerb returns the confirmation phrase for a move into this category,
// or an empty string for invalid values.
func (c Category) ActionVerb() string {
	return actionVerbs[c]
}
