// Package catalog holds the immutable order list of an optimization run.
// The catalog position of an order determines its node in the travel time
// matrix: node = position + 1, because node 0 is the depot.
package catalog

import (
	"fmt"

	"dispatcher/internal/core/domain/model/kernel"
	"dispatcher/internal/pkg/errs"
	"dispatcher/internal/pkg/guard"
)

// ErrCatalogIsNotConstructed is returned when attempting to use an improperly
// initialized Catalog. Catalogs must be created via NewCatalog.
var ErrCatalogIsNotConstructed = errs.NewValueIsRequiredError(
	"catalog must be created via NewCatalog constructor")

// Catalog is the ordered, immutable list of orders that the route optimizer
// processed. Order positions are fixed for the lifetime of the run, which is
// what makes the position-to-node mapping stable.
type Catalog struct {
	orders   []Order
	position map[string]int

	guard guard.ConstructorGuard
}

// NewCatalog creates a catalog from an ordered list of orders.
// Every order must be valid and order identifiers must be unique.
// An empty catalog is allowed: a run can end with no deliverable orders.
func NewCatalog(orders []Order) (Catalog, error) {
	position := make(map[string]int, len(orders))
	copied := make([]Order, len(orders))

	for i, order := range orders {
		if err := order.Validate(); err != nil {
			return Catalog{}, err
		}
		if _, exists := position[order.ID()]; exists {
			return Catalog{}, errs.NewValueIsInvalidError(
				fmt.Sprintf("orders: duplicate order id %s", order.ID()))
		}
		position[order.ID()] = i
		copied[i] = order
	}

	return Catalog{
		orders:   copied,
		position: position,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate checks that the catalog was created via NewCatalog.
func (c Catalog) Validate() error {
	return c.guard.Validate(ErrCatalogIsNotConstructed)
}

// Len returns the number of orders in the catalog.
func (c Catalog) Len() int {
	return len(c.orders)
}

// Orders returns a copy of the catalog's order list in catalog order.
func (c Catalog) Orders() []Order {
	copied := make([]Order, len(c.orders))
	copy(copied, c.orders)
	return copied
}

// Get retrieves an order by its identifier.
// Returns an ObjectNotFoundError when the order is not in the catalog.
func (c Catalog) Get(orderID string) (Order, error) {
	if err := c.Validate(); err != nil {
		return Order{}, err
	}

	i, ok := c.position[orderID]
	if !ok {
		return Order{}, errs.NewObjectNotFoundError("orderID", orderID)
	}
	return c.orders[i], nil
}

// NodeOf resolves the travel matrix node of an order: catalog position + 1.
// Returns an ObjectNotFoundError when the order is not in the catalog.
func (c Catalog) NodeOf(orderID string) (kernel.Node, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}

	i, ok := c.position[orderID]
	if !ok {
		return 0, errs.NewObjectNotFoundError("orderID", orderID)
	}
	return kernel.Node(i + 1), nil
}
