package catalog

import (
	"errors"

	"dispatcher/internal/pkg/errs"
	"dispatcher/internal/pkg/guard"
)

// ErrOrderIsNotConstructed is returned when attempting to use an improperly
// initialized Order. Orders must be created via NewOrder.
var ErrOrderIsNotConstructed = errs.NewValueIsRequiredError(
	"catalog order must be created via NewOrder constructor")

// Order is the immutable source-of-truth record for a single delivery order
// within an optimization run. Orders never change while the dispatcher works
// in the sandbox; the sandbox only changes how each order is handled.
//
// Order identifiers are opaque strings assigned upstream (e.g. "70509").
//
// Example:
//
//	order, err := catalog.NewOrder("70509", "Jane Miller", "12 Oak St", 10, true)
//	if err != nil {
//	    return fmt.Errorf("invalid order: %w", err)
//	}
type Order struct { //nolint:recvcheck //using for validation
	id              string
	customerName    string
	deliveryAddress string
	units           int
	earlyDeliveryOK bool

	guard guard.ConstructorGuard
}

// NewOrder creates a catalog order.
// The identifier, customer name and delivery address must be non-empty,
// and the unit count must be positive.
func NewOrder(
	id string,
	customerName string,
	deliveryAddress string,
	units int,
	earlyDeliveryOK bool,
) (Order, error) {
	order := Order{
		earlyDeliveryOK: earlyDeliveryOK,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		order.setID(id),
		order.setCustomerName(customerName),
		order.setDeliveryAddress(deliveryAddress),
		order.setUnits(units),
	); err != nil {
		return Order{}, err
	}

	return order, nil
}

// Validate ensures the order was created through the constructor.
func (o Order) Validate() error {
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// ID returns the upstream order identifier.
func (o Order) ID() string {
	return o.id
}

// CustomerName returns the name of the customer receiving the order.
func (o Order) CustomerName() string {
	return o.customerName
}

// DeliveryAddress returns the delivery destination address.
func (o Order) DeliveryAddress() string {
	return o.deliveryAddress
}

// Units returns the order size in capacity units.
func (o Order) Units() int {
	return o.units
}

// EarlyDeliveryOK reports whether the customer approved early delivery.
func (o Order) EarlyDeliveryOK() bool {
	return o.earlyDeliveryOK
}

func (o *Order) setID(id string) error {
	if id == "" {
		return errs.NewValueIsRequiredError("id")
	}

	o.id = id
	return nil
}

func (o *Order) setCustomerName(customerName string) error {
	if customerName == "" {
		return errs.NewValueIsRequiredError("customerName")
	}

	o.customerName = customerName
	return nil
}

func (o *Order) setDeliveryAddress(deliveryAddress string) error {
	if deliveryAddress == "" {
		return errs.NewValueIsRequiredError("deliveryAddress")
	}

	o.deliveryAddress = deliveryAddress
	return nil
}

func (o *Order) setUnits(units int) error {
	if units <= 0 {
		return errs.NewValueIsInvalidError("units must be greater than 0")
	}

	o.units = units
	return nil
}
