package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrNoCustomer indicates an operation that needs a selected customer
	// was attempted without one.
	ErrNoCustomer = errors.New("no customer selected")

	// ErrEmptyCart indicates a submission was attempted with no lines.
	ErrEmptyCart = errors.New("cart has no lines")

	// ErrDeliveryDateRequired indicates an order (not a quote) was
	// submitted without a delivery date.
	ErrDeliveryDateRequired = errors.New("delivery date required for orders")
)
