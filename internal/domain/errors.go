package domain

import "fmt"

// NotFoundError signals that a referenced entity does not exist or was
// soft-deleted.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// PaymentNotFoundError is the NotFound variant raised by the payment
// status-update path, reported with the payment id.
type PaymentNotFoundError struct {
	ID int64
}

func (e *PaymentNotFoundError) Error() string {
	return fmt.Sprintf("payment %d not found", e.ID)
}

// OrderCannotBePaidError signals a payment creation attempt against an order
// that is not awaiting payment.
type OrderCannotBePaidError struct {
	OrderID int64
}

func (e *OrderCannotBePaidError) Error() string {
	return fmt.Sprintf("order %d cannot be paid", e.OrderID)
}

// InvalidAttributeError signals an illegal state transition or an invalid
// field value, naming the offending attribute.
type InvalidAttributeError struct {
	Attribute string
	Message   string
}

func (e *InvalidAttributeError) Error() string {
	return fmt.Sprintf("%s (attribute %q)", e.Message, e.Attribute)
}
