package order

import "errors"

// ValidationError is a client input error. Its message is safe to show.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrEmptyCart = &ValidationError{Message: "Cart is empty"}

	ErrOrderNotFound = errors.New("order not found")
)
