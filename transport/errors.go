package transport

import "fmt"

// ErrInvalidMessage reports a wire frame that cannot be decoded.
type ErrInvalidMessage struct {
	Reason string
}

func (e ErrInvalidMessage) Error() string {
	return fmt.Sprintf("invalid message: %s", e.Reason)
}
