package avp

import "fmt"

// ErrValueOutOfRange reports a logical value outside its type's range,
// e.g. a negative number for an Unsigned32 AVP.
type ErrValueOutOfRange struct {
	Attribute string
	Value     any
}

func (e ErrValueOutOfRange) Error() string {
	return fmt.Sprintf("value %v out of range for AVP %s", e.Value, e.Attribute)
}

// ErrTypeMismatch reports a value whose shape does not fit the AVP's
// declared type.
type ErrTypeMismatch struct {
	Attribute string
	Want      string
	Value     any
}

func (e ErrTypeMismatch) Error() string {
	return fmt.Sprintf("AVP %s wants %s, got %v (%T)", e.Attribute, e.Want, e.Value, e.Value)
}

// ErrMalformed reports a structurally broken grouped payload.
type ErrMalformed struct {
	Reason string
}

func (e ErrMalformed) Error() string {
	return fmt.Sprintf("malformed AVP data: %s", e.Reason)
}
