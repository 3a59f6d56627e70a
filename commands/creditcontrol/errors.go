package creditcontrol

import "fmt"

// ErrMissingMandatoryField reports a build call whose input left a
// template-mandatory field empty. Field carries the caller-facing key,
// e.g. "session_id".
type ErrMissingMandatoryField struct {
	Field string
}

func (e ErrMissingMandatoryField) Error() string {
	return fmt.Sprintf("missing mandatory field %s", e.Field)
}

// ErrMissingMandatoryAttribute reports a parsed body lacking an attribute
// the template requires. Name and Code are enough to drive a
// DIAMETER_MISSING_AVP answer.
type ErrMissingMandatoryAttribute struct {
	Name string
	Code uint32
}

func (e ErrMissingMandatoryAttribute) Error() string {
	return fmt.Sprintf("missing mandatory attribute %s (code %d)", e.Name, e.Code)
}
