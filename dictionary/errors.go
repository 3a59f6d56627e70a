package dictionary

import "fmt"

// ErrSchemaLoad reports a malformed schema document. The registry never
// loads partially: the first invalid definition fails the whole load.
type ErrSchemaLoad struct {
	AVP    string
	Reason string
}

func (e ErrSchemaLoad) Error() string {
	if e.AVP == "" {
		return fmt.Sprintf("schema load failed: %s", e.Reason)
	}
	return fmt.Sprintf("schema load failed: AVP %s: %s", e.AVP, e.Reason)
}

// ErrUnknownAttribute reports a failed registry lookup.
type ErrUnknownAttribute struct {
	Name     string
	Code     uint32
	VendorID uint32
}

func (e ErrUnknownAttribute) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("unknown attribute %q", e.Name)
	}
	return fmt.Sprintf("unknown attribute code %d (vendor %d)", e.Code, e.VendorID)
}

// ErrUnknownEnumSymbol reports a symbol that is not declared for an
// enumerated AVP.
type ErrUnknownEnumSymbol struct {
	AVP    string
	Symbol string
}

func (e ErrUnknownEnumSymbol) Error() string {
	return fmt.Sprintf("AVP %s has no enum symbol %q", e.AVP, e.Symbol)
}
