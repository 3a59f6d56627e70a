// Package dictionary holds the AVP schema registry for the Credit-Control
// application. Definitions are loaded once from a YAML schema document,
// validated as a whole, and read-only afterwards.
package dictionary

import "github.com/hsdfat8/gy-dcca/datatype"

// AVPDefinition describes one attribute, keyed by (code, vendor).
type AVPDefinition struct {
	Name       string // e.g. "Origin-Host"
	Code       uint32
	Type       datatype.TypeID
	TypeName   string // e.g. "DiameterIdentity"
	Must       bool   // M-bit
	MayEncrypt bool   // P-bit
	VendorID   uint32 // 0 for IETF AVPs

	// Enum maps symbolic names to codes; set only for Enumerated AVPs.
	Enum map[string]int32

	// Grouped lists child AVP names in encoding order; set only for
	// Grouped AVPs. Decoding accepts children in any order.
	Grouped []string
}

// EnumSymbol returns the symbolic name for an enumerated code, if declared.
func (d *AVPDefinition) EnumSymbol(value int32) (string, bool) {
	for name, v := range d.Enum {
		if v == value {
			return name, true
		}
	}
	return "", false
}
