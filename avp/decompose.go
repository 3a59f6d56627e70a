package avp

import (
	"fmt"
	"net"
	"time"

	"github.com/hsdfat8/gy-dcca/datatype"
)

// EnumValue is the logical form of an enumerated AVP. Symbol is empty when
// the wire value is not declared in the dictionary; the raw value still
// round-trips.
type EnumValue struct {
	Symbol string
	Value  int32
}

// Recognized reports whether the dictionary declared this value.
func (e EnumValue) Recognized() bool {
	return e.Symbol != ""
}

func (e EnumValue) String() string {
	if e.Symbol != "" {
		return e.Symbol
	}
	return fmt.Sprintf("%d", e.Value)
}

// Unknown is the opaque logical form of an attribute absent from the
// registry: raw code, vendor and payload, preserved verbatim.
type Unknown struct {
	Code     uint32
	VendorID uint32
	Data     []byte
}

// Decompose maps a grouped instance's children to logical values by name.
// A child occurring once maps to a single value; repeated children collect
// into an ordered []any. The tree's shape does not need to match the
// definition's child list: anything on the wire is surfaced, unknown codes
// included.
func Decompose(a *AVP) map[string]any {
	out := make(map[string]any, len(a.Children))
	for _, child := range a.Children {
		name := child.Name()
		v := Logical(child)
		if prev, seen := out[name]; seen {
			if seq, ok := prev.([]any); ok {
				out[name] = append(seq, v)
			} else {
				out[name] = []any{prev, v}
			}
		} else {
			out[name] = v
		}
	}
	return out
}

// Logical converts one instance to its logical value: native Go scalars
// for leaves, a nested map for grouped children, Unknown for unregistered
// codes.
func Logical(a *AVP) any {
	if !a.Known() {
		return Unknown{Code: a.Code, VendorID: a.VendorID, Data: a.Raw}
	}
	if a.Def.Type == datatype.GroupedType {
		return Decompose(a)
	}

	switch v := a.Data.(type) {
	case datatype.OctetString:
		return []byte(v)
	case datatype.UTF8String:
		return string(v)
	case datatype.DiameterIdentity:
		return string(v)
	case datatype.DiameterURI:
		return string(v)
	case datatype.Integer32:
		return int32(v)
	case datatype.Integer64:
		return int64(v)
	case datatype.Unsigned32:
		return uint32(v)
	case datatype.Unsigned64:
		return uint64(v)
	case datatype.Float32:
		return float32(v)
	case datatype.Float64:
		return float64(v)
	case datatype.Time:
		return time.Time(v)
	case datatype.Address:
		return net.IP(v)
	case datatype.Enumerated:
		ev := EnumValue{Value: int32(v)}
		if symbol, ok := a.Def.EnumSymbol(int32(v)); ok {
			ev.Symbol = symbol
		}
		return ev
	}
	return nil
}
