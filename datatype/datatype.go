// Package datatype implements the Diameter base data formats used by
// Credit-Control AVPs. Every value is serialized in network byte order;
// text types are UTF-8.
package datatype

import "fmt"

// Type is the canonical in-memory representation of a scalar AVP value.
type Type interface {
	Serialize() []byte
	Len() int
	Padding() int
	TypeID() TypeID
	String() string
}

type TypeID int

const (
	UnknownType TypeID = iota
	AddressType
	DiameterIdentityType
	DiameterURIType
	EnumeratedType
	Float32Type
	Float64Type
	GroupedType
	Integer32Type
	Integer64Type
	OctetStringType
	TimeType
	UTF8StringType
	Unsigned32Type
	Unsigned64Type
)

// Available maps the schema document's type names to type identifiers.
// An AVP declared with a name outside this map fails the dictionary load.
var Available = map[string]TypeID{
	"Address":          AddressType,
	"DiameterIdentity": DiameterIdentityType,
	"DiameterURI":      DiameterURIType,
	"Enumerated":       EnumeratedType,
	"Float32":          Float32Type,
	"Float64":          Float64Type,
	"Grouped":          GroupedType,
	"Integer32":        Integer32Type,
	"Integer64":        Integer64Type,
	"OctetString":      OctetStringType,
	"Time":             TimeType,
	"UTF8String":       UTF8StringType,
	"Unsigned32":       Unsigned32Type,
	"Unsigned64":       Unsigned64Type,
}

// Name returns the schema document name for the type identifier.
func (id TypeID) Name() string {
	for name, t := range Available {
		if t == id {
			return name
		}
	}
	return "Unknown"
}

type decoder func([]byte) (Type, error)

var decoders = map[TypeID]decoder{
	AddressType:          DecodeAddress,
	DiameterIdentityType: DecodeDiameterIdentity,
	DiameterURIType:      DecodeDiameterURI,
	EnumeratedType:       DecodeEnumerated,
	Float32Type:          DecodeFloat32,
	Float64Type:          DecodeFloat64,
	Integer32Type:        DecodeInteger32,
	Integer64Type:        DecodeInteger64,
	OctetStringType:      DecodeOctetString,
	TimeType:             DecodeTime,
	UTF8StringType:       DecodeUTF8String,
	Unsigned32Type:       DecodeUnsigned32,
	Unsigned64Type:       DecodeUnsigned64,
}

// Decode parses b as a value of the given type. Grouped has no scalar
// decoder; grouped payloads are walked by the avp package.
func Decode(id TypeID, b []byte) (Type, error) {
	dec, ok := decoders[id]
	if !ok {
		return nil, ErrDecode{TypeName: id.Name(), Reason: "no scalar decoder for type"}
	}
	return dec(b)
}

// ErrDecode reports a payload that does not conform to its declared type.
type ErrDecode struct {
	TypeName string
	Reason   string
}

func (e ErrDecode) Error() string {
	return fmt.Sprintf("cannot decode %s: %s", e.TypeName, e.Reason)
}

func pad4(n int) int {
	return n + ((4 - (n % 4)) % 4)
}
