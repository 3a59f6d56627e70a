package avp

import (
	"math"
	"net"
	"time"
	"unicode/utf8"

	"github.com/hsdfat8/gy-dcca/datatype"
	"github.com/hsdfat8/gy-dcca/dictionary"
)

// Encode resolves name against the registry and converts a logical value
// into an attribute instance. Grouped definitions take a []Member of child
// values in encoding order and recurse; depth is bounded by the registry's
// acyclic closure.
func Encode(reg *dictionary.Registry, name string, value any) (*AVP, error) {
	def, ok := reg.ByName(name)
	if !ok {
		return nil, dictionary.ErrUnknownAttribute{Name: name}
	}

	a := &AVP{Def: def, Code: def.Code, VendorID: def.VendorID, Flags: defFlags(def)}

	if def.Type == datatype.GroupedType {
		members, ok := value.([]Member)
		if !ok {
			return nil, ErrTypeMismatch{Attribute: name, Want: "Grouped ([]Member)", Value: value}
		}
		for _, m := range members {
			child, err := Encode(reg, m.Name, m.Value)
			if err != nil {
				return nil, err
			}
			a.Children = append(a.Children, child)
		}
		return a, nil
	}

	data, err := encodeScalar(def, value)
	if err != nil {
		return nil, err
	}
	a.Data = data
	return a, nil
}

// Compose builds a grouped instance from ordered child values.
func Compose(reg *dictionary.Registry, name string, members []Member) (*AVP, error) {
	return Encode(reg, name, members)
}

func defFlags(def *dictionary.AVPDefinition) uint8 {
	var f uint8
	if def.Must {
		f |= FlagMandatory
	}
	if def.MayEncrypt {
		f |= FlagProtected
	}
	if def.VendorID != 0 {
		f |= FlagVendor
	}
	return f
}

func encodeScalar(def *dictionary.AVPDefinition, value any) (datatype.Type, error) {
	switch def.Type {
	case datatype.OctetStringType:
		switch v := value.(type) {
		case string:
			return datatype.OctetString(v), nil
		case []byte:
			return datatype.OctetString(v), nil
		case datatype.OctetString:
			return v, nil
		}

	case datatype.UTF8StringType:
		if s, ok := textValue(value); ok {
			if !utf8.ValidString(s) {
				return nil, ErrTypeMismatch{Attribute: def.Name, Want: "valid UTF-8", Value: value}
			}
			return datatype.UTF8String(s), nil
		}

	case datatype.DiameterIdentityType:
		if s, ok := textValue(value); ok {
			return datatype.DiameterIdentity(s), nil
		}

	case datatype.DiameterURIType:
		if s, ok := textValue(value); ok {
			return datatype.DiameterURI(s), nil
		}

	case datatype.Integer32Type:
		if n, ok := intValue(value); ok {
			if n < math.MinInt32 || n > math.MaxInt32 {
				return nil, ErrValueOutOfRange{Attribute: def.Name, Value: value}
			}
			return datatype.Integer32(n), nil
		}

	case datatype.Integer64Type:
		if n, ok := intValue(value); ok {
			return datatype.Integer64(n), nil
		}

	case datatype.Unsigned32Type:
		if n, ok := uintValue(value); ok {
			if n > math.MaxUint32 {
				return nil, ErrValueOutOfRange{Attribute: def.Name, Value: value}
			}
			return datatype.Unsigned32(n), nil
		}
		if _, isNeg := intValue(value); isNeg {
			return nil, ErrValueOutOfRange{Attribute: def.Name, Value: value}
		}

	case datatype.Unsigned64Type:
		if n, ok := uintValue(value); ok {
			return datatype.Unsigned64(n), nil
		}
		if _, isNeg := intValue(value); isNeg {
			return nil, ErrValueOutOfRange{Attribute: def.Name, Value: value}
		}

	case datatype.Float32Type:
		switch v := value.(type) {
		case float32:
			return datatype.Float32(v), nil
		case float64:
			return datatype.Float32(v), nil
		}

	case datatype.Float64Type:
		switch v := value.(type) {
		case float32:
			return datatype.Float64(v), nil
		case float64:
			return datatype.Float64(v), nil
		}

	case datatype.EnumeratedType:
		return encodeEnum(def, value)

	case datatype.TimeType:
		switch v := value.(type) {
		case time.Time:
			return datatype.Time(v), nil
		case datatype.Time:
			return v, nil
		}

	case datatype.AddressType:
		switch v := value.(type) {
		case net.IP:
			return datatype.Address(v), nil
		case datatype.Address:
			return v, nil
		case string:
			ip := net.ParseIP(v)
			if ip == nil {
				return nil, ErrTypeMismatch{Attribute: def.Name, Want: "IPv4 or IPv6 address", Value: value}
			}
			return datatype.Address(ip), nil
		}
	}

	return nil, ErrTypeMismatch{Attribute: def.Name, Want: def.TypeName, Value: value}
}

// encodeEnum accepts either a declared symbol or a raw integer. Raw
// integers outside the declared set are legal so that unknown enum values
// round-trip.
func encodeEnum(def *dictionary.AVPDefinition, value any) (datatype.Type, error) {
	switch v := value.(type) {
	case string:
		code, ok := def.Enum[v]
		if !ok {
			return nil, dictionary.ErrUnknownEnumSymbol{AVP: def.Name, Symbol: v}
		}
		return datatype.Enumerated(code), nil
	case EnumValue:
		return datatype.Enumerated(v.Value), nil
	case datatype.Enumerated:
		return v, nil
	}
	if n, ok := intValue(value); ok {
		if n < math.MinInt32 || n > math.MaxInt32 {
			return nil, ErrValueOutOfRange{Attribute: def.Name, Value: value}
		}
		return datatype.Enumerated(n), nil
	}
	return nil, ErrTypeMismatch{Attribute: def.Name, Want: "Enumerated symbol or integer", Value: value}
}

// textValue widens the accepted string-ish inputs.
func textValue(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	case datatype.UTF8String:
		return string(v), true
	case datatype.DiameterIdentity:
		return string(v), true
	case datatype.DiameterURI:
		return string(v), true
	}
	return "", false
}

func intValue(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	}
	return 0, false
}

// uintValue converts non-negative integers of any width.
func uintValue(value any) (uint64, bool) {
	switch v := value.(type) {
	case uint:
		return uint64(v), true
	case uint8:
		return uint64(v), true
	case uint16:
		return uint64(v), true
	case uint32:
		return uint64(v), true
	case uint64:
		return v, true
	}
	if n, ok := intValue(value); ok && n >= 0 {
		return uint64(n), true
	}
	return 0, false
}
