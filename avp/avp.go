// Package avp builds and unpacks attribute instances against the
// dictionary registry. Instances are immutable once constructed; a grouped
// instance owns its children and nothing is shared between messages.
package avp

import (
	"encoding/binary"
	"fmt"

	"github.com/hsdfat8/gy-dcca/datatype"
	"github.com/hsdfat8/gy-dcca/dictionary"
)

// AVP header flags.
const (
	FlagVendor    uint8 = 0x80
	FlagMandatory uint8 = 0x40
	FlagProtected uint8 = 0x20
)

// RawAVP is the flat record exchanged with the transport layer: one
// already-framed attribute with its undecoded payload.
type RawAVP struct {
	Code     uint32
	VendorID uint32
	Flags    uint8
	Data     []byte
}

// AVP is one attribute instance. Exactly one of Data, Children or Raw is
// populated, matching the definition's type; Raw carries the payload of
// codes absent from the registry.
type AVP struct {
	Def      *dictionary.AVPDefinition
	Code     uint32
	VendorID uint32
	Flags    uint8

	Data     datatype.Type
	Children []*AVP
	Raw      []byte
}

// Member is one child value handed to Compose, in encoding order.
type Member struct {
	Name  string
	Value any
}

// Known reports whether the instance resolved against the registry.
func (a *AVP) Known() bool {
	return a.Def != nil
}

// Name returns the dictionary name, or a code-tagged placeholder for
// unknown attributes.
func (a *AVP) Name() string {
	if a.Def != nil {
		return a.Def.Name
	}
	return fmt.Sprintf("AVP-%d", a.Code)
}

func (a *AVP) headerLen() int {
	if a.Flags&FlagVendor != 0 {
		return 12
	}
	return 8
}

func (a *AVP) payload() []byte {
	switch {
	case a.Data != nil:
		return a.Data.Serialize()
	case len(a.Children) > 0:
		var b []byte
		for _, c := range a.Children {
			b = append(b, c.serialize()...)
		}
		return b
	default:
		return a.Raw
	}
}

// Len returns the total encoded length including header and padding.
func (a *AVP) Len() int {
	l := a.headerLen() + len(a.payload())
	return l + ((4 - (l % 4)) % 4)
}

// serialize renders header, payload and padding.
func (a *AVP) serialize() []byte {
	payload := a.payload()
	unpadded := a.headerLen() + len(payload)
	b := make([]byte, a.Len())

	binary.BigEndian.PutUint32(b[0:4], a.Code)
	b[4] = a.Flags
	b[5] = byte(unpadded >> 16)
	b[6] = byte(unpadded >> 8)
	b[7] = byte(unpadded)
	if a.Flags&FlagVendor != 0 {
		binary.BigEndian.PutUint32(b[8:12], a.VendorID)
		copy(b[12:], payload)
	} else {
		copy(b[8:], payload)
	}
	return b
}

// ToRaw flattens the instance into the transport boundary shape. Grouped
// children are serialized into the payload.
func (a *AVP) ToRaw() RawAVP {
	return RawAVP{
		Code:     a.Code,
		VendorID: a.VendorID,
		Flags:    a.Flags,
		Data:     a.payload(),
	}
}

// FromRaw resolves one transport record against the registry. Codes absent
// from the registry come back as opaque unknown instances, never an error.
func FromRaw(reg *dictionary.Registry, raw RawAVP) (*AVP, error) {
	def, ok := reg.ByCode(raw.Code, raw.VendorID)
	if !ok {
		data := make([]byte, len(raw.Data))
		copy(data, raw.Data)
		return &AVP{Code: raw.Code, VendorID: raw.VendorID, Flags: raw.Flags, Raw: data}, nil
	}

	a := &AVP{Def: def, Code: raw.Code, VendorID: raw.VendorID, Flags: raw.Flags}
	if def.Type == datatype.GroupedType {
		children, err := parseGrouped(reg, raw.Data)
		if err != nil {
			return nil, ErrTypeMismatch{Attribute: def.Name, Want: "Grouped", Value: err.Error()}
		}
		a.Children = children
		return a, nil
	}

	v, err := datatype.Decode(def.Type, raw.Data)
	if err != nil {
		return nil, ErrTypeMismatch{Attribute: def.Name, Want: def.TypeName, Value: err.Error()}
	}
	a.Data = v
	return a, nil
}

// parseGrouped walks a grouped payload, accepting children in any order.
func parseGrouped(reg *dictionary.Registry, b []byte) ([]*AVP, error) {
	var children []*AVP
	for len(b) > 0 {
		if len(b) < 8 {
			return nil, ErrMalformed{Reason: fmt.Sprintf("%d trailing bytes, header wants 8", len(b))}
		}
		code := binary.BigEndian.Uint32(b[0:4])
		flags := b[4]
		length := int(b[5])<<16 | int(b[6])<<8 | int(b[7])

		headerLen := 8
		var vendorID uint32
		if flags&FlagVendor != 0 {
			if len(b) < 12 {
				return nil, ErrMalformed{Reason: "vendor flag set but header truncated"}
			}
			vendorID = binary.BigEndian.Uint32(b[8:12])
			headerLen = 12
		}
		if length < headerLen || length > len(b) {
			return nil, ErrMalformed{Reason: fmt.Sprintf("AVP %d declares length %d, %d bytes remain", code, length, len(b))}
		}

		child, err := FromRaw(reg, RawAVP{
			Code:     code,
			VendorID: vendorID,
			Flags:    flags,
			Data:     b[headerLen:length],
		})
		if err != nil {
			return nil, err
		}
		children = append(children, child)

		padded := length + ((4 - (length % 4)) % 4)
		if padded > len(b) {
			padded = len(b)
		}
		b = b[padded:]
	}
	return children, nil
}

// FromRawAll resolves an ordered transport sequence.
func FromRawAll(reg *dictionary.Registry, raws []RawAVP) ([]*AVP, error) {
	avps := make([]*AVP, 0, len(raws))
	for _, raw := range raws {
		a, err := FromRaw(reg, raw)
		if err != nil {
			return nil, err
		}
		avps = append(avps, a)
	}
	return avps, nil
}

// ToRawAll flattens an ordered instance sequence for the transport.
func ToRawAll(avps []*AVP) []RawAVP {
	raws := make([]RawAVP, 0, len(avps))
	for _, a := range avps {
		raws = append(raws, a.ToRaw())
	}
	return raws
}
