package datatype

import (
	"fmt"
	"unicode/utf8"
)

// DiameterIdentity data type, an FQDN or realm name.
type DiameterIdentity OctetString

// DecodeDiameterIdentity decodes a DiameterIdentity from a byte array.
func DecodeDiameterIdentity(b []byte) (Type, error) {
	if !utf8.Valid(b) {
		return nil, ErrDecode{TypeName: "DiameterIdentity", Reason: "payload is not valid UTF-8"}
	}
	d := make([]byte, len(b))
	copy(d, b)
	return DiameterIdentity(d), nil
}

// Serialize implements the Type interface.
func (s DiameterIdentity) Serialize() []byte {
	return []byte(s)
}

// Len implements the Type interface.
func (s DiameterIdentity) Len() int {
	return len(s)
}

// Padding implements the Type interface.
func (s DiameterIdentity) Padding() int {
	l := len(s)
	return pad4(l) - l
}

// TypeID implements the Type interface.
func (s DiameterIdentity) TypeID() TypeID {
	return DiameterIdentityType
}

// String implements the Type interface.
func (s DiameterIdentity) String() string {
	return fmt.Sprintf("DiameterIdentity{%s},Padding:%d", string(s), s.Padding())
}
