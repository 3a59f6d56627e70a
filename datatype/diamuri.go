package datatype

import (
	"fmt"
	"unicode/utf8"
)

// DiameterURI data type, e.g. "aaa://host.example.com:3868".
type DiameterURI OctetString

func DecodeDiameterURI(b []byte) (Type, error) {
	if !utf8.Valid(b) {
		return nil, ErrDecode{TypeName: "DiameterURI", Reason: "payload is not valid UTF-8"}
	}
	d := make([]byte, len(b))
	copy(d, b)
	return DiameterURI(d), nil
}

func (s DiameterURI) Serialize() []byte {
	return []byte(s)
}

func (s DiameterURI) Len() int {
	return len(s)
}

func (s DiameterURI) Padding() int {
	l := len(s)
	return pad4(l) - l
}

func (s DiameterURI) TypeID() TypeID {
	return DiameterURIType
}

func (s DiameterURI) String() string {
	return fmt.Sprintf("DiameterURI{%s},Padding:%d", string(s), s.Padding())
}
