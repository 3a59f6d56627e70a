package datatype

import "fmt"

// Enumerated carries the raw integer code. Symbolic names live in the
// dictionary definition; translation happens in the avp package.
type Enumerated Integer32

func DecodeEnumerated(b []byte) (Type, error) {
	v, err := DecodeInteger32(b)
	if err != nil {
		return nil, ErrDecode{TypeName: "Enumerated", Reason: fmt.Sprintf("want 4 bytes, got %d", len(b))}
	}
	return Enumerated(v.(Integer32)), nil
}

func (n Enumerated) Serialize() []byte {
	return Integer32(n).Serialize()
}

func (n Enumerated) Len() int {
	return 4
}

func (n Enumerated) Padding() int {
	return 0
}

func (n Enumerated) TypeID() TypeID {
	return EnumeratedType
}

func (n Enumerated) String() string {
	return fmt.Sprintf("Enumerated{%d}", n)
}
