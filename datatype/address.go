package datatype

import (
	"encoding/binary"
	"fmt"
	"net"
)

// Address families from the IANA AddressFamilyNumbers registry.
const (
	addrFamilyIPv4 = 1
	addrFamilyIPv6 = 2
)

// Address holds an IPv4 or IPv6 address. The serialized form is a two-byte
// family tag followed by the address bytes.
type Address net.IP

func DecodeAddress(b []byte) (Type, error) {
	if len(b) < 2 {
		return nil, ErrDecode{TypeName: "Address", Reason: "missing address family"}
	}
	family := binary.BigEndian.Uint16(b[:2])
	switch family {
	case addrFamilyIPv4:
		if len(b[2:]) != net.IPv4len {
			return nil, ErrDecode{TypeName: "Address", Reason: fmt.Sprintf("IPv4 address wants 4 bytes, got %d", len(b[2:]))}
		}
		return Address(net.IPv4(b[2], b[3], b[4], b[5]).To4()), nil
	case addrFamilyIPv6:
		if len(b[2:]) != net.IPv6len {
			return nil, ErrDecode{TypeName: "Address", Reason: fmt.Sprintf("IPv6 address wants 16 bytes, got %d", len(b[2:]))}
		}
		ip := make(net.IP, net.IPv6len)
		copy(ip, b[2:])
		return Address(ip), nil
	default:
		return nil, ErrDecode{TypeName: "Address", Reason: fmt.Sprintf("unsupported address family %d", family)}
	}
}

func (a Address) Serialize() []byte {
	if ip4 := net.IP(a).To4(); ip4 != nil {
		b := make([]byte, 2+net.IPv4len)
		binary.BigEndian.PutUint16(b[:2], addrFamilyIPv4)
		copy(b[2:], ip4)
		return b
	}
	b := make([]byte, 2+net.IPv6len)
	binary.BigEndian.PutUint16(b[:2], addrFamilyIPv6)
	copy(b[2:], net.IP(a).To16())
	return b
}

func (a Address) Len() int {
	if net.IP(a).To4() != nil {
		return 2 + net.IPv4len
	}
	return 2 + net.IPv6len
}

func (a Address) Padding() int {
	l := a.Len()
	return pad4(l) - l
}

func (a Address) TypeID() TypeID {
	return AddressType
}

func (a Address) String() string {
	return fmt.Sprintf("Address{%s},Padding:%d", net.IP(a), a.Padding())
}
