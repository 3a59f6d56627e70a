package datatype

import (
	"encoding/binary"
	"fmt"
	"time"
)

type Time time.Time

// The Time format counts seconds since the NTP epoch, 1 January 1900.
// Values with the high bit clear belong to the second NTP era (RFC 2030),
// which keeps the format usable past 2036.
const (
	rfc868offset  = 2208988800
	rfc2030offset = 2085978496
)

func DecodeTime(b []byte) (Type, error) {
	if len(b) != 4 {
		return nil, ErrDecode{TypeName: "Time", Reason: fmt.Sprintf("want 4 bytes, got %d", len(b))}
	}
	ts := int64(binary.BigEndian.Uint32(b))
	if (b[0] >> 7) == 0 {
		ts += rfc2030offset
	} else {
		ts -= rfc868offset
	}
	return Time(time.Unix(ts, 0)), nil
}

func (t Time) Serialize() []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(time.Time(t).Unix())+rfc868offset)
	return b
}

func (t Time) Len() int {
	return 4
}

func (t Time) Padding() int {
	return 0
}

func (t Time) TypeID() TypeID {
	return TimeType
}

func (t Time) String() string {
	return fmt.Sprintf("Time{%s}", time.Time(t))
}
