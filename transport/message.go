// Package transport frames Credit-Control message bodies for the wire: the
// 20-byte Diameter command header plus a flat ordered sequence of raw
// attribute records. It never opens sockets and never retries; connection
// lifecycle belongs to the caller.
package transport

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	pkgerrors "github.com/pkg/errors"

	"github.com/hsdfat8/gy-dcca/avp"
)

const (
	HeaderLen = 20
	Version   = 1

	// Command flags, first octet after the length.
	FlagRequest    uint8 = 0x80
	FlagProxiable  uint8 = 0x40
	FlagError      uint8 = 0x20
	FlagRetransmit uint8 = 0x10
)

// Header is the fixed 20-byte Diameter command header.
type Header struct {
	Version       uint8
	Length        uint32
	Flags         uint8
	CommandCode   uint32
	ApplicationID uint32
	HopByHopID    uint32
	EndToEndID    uint32
}

func (h *Header) IsRequest() bool   { return h.Flags&FlagRequest != 0 }
func (h *Header) IsProxiable() bool { return h.Flags&FlagProxiable != 0 }
func (h *Header) IsError() bool     { return h.Flags&FlagError != 0 }

func (h *Header) String() string {
	kind := "Answer"
	if h.IsRequest() {
		kind = "Request"
	}
	return fmt.Sprintf("%s (Code=%d, AppID=%d, H2H=%d, E2E=%d, Len=%d)",
		kind, h.CommandCode, h.ApplicationID, h.HopByHopID, h.EndToEndID, h.Length)
}

// Message is one framed Diameter message: header plus the ordered raw
// attribute records of its body.
type Message struct {
	Header Header
	AVPs   []avp.RawAVP
}

// NewRequest frames a request header for the given command and application.
func NewRequest(commandCode, applicationID, hopByHopID, endToEndID uint32) *Message {
	return &Message{Header: Header{
		Version:       Version,
		Flags:         FlagRequest | FlagProxiable,
		CommandCode:   commandCode,
		ApplicationID: applicationID,
		HopByHopID:    hopByHopID,
		EndToEndID:    endToEndID,
	}}
}

// NewAnswer frames the answer to a request, mirroring its command identity
// and hop/end identifiers.
func NewAnswer(req *Message) *Message {
	return &Message{Header: Header{
		Version:       Version,
		Flags:         req.Header.Flags &^ FlagRequest &^ FlagRetransmit,
		CommandCode:   req.Header.CommandCode,
		ApplicationID: req.Header.ApplicationID,
		HopByHopID:    req.Header.HopByHopID,
		EndToEndID:    req.Header.EndToEndID,
	}}
}

// SetBody replaces the message body with built attribute instances.
func (m *Message) SetBody(avps []*avp.AVP) {
	m.AVPs = avp.ToRawAll(avps)
}

// Marshal renders the complete wire form, fixing up the header length.
func (m *Message) Marshal() ([]byte, error) {
	if m.Header.Version != Version {
		return nil, ErrInvalidMessage{Reason: fmt.Sprintf("unsupported version %d", m.Header.Version)}
	}

	body := marshalBody(m.AVPs)
	total := HeaderLen + len(body)
	m.Header.Length = uint32(total)

	b := make([]byte, total)
	b[0] = m.Header.Version
	b[1] = byte(total >> 16)
	b[2] = byte(total >> 8)
	b[3] = byte(total)
	b[4] = m.Header.Flags
	b[5] = byte(m.Header.CommandCode >> 16)
	b[6] = byte(m.Header.CommandCode >> 8)
	b[7] = byte(m.Header.CommandCode)
	binary.BigEndian.PutUint32(b[8:12], m.Header.ApplicationID)
	binary.BigEndian.PutUint32(b[12:16], m.Header.HopByHopID)
	binary.BigEndian.PutUint32(b[16:20], m.Header.EndToEndID)
	copy(b[HeaderLen:], body)
	return b, nil
}

func marshalBody(raws []avp.RawAVP) []byte {
	var b []byte
	for _, raw := range raws {
		b = append(b, marshalRawAVP(raw)...)
	}
	return b
}

func marshalRawAVP(raw avp.RawAVP) []byte {
	headerLen := 8
	if raw.Flags&avp.FlagVendor != 0 {
		headerLen = 12
	}
	unpadded := headerLen + len(raw.Data)
	padded := unpadded + ((4 - (unpadded % 4)) % 4)

	b := make([]byte, padded)
	binary.BigEndian.PutUint32(b[0:4], raw.Code)
	b[4] = raw.Flags
	b[5] = byte(unpadded >> 16)
	b[6] = byte(unpadded >> 8)
	b[7] = byte(unpadded)
	if headerLen == 12 {
		binary.BigEndian.PutUint32(b[8:12], raw.VendorID)
	}
	copy(b[headerLen:], raw.Data)
	return b
}

// ParseHeader decodes the fixed header from the start of b.
func ParseHeader(b []byte) (*Header, error) {
	if len(b) < HeaderLen {
		return nil, ErrInvalidMessage{Reason: fmt.Sprintf("%d bytes, header wants %d", len(b), HeaderLen)}
	}
	h := &Header{
		Version:       b[0],
		Length:        uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]),
		Flags:         b[4],
		CommandCode:   uint32(b[5])<<16 | uint32(b[6])<<8 | uint32(b[7]),
		ApplicationID: binary.BigEndian.Uint32(b[8:12]),
		HopByHopID:    binary.BigEndian.Uint32(b[12:16]),
		EndToEndID:    binary.BigEndian.Uint32(b[16:20]),
	}
	if h.Version != Version {
		return nil, ErrInvalidMessage{Reason: fmt.Sprintf("unsupported version %d", h.Version)}
	}
	if h.Length < HeaderLen {
		return nil, ErrInvalidMessage{Reason: fmt.Sprintf("declared length %d below header size", h.Length)}
	}
	return h, nil
}

// Parse decodes a complete message from b.
func Parse(b []byte) (*Message, error) {
	h, err := ParseHeader(b)
	if err != nil {
		return nil, err
	}
	if int(h.Length) > len(b) {
		return nil, ErrInvalidMessage{Reason: fmt.Sprintf("declared length %d, %d bytes available", h.Length, len(b))}
	}
	avps, err := splitBody(b[HeaderLen:h.Length])
	if err != nil {
		return nil, err
	}
	return &Message{Header: *h, AVPs: avps}, nil
}

// splitBody walks the body into flat raw attribute records. Payload decoding
// against the dictionary happens above this layer.
func splitBody(b []byte) ([]avp.RawAVP, error) {
	var raws []avp.RawAVP
	for len(b) > 0 {
		if len(b) < 8 {
			return nil, ErrInvalidMessage{Reason: fmt.Sprintf("%d trailing body bytes", len(b))}
		}
		code := binary.BigEndian.Uint32(b[0:4])
		flags := b[4]
		length := int(b[5])<<16 | int(b[6])<<8 | int(b[7])

		headerLen := 8
		var vendorID uint32
		if flags&avp.FlagVendor != 0 {
			if len(b) < 12 {
				return nil, ErrInvalidMessage{Reason: "vendor flag set but AVP header truncated"}
			}
			vendorID = binary.BigEndian.Uint32(b[8:12])
			headerLen = 12
		}
		if length < headerLen || length > len(b) {
			return nil, ErrInvalidMessage{Reason: fmt.Sprintf("AVP %d declares length %d, %d bytes remain", code, length, len(b))}
		}

		data := make([]byte, length-headerLen)
		copy(data, b[headerLen:length])
		raws = append(raws, avp.RawAVP{Code: code, VendorID: vendorID, Flags: flags, Data: data})

		padded := length + ((4 - (length % 4)) % 4)
		if padded > len(b) {
			padded = len(b)
		}
		b = b[padded:]
	}
	return raws, nil
}

const maxMessageLength = 1 << 16

var readerBufferPool sync.Pool

func newReaderBuffer() *bytes.Buffer {
	if v := readerBufferPool.Get(); v != nil {
		return v.(*bytes.Buffer)
	}
	return bytes.NewBuffer(make([]byte, maxMessageLength))
}

func putReaderBuffer(b *bytes.Buffer) {
	if cap(b.Bytes()) == maxMessageLength {
		b.Reset()
		readerBufferPool.Put(b)
	}
}

// ReadMessage reads exactly one framed message from the stream.
func ReadMessage(r io.Reader) (*Message, error) {
	buf := newReaderBuffer()
	defer putReaderBuffer(buf)

	header := buf.Bytes()[:HeaderLen]
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, pkgerrors.Wrap(err, "read message header")
	}
	h, err := ParseHeader(header)
	if err != nil {
		return nil, err
	}
	if h.Length > maxMessageLength {
		return nil, ErrInvalidMessage{Reason: fmt.Sprintf("declared length %d exceeds limit %d", h.Length, maxMessageLength)}
	}

	full := make([]byte, h.Length)
	copy(full, header)
	if h.Length > HeaderLen {
		if _, err := io.ReadFull(r, full[HeaderLen:]); err != nil {
			return nil, pkgerrors.Wrap(err, "read message body")
		}
	}
	return Parse(full)
}

// WriteMessage marshals and writes one framed message to the stream.
func WriteMessage(w io.Writer, m *Message) error {
	b, err := m.Marshal()
	if err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return pkgerrors.Wrap(err, "write message")
	}
	return nil
}
