package transport

import (
	"github.com/fiorix/go-diameter/v4/diam"
	diamtype "github.com/fiorix/go-diameter/v4/diam/datatype"
	pkgerrors "github.com/pkg/errors"

	"github.com/hsdfat8/gy-dcca/avp"
)

// ToDiamAVP converts one raw record into a go-diameter AVP. The payload is
// carried verbatim as an octet string, so grouped payloads survive
// unchanged.
func ToDiamAVP(raw avp.RawAVP) *diam.AVP {
	return diam.NewAVP(raw.Code, raw.Flags, raw.VendorID, diamtype.OctetString(raw.Data))
}

// FromDiamAVP flattens a go-diameter AVP back into a raw record. Grouped
// AVPs serialize their children into the payload.
func FromDiamAVP(a *diam.AVP) (avp.RawAVP, error) {
	if a == nil || a.Data == nil {
		return avp.RawAVP{}, pkgerrors.New("nil AVP from go-diameter")
	}
	return avp.RawAVP{
		Code:     a.Code,
		VendorID: a.VendorID,
		Flags:    a.Flags,
		Data:     a.Data.Serialize(),
	}, nil
}

// ToDiamMessage rebuilds a framed message as a go-diameter message, so an
// external go-diameter stack can carry it over its own peer connections.
func ToDiamMessage(m *Message) *diam.Message {
	dm := diam.NewMessage(m.Header.CommandCode, m.Header.Flags, m.Header.ApplicationID,
		m.Header.HopByHopID, m.Header.EndToEndID, nil)
	for _, raw := range m.AVPs {
		dm.AVP = append(dm.AVP, ToDiamAVP(raw))
	}
	return dm
}

// FromDiamMessage converts a received go-diameter message into the framed
// shape the engine parses.
func FromDiamMessage(dm *diam.Message) (*Message, error) {
	m := &Message{Header: Header{
		Version:       dm.Header.Version,
		Length:        uint32(dm.Header.MessageLength),
		Flags:         dm.Header.CommandFlags,
		CommandCode:   uint32(dm.Header.CommandCode),
		ApplicationID: dm.Header.ApplicationID,
		HopByHopID:    dm.Header.HopByHopID,
		EndToEndID:    dm.Header.EndToEndID,
	}}
	for _, a := range dm.AVP {
		raw, err := FromDiamAVP(a)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "convert AVP")
		}
		m.AVPs = append(m.AVPs, raw)
	}
	return m, nil
}
