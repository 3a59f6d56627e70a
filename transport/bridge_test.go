package transport

import (
	"bytes"
	"testing"

	"github.com/hsdfat8/gy-dcca/avp"
	"github.com/hsdfat8/gy-dcca/commands/creditcontrol"
)

func TestDiamAVPRoundTrip(t *testing.T) {
	raw := avp.RawAVP{
		Code:  263,
		Flags: avp.FlagMandatory,
		Data:  []byte("pgw.example.com;123;456"),
	}

	da := ToDiamAVP(raw)
	got, err := FromDiamAVP(da)
	if err != nil {
		t.Fatalf("FromDiamAVP failed: %v", err)
	}
	if got.Code != raw.Code || got.Flags != raw.Flags || got.VendorID != raw.VendorID {
		t.Errorf("Header mismatch: got %+v, want %+v", got, raw)
	}
	if !bytes.Equal(got.Data, raw.Data) {
		t.Errorf("Payload mismatch: got %x, want %x", got.Data, raw.Data)
	}
}

func TestFromDiamAVPNil(t *testing.T) {
	if _, err := FromDiamAVP(nil); err == nil {
		t.Error("Expected error for nil AVP, got nil")
	}
}

func TestDiamMessageRoundTrip(t *testing.T) {
	_, msg := buildTestCCR(t)

	dm := ToDiamMessage(msg)
	got, err := FromDiamMessage(dm)
	if err != nil {
		t.Fatalf("FromDiamMessage failed: %v", err)
	}

	if got.Header.CommandCode != creditcontrol.CommandCode {
		t.Errorf("CommandCode mismatch: got %d", got.Header.CommandCode)
	}
	if got.Header.ApplicationID != creditcontrol.AppID {
		t.Errorf("ApplicationID mismatch: got %d", got.Header.ApplicationID)
	}
	if len(got.AVPs) != len(msg.AVPs) {
		t.Fatalf("AVP count mismatch: got %d, want %d", len(got.AVPs), len(msg.AVPs))
	}
	for i := range msg.AVPs {
		if got.AVPs[i].Code != msg.AVPs[i].Code {
			t.Errorf("AVP %d code mismatch: got %d, want %d", i, got.AVPs[i].Code, msg.AVPs[i].Code)
		}
		if !bytes.Equal(got.AVPs[i].Data, msg.AVPs[i].Data) {
			t.Errorf("AVP %d payload mismatch", i)
		}
	}
}
