package avp

import (
	"bytes"
	"testing"

	"github.com/hsdfat8/gy-dcca/datatype"
	"github.com/hsdfat8/gy-dcca/dictionary"
)

func testRegistry(t *testing.T) *dictionary.Registry {
	t.Helper()
	reg, err := dictionary.LoadDefault()
	if err != nil {
		t.Fatalf("LoadDefault failed: %v", err)
	}
	return reg
}

func TestEncodeScalar(t *testing.T) {
	reg := testRegistry(t)

	a, err := Encode(reg, "Session-Id", "pgw.example.com;123;456")
	if err != nil {
		t.Fatalf("Encode Session-Id failed: %v", err)
	}
	if a.Code != 263 {
		t.Errorf("Session-Id code: got %d, want 263", a.Code)
	}
	if a.Flags&FlagMandatory == 0 {
		t.Error("Session-Id should carry the M-bit")
	}
	if got := string(a.Data.(datatype.UTF8String)); got != "pgw.example.com;123;456" {
		t.Errorf("Session-Id value: got %q", got)
	}
}

func TestEncodeUnknownNameFails(t *testing.T) {
	reg := testRegistry(t)
	if _, err := Encode(reg, "No-Such-AVP", "x"); err == nil {
		t.Fatal("Expected error for unknown AVP name, got nil")
	}
}

func TestEncodeUnsigned32OutOfRange(t *testing.T) {
	reg := testRegistry(t)

	_, err := Encode(reg, "CC-Time", -1)
	if err == nil {
		t.Fatal("Expected ErrValueOutOfRange encoding -1 into Unsigned32, got nil")
	}
	oor, ok := err.(ErrValueOutOfRange)
	if !ok {
		t.Fatalf("Expected ErrValueOutOfRange, got %T: %v", err, err)
	}
	if oor.Attribute != "CC-Time" {
		t.Errorf("Error attribute: got %s, want CC-Time", oor.Attribute)
	}

	if _, err := Encode(reg, "CC-Time", int64(1<<40)); err == nil {
		t.Error("Expected error encoding 2^40 into Unsigned32, got nil")
	}
}

func TestEncodeTypeMismatch(t *testing.T) {
	reg := testRegistry(t)
	_, err := Encode(reg, "CC-Time", "not a number")
	if err == nil {
		t.Fatal("Expected ErrTypeMismatch, got nil")
	}
	if _, ok := err.(ErrTypeMismatch); !ok {
		t.Fatalf("Expected ErrTypeMismatch, got %T: %v", err, err)
	}
}

func TestEnumSymbolRoundTrip(t *testing.T) {
	reg := testRegistry(t)

	a, err := Encode(reg, "CC-Request-Type", "INITIAL_REQUEST")
	if err != nil {
		t.Fatalf("Encode by symbol failed: %v", err)
	}
	if int32(a.Data.(datatype.Enumerated)) != 1 {
		t.Errorf("INITIAL_REQUEST: got %v, want 1", a.Data)
	}

	v := Logical(a).(EnumValue)
	if v.Symbol != "INITIAL_REQUEST" || v.Value != 1 || !v.Recognized() {
		t.Errorf("Logical enum: got %+v", v)
	}
}

func TestEnumUnknownIntegerRoundTrips(t *testing.T) {
	reg := testRegistry(t)

	a, err := Encode(reg, "CC-Request-Type", 99)
	if err != nil {
		t.Fatalf("Encode raw enum integer failed: %v", err)
	}
	v := Logical(a).(EnumValue)
	if v.Recognized() {
		t.Errorf("Value 99 should be unrecognized, got symbol %q", v.Symbol)
	}
	if v.Value != 99 {
		t.Errorf("Raw value: got %d, want 99", v.Value)
	}
}

func TestEnumUnknownSymbolFails(t *testing.T) {
	reg := testRegistry(t)
	if _, err := Encode(reg, "CC-Request-Type", "BOGUS_REQUEST"); err == nil {
		t.Fatal("Expected error for undeclared enum symbol, got nil")
	}
}

func TestComposeDecomposeRoundTrip(t *testing.T) {
	reg := testRegistry(t)

	a, err := Compose(reg, "Subscription-Id", []Member{
		{Name: "Subscription-Id-Type", Value: "END_USER_E164"},
		{Name: "Subscription-Id-Data", Value: "447700900123"},
	})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if len(a.Children) != 2 {
		t.Fatalf("Children: got %d, want 2", len(a.Children))
	}

	m := Decompose(a)
	typ := m["Subscription-Id-Type"].(EnumValue)
	if typ.Symbol != "END_USER_E164" {
		t.Errorf("Subscription-Id-Type: got %v", typ)
	}
	if m["Subscription-Id-Data"].(string) != "447700900123" {
		t.Errorf("Subscription-Id-Data: got %v", m["Subscription-Id-Data"])
	}
}

func TestNestedGroupedRoundTrip(t *testing.T) {
	reg := testRegistry(t)

	// Cost-Information contains Unit-Value, itself grouped.
	a, err := Compose(reg, "Cost-Information", []Member{
		{Name: "Unit-Value", Value: []Member{
			{Name: "Value-Digits", Value: int64(1995)},
			{Name: "Exponent", Value: int32(-2)},
		}},
		{Name: "Currency-Code", Value: uint32(978)},
		{Name: "Cost-Unit", Value: "EUR"},
	})
	if err != nil {
		t.Fatalf("Compose nested failed: %v", err)
	}

	// Serialize through the transport boundary and decode back.
	decoded, err := FromRaw(reg, a.ToRaw())
	if err != nil {
		t.Fatalf("FromRaw failed: %v", err)
	}

	m := Decompose(decoded)
	uv, ok := m["Unit-Value"].(map[string]any)
	if !ok {
		t.Fatalf("Unit-Value: got %T, want nested map", m["Unit-Value"])
	}
	if uv["Value-Digits"].(int64) != 1995 {
		t.Errorf("Value-Digits: got %v, want 1995", uv["Value-Digits"])
	}
	if uv["Exponent"].(int32) != -2 {
		t.Errorf("Exponent: got %v, want -2", uv["Exponent"])
	}
	if m["Currency-Code"].(uint32) != 978 {
		t.Errorf("Currency-Code: got %v, want 978", m["Currency-Code"])
	}
	if m["Cost-Unit"].(string) != "EUR" {
		t.Errorf("Cost-Unit: got %v, want EUR", m["Cost-Unit"])
	}
}

func TestRepeatedChildrenCollect(t *testing.T) {
	reg := testRegistry(t)

	a, err := Compose(reg, "Final-Unit-Indication", []Member{
		{Name: "Final-Unit-Action", Value: "RESTRICT_ACCESS"},
		{Name: "Filter-Id", Value: "filter-a"},
		{Name: "Filter-Id", Value: "filter-b"},
		{Name: "Filter-Id", Value: "filter-c"},
	})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	m := Decompose(a)
	seq, ok := m["Filter-Id"].([]any)
	if !ok {
		t.Fatalf("Filter-Id: got %T, want []any", m["Filter-Id"])
	}
	want := []string{"filter-a", "filter-b", "filter-c"}
	if len(seq) != len(want) {
		t.Fatalf("Filter-Id count: got %d, want %d", len(seq), len(want))
	}
	for i, w := range want {
		if seq[i].(string) != w {
			t.Errorf("Filter-Id[%d]: got %v, want %s", i, seq[i], w)
		}
	}
}

func TestUnknownAVPPreserved(t *testing.T) {
	reg := testRegistry(t)

	payload := []byte{0xde, 0xad, 0xbe, 0xef}
	a, err := FromRaw(reg, RawAVP{Code: 65000, VendorID: 4242, Flags: FlagVendor, Data: payload})
	if err != nil {
		t.Fatalf("FromRaw for unknown code failed: %v", err)
	}
	if a.Known() {
		t.Fatal("Code 65000 should be unknown")
	}
	if a.Name() != "AVP-65000" {
		t.Errorf("Name: got %s, want AVP-65000", a.Name())
	}

	u := Logical(a).(Unknown)
	if u.Code != 65000 || u.VendorID != 4242 {
		t.Errorf("Unknown tags: got code=%d vendor=%d", u.Code, u.VendorID)
	}
	if !bytes.Equal(u.Data, payload) {
		t.Errorf("Unknown payload: got %x, want %x", u.Data, payload)
	}

	// Round-trips unmodified.
	raw := a.ToRaw()
	if raw.Code != 65000 || !bytes.Equal(raw.Data, payload) {
		t.Errorf("Unknown ToRaw: got %+v", raw)
	}
}

func TestUnknownChildInsideGroupPreserved(t *testing.T) {
	reg := testRegistry(t)

	a, err := Compose(reg, "Subscription-Id", []Member{
		{Name: "Subscription-Id-Type", Value: "END_USER_IMSI"},
		{Name: "Subscription-Id-Data", Value: "234010000000001"},
	})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	// Append a child the registry has never heard of and re-decode.
	raw := a.ToRaw()
	unknown := &AVP{Code: 64999, Flags: 0, Raw: []byte{0x01, 0x02, 0x03, 0x04}}
	raw.Data = append(raw.Data, unknown.serialize()...)

	decoded, err := FromRaw(reg, raw)
	if err != nil {
		t.Fatalf("FromRaw failed: %v", err)
	}
	if len(decoded.Children) != 3 {
		t.Fatalf("Children: got %d, want 3", len(decoded.Children))
	}

	m := Decompose(decoded)
	u, ok := m["AVP-64999"].(Unknown)
	if !ok {
		t.Fatalf("AVP-64999: got %T, want Unknown", m["AVP-64999"])
	}
	if !bytes.Equal(u.Data, []byte{0x01, 0x02, 0x03, 0x04}) {
		t.Errorf("Unknown child payload: got %x", u.Data)
	}
}

func TestGroupedDecodeAcceptsAnyChildOrder(t *testing.T) {
	reg := testRegistry(t)

	// Children reversed relative to the dictionary's encoding order.
	a, err := Compose(reg, "Subscription-Id", []Member{
		{Name: "Subscription-Id-Data", Value: "447700900123"},
		{Name: "Subscription-Id-Type", Value: "END_USER_E164"},
	})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	decoded, err := FromRaw(reg, a.ToRaw())
	if err != nil {
		t.Fatalf("FromRaw failed: %v", err)
	}
	m := Decompose(decoded)
	if m["Subscription-Id-Data"].(string) != "447700900123" {
		t.Errorf("Subscription-Id-Data: got %v", m["Subscription-Id-Data"])
	}
}

func TestMalformedGroupedPayloadFails(t *testing.T) {
	reg := testRegistry(t)

	// Declared length larger than the remaining payload.
	bad := RawAVP{Code: 443, Data: []byte{
		0x00, 0x00, 0x01, 0xc2, // code 450
		0x40, 0x00, 0x00, 0xff, // flags + impossible length
	}}
	if _, err := FromRaw(reg, bad); err == nil {
		t.Fatal("Expected error for malformed grouped payload, got nil")
	}
}

func TestVendorAVPHeader(t *testing.T) {
	reg := testRegistry(t)

	a, err := Encode(reg, "Address-Data", "41780000002")
	if err != nil {
		t.Fatalf("Encode vendor AVP failed: %v", err)
	}
	if a.Flags&FlagVendor == 0 {
		t.Error("Vendor-scoped AVP should carry the V-bit")
	}
	if a.VendorID != 10415 {
		t.Errorf("VendorID: got %d, want 10415", a.VendorID)
	}

	b := a.serialize()
	if len(b) != a.Len() {
		t.Errorf("Serialized length: got %d, want %d", len(b), a.Len())
	}
	// 12-byte vendor header + 11 data bytes, padded to 24.
	if a.Len() != 24 {
		t.Errorf("Len: got %d, want 24", a.Len())
	}
}

func TestAVPPaddingAlignment(t *testing.T) {
	reg := testRegistry(t)
	for _, s := range []string{"", "a", "ab", "abc", "abcd"} {
		a, err := Encode(reg, "Session-Id", s)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		if a.Len()%4 != 0 {
			t.Errorf("Len(%q) = %d, not 32-bit aligned", s, a.Len())
		}
	}
}
