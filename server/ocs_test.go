package server

import (
	"net"
	"testing"
	"time"

	"github.com/hsdfat8/gy-dcca/avp"
	"github.com/hsdfat8/gy-dcca/commands/creditcontrol"
	"github.com/hsdfat8/gy-dcca/dictionary"
	"github.com/hsdfat8/gy-dcca/internal/config"
	"github.com/hsdfat8/gy-dcca/pkg/metrics"
	"github.com/hsdfat8/gy-dcca/transport"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			ListenAddr:     "127.0.0.1:0",
			OriginHost:     "ocs.example.com",
			OriginRealm:    "example.com",
			MaxConnections: 10,
			ReadTimeout:    5 * time.Second,
			WriteTimeout:   5 * time.Second,
		},
		Quota: config.QuotaConfig{
			GrantedCCTime:        3600,
			GrantedCCTotalOctets: 104857600,
			ValidityTime:         3600,
		},
		Logging: config.LoggingConfig{Level: "error", Format: "json"},
	}
}

func startTestOCS(t *testing.T) (*OCS, *dictionary.Registry, *creditcontrol.Engine, net.Conn) {
	t.Helper()

	reg, err := dictionary.LoadDefault()
	if err != nil {
		t.Fatalf("Failed to load dictionary: %v", err)
	}
	ocs, err := NewOCS(testConfig(), reg)
	if err != nil {
		t.Fatalf("Failed to create OCS: %v", err)
	}
	if err := ocs.Start(); err != nil {
		t.Fatalf("Failed to start OCS: %v", err)
	}
	t.Cleanup(ocs.Stop)

	conn, err := net.DialTimeout("tcp", ocs.Addr().String(), 2*time.Second)
	if err != nil {
		t.Fatalf("Failed to dial OCS: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	engine, err := creditcontrol.NewEngine(reg)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	return ocs, reg, engine, conn
}

func sendCCR(t *testing.T, conn net.Conn, engine *creditcontrol.Engine, kind creditcontrol.RequestKind, number uint32) {
	t.Helper()
	avps, err := engine.BuildRequest(kind, creditcontrol.RequestFields{
		SessionID:        "pgw.example.com;123;456",
		OriginHost:       "pgw.example.com",
		OriginRealm:      "example.com",
		DestinationRealm: "example.com",
		ServiceContextID: "32251@3gpp.org",
		CCRequestNumber:  number,
		SubscriptionIDs: []creditcontrol.SubscriptionID{
			{Type: "END_USER_E164", Data: "447700900123"},
		},
	})
	if err != nil {
		t.Fatalf("Failed to build CCR: %v", err)
	}
	msg := transport.NewRequest(creditcontrol.CommandCode, creditcontrol.AppID, number+1, number+1)
	msg.SetBody(avps)
	if err := transport.WriteMessage(conn, msg); err != nil {
		t.Fatalf("Failed to send CCR: %v", err)
	}
}

func readCCA(t *testing.T, conn net.Conn, reg *dictionary.Registry, engine *creditcontrol.Engine) *creditcontrol.AnswerRecord {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	msg, err := transport.ReadMessage(conn)
	if err != nil {
		t.Fatalf("Failed to read CCA: %v", err)
	}
	if msg.Header.IsRequest() {
		t.Fatal("Expected an answer, got a request")
	}
	avps, err := avp.FromRawAll(reg, msg.AVPs)
	if err != nil {
		t.Fatalf("Failed to decode CCA AVPs: %v", err)
	}
	rec, err := engine.ParseAnswer(avps)
	if err != nil {
		t.Fatalf("Failed to parse CCA: %v", err)
	}
	return rec
}

func TestOCSGrantsQuotaOnInitial(t *testing.T) {
	ocs, reg, engine, conn := startTestOCS(t)

	sendCCR(t, conn, engine, creditcontrol.Initial, 0)
	rec := readCCA(t, conn, reg, engine)

	if !rec.Granted() {
		t.Fatalf("Expected DIAMETER_SUCCESS, got %d", rec.ResultCode)
	}
	if rec.SessionID != "pgw.example.com;123;456" {
		t.Errorf("SessionID mismatch: got %s", rec.SessionID)
	}
	if rec.GrantedServiceUnit == nil {
		t.Fatal("Expected a granted service unit")
	}
	if *rec.GrantedServiceUnit.CCTime != 3600 {
		t.Errorf("CC-Time mismatch: got %d", *rec.GrantedServiceUnit.CCTime)
	}
	if *rec.GrantedServiceUnit.CCTotalOctets != 104857600 {
		t.Errorf("CC-Total-Octets mismatch: got %d", *rec.GrantedServiceUnit.CCTotalOctets)
	}
	if rec.ValidityTime != 3600 {
		t.Errorf("Validity-Time mismatch: got %d", rec.ValidityTime)
	}
	if got := ocs.Metrics().Get(metrics.CCRInitialReceived); got != 1 {
		t.Errorf("ccr_initial_received: got %d, want 1", got)
	}
}

func TestOCSSessionLifecycle(t *testing.T) {
	ocs, reg, engine, conn := startTestOCS(t)

	sendCCR(t, conn, engine, creditcontrol.Initial, 0)
	if rec := readCCA(t, conn, reg, engine); !rec.Granted() {
		t.Fatalf("Initial: expected success, got %d", rec.ResultCode)
	}

	sendCCR(t, conn, engine, creditcontrol.Update, 1)
	rec := readCCA(t, conn, reg, engine)
	if !rec.Granted() {
		t.Fatalf("Update: expected success, got %d", rec.ResultCode)
	}
	if rec.GrantedServiceUnit == nil {
		t.Error("Update answer should re-grant quota")
	}
	if rec.CCRequestNumber != 1 {
		t.Errorf("Update CC-Request-Number: got %d, want 1", rec.CCRequestNumber)
	}

	sendCCR(t, conn, engine, creditcontrol.Terminate, 2)
	rec = readCCA(t, conn, reg, engine)
	if !rec.Granted() {
		t.Fatalf("Terminate: expected success, got %d", rec.ResultCode)
	}
	if rec.GrantedServiceUnit != nil {
		t.Error("Terminate answer should not grant quota")
	}

	if got := ocs.Metrics().Get(metrics.CCASent); got != 3 {
		t.Errorf("cca_sent: got %d, want 3", got)
	}
}

func TestOCSRejectsUnsupportedCommand(t *testing.T) {
	_, reg, engine, conn := startTestOCS(t)

	msg := transport.NewRequest(280, 0, 1, 1) // Device-Watchdog-Request
	if err := transport.WriteMessage(conn, msg); err != nil {
		t.Fatalf("Failed to send DWR: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	ans, err := transport.ReadMessage(conn)
	if err != nil {
		t.Fatalf("Failed to read answer: %v", err)
	}
	if !ans.Header.IsError() {
		t.Error("Answer to unsupported command should carry the E flag")
	}

	avps, err := avp.FromRawAll(reg, ans.AVPs)
	if err != nil {
		t.Fatalf("Failed to decode answer AVPs: %v", err)
	}
	rec, err := engine.ParseAnswer(avps)
	if err != nil {
		t.Fatalf("Failed to parse answer: %v", err)
	}
	if rec.ResultCode != uint32(transport.ResultCodeCommandUnsupported) {
		t.Errorf("Result-Code: got %d, want %d", rec.ResultCode, transport.ResultCodeCommandUnsupported)
	}
}

func TestOCSAnswersMissingAVP(t *testing.T) {
	_, reg, engine, conn := startTestOCS(t)

	// A CCR without Session-Id must come back as DIAMETER_MISSING_AVP.
	a, err := avp.Encode(reg, "Origin-Host", "pgw.example.com")
	if err != nil {
		t.Fatalf("Failed to encode AVP: %v", err)
	}
	msg := transport.NewRequest(creditcontrol.CommandCode, creditcontrol.AppID, 1, 1)
	msg.SetBody([]*avp.AVP{a})
	if err := transport.WriteMessage(conn, msg); err != nil {
		t.Fatalf("Failed to send CCR: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	ans, err := transport.ReadMessage(conn)
	if err != nil {
		t.Fatalf("Failed to read answer: %v", err)
	}
	avps, err := avp.FromRawAll(reg, ans.AVPs)
	if err != nil {
		t.Fatalf("Failed to decode answer AVPs: %v", err)
	}
	rec, err := engine.ParseAnswer(avps)
	if err != nil {
		t.Fatalf("Failed to parse answer: %v", err)
	}
	if rec.ResultCode != uint32(transport.ResultCodeMissingAVP) {
		t.Errorf("Result-Code: got %d, want %d", rec.ResultCode, transport.ResultCodeMissingAVP)
	}
}
