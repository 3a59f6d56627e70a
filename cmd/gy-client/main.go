package main

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/hsdfat8/gy-dcca/avp"
	"github.com/hsdfat8/gy-dcca/commands/creditcontrol"
	"github.com/hsdfat8/gy-dcca/dictionary"
	"github.com/hsdfat8/gy-dcca/pkg/logger"
	"github.com/hsdfat8/gy-dcca/transport"
)

var version = "1.0.0"

func main() {
	rootCmd := &cobra.Command{
		Use:     "gy-client",
		Short:   "Gy Credit-Control test client",
		Long:    "Runs Credit-Control sessions against an OCS: for each session it sends CCR Initial, a number of Updates with usage, then Terminate, and prints the answers.",
		Version: version,
		RunE:    run,
	}

	rootCmd.Flags().String("ip", "127.0.0.1", "OCS IP address")
	rootCmd.Flags().Int("port", 3868, "OCS port")
	rootCmd.Flags().String("host", "client.example.com", "Origin-Host identity")
	rootCmd.Flags().String("realm", "example.com", "Origin-Realm identity")
	rootCmd.Flags().String("dest-realm", "example.com", "Destination-Realm")
	rootCmd.Flags().String("msisdn", "447700900123", "Subscriber E.164 number")
	rootCmd.Flags().String("service-context", "32251@3gpp.org", "Service-Context-Id")
	rootCmd.Flags().Int("count", 1, "Number of sessions to run")
	rootCmd.Flags().Int("updates", 1, "Interim updates per session")
	rootCmd.Flags().String("dictionary", "", "AVP dictionary file (default: embedded)")
	rootCmd.Flags().String("log-level", "info", "Log level (debug|info|warn|error)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type sessionParams struct {
	originHost     string
	originRealm    string
	destRealm      string
	msisdn         string
	serviceContext string
	updates        int
}

func run(cmd *cobra.Command, args []string) error {
	ip, _ := cmd.Flags().GetString("ip")
	port, _ := cmd.Flags().GetInt("port")
	count, _ := cmd.Flags().GetInt("count")
	level, _ := cmd.Flags().GetString("log-level")
	logger.SetLevel(level)

	params := sessionParams{}
	params.originHost, _ = cmd.Flags().GetString("host")
	params.originRealm, _ = cmd.Flags().GetString("realm")
	params.destRealm, _ = cmd.Flags().GetString("dest-realm")
	params.msisdn, _ = cmd.Flags().GetString("msisdn")
	params.serviceContext, _ = cmd.Flags().GetString("service-context")
	params.updates, _ = cmd.Flags().GetInt("updates")

	var reg *dictionary.Registry
	var err error
	if dict, _ := cmd.Flags().GetString("dictionary"); dict != "" {
		reg, err = dictionary.Load(dict)
	} else {
		reg, err = dictionary.LoadDefault()
	}
	if err != nil {
		return fmt.Errorf("load dictionary: %w", err)
	}
	engine, err := creditcontrol.NewEngine(reg)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", ip, port)
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()
	logger.Log.Infow("Connected to OCS", "addr", addr)

	for i := 0; i < count; i++ {
		if err := runSession(conn, reg, engine, params); err != nil {
			return fmt.Errorf("session %d: %w", i+1, err)
		}
	}
	return nil
}

// runSession drives one full Initial/Update/Terminate session.
func runSession(conn net.Conn, reg *dictionary.Registry, engine *creditcontrol.Engine, p sessionParams) error {
	sessionID := fmt.Sprintf("%s;%d;%s", p.originHost, time.Now().Unix(), uuid.NewString())
	base := creditcontrol.RequestFields{
		SessionID:        sessionID,
		OriginHost:       p.originHost,
		OriginRealm:      p.originRealm,
		DestinationRealm: p.destRealm,
		ServiceContextID: p.serviceContext,
	}

	initial := base
	initial.SubscriptionIDs = []creditcontrol.SubscriptionID{
		{Type: "END_USER_E164", Data: p.msisdn},
	}
	initial.RequestedServiceUnit = &creditcontrol.ServiceUnit{}
	if err := exchange(conn, reg, engine, creditcontrol.Initial, initial, 0); err != nil {
		return err
	}

	number := uint32(1)
	usedOctets := uint64(0)
	for i := 0; i < p.updates; i++ {
		usedOctets += 10485760
		update := base
		update.CCRequestNumber = number
		update.UsedServiceUnit = &creditcontrol.ServiceUnit{CCTotalOctets: &usedOctets}
		update.RequestedServiceUnit = &creditcontrol.ServiceUnit{}
		if err := exchange(conn, reg, engine, creditcontrol.Update, update, number); err != nil {
			return err
		}
		number++
	}

	terminate := base
	terminate.CCRequestNumber = number
	terminate.UsedServiceUnit = &creditcontrol.ServiceUnit{CCTotalOctets: &usedOctets}
	terminate.TerminationCause = "DIAMETER_LOGOUT"
	return exchange(conn, reg, engine, creditcontrol.Terminate, terminate, number)
}

// exchange sends one CCR and waits for its CCA.
func exchange(conn net.Conn, reg *dictionary.Registry, engine *creditcontrol.Engine, kind creditcontrol.RequestKind, fields creditcontrol.RequestFields, number uint32) error {
	avps, err := engine.BuildRequest(kind, fields)
	if err != nil {
		return fmt.Errorf("build %s: %w", kind, err)
	}

	msg := transport.NewRequest(creditcontrol.CommandCode, creditcontrol.AppID, number+1, number+1)
	msg.SetBody(avps)
	if err := transport.WriteMessage(conn, msg); err != nil {
		return err
	}

	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	ans, err := transport.ReadMessage(conn)
	if err != nil {
		return err
	}
	decoded, err := avp.FromRawAll(reg, ans.AVPs)
	if err != nil {
		return fmt.Errorf("decode answer: %w", err)
	}
	rec, err := engine.ParseAnswer(decoded)
	if err != nil {
		return fmt.Errorf("parse answer: %w", err)
	}

	result := transport.ResultCode(rec.ResultCode)
	fmt.Printf("%s -> %s (%d)\n", kind, result, rec.ResultCode)
	if rec.GrantedServiceUnit != nil {
		if rec.GrantedServiceUnit.CCTime != nil {
			fmt.Printf("  granted cc_time=%d\n", *rec.GrantedServiceUnit.CCTime)
		}
		if rec.GrantedServiceUnit.CCTotalOctets != nil {
			fmt.Printf("  granted cc_total_octets=%d\n", *rec.GrantedServiceUnit.CCTotalOctets)
		}
	}
	if !result.IsSuccess() {
		return fmt.Errorf("%s rejected: %s", kind, result)
	}
	return nil
}
