package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hsdfat8/gy-dcca/dictionary"
	"github.com/hsdfat8/gy-dcca/internal/config"
	"github.com/hsdfat8/gy-dcca/pkg/logger"
	"github.com/hsdfat8/gy-dcca/pkg/metrics"
	"github.com/hsdfat8/gy-dcca/server"
)

var (
	version = "1.0.0"
	cfgFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "gy-ocs",
		Short:   "Mock online charging server for Gy Credit-Control",
		Long:    "Listens for Diameter Credit-Control-Requests and answers every one with a configured quota grant. Intended as a test peer for Gy clients.",
		Version: version,
		RunE:    run,
	}

	rootCmd.Flags().StringVar(&cfgFile, "config", "", "Configuration file path (default: config.yaml)")
	rootCmd.Flags().String("ip", "", "Listen IP address (overrides config)")
	rootCmd.Flags().Int("port", 0, "Listen port (overrides config)")
	rootCmd.Flags().String("host", "", "Origin-Host identity (overrides config)")
	rootCmd.Flags().String("realm", "", "Origin-Realm identity (overrides config)")
	rootCmd.Flags().String("dictionary", "", "AVP dictionary file (default: embedded)")
	rootCmd.Flags().String("log-level", "", "Log level (debug|info|warn|error)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	if ip, _ := cmd.Flags().GetString("ip"); ip != "" {
		port, _ := cmd.Flags().GetInt("port")
		if port == 0 {
			port = 3868
		}
		cfg.Server.ListenAddr = fmt.Sprintf("%s:%d", ip, port)
	} else if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Server.ListenAddr = fmt.Sprintf("0.0.0.0:%d", port)
	}
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.Server.OriginHost = host
	}
	if realm, _ := cmd.Flags().GetString("realm"); realm != "" {
		cfg.Server.OriginRealm = realm
	}
	if dict, _ := cmd.Flags().GetString("dictionary"); dict != "" {
		cfg.Dictionary.Path = dict
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	logger.SetLevel(cfg.Logging.Level)

	var reg *dictionary.Registry
	if cfg.Dictionary.Path != "" {
		reg, err = dictionary.Load(cfg.Dictionary.Path)
	} else {
		reg, err = dictionary.LoadDefault()
	}
	if err != nil {
		return fmt.Errorf("load dictionary: %w", err)
	}
	if reg.Empty() {
		return fmt.Errorf("dictionary %q loaded empty", cfg.Dictionary.Path)
	}

	ocs, err := server.NewOCS(cfg, reg)
	if err != nil {
		return err
	}
	if err := ocs.Start(); err != nil {
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	ocs.Stop()
	fmt.Println(metrics.FormatMetrics("OCS counters", ocs.Metrics()))
	return nil
}
