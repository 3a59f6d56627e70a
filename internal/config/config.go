package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Server     ServerConfig
	Quota      QuotaConfig
	Dictionary DictionaryConfig
	Logging    LoggingConfig
	Metrics    MetricsConfig
}

// ServerConfig holds the mock OCS identity and listener configuration
type ServerConfig struct {
	ListenAddr     string
	OriginHost     string
	OriginRealm    string
	MaxConnections int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// QuotaConfig holds the grant the mock OCS returns on every CCR
type QuotaConfig struct {
	GrantedCCTime        uint32
	GrantedCCTotalOctets uint64
	ValidityTime         uint32
}

// DictionaryConfig holds the AVP schema source configuration.
// An empty Path selects the embedded default dictionary.
type DictionaryConfig struct {
	Path string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "json", "text"
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled       bool
	StatsInterval time.Duration
}

// Load loads configuration from file and environment variables
// Priority order (highest to lowest):
// 1. Environment variables (prefixed with GYDCCA_)
// 2. Config file specified by configPath
// 3. config.yaml in standard paths
// 4. Hardcoded defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/gy-dcca")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("GYDCCA")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.listenAddr", "0.0.0.0:3868")
	v.SetDefault("server.originHost", "ocs.example.com")
	v.SetDefault("server.originRealm", "example.com")
	v.SetDefault("server.maxConnections", 1000)
	v.SetDefault("server.readTimeout", "30s")
	v.SetDefault("server.writeTimeout", "10s")

	v.SetDefault("quota.grantedCCTime", 3600)
	v.SetDefault("quota.grantedCCTotalOctets", 104857600)
	v.SetDefault("quota.validityTime", 3600)

	v.SetDefault("dictionary.path", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.statsInterval", "60s")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := c.Quota.Validate(); err != nil {
		return fmt.Errorf("quota config: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}
	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics config: %w", err)
	}
	return nil
}

// Validate validates the ServerConfig
func (c *ServerConfig) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listenAddr is required")
	}
	if c.OriginHost == "" {
		return fmt.Errorf("originHost is required")
	}
	if c.OriginRealm == "" {
		return fmt.Errorf("originRealm is required")
	}
	if c.MaxConnections < 1 {
		return fmt.Errorf("maxConnections must be at least 1")
	}
	if c.ReadTimeout < 0 {
		return fmt.Errorf("readTimeout must be non-negative")
	}
	if c.WriteTimeout < 0 {
		return fmt.Errorf("writeTimeout must be non-negative")
	}
	return nil
}

// Validate validates the QuotaConfig
func (c *QuotaConfig) Validate() error {
	if c.GrantedCCTime == 0 && c.GrantedCCTotalOctets == 0 {
		return fmt.Errorf("at least one of grantedCCTime and grantedCCTotalOctets must be positive")
	}
	return nil
}

// Validate validates the LoggingConfig
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Level] {
		return fmt.Errorf("level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{
		"json": true,
		"text": true,
	}
	if !validFormats[c.Format] {
		return fmt.Errorf("format must be one of: json, text")
	}
	return nil
}

// Validate validates the MetricsConfig
func (c *MetricsConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.StatsInterval < 0 {
		return fmt.Errorf("statsInterval must be non-negative")
	}
	return nil
}
