package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration. It is loaded once at
// start-up and passed by value afterwards.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Network  NetworkConfig  `mapstructure:"network"`
	Keystore KeystoreConfig `mapstructure:"keystore"`
	Session  SessionConfig  `mapstructure:"session"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Database DatabaseConfig `mapstructure:"database"`
	Breaker  BreakerConfig  `mapstructure:"breaker"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

// NetworkConfig selects the Sui network and how to reach it.
type NetworkConfig struct {
	Active         string            `mapstructure:"active"`    // testnet, mainnet
	Endpoints      map[string]string `mapstructure:"endpoints"` // network -> full node URL
	ExplorerBase   string            `mapstructure:"explorer_base"`
	CoinType       string            `mapstructure:"coin_type"`
	GasBudget      uint64            `mapstructure:"gas_budget"` // in MIST
	RequestTimeout time.Duration     `mapstructure:"request_timeout"`
}

// Endpoint returns the full node URL of the active network.
func (n NetworkConfig) Endpoint() string {
	return n.Endpoints[n.Active]
}

type KeystoreConfig struct {
	Path string `mapstructure:"path"` // Sui CLI keystore (JSON array of base64 keys)
}

type SessionConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// BreakerConfig tunes the circuit breaker around the full node.
type BreakerConfig struct {
	MaxRequests         uint32        `mapstructure:"max_requests"`
	Interval            time.Duration `mapstructure:"interval"`
	Timeout             time.Duration `mapstructure:"timeout"`
	ConsecutiveFailures uint32        `mapstructure:"consecutive_failures"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: STG_ (Sui Transfer Gateway).
// Nested keys use underscore: STG_NETWORK_ACTIVE, STG_SESSION_SECRET, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("network.active", "testnet")
	v.SetDefault("network.endpoints.testnet", "https://fullnode.testnet.sui.io:443")
	v.SetDefault("network.endpoints.mainnet", "https://fullnode.mainnet.sui.io:443")
	v.SetDefault("network.explorer_base", "https://suiscan.xyz")
	v.SetDefault("network.coin_type", "0x2::sui::SUI")
	v.SetDefault("network.gas_budget", 10_000_000)
	v.SetDefault("network.request_timeout", "30s")
	v.SetDefault("keystore.path", "sui.keystore")
	v.SetDefault("session.secret", "")
	v.SetDefault("session.expiry", "12h")
	v.SetDefault("session.issuer", "sui-transfer-gateway")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "transfer_gateway")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("breaker.max_requests", 1)
	v.SetDefault("breaker.interval", "60s")
	v.SetDefault("breaker.timeout", "30s")
	v.SetDefault("breaker.consecutive_failures", 5)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: STG_NETWORK_ACTIVE -> network.active
	v.SetEnvPrefix("STG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required, env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings the gateway cannot run without.
func (c *Config) Validate() error {
	switch c.Network.Active {
	case "testnet", "mainnet":
	default:
		return fmt.Errorf("network.active must be testnet or mainnet, got %q", c.Network.Active)
	}
	if c.Network.Endpoint() == "" {
		return fmt.Errorf("network.endpoints has no URL for %q", c.Network.Active)
	}
	if c.Network.CoinType == "" {
		return errors.New("network.coin_type is required")
	}
	if c.Session.Secret == "" && c.Server.Mode != "debug" {
		return errors.New("session.secret is required outside debug mode")
	}
	return nil
}
