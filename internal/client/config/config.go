package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the nuudash CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the dashboard gRPC endpoint.
//   - AuthAPIBaseURL: base URL of the identity provider.
//   - AuthTimeout: bound on each identity provider call.
//   - RequestTimeout: bound on each dashboard call.
//   - OnlineCheckInterval: how often the client probes server reachability.
type Config struct {
	ServerEndpointAddr  string        `env:"NUUDASH_SERVER_ADDR"`
	AuthAPIBaseURL      string        `env:"NUUDASH_AUTH_API_URL"`
	AuthTimeout         time.Duration `env:"NUUDASH_AUTH_TIMEOUT"`
	RequestTimeout      time.Duration `env:"NUUDASH_REQUEST_TIMEOUT"`
	OnlineCheckInterval time.Duration `env:"NUUDASH_ONLINE_CHECK_INTERVAL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.AuthAPIBaseURL = "http://127.0.0.1:8000"
	c.AuthTimeout = 10 * time.Second
	c.RequestTimeout = 15 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
}

// Load applies defaults, then JSON, environment and flags from args.
// Later sources take precedence over earlier ones.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig is Load over the process arguments; it panics on error.
func LoadConfig() *Config {
	cfg, err := Load(os.Args[1:])
	if err != nil {
		panic(err)
	}
	return cfg
}
