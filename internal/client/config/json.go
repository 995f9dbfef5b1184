package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/nuudash/internal/flagx"
	"github.com/dmitrijs2005/nuudash/internal/timex"
)

// JsonConfig is the on-disk shape of the CLI config. Intervals may be
// strings like "3s" or integer nanoseconds. Absent fields keep their
// current value.
type JsonConfig struct {
	ServerEndpointAddr  string          `json:"server_endpoint_addr"`
	AuthAPIBaseURL      string          `json:"auth_api_url"`
	AuthTimeout         *timex.Duration `json:"auth_timeout"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
}

// parseJson overlays cfg with the file named by -c or -config in args.
func parseJson(cfg *Config, args []string) error {
	jsonConfigFile := flagx.ConfigFile(args)
	if jsonConfigFile == "" {
		return nil
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", jsonConfigFile, err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.AuthAPIBaseURL != "" {
		cfg.AuthAPIBaseURL = jc.AuthAPIBaseURL
	}
	if jc.AuthTimeout != nil {
		cfg.AuthTimeout = jc.AuthTimeout.Duration
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	return nil
}
