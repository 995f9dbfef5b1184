package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/nuudash/internal/flagx"
	"github.com/dmitrijs2005/nuudash/internal/timex"
)

// JsonConfig is the on-disk shape of the server config. Durations use
// timex.Duration so both "10s" and integer nanoseconds are accepted.
// Absent fields keep their current value.
type JsonConfig struct {
	GRPCAddr       *string         `json:"grpc_addr"`
	HTTPAddr       *string         `json:"http_addr"`
	AuthAPIBaseURL string          `json:"auth_api_url"`
	AuthTimeout    *timex.Duration `json:"auth_timeout"`
	TokenSecret    string          `json:"token_secret"`

	DatasetSource  string `json:"dataset_source"`
	DatasetDir     string `json:"dataset_dir"`
	DatabaseDriver string `json:"database_driver"`
	DatabaseDSN    string `json:"database_dsn"`
	MigrateOnStart *bool  `json:"migrate_on_start"`

	S3AccessKey    string `json:"s3_access_key"`
	S3SecretKey    string `json:"s3_secret_key"`
	S3Bucket       string `json:"s3_bucket"`
	S3Prefix       string `json:"s3_prefix"`
	S3Region       string `json:"s3_region"`
	S3BaseEndpoint string `json:"s3_base_endpoint"`
	S3PathStyle    *bool  `json:"s3_path_style"`

	FreeAccountCap  *int `json:"free_account_cap"`
	FreeHistoryCap  *int `json:"free_history_cap"`
	PremiumPageSize *int `json:"premium_page_size"`

	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`
}

// parseJson loads the file named by -c or -config in args, if any.
func parseJson(config *Config, args []string) error {

	jsonConfigFile := flagx.ConfigFile(args)

	// nothing to load
	if jsonConfigFile == "" {
		return nil
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config %s: %w", jsonConfigFile, err)
	}

	c.apply(config)
	return nil
}

func (c *JsonConfig) apply(config *Config) {
	setPtr(&config.GRPCAddr, c.GRPCAddr)
	setPtr(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.AuthAPIBaseURL, c.AuthAPIBaseURL)
	if c.AuthTimeout != nil {
		config.AuthTimeout = c.AuthTimeout.Duration
	}
	setString(&config.TokenSecret, c.TokenSecret)

	setString(&config.DatasetSource, c.DatasetSource)
	setString(&config.DatasetDir, c.DatasetDir)
	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setPtr(&config.MigrateOnStart, c.MigrateOnStart)

	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Prefix, c.S3Prefix)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setPtr(&config.S3PathStyle, c.S3PathStyle)

	setPtr(&config.FreeAccountCap, c.FreeAccountCap)
	setPtr(&config.FreeHistoryCap, c.FreeHistoryCap)
	setPtr(&config.PremiumPageSize, c.PremiumPageSize)

	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setPtr[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
