package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/nuudash/internal/flagx"
)

var serverFlags = []string{
	"-a", "-http", "-auth", "-auth-timeout", "-s",
	"-source", "-data", "-driver", "-d",
	"-b", "-prefix", "-g", "-e",
	"-free-accounts", "-free-history", "-page-size",
	"-log-level", "-log-format",
}

// parseFlags populates server Config fields from command-line flags.
//
//	-a string             gRPC bind address (e.g., ":50051")
//	-http string          HTTP bind address, empty disables it
//	-auth string          identity provider base URL
//	-auth-timeout dur     identity provider timeout (e.g., "10s")
//	-s string             membership token secret
//	-source string        dataset source: dir, s3 or sql
//	-data string          dataset directory
//	-driver string        SQL driver: pgx or sqlite
//	-d string             SQL DSN
//	-b / -prefix string   S3 bucket and key prefix
//	-g / -e string        S3 region and endpoint
//	-free-accounts int    FREE visible accounts
//	-free-history int     FREE history records
//	-page-size int        PREMIUM history page size
//	-log-level / -log-format string
//
// Only the flags listed above are picked out of args, so other components
// can share the command line.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, serverFlags)

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.GRPCAddr, "a", config.GRPCAddr, "gRPC address and port")
	fs.StringVar(&config.HTTPAddr, "http", config.HTTPAddr, "HTTP address and port")
	fs.StringVar(&config.AuthAPIBaseURL, "auth", config.AuthAPIBaseURL, "identity provider base URL")
	fs.DurationVar(&config.AuthTimeout, "auth-timeout", config.AuthTimeout, "identity provider timeout")
	fs.StringVar(&config.TokenSecret, "s", config.TokenSecret, "membership token secret")

	fs.StringVar(&config.DatasetSource, "source", config.DatasetSource, "dataset source (dir, s3, sql)")
	fs.StringVar(&config.DatasetDir, "data", config.DatasetDir, "dataset directory")
	fs.StringVar(&config.DatabaseDriver, "driver", config.DatabaseDriver, "SQL driver (pgx, sqlite)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")

	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Prefix, "prefix", config.S3Prefix, "S3 key prefix")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	fs.IntVar(&config.FreeAccountCap, "free-accounts", config.FreeAccountCap, "FREE visible accounts")
	fs.IntVar(&config.FreeHistoryCap, "free-history", config.FreeHistoryCap, "FREE history records")
	fs.IntVar(&config.PremiumPageSize, "page-size", config.PremiumPageSize, "PREMIUM history page size")

	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")
	fs.StringVar(&config.LogFormat, "log-format", config.LogFormat, "log format (json, text)")

	return fs.Parse(args)
}
