package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/nuudash/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string         address and port of the dashboard server
//	-auth string      identity provider base URL
//	-i int            online check interval in seconds
//	-t duration       dashboard request timeout
//	-auth-timeout dur identity provider timeout
//
// Only the flags above are taken from args; the rest are ignored.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-auth", "-i", "-t", "-auth-timeout"})

	fs := flag.NewFlagSet("cli", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.AuthAPIBaseURL, "auth", cfg.AuthAPIBaseURL, "identity provider base URL")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "dashboard request timeout")
	fs.DurationVar(&cfg.AuthTimeout, "auth-timeout", cfg.AuthTimeout, "identity provider timeout")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	return nil
}
