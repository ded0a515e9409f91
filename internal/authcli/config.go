// Package authcli implements the interactive command-line client for the
// TickPulse auth server. It talks to the HTTP/JSON API and keeps the issued
// token pair in memory for the lifetime of the session.
package authcli

import (
	"flag"
	"os"
	"time"

	"github.com/tickpulse/tickpulse/internal/flagx"
)

// Config holds runtime settings for the CLI.
//
// Fields:
//   - ServerURL: base URL of the auth server HTTP endpoint.
//   - RequestTimeout: per-request timeout for API calls.
type Config struct {
	ServerURL      string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 10 * time.Second
}

// parseFlags populates Config from command-line flags:
//
//	-a string   base URL of the auth server
//	-t int      request timeout, seconds
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t"})

	fs := flag.NewFlagSet("authcli", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the auth server")
	timeoutSec := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeoutSec) * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)
	return cfg
}
