package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/ticketbox/internal/flagx"
)

// GlobalFlags are the flags parseFlags understands. Every one takes a value.
var GlobalFlags = []string{"-a", "-k", "-t", "-c", "-config"}

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   address and port of the backend server
//	-k string   wallet key file
//	-t int      request timeout in seconds
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-k", "-t"})

	fs := flag.NewFlagSet("ticketbox-cli", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.KeyFile, "k", cfg.KeyFile, "wallet key file")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	return nil
}
