// Package config holds the settings of the ticketbox CLI.
package config

import "time"

// Config holds runtime settings for the ticketbox CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the backend gRPC endpoint.
//   - KeyFile: wallet secret key, either a Solana CLI JSON byte array or a
//     base58 string. Empty means the key is asked for on the terminal.
//   - RequestTimeout: deadline applied to every call.
type Config struct {
	ServerEndpointAddr string
	KeyFile            string
	RequestTimeout     time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
