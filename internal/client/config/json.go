package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/ticketbox/internal/flagx"
	"github.com/dmitrijs2005/ticketbox/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent keys
// leave the defaults in place.
type JsonConfig struct {
	ServerEndpointAddr *string         `json:"server_endpoint_addr"`
	KeyFile            *string         `json:"key_file"`
	RequestTimeout     *timex.Duration `json:"request_timeout"`
}

// parseJson overlays Config with values loaded from the file named by
// -c or -config.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.ServerEndpointAddr != nil {
		cfg.ServerEndpointAddr = *jc.ServerEndpointAddr
	}
	if jc.KeyFile != nil {
		cfg.KeyFile = *jc.KeyFile
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	return nil
}
