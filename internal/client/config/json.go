package config

import (
	"encoding/json"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/dmitrijs2005/taskkeeper/internal/flagx"
	"github.com/dmitrijs2005/taskkeeper/internal/timex"
)

// JsonConfig is a DTO used only for JSON unmarshalling. The timeout accepts
// "10s" strings or integer nanoseconds.
type JsonConfig struct {
	ServerURL      string          `json:"server_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	SessionFile    *string         `json:"session_file"`
}

// parseJSON overlays cfg with the fields present in the file named by -c or
// -config. Without either flag it does nothing.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var jc JsonConfig
	if err := json.Unmarshal(jsonc.ToJSON(data), &jc); err != nil {
		return err
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.SessionFile != nil {
		cfg.SessionFile = *jc.SessionFile
	}
	return nil
}
