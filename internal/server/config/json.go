package config

import (
	"encoding/json"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/dmitrijs2005/taskkeeper/internal/flagx"
	"github.com/dmitrijs2005/taskkeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept both
// "720h" strings and integer nanoseconds. Comments and trailing commas are
// allowed.
type JsonConfig struct {
	EndpointAddrHTTP      string          `json:"endpoint_addr_http"`
	EndpointAddrGRPC      string          `json:"endpoint_addr_grpc"`
	DatabaseDSN           string          `json:"database_dsn"`
	SecretKey             string          `json:"secret_key"`
	TokenValidityDuration *timex.Duration `json:"token_validity_duration"`
	BcryptCost            int             `json:"bcrypt_cost"`
	RedisAddr             string          `json:"redis_addr"`
	TaskCacheTTL          *timex.Duration `json:"task_cache_ttl"`
	LogLevel              string          `json:"log_level"`
	OTelEndpoint          string          `json:"otel_endpoint"`
}

// parseJSON loads the file named by -c or -config, if any, and copies every
// field present in it into config.
func parseJSON(config *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(jsonc.ToJSON(raw), c); err != nil {
		return err
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.OTelEndpoint, c.OTelEndpoint)
	if c.TokenValidityDuration != nil {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.TaskCacheTTL != nil {
		config.TaskCacheTTL = c.TaskCacheTTL.Duration
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
