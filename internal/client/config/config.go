// Package config loads runtime configuration for the TaskKeeper CLI.
//
// Sources, later wins: built-in defaults, an optional JSON file (-c or
// -config, comments allowed), environment variables, command-line flags.
//
//	-a string   base URL of the TaskKeeper HTTP API
//	-t int      request timeout (seconds)
//	-f string   local session database; empty keeps the login in memory only
//
// JSON shape:
//
//	{
//	  "server_url": "http://127.0.0.1:8080",
//	  "request_timeout": "10s",
//	  "session_file": "taskkeeper-session.db"
//	}
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime settings for the TaskKeeper CLI.
type Config struct {
	ServerURL      string        `env:"TASKKEEPER_SERVER_URL"`
	RequestTimeout time.Duration `env:"TASKKEEPER_REQUEST_TIMEOUT"`
	SessionFile    string        `env:"TASKKEEPER_SESSION_FILE"`
}

// LoadDefaults populates c with local development defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 10 * time.Second
	c.SessionFile = "taskkeeper-session.db"
}

// Validate reports settings the client cannot run with.
func (c *Config) Validate() error {
	var errs []error
	u, err := url.Parse(c.ServerURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("invalid server url %q", c.ServerURL))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	return errors.Join(errs...)
}

// LoadConfig builds a Config from the process arguments and environment.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:], env.ToMap(os.Environ()))
}

func load(args []string, environ map[string]string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, args); err != nil {
		return nil, fmt.Errorf("json config: %w", err)
	}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("env config: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
