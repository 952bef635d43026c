package config

import "github.com/caarlos0/env/v11"

// parseEnv overlays values from environ. Variables that are not set leave
// the current value untouched.
func parseEnv(config *Config, environ map[string]string) error {
	return env.ParseWithOptions(config, env.Options{Environment: environ})
}
