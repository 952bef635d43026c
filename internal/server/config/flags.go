package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/flagx"
)

const day = 24 * time.Hour

// parseFlags overlays Config fields from command-line flags.
//
//	-a string   HTTP bind address (e.g. ":8080")
//	-g string   gRPC health bind address
//	-d string   PostgreSQL DSN, or "memory"
//	-s string   JWT HMAC secret key
//	-t int      token validity, days
//	-b int      bcrypt cost
//	-r string   Redis address for the task cache
//	-l string   log level
//
// Arguments are filtered first so that -c/-config and any other layer's
// flags do not break parsing.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-g", "-d", "-s", "-t", "-b", "-r", "-l"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC health address and port")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "JWT secret key")
	validityDays := fs.Int("t", int(config.TokenValidityDuration/day), "token validity (in days)")
	fs.IntVar(&config.BcryptCost, "b", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	visited := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			visited = true
		}
	})
	if visited {
		config.TokenValidityDuration = time.Duration(*validityDays) * day
	}
	return nil
}
