package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/flagx"
)

// parseFlags overlays cfg from -a, -t and -f. Other arguments are filtered out
// first so -c/-config does not break parsing.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-t", "-f"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the server")
	fs.StringVar(&cfg.SessionFile, "f", cfg.SessionFile, "local session database file")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
	return nil
}
