// Package flagx lets several config layers share one command line. Each
// layer picks out only the flags it owns, so unknown flags from another
// layer never make flag.Parse fail.
package flagx

import (
	"flag"
	"strings"
)

// FilterArgs keeps the flags named in allowedFlags together with their
// values and drops everything else. Both "-c conf.json" and "-c=conf.json"
// forms are understood. A token starting with "-" is never taken as a value.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; !ok {
			continue
		}
		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// ConfigFile returns the path given with -c or -config, or "" when neither
// is present. When both appear the last one wins.
func ConfigFile(args []string) string {
	var path string

	fs := flag.NewFlagSet("config-file", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	return path
}
