package config

import (
	"flag"
	"os"
	"strings"
	"time"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   PostgreSQL DSN of the backend
//	-f string   path of the local snapshot database
//	-w int      sync debounce window in milliseconds
//	-r int      initial-load retry attempts
//
// The function filters os.Args to only include the flags it knows about, so
// the -c/-config flags handled by the JSON overlay do not interfere.
func parseFlags(cfg *Config) {
	args := filterArgs(os.Args[1:], "-d", "-f", "-w", "-r")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "backend database DSN")
	fs.StringVar(&cfg.LocalDBPath, "f", cfg.LocalDBPath, "local snapshot database path")
	debounceMs := fs.Int("w", int(cfg.SyncDebounce.Milliseconds()), "sync debounce window (in milliseconds)")
	fs.IntVar(&cfg.RetryAttempts, "r", cfg.RetryAttempts, "initial-load retry attempts")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.SyncDebounce = time.Duration(*debounceMs) * time.Millisecond
}

// filterArgs returns the subset of args made up of the allowed flags and
// their values, in both "-f value" and "-f=value" forms. It lets independent
// flag sets parse a shared os.Args without tripping over each other.
func filterArgs(args []string, allowedFlags ...string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}
