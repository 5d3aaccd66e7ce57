// Package flagx contains helpers for parsing a subset of command-line
// flags without interfering with flags owned by other components.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs keeps only the arguments belonging to the allowed flags, so a
// component can parse its own flag set while ignoring everyone else's.
//
// Both spellings are recognized:
//  1. flag and value as separate arguments:  -c conf.json
//  2. flag and value joined with '=':        --config=conf.json
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]bool, len(allowedFlags))
	for _, name := range allowedFlags {
		allowed[name] = true
	}

	kept := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, joined := strings.Cut(arg, "="); joined && strings.HasPrefix(name, "-") {
			if allowed[name] {
				kept = append(kept, arg)
			}
			continue
		}

		if !allowed[arg] {
			continue
		}
		kept = append(kept, arg)

		// a following non-flag argument is this flag's value
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			i++
			kept = append(kept, args[i])
		}
	}

	return kept
}

// JsonConfigFlags returns the config file path given via -c or -config, or
// "" when neither is present. Only these two flags are inspected.
func JsonConfigFlags() string {
	var path string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "Path to config file")
	fs.StringVar(&path, "c", "", "Path to config file (short)")
	_ = fs.Parse(FilterArgs(os.Args[1:], []string{"-c", "-config"}))

	return path
}
