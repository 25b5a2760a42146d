// pkg/utils/args.go - command-line arguments in the form pflag expects.

package utils

import "strings"

// legacySwitches maps the slash switches of earlier releases to flags.
// An empty value means the switch is accepted and ignored.
var legacySwitches = map[string]string{
	"/v": "-v",
	"/s": "-s",
	"/w": "-w",
	"/f": "", // forced scheduled-task creation, no longer done by this tool
}

// NormalizeArgs rewrites /v, /s and /w (any case) into -v, -s and -w and
// drops /f. Everything else is passed through unchanged.
func NormalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		repl, ok := legacySwitches[strings.ToLower(a)]
		if !ok {
			out = append(out, a)
			continue
		}
		if repl != "" {
			out = append(out, repl)
		}
	}
	return out
}
