// Command bookconv converts a directory of Markdown chapters into plain
// text, EPUB, PDF and Kindle editions.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain parses args (args[0] is the program name), runs the conversion
// and maps the outcome to an exit code.
func runMain(args []string, env *Environment) int {
	if len(args) > 1 && args[1] == "doctor" {
		return runDoctorCmd(args[2:], env, defaultProbe(env.Getenv))
	}

	flags, positional, err := parseFlags(args[1:])
	if errors.Is(err, flag.ErrHelp) {
		printUsage(env.Stdout)
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n\n", err)
		printUsage(env.Stderr)
		return ExitUsage
	}

	if flags.version {
		fmt.Fprintf(env.Stdout, "bookconv %s\n", Version)
		return ExitSuccess
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runConvert(ctx, positional, flags, env); err != nil {
		hint := ""
		// per-format hints were printed with each failure
		if !errors.Is(err, ErrFormatsFailed) {
			hint = hintFor(err)
		}
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hint)
		return exitCodeFor(err)
	}
	return ExitSuccess
}
