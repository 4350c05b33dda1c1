package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain parses args, runs the compile and returns the exit code.
// Errors are printed to env.Stderr with a hint when one applies.
func runMain(args []string, env *Environment) int {
	if len(args) > 0 {
		args = args[1:] // program name
	}
	flags, paths, err := parseFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		fmt.Fprintln(env.Stderr, "Run 'mdtodoc --help' for usage.")
		return exitCodeFor(err)
	}

	if flags.common.help {
		printUsage(env.Stdout)
		return ExitSuccess
	}
	if flags.common.version {
		fmt.Fprintf(env.Stdout, "mdtodoc %s\n", Version)
		return ExitSuccess
	}

	setMaxProcs(flags.common.verbose, env.Stderr)

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := run(ctx, paths, flags, env); err != nil {
		fmt.Fprintln(env.Stderr, err.Error()+hintFor(err))
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// setMaxProcs configures GOMAXPROCS from the container CPU quota.
// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
// in which case Go runtime defaults apply and the program continues safely.
func setMaxProcs(verbose bool, w io.Writer) {
	logf := func(string, ...interface{}) {}
	if verbose {
		logf = func(format string, args ...interface{}) {
			fmt.Fprintf(w, format+"\n", args...)
		}
	}
	_, _ = maxprocs.Set(maxprocs.Logger(logf))
}
