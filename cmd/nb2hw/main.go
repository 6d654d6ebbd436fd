package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap/zapcore"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply.
	logf := func(string, ...any) {}
	if slices.Contains(os.Args[1:], "-v") || slices.Contains(os.Args[1:], "--verbose") {
		logf = newLogger(os.Stderr, zapcore.DebugLevel).Sugar().Debugf
	}
	_, _ = maxprocs.Set(maxprocs.Logger(logf))

	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches a command and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	switch cmd {
	case "convert":
		ctx, stop := notifyContext(context.Background())
		defer stop()

		err := runConvert(ctx, rest, env)
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		if err != nil {
			fmt.Fprintf(env.Stderr, "error: %v\n", err)
			return exitCodeFor(err)
		}
		return ExitSuccess

	case "doctor":
		return runDoctorCmd(rest, env)

	case "version", "--version":
		fmt.Fprintf(env.Stdout, "nb2hw %s\n", Version)
		return ExitSuccess

	case "help", "-h", "--help":
		return runHelp(rest, env)

	default:
		fmt.Fprintf(env.Stderr, "unknown command: %s\n\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}
}
