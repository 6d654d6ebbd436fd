package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: nb2hw <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Build an assignment and its solutions from notebooks")
	fmt.Fprintln(w, "  doctor     Check that assignments can be built here")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'nb2hw help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: nb2hw convert --hw <n> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Build homework-N.pdf, homework-N-soln.pdf and their notebook archives")
	fmt.Fprintln(w, "from the homework-N-<P>.ipynb notebooks of an assignment folder.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Selection:")
	fmt.Fprintln(w, "  -n, --hw <n>              Assignment number (required)")
	fmt.Fprintln(w, "  -p, --problems <list>     Problem numbers, e.g. 1,2,5 (default: all)")
	fmt.Fprintln(w, "      --by-hand <list>      Problems answered by hand")
	fmt.Fprintln(w, "      --legacy              Find solutions by heading instead of tags")
	fmt.Fprintln(w, "      --clean               Remove the output folder first")
	fmt.Fprintln(w, "                            (exits after cleaning when no problems are given)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -d, --dir <path>          Assignment folder (default: <input.baseDir>/homework-N)")
	fmt.Fprintln(w, "  -o, --output <path>       Output folder (default: <dir>/output)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Render timeout per PDF (e.g., 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --include-raw         Keep raw cells")
	fmt.Fprintln(w, "      --keep-variables      Keep variables metadata after interpolation")
	fmt.Fprintln(w, "      --notebook-only       Write the archives only, skip PDFs")
	fmt.Fprintln(w, "      --style <name|path>   CSS style name or file")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom styles and templates")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Header:")
	fmt.Fprintln(w, "      --date <s>            Date: \"auto\", \"auto:FORMAT\", or literal")
	fmt.Fprintln(w, "                            Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D")
	fmt.Fprintln(w, "                            Presets (case-insensitive): iso, european, us, long, weekday")
	fmt.Fprintln(w, "      --due <YYYY-MM-DD>    Due date")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "      --page-size <s>       Page size: letter, a4, legal")
	fmt.Fprintln(w, "      --orientation <s>     Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin <f>          Margin in inches (0.25-3.0)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Footer:")
	fmt.Fprintln(w, "      --footer-text <s>     Custom footer text")
	fmt.Fprintln(w, "      --no-footer           Disable footer")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show progress and timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  NB2HW_CONFIG, NB2HW_STYLE, NB2HW_TIMEOUT, NB2HW_WORKERS,")
	fmt.Fprintln(w, "  NB2HW_BASE_DIR, NB2HW_OUTPUT_DIR, NB2HW_ASSET_PATH")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes:")
	fmt.Fprintln(w, "  0 success, 1 error, 2 usage, 3 I/O, 4 browser, 5 notebook without solution")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: nb2hw doctor [--json] [-c, --config NAME]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Locate Chrome, load the config, render the problem header")
		fmt.Fprintln(env.Stdout, "and merge two blank pages the way convert would.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: nb2hw version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: nb2hw help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
