package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// selectionFlags picks the assignment and its problems.
type selectionFlags struct {
	hw       int
	problems []int
	byHand   []int
	legacy   bool
	clean    bool
}

// renderFlags holds notebook pipeline flags.
type renderFlags struct {
	includeRaw    bool
	keepVariables bool
	notebookOnly  bool
	style         string
	assetPath     string
}

// headerFlags holds problem header flags.
type headerFlags struct {
	date string
	due  string
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
}

// footerFlags holds footer-related flags.
type footerFlags struct {
	text     string
	disabled bool
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common    commonFlags
	selection selectionFlags
	dir       string
	output    string
	workers   int
	timeout   string
	render    renderFlags
	header    headerFlags
	page      pageFlags
	footer    footerFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show progress and timing")
}

// addSelectionFlags adds assignment and problem selection flags to a FlagSet.
func addSelectionFlags(fs *flag.FlagSet, f *selectionFlags) {
	fs.IntVarP(&f.hw, "hw", "n", 0, "assignment number")
	fs.IntSliceVarP(&f.problems, "problems", "p", nil, "problem numbers (default: all)")
	fs.IntSliceVar(&f.byHand, "by-hand", nil, "problems answered by hand")
	fs.BoolVar(&f.legacy, "legacy", false, "detect solutions from headings instead of tags")
	fs.BoolVar(&f.clean, "clean", false, "remove the output folder first")
}

// addRenderFlags adds rendering flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.BoolVar(&f.includeRaw, "include-raw", false, "keep raw cells")
	fs.BoolVar(&f.keepVariables, "keep-variables", false, "keep the variables cell metadata")
	fs.BoolVar(&f.notebookOnly, "notebook-only", false, "write archives only, skip PDFs")
	fs.StringVar(&f.style, "style", "", "CSS style name or file path")
	fs.StringVar(&f.assetPath, "asset-path", "", "custom asset directory")
}

// addHeaderFlags adds header flags to a FlagSet.
func addHeaderFlags(fs *flag.FlagSet, f *headerFlags) {
	fs.StringVar(&f.date, "date", "", "header date: \"auto\", \"auto:FORMAT\", or literal")
	fs.StringVar(&f.due, "due", "", "due date (YYYY-MM-DD)")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVar(&f.size, "page-size", "", "page size: letter, a4, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (0.25-3.0)")
}

// addFooterFlags adds footer flags to a FlagSet.
func addFooterFlags(fs *flag.FlagSet, f *footerFlags) {
	fs.StringVar(&f.text, "footer-text", "", "custom footer text")
	fs.BoolVar(&f.disabled, "no-footer", false, "disable footer")
}

// parseConvertFlags parses convert command flags and returns positional args.
// Usage goes to w on --help or a parse error.
func parseConvertFlags(args []string, w io.Writer) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(w)
	f := &convertFlags{}

	// I/O flags
	fs.StringVarP(&f.dir, "dir", "d", "", "assignment folder (default: <input.baseDir>/homework-N)")
	fs.StringVarP(&f.output, "output", "o", "", "output folder")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "PDF generation timeout per problem (e.g., 30s, 2m)")

	// Flag groups
	addCommonFlags(fs, &f.common)
	addSelectionFlags(fs, &f.selection)
	addRenderFlags(fs, &f.render)
	addHeaderFlags(fs, &f.header)
	addPageFlags(fs, &f.page)
	addFooterFlags(fs, &f.footer)

	fs.Usage = func() { printConvertUsage(w) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
