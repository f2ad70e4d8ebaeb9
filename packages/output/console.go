package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatListing(listing *Listing) {
	cyan := color.New(color.FgCyan).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(f.writer, "\n%s\n", bold(listing.File+":"))

	for _, t := range listing.Tests {
		if !t.Recorded() {
			fmt.Fprintf(f.writer, "  %s %s %s\n", yellow("-"), t.Name, yellow("(no cassette)"))
			continue
		}

		fmt.Fprintf(f.writer, "  %s %s %s %s\n", cyan("●"), t.Name, cyan("→"), t.Cassette)
		if f.verbose {
			fmt.Fprintf(f.writer, "    Line: %d\n", t.Line)
			if t.Storage != "" {
				fmt.Fprintf(f.writer, "    Storage: %s\n", t.Storage)
			}
		}
	}
}

func (f *ConsoleFormatter) FormatValidation(report *ValidationReport) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	if report.Valid {
		fmt.Fprintf(f.writer, "  %s %s\n", green("✓"), report.File)
		return
	}

	fmt.Fprintf(f.writer, "  %s %s\n", red("✗"), report.File)
	for _, e := range report.Errors {
		fmt.Fprintf(f.writer, "    %s %s\n", red("→"), e)
	}
}

func (f *ConsoleFormatter) FormatListingTotals(recorded, live int) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintf(f.writer, "\nTests: ")
	if recorded > 0 {
		fmt.Fprintf(f.writer, "%s, ", green(fmt.Sprintf("%d recorded", recorded)))
	}
	if live > 0 {
		fmt.Fprintf(f.writer, "%s, ", yellow(fmt.Sprintf("%d live", live)))
	}
	fmt.Fprintf(f.writer, "%d total\n", recorded+live)
}

func (f *ConsoleFormatter) FormatValidationTotals(valid, invalid int) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Fprintf(f.writer, "\nCassettes: ")
	if valid > 0 {
		fmt.Fprintf(f.writer, "%s, ", green(fmt.Sprintf("%d valid", valid)))
	}
	if invalid > 0 {
		fmt.Fprintf(f.writer, "%s, ", red(fmt.Sprintf("%d invalid", invalid)))
	}
	fmt.Fprintf(f.writer, "%d total\n", valid+invalid)
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("hitvcr"), version)
}
