package cmd

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/hitvcr/packages/annotation"
	"github.com/abdul-hamid-achik/hitvcr/packages/listener"
	"github.com/abdul-hamid-achik/hitvcr/packages/output"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [file|directory...]",
	Short: "List tests and the cassettes they use",
	Long: `List every test in *_test.go files with the cassette named by its
last directive. Tests without a directive run against the network.

Without arguments the config's testDir is scanned.

Examples:
  hitvcr list
  hitvcr list ./api/...
  hitvcr list --tag @cassette ./internal/client`,
	RunE: listCommand,
}

func listCommand(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	formatter, err := newFormatter(cmd, cfg)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		args = []string{cfg.TestDir}
	}
	files, err := collectFiles(logger, trimEllipsis(args), isTestFile)
	if err != nil {
		formatter.FormatError(err)
		_ = flush(formatter)
		return err
	}
	if len(files) == 0 {
		err := fmt.Errorf("no *_test.go files found")
		formatter.FormatError(err)
		_ = flush(formatter)
		return err
	}

	var recorded, live int
	for _, file := range files {
		registry := annotation.NewRegistry()
		if err := registry.ScanFile(file); err != nil {
			formatter.FormatError(err)
			continue
		}

		entries := registry.Entries()
		logger.Debug("scanned file", "file", file, "tests", len(entries))
		if len(entries) == 0 {
			continue
		}

		listing := &output.Listing{File: file}
		for _, e := range entries {
			name := annotation.LastDirective(e.Doc, cfg.Tag)
			listing.Tests = append(listing.Tests, output.ListedTest{
				Name:     e.Name,
				Line:     e.Line,
				Cassette: name,
				Storage:  listener.StorageHint(name),
			})
			if name != "" {
				recorded++
			} else {
				live++
			}
		}
		formatter.FormatListing(listing)
	}

	if t, ok := formatter.(totals); ok {
		t.FormatListingTotals(recorded, live)
	}
	return flush(formatter)
}

// trimEllipsis accepts go-style "./pkg/..." arguments; directories are
// always walked recursively.
func trimEllipsis(args []string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		switch {
		case arg == "...":
			out[i] = "."
		case strings.HasSuffix(arg, "/..."):
			out[i] = strings.TrimSuffix(arg, "/...")
		default:
			out[i] = arg
		}
	}
	return out
}
