package cmd

import (
	"fmt"
	"os"

	"github.com/abdul-hamid-achik/hitvcr/packages/cassette"
	"github.com/abdul-hamid-achik/hitvcr/packages/output"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file|directory...>",
	Short: "Validate cassette files against the cassette schema",
	Long: `Validate .yml, .yaml and .json cassette files without replaying them.
Exits with status 1 when any cassette is invalid.

Examples:
  hitvcr validate testdata/cassettes/login.yml
  hitvcr validate testdata/cassettes`,
	Args: usageArgs(cobra.MinimumNArgs(1)),
	RunE: validateCommand,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	formatter, err := newFormatter(cmd, cfg)
	if err != nil {
		return err
	}

	files, err := collectFiles(logger, args, isCassetteFile)
	if err != nil {
		formatter.FormatError(err)
		_ = flush(formatter)
		return err
	}
	if len(files) == 0 {
		err := fmt.Errorf("no .yml, .yaml or .json files found")
		formatter.FormatError(err)
		_ = flush(formatter)
		return err
	}

	var valid, invalid int
	for _, file := range files {
		report := validateFile(file)
		logger.Debug("validated cassette", "file", file, "format", report.Format, "valid", report.Valid)
		if report.Valid {
			valid++
		} else {
			invalid++
		}
		formatter.FormatValidation(report)
	}

	if t, ok := formatter.(totals); ok {
		t.FormatValidationTotals(valid, invalid)
	}
	if err := flush(formatter); err != nil {
		return err
	}

	if invalid > 0 {
		return withExitCode(ExitValidationFailure, fmt.Errorf("validation failed: %d of %d cassettes invalid", invalid, len(files)))
	}
	return nil
}

// validateFile reports decode errors as validation errors of the file.
func validateFile(file string) *output.ValidationReport {
	report := &output.ValidationReport{File: file}

	format, err := cassette.FormatForPath(file)
	if err != nil {
		report.Errors = []string{err.Error()}
		return report
	}
	report.Format = format

	data, err := os.ReadFile(file)
	if err != nil {
		report.Errors = []string{err.Error()}
		return report
	}

	result, err := cassette.Validate(data, format)
	if err != nil {
		report.Errors = []string{err.Error()}
		return report
	}
	report.Valid = result.Valid
	report.Errors = result.Errors
	return report
}
