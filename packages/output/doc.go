// Package output provides formatters for test listings and cassette
// validation reports.
//
// Supported output formats:
//   - Console: Human-readable colored terminal output
//   - JSON: Machine-readable JSON output, written once on Flush
package output
