package output

import (
	"encoding/json"
	"io"
	"os"
	"time"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	Summary   JSONSummary        `json:"summary"`
	Listings  []Listing          `json:"listings,omitempty"`
	Cassettes []ValidationReport `json:"cassettes,omitempty"`
	Errors    []string           `json:"errors,omitempty"`
	Time      string             `json:"time"`
}

// JSONSummary represents the totals of a listing or validation run
type JSONSummary struct {
	Total    int `json:"total"`
	Recorded int `json:"recorded,omitempty"`
	Live     int `json:"live,omitempty"`
	Valid    int `json:"valid,omitempty"`
	Invalid  int `json:"invalid,omitempty"`
}

// JSONFormatter accumulates listings and validation reports and writes
// them as one JSON document on Flush
type JSONFormatter struct {
	writer    io.Writer
	listings  []Listing
	cassettes []ValidationReport
	errors    []string
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatListing(listing *Listing) {
	f.listings = append(f.listings, *listing)
}

func (f *JSONFormatter) FormatValidation(report *ValidationReport) {
	f.cassettes = append(f.cassettes, *report)
}

func (f *JSONFormatter) FormatError(err error) {
	f.errors = append(f.errors, err.Error())
}

func (f *JSONFormatter) FormatHeader(version string) {
	// No header needed for JSON output
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush() error {
	var summary JSONSummary
	for _, l := range f.listings {
		for _, t := range l.Tests {
			summary.Total++
			if t.Recorded() {
				summary.Recorded++
			} else {
				summary.Live++
			}
		}
	}
	for _, c := range f.cassettes {
		summary.Total++
		if c.Valid {
			summary.Valid++
		} else {
			summary.Invalid++
		}
	}

	output := JSONOutput{
		Summary:   summary,
		Listings:  f.listings,
		Cassettes: f.cassettes,
		Errors:    f.errors,
		Time:      time.Now().Format(time.RFC3339),
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
