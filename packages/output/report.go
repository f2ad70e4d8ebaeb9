package output

// Listing is the set of tests found in one source file.
type Listing struct {
	File  string       `json:"file"`
	Tests []ListedTest `json:"tests"`
}

// ListedTest is a test and the cassette its directive names, if any.
type ListedTest struct {
	Name     string `json:"name"`
	Line     int    `json:"line"`
	Cassette string `json:"cassette,omitempty"`
	Storage  string `json:"storage,omitempty"`
}

// Recorded reports whether the test carries a cassette directive.
func (t ListedTest) Recorded() bool {
	return t.Cassette != ""
}

// ValidationReport is the outcome of validating one cassette file.
type ValidationReport struct {
	File   string   `json:"file"`
	Format string   `json:"format,omitempty"`
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}
