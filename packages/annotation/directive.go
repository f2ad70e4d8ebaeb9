package annotation

import "strings"

// DefaultTag is the directive tag naming the cassette for a test.
const DefaultTag = "@vcr"

// ParseDirectives returns the trimmed value of every line in doc that
// contains tag followed by a single space. Values are returned in order of
// appearance. Only the first occurrence of the tag on a line is used; the
// value runs to the end of that line.
func ParseDirectives(doc string, tag string) []string {
	if doc == "" || tag == "" {
		return nil
	}

	marker := tag + " "
	var values []string
	for _, line := range splitLines(doc) {
		idx := strings.Index(line, marker)
		if idx < 0 {
			continue
		}
		values = append(values, strings.TrimSpace(line[idx+len(marker):]))
	}
	return values
}

// LastDirective returns the last value of tag in doc, or "" if there is none.
func LastDirective(doc string, tag string) string {
	values := ParseDirectives(doc, tag)
	if len(values) == 0 {
		return ""
	}
	return values[len(values)-1]
}

// splitLines splits s on "\r\n", "\r" and "\n".
func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			lines = append(lines, s[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, s[start:i])
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
