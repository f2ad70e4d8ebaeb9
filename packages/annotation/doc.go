// Package annotation extracts tagged directives from Go test doc comments.
//
// It provides:
//   - ParseDirectives, a line scanner that collects every "@tag value" line
//   - Registry, a lookup of test function doc comments built from *_test.go sources
//
// A registry is built once per suite and answers whether a running test
// has a matching function declaration, and what its documentation says.
package annotation
