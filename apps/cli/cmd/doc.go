// Package cmd implements the hitvcr CLI commands using Cobra.
//
// Available commands:
//   - list: Show each test and the cassette its directive names
//   - validate: Check cassette files against the cassette schema
//   - init: Create a .hitvcr.yml config file
//   - completion: Generate shell completion scripts
//   - version: Show hitvcr version information
//
// list and validate accept --output json for machine-readable results.
package cmd
