// Package cassette provides the on-disk model for recorded HTTP interactions.
//
// A cassette is a named list of request/response pairs. It provides:
//   - Storage formats: yaml (default), json and blackhole
//   - Request matchers: method, url, host, path, query_string, body,
//     post_fields and headers
//   - Playback and recording with per-cassette statistics
//   - JSON schema validation of cassette files
package cassette
