package cassette

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Schema is the JSON schema every cassette document must satisfy.
const Schema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": ["array", "null"],
  "items": {
    "type": "object",
    "required": ["request", "response"],
    "properties": {
      "request": {
        "type": "object",
        "required": ["method", "url"],
        "properties": {
          "method": {"type": "string", "minLength": 1},
          "url": {"type": "string", "minLength": 1},
          "headers": {"type": ["object", "null"], "additionalProperties": {"type": "string"}},
          "body": {"type": ["string", "null"]}
        }
      },
      "response": {
        "type": "object",
        "required": ["status"],
        "properties": {
          "status": {
            "type": "object",
            "required": ["code"],
            "properties": {
              "http_version": {"type": ["string", "null"]},
              "code": {"type": "integer", "minimum": 100, "maximum": 599},
              "message": {"type": ["string", "null"]}
            }
          },
          "headers": {"type": ["object", "null"], "additionalProperties": {"type": "string"}},
          "body": {"type": ["string", "null"]}
        }
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(Schema)

// ValidationResult is the outcome of validating one cassette document.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// FormatForPath returns the storage format implied by a file extension.
func FormatForPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return StorageJSON, nil
	case ".yml", ".yaml":
		return StorageYAML, nil
	}
	return "", fmt.Errorf("%w for extension %q", ErrUnknownStorage, filepath.Ext(path))
}

// Validate checks a cassette document in the given format against Schema.
// A document that cannot be decoded at all is returned as an error.
func Validate(data []byte, format string) (*ValidationResult, error) {
	var doc any
	switch format {
	case StorageJSON:
		if len(strings.TrimSpace(string(data))) > 0 {
			if err := json.Unmarshal(data, &doc); err != nil {
				return nil, fmt.Errorf("decoding json: %w", err)
			}
		}
	case StorageYAML, "yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decoding yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownStorage, format)
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("schema validation error: %w", err)
	}

	vr := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		vr.Errors = append(vr.Errors, desc.String())
	}
	return vr, nil
}
