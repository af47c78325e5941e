package stream

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// resultSchema is the JSON Schema for spec result documents, used by
// strict mode before decoding.
const resultSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["name"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "fragments": {"$ref": "#/definitions/fragments"}
  },
  "definitions": {
    "fragments": {
      "type": "array",
      "items": {"$ref": "#/definitions/fragment"}
    },
    "fragment": {
      "type": "object",
      "required": ["kind", "name"],
      "properties": {
        "kind": {"enum": ["suite", "test", "text"]},
        "name": {"type": "string"},
        "status": {"$ref": "#/definitions/status"},
        "message": {"type": "string"},
        "durationMs": {"type": "integer", "minimum": 0},
        "children": {"$ref": "#/definitions/fragments"}
      }
    },
    "status": {
      "oneOf": [
        {"enum": ["success", "failure", "error", "skipped", "pending"]},
        {
          "type": "object",
          "required": ["decorated"],
          "properties": {"decorated": {"$ref": "#/definitions/status"}},
          "additionalProperties": false
        }
      ]
    }
  }
}`

// Validate checks a result document against the schema and returns a
// single error listing every violation.
func Validate(data []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(resultSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	res, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if res.Valid() {
		return nil
	}

	var violations []string
	for _, desc := range res.Errors() {
		violations = append(violations, desc.String())
	}
	return fmt.Errorf("invalid result document: %s", strings.Join(violations, "; "))
}
