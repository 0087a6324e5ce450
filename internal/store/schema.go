package store

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const snapshotSchemaURL = "schema://progress-snapshot.json"

const snapshotSchema = `{
  "type": "object",
  "required": ["schemaVersion", "completions", "achievements"],
  "properties": {
    "schemaVersion": {"type": "integer", "minimum": 1},
    "completions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "category", "completedAt"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "category": {"type": "string"},
          "completedAt": {"type": "string", "minLength": 1}
        }
      }
    },
    "achievements": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "unlocked"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "unlocked": {"type": "boolean"},
          "unlockedAt": {"type": ["string", "null"]}
        }
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func getCompiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		var def any
		if err := json.Unmarshal([]byte(snapshotSchema), &def); err != nil {
			schemaErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(snapshotSchemaURL, def); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(snapshotSchemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// validateSnapshot checks an already-parsed JSON document against the
// snapshot schema.
func validateSnapshot(parsed any) error {
	compiled, err := getCompiledSchema()
	if err != nil {
		return fmt.Errorf("snapshot schema: %w", err)
	}
	if err := compiled.Validate(parsed); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
