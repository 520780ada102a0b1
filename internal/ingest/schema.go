package ingest

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed bulk_jobs.schema.json
var bulkJobsSchema string

// SchemaError reports why a batch document failed structural validation,
// one message per offending field.
type SchemaError struct {
	Messages []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("batch document invalid: %s", strings.Join(e.Messages, "; "))
}

// ValidateBatchDocument checks the raw JSON batch body against the bulk
// jobs schema before any row-level validation runs. Structural problems
// (wrong types, unknown fields, oversized batch) reject the whole request;
// business rules on individual rows never do.
func ValidateBatchDocument(raw []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(bulkJobsSchema)
	documentLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	if result.Valid() {
		return nil
	}

	messages := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		messages = append(messages, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return &SchemaError{Messages: messages}
}
