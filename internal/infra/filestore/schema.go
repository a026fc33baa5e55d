package filestore

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/runoshun/toru/internal/domain"
)

//go:embed task.schema.json
var taskSchemaJSON string

const taskSchemaURL = "task.schema.json"

var (
	taskSchemaOnce sync.Once
	taskSchema     *jsonschema.Schema
	taskSchemaErr  error
)

// SchemaError describes the first schema violation found in a task file.
type SchemaError struct {
	Path    string // Dotted path to the offending value ("" for the document)
	Message string
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", domain.ErrInvalidTaskFile.Error(), e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", domain.ErrInvalidTaskFile.Error(), e.Path, e.Message)
}

func (e *SchemaError) Unwrap() error { return domain.ErrInvalidTaskFile }

func compiledTaskSchema() (*jsonschema.Schema, error) {
	taskSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(taskSchemaURL, strings.NewReader(taskSchemaJSON)); err != nil {
			taskSchemaErr = fmt.Errorf("add task schema: %w", err)
			return
		}
		taskSchema, taskSchemaErr = compiler.Compile(taskSchemaURL)
		if taskSchemaErr != nil {
			taskSchemaErr = fmt.Errorf("compile task schema: %w", taskSchemaErr)
		}
	})
	return taskSchema, taskSchemaErr
}

// validateTaskDocument checks raw TOML against the task schema. TOML dates
// and times are compared as their text form.
func validateTaskDocument(data []byte) error {
	schema, err := compiledTaskSchema()
	if err != nil {
		return err
	}

	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidTaskFile, err)
	}

	// Round trip through JSON so the validator sees plain JSON values.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal task document: %w", err)
	}
	var obj any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return fmt.Errorf("unmarshal task document: %w", err)
	}

	if err := schema.Validate(obj); err != nil {
		return schemaError(err)
	}
	return nil
}

func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &SchemaError{Message: err.Error()}
	}
	leaf := firstLeaf(ve)
	return &SchemaError{Path: pointerToPath(leaf.InstanceLocation), Message: leaf.Message}
}

func firstLeaf(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}

// pointerToPath turns "/time_entries/0/duration" into "time_entries[0].duration".
func pointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}
	var b strings.Builder
	for i, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(strings.ReplaceAll(part, "~1", "/"), "~0", "~")
		if _, ok := domain.ParseID(part); ok && i > 0 {
			b.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
