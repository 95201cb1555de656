// Package schema holds the JSON Schemas that request bodies are checked
// against before they reach the store.
package schema

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Names of the registered request schemas.
const (
	Prompt   = "prompt"
	Folder   = "folder"
	Vote     = "vote"
	Parse    = "parse"
	Generate = "generate"
)

// Schema is a named JSON Schema document.
type Schema struct {
	Name   string
	Source []byte
}

// registry lists every embedded schema.
var registry = []string{Prompt, Folder, Vote, Parse, Generate}

var compiled = sync.OnceValues(compileAll)

// ValidationError reports a request body that does not match its schema.
type ValidationError struct {
	Schema   string
	Location string
	Reason   string
}

func (e *ValidationError) Error() string {
	if e.Location == "" {
		return fmt.Sprintf("invalid request body: %s", e.Reason)
	}
	return fmt.Sprintf("invalid request body: %s: %s", e.Location, e.Reason)
}

// All returns all schemas sorted by name.
func All() ([]Schema, error) {
	schemas := make([]Schema, 0, len(registry))
	for _, name := range registry {
		s, err := Get(name)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, *s)
	}
	sort.Slice(schemas, func(i, j int) bool {
		return schemas[i].Name < schemas[j].Name
	})
	return schemas, nil
}

// Get returns a single schema by name.
func Get(name string) (*Schema, error) {
	for _, n := range registry {
		if n != name {
			continue
		}
		content, err := schemaFS.ReadFile(filename(name))
		if err != nil {
			return nil, fmt.Errorf("failed to read schema %s: %w", name, err)
		}
		return &Schema{Name: name, Source: content}, nil
	}
	return nil, fmt.Errorf("schema not found: %s", name)
}

// Validate checks a raw JSON body against the named schema. A body that is
// not JSON or does not match returns a *ValidationError.
func Validate(name string, body []byte) error {
	schemas, err := compiled()
	if err != nil {
		return err
	}
	sch, ok := schemas[name]
	if !ok {
		return fmt.Errorf("schema not found: %s", name)
	}

	var doc any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return &ValidationError{Schema: name, Reason: "malformed JSON"}
	}

	if err := sch.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			leaf := deepest(ve)
			return &ValidationError{
				Schema:   name,
				Location: strings.TrimPrefix(leaf.InstanceLocation, "/"),
				Reason:   leaf.Message,
			}
		}
		return fmt.Errorf("failed to validate %s: %w", name, err)
	}
	return nil
}

// deepest follows the first cause chain to the most specific failure.
func deepest(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}

func compileAll() (map[string]*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	for _, name := range registry {
		content, err := schemaFS.ReadFile(filename(name))
		if err != nil {
			return nil, fmt.Errorf("failed to read schema %s: %w", name, err)
		}
		if err := compiler.AddResource(name+".json", bytes.NewReader(content)); err != nil {
			return nil, fmt.Errorf("failed to load schema %s: %w", name, err)
		}
	}

	out := make(map[string]*jsonschema.Schema, len(registry))
	for _, name := range registry {
		sch, err := compiler.Compile(name + ".json")
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
		}
		out[name] = sch
	}
	return out, nil
}

func filename(name string) string {
	return fmt.Sprintf("schemas/%s.json", name)
}
