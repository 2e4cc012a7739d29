package command

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// schemaCache holds compiled argument schemas keyed by command name
type schemaCache struct {
	mu    sync.RWMutex
	cache map[string]*jsonschema.Schema
}

func newSchemaCache() *schemaCache {
	return &schemaCache{cache: make(map[string]*jsonschema.Schema)}
}

// validate checks args against the schema of the named command, compiling
// it on first use
func (c *schemaCache) validate(name string, schema Schema, args []string) error {
	compiled, err := c.get(name, schema)
	if err != nil {
		return &SchemaError{Command: name, Err: err}
	}
	if err := compiled.Validate(argInstance(args)); err != nil {
		return &SchemaError{Command: name, Err: err}
	}
	return nil
}

func (c *schemaCache) get(name string, schema Schema) (*jsonschema.Schema, error) {
	c.mu.RLock()
	compiled, ok := c.cache[name]
	c.mu.RUnlock()
	if ok {
		return compiled, nil
	}

	compiled, err := compileSchema(name, schema)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache[name] = compiled
	c.mu.Unlock()
	return compiled, nil
}

// compileSchema compiles one argument schema. Remote $refs are not loaded.
func compileSchema(name string, schema Schema) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.LoadURL = func(url string) (io.ReadCloser, error) {
		return nil, fmt.Errorf("$ref not allowed: %s", url)
	}

	schemaJSON, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("schema marshal failed: %w", err)
	}

	url := "schema://" + name + ".json"
	if err := compiler.AddResource(url, bytes.NewReader(schemaJSON)); err != nil {
		return nil, err
	}
	return compiler.Compile(url)
}

// argInstance converts an argument vector into a JSON instance: an array of
// numbers, with any argument that is not an integer kept as a string so the
// schema's type check reports it
func argInstance(args []string) []any {
	instance := make([]any, len(args))
	for i, arg := range args {
		if _, err := strconv.Atoi(arg); err == nil {
			instance[i] = json.Number(arg)
		} else {
			instance[i] = arg
		}
	}
	return instance
}
