// Package tools holds the tool registry, the shared field validators and
// the seven tools the gateway exposes to the calling agent.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Property describes one input property of a tool definition.
type Property struct {
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	Enum        []string  `json:"enum,omitempty"`
	Items       *Property `json:"items,omitempty"`
}

// Definition is a tool's immutable public description: its name, what it
// does, and the shape of its input. Created once at process start.
type Definition struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Properties  map[string]Property `json:"-"`
	Required    []string            `json:"-"`
}

// MarshalJSON renders the definition with a JSON-Schema-style input_schema,
// which is the shape the calling agent consumes from list_tools.
func (d Definition) MarshalJSON() ([]byte, error) {
	type wire struct {
		Name        string         `json:"name"`
		Description string         `json:"description"`
		InputSchema map[string]any `json:"input_schema"`
	}
	return json.Marshal(wire{
		Name:        d.Name,
		Description: d.Description,
		InputSchema: d.schemaDoc(),
	})
}

func (d Definition) schemaDoc() map[string]any {
	props := make(map[string]any, len(d.Properties))
	for name, p := range d.Properties {
		prop := map[string]any{"type": p.Type}
		if p.Description != "" {
			prop["description"] = p.Description
		}
		if len(p.Enum) > 0 {
			prop["enum"] = p.Enum
		}
		if p.Items != nil {
			prop["items"] = map[string]any{"type": p.Items.Type}
		}
		props[name] = prop
	}
	doc := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(d.Required) > 0 {
		doc["required"] = d.Required
	}
	return doc
}

// compileSchema compiles the definition's input schema. Definitions come
// from the fixed startup list, so a schema that fails to compile is a
// programming error.
func (d Definition) compileSchema() (*jsonschema.Schema, error) {
	raw, err := json.Marshal(d.schemaDoc())
	if err != nil {
		return nil, fmt.Errorf("compileSchema %s: %w", d.Name, err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("compileSchema %s: %w", d.Name, err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", doc); err != nil {
		return nil, fmt.Errorf("compileSchema %s: %w", d.Name, err)
	}
	sch, err := c.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compileSchema %s: %w", d.Name, err)
	}
	return sch, nil
}

// Tool is one named operation the gateway can execute for an authenticated
// athlete. Implementations validate their own input; the dispatcher does
// not.
type Tool interface {
	Definition() Definition
	Handle(ctx context.Context, athleteID string, input map[string]any) Result
}

// Registry is the process-wide tool table: populated once at startup from a
// fixed list, read-only afterwards, safe for concurrent use without locking.
type Registry struct {
	order   []string
	entries map[string]Tool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Tool)}
}

// Register adds a tool. Registering two tools with the same name is a
// wiring mistake in the startup list, so it fails fast instead of silently
// overwriting.
func (r *Registry) Register(tool Tool) error {
	name := tool.Definition().Name
	if name == "" {
		return fmt.Errorf("Register: tool has empty name")
	}
	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("Register: duplicate tool name %q", name)
	}
	r.entries[name] = tool
	r.order = append(r.order, name)
	return nil
}

// MustRegister registers a fixed startup list and panics on a wiring error.
func (r *Registry) MustRegister(tools ...Tool) {
	for _, tool := range tools {
		if err := r.Register(tool); err != nil {
			panic(err)
		}
	}
}

// Definitions returns all tool definitions in registration order.
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.entries[name].Definition())
	}
	return defs
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (Tool, bool) {
	tool, ok := r.entries[name]
	return tool, ok
}

// base carries the shared definition plumbing embedded by every tool:
// the compiled input schema and structural validation (types, enums,
// required properties) that runs before each tool's semantic checks.
type base struct {
	def    Definition
	schema *jsonschema.Schema
}

func newBase(def Definition) base {
	sch, err := def.compileSchema()
	if err != nil {
		panic(err)
	}
	return base{def: def, schema: sch}
}

func (b *base) Definition() Definition {
	return b.def
}

// validateInput checks the raw input against the tool's schema. Returns nil
// when the input is structurally valid.
func (b *base) validateInput(input map[string]any) *Result {
	// jsonschema validates generic JSON values, which is exactly what the
	// envelope decoder produces.
	if err := b.schema.Validate(map[string]any(input)); err != nil {
		res := Failf(CodeInvalidInput, "invalid input for %s: %v", b.def.Name, err)
		return &res
	}
	return nil
}
