package dispatch

import "context"

// Tool is a named, schema-described operation invocable by the assistant
// (GLOSSARY: "Tool"). Every component in this gateway that the catalogue
// exposes implements this.
type Tool interface {
	Name() string
	Description() string
	// Schema returns a JSON-shaped input schema (the same shape the mcp-go
	// server expects for its tool input schema).
	Schema() map[string]interface{}
	Execute(ctx context.Context, args Args) *Result
}

// Func adapts a plain function into a Tool, for small tools that don't
// warrant their own type.
type Func struct {
	name        string
	description string
	schema      map[string]interface{}
	fn          func(ctx context.Context, args Args) *Result
}

// NewFunc builds a Tool from a name, description, schema and handler.
func NewFunc(name, description string, schema map[string]interface{}, fn func(ctx context.Context, args Args) *Result) *Func {
	return &Func{name: name, description: description, schema: schema, fn: fn}
}

func (f *Func) Name() string                       { return f.name }
func (f *Func) Description() string                { return f.description }
func (f *Func) Schema() map[string]interface{}     { return f.schema }
func (f *Func) Execute(ctx context.Context, a Args) *Result { return f.fn(ctx, a) }

// ObjectSchema is a small helper for building JSON-object schemas with the
// shape mcp-go and the documented tool surface expect.
func ObjectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// StringProp is a shorthand for a string-typed schema property.
func StringProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": description}
}

// NumberProp is a shorthand for a number-typed schema property. Per §4.1a,
// handlers still accept a numeric string at execution time even though the
// advertised schema says "number".
func NumberProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "number", "description": description}
}

// BoolProp is a shorthand for a boolean-typed schema property.
func BoolProp(description string) map[string]interface{} {
	return map[string]interface{}{"type": "boolean", "description": description}
}

// ArrayProp is a shorthand for an array-typed schema property.
func ArrayProp(description string, items map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{"type": "array", "description": description, "items": items}
}
