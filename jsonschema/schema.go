package jsonschema

// Schema is a minimal JSON Schema representation used for export.
// It carries only the keywords the record mapping needs.
type Schema struct {
	// Document
	Dialect string             `json:"$schema,omitempty"`
	Ref     string             `json:"$ref,omitempty"`
	Defs    map[string]*Schema `json:"$defs,omitempty"`
	Title   string             `json:"title,omitempty"`

	// Core
	Type    string `json:"type,omitempty"`
	Enum    []any  `json:"enum,omitempty"`
	Minimum any    `json:"minimum,omitempty"`
	Maximum any    `json:"maximum,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`

	// Array
	Items *Schema `json:"items,omitempty"`

	// Union
	OneOf []*Schema `json:"oneOf,omitempty"`
}

// Dialect2020 is the $schema URI emitted on exported documents.
const Dialect2020 = "https://json-schema.org/draft/2020-12/schema"
