// Package jsonv is an in-memory JSON value tree: objects keep member order,
// numbers keep their literal text.
//
// Trees are built with the constructors (Object, Array, String, Int, ...) and
// the Set/Append mutators, parsed from JSON with Parse/ParseReader (backed by
// goccy/go-json tokens) or converted from YAML with FromYAML. They render back
// with MarshalJSON, MarshalIndent or through yaml.v3 via MarshalYAML.
//
// A tree is owned by its caller; nothing in this package retains or shares
// nodes between calls.
package jsonv
