package jsonv

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// DuplicateKeyError reports a duplicate key found in a YAML mapping with both
// the first occurrence position and the duplicate occurrence position.
type DuplicateKeyError struct {
	Key       string
	FirstLine int
	FirstCol  int
	Line      int
	Col       int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate YAML key %q at %d:%d (first at %d:%d)", e.Key, e.Line, e.Col, e.FirstLine, e.FirstCol)
}

// Alias expansion failures.
var (
	ErrAliasCycle     = errors.New("jsonv: yaml alias refers to an enclosing anchor")
	ErrAliasExpansion = errors.New("jsonv: yaml alias expansion too large")
)

// maxAliasNodes bounds the number of nodes materialized through aliases in
// one document.
const maxAliasNodes = 1 << 20

// FromYAML converts the first document of a YAML stream into a Value tree.
// Mapping order is preserved, aliases are expanded and typed scalars keep their
// YAML type. An empty stream yields null. An alias nested inside its own
// anchor fails with ErrAliasCycle; expansions beyond maxAliasNodes fail with
// ErrAliasExpansion.
func FromYAML(data []byte) (*Value, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return Null(), nil
		}
		return nil, err
	}
	w := &yamlWalker{active: make(map[*yaml.Node]bool)}
	return w.fromNode(&root)
}

// yamlWalker tracks the anchors being expanded on the current path.
type yamlWalker struct {
	active   map[*yaml.Node]bool
	expanded int
}

func (w *yamlWalker) fromNode(n *yaml.Node) (*Value, error) {
	if len(w.active) > 0 {
		w.expanded++
		if w.expanded > maxAliasNodes {
			return nil, fmt.Errorf("%w (line %d)", ErrAliasExpansion, n.Line)
		}
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null(), nil
		}
		return w.fromNode(n.Content[0])
	case yaml.AliasNode:
		target := n.Alias
		if target == nil || w.active[target] {
			return nil, fmt.Errorf("%w: *%s at %d:%d", ErrAliasCycle, n.Value, n.Line, n.Column)
		}
		w.active[target] = true
		v, err := w.fromNode(target)
		delete(w.active, target)
		return v, err
	case yaml.MappingNode:
		obj := Object()
		first := make(map[string][2]int, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			key := k.Value
			if pos, dup := first[key]; dup {
				return nil, &DuplicateKeyError{Key: key, FirstLine: pos[0], FirstCol: pos[1], Line: k.Line, Col: k.Column}
			}
			first[key] = [2]int{k.Line, k.Column}
			val, err := w.fromNode(v)
			if err != nil {
				return nil, err
			}
			obj.add(key, val)
		}
		return obj, nil
	case yaml.SequenceNode:
		arr := &Value{kind: KindArray, arr: make([]*Value, 0, len(n.Content))}
		for _, c := range n.Content {
			v, err := w.fromNode(c)
			if err != nil {
				return nil, err
			}
			arr.arr = append(arr.arr, v)
		}
		return arr, nil
	case yaml.ScalarNode:
		return fromScalar(n)
	}
	return Null(), nil
}

func fromScalar(n *yaml.Node) (*Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return Int(i), nil
		}
		var u uint64
		if err := n.Decode(&u); err == nil {
			return Uint(u), nil
		}
		return Number(n.Value), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return Float(f), nil
	}
	return String(n.Value), nil
}

// MarshalYAML lets yaml.v3 emit v as an ordered YAML node.
func (v *Value) MarshalYAML() (any, error) { return v.node(), nil }

func (v *Value) node() *yaml.Node {
	switch v.Kind() {
	case KindBool:
		val := "false"
		if v.b {
			val = "true"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: val}
	case KindNumber:
		tag := "!!float"
		if v.IsInteger() {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v.s}
	case KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.s}
	case KindArray:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range v.arr {
			n.Content = append(n.Content, e.node())
		}
		return n
	case KindObject:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, m := range v.obj {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m.Key},
				m.Value.node())
		}
		return n
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}
