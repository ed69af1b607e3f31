package pbjson

import (
	"fmt"
	"strconv"
	"strings"
)

// path is a root-to-fault location built while descending. Segments are only
// rendered when an Issue is created, so successful decodes never format it.
// A nil *path is the root.
type path struct {
	parent  *path
	name    string
	index   int
	isIndex bool
}

func (p *path) Field(name string) *path {
	return &path{parent: p, name: name}
}

func (p *path) Index(i int) *path {
	return &path{parent: p, index: i, isIndex: true}
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// Pointer renders the path as /field, /field[i] segments. The root renders as "/".
func (p *path) Pointer() string {
	if p == nil {
		return "/"
	}
	var segs []*path
	for q := p; q != nil; q = q.parent {
		segs = append(segs, q)
	}
	b := &strings.Builder{}
	for i := len(segs) - 1; i >= 0; i-- {
		s := segs[i]
		if s.isIndex {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(s.index))
			b.WriteByte(']')
			continue
		}
		b.WriteByte('/')
		b.WriteString(pointerEscaper.Replace(s.name))
	}
	return b.String()
}

// Issue creates an Issue at p. kv are alternating param keys and values.
func (p *path) Issue(code, msg string, kv ...any) *Issue {
	var m map[string]any
	if len(kv) > 1 {
		m = make(map[string]any, len(kv)/2)
		for i := 0; i+1 < len(kv); i += 2 {
			m[fmt.Sprint(kv[i])] = kv[i+1]
		}
	}
	return &Issue{Path: p.Pointer(), Code: code, Message: msg, Params: m}
}
