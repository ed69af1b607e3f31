package pbjson

import (
	"fmt"

	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/reoring/pbjson/jsonv"
)

type decoder struct {
	opt DecodeOpt
}

func objectExpected(p *path, v *jsonv.Value) *Issue {
	return p.Issue(CodeObjectExpected, "Expected object", "expected", "object", "got", v.Kind().String())
}

func unknownKey(p *path, md protoreflect.Descriptor, key string) *Issue {
	return p.Field(key).Issue(CodeUnknownKey,
		fmt.Sprintf("No field %q in message %s", key, md.FullName()),
		"message", string(md.FullName()), "field", key)
}

// message decodes the object v into m. depth counts m itself.
func (d decoder) message(v *jsonv.Value, m protoreflect.Message, p *path, depth int) *Issue {
	if v.Kind() != jsonv.KindObject {
		return objectExpected(p, v)
	}
	if d.opt.MaxDepth > 0 && depth > d.opt.MaxDepth {
		return p.Issue(CodeMaxDepth, "max depth exceeded", "max", d.opt.MaxDepth)
	}
	md := m.Descriptor()
	fields := md.Fields()
	for _, mem := range v.Members() {
		fd := fields.ByName(protoreflect.Name(mem.Key))
		if fd == nil {
			if d.opt.Unknown == UnknownStrip {
				continue
			}
			return unknownKey(p, md, mem.Key)
		}
		fp := p.Field(mem.Key)
		var iss *Issue
		switch {
		case fd.IsMap():
			iss = d.mapField(mem.Value, m, fd, fp, depth)
		case fd.IsList():
			iss = d.listField(mem.Value, m, fd, fp, depth)
		default:
			iss = d.field(mem.Value, m, fd, fp, depth)
		}
		if iss != nil {
			return iss
		}
	}
	return nil
}

// field decodes a singular field.
func (d decoder) field(v *jsonv.Value, m protoreflect.Message, fd protoreflect.FieldDescriptor, p *path, depth int) *Issue {
	k := KindOf(fd)
	c, ok := codecFor(k)
	if !ok {
		return nil
	}
	if k == KindMessage {
		if v.Kind() != jsonv.KindObject {
			return objectExpected(p, v)
		}
		return d.message(v, m.Mutable(fd).Message(), p, depth+1)
	}
	pv, iss := c.decode(fd, v, p)
	if iss != nil {
		return iss
	}
	m.Set(fd, pv)
	return nil
}

type encoder struct {
	opt EncodeOpt
}

func (e encoder) message(m protoreflect.Message) *jsonv.Value {
	obj := jsonv.Object()
	fields := m.Descriptor().Fields()
	for i := 0; i < fields.Len(); i++ {
		fd := fields.Get(i)
		if KindOf(fd) == KindInvalid {
			continue
		}
		name := string(fd.Name())
		switch {
		case fd.IsMap():
			obj.Set(name, e.mapField(m, fd))
		case fd.IsList():
			obj.Set(name, e.listField(m, fd))
		case fd.Cardinality() == protoreflect.Required || m.Has(fd):
			obj.Set(name, e.value(fd, m.Get(fd)))
		}
	}
	return obj
}

// value encodes one singular value of fd.
func (e encoder) value(fd protoreflect.FieldDescriptor, pv protoreflect.Value) *jsonv.Value {
	k := KindOf(fd)
	if k == KindMessage {
		return e.message(pv.Message())
	}
	c, ok := codecFor(k)
	if !ok {
		return jsonv.Null()
	}
	return c.encode(fd, pv, e.opt)
}
