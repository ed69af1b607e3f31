package pbjson

import (
	"cmp"
	"slices"

	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/reoring/pbjson/jsonv"
)

func arrayExpected(p *path, v *jsonv.Value) *Issue {
	return p.Issue(CodeArrayExpected, "Expected array", "expected", "array", "got", v.Kind().String())
}

// listField decodes the array v into the repeated field fd. Elements are
// collected in a detached list and appended to m only when all of them decoded.
func (d decoder) listField(v *jsonv.Value, m protoreflect.Message, fd protoreflect.FieldDescriptor, p *path, depth int) *Issue {
	if v.Kind() != jsonv.KindArray {
		return arrayExpected(p, v)
	}
	k := KindOf(fd)
	c, ok := codecFor(k)
	if !ok {
		return nil
	}
	tmp := m.NewField(fd).List()
	for i, el := range v.Elements() {
		ep := p.Index(i)
		if k == KindMessage {
			if el.Kind() != jsonv.KindObject {
				return objectExpected(ep, el)
			}
			ev := tmp.NewElement()
			if iss := d.message(el, ev.Message(), ep, depth+1); iss != nil {
				return iss
			}
			tmp.Append(ev)
			continue
		}
		pv, iss := c.decode(fd, el, ep)
		if iss != nil {
			return iss
		}
		tmp.Append(pv)
	}
	if tmp.Len() == 0 {
		return nil
	}
	dst := m.Mutable(fd).List()
	for i := 0; i < tmp.Len(); i++ {
		dst.Append(tmp.Get(i))
	}
	return nil
}

// mapField decodes an array of {"key":…, "value":…} entry objects into the map
// field fd. Missing members take their zero value. Like lists, entries are
// committed to m only when the whole array decoded.
func (d decoder) mapField(v *jsonv.Value, m protoreflect.Message, fd protoreflect.FieldDescriptor, p *path, depth int) *Issue {
	if v.Kind() != jsonv.KindArray {
		return arrayExpected(p, v)
	}
	kfd, vfd := fd.MapKey(), fd.MapValue()
	kc, _ := codecFor(KindOf(kfd))
	tmp := m.NewField(fd).Map()
	for i, el := range v.Elements() {
		ep := p.Index(i)
		if el.Kind() != jsonv.KindObject {
			return objectExpected(ep, el)
		}
		if d.opt.MaxDepth > 0 && depth+1 > d.opt.MaxDepth {
			return ep.Issue(CodeMaxDepth, "max depth exceeded", "max", d.opt.MaxDepth)
		}
		key := kfd.Default().MapKey()
		var val protoreflect.Value
		for _, mem := range el.Members() {
			mp := ep.Field(mem.Key)
			switch protoreflect.Name(mem.Key) {
			case kfd.Name():
				pv, iss := kc.decode(kfd, mem.Value, mp)
				if iss != nil {
					return iss
				}
				key = pv.MapKey()
			case vfd.Name():
				pv, iss := d.mapValue(tmp, vfd, mem.Value, mp, depth+1)
				if iss != nil {
					return iss
				}
				val = pv
			default:
				if d.opt.Unknown == UnknownStrip {
					continue
				}
				return unknownKey(ep, fd.Message(), mem.Key)
			}
		}
		if !val.IsValid() {
			if KindOf(vfd) == KindMessage {
				val = tmp.NewValue()
			} else {
				val = vfd.Default()
			}
		}
		tmp.Set(key, val)
	}
	if tmp.Len() == 0 {
		return nil
	}
	dst := m.Mutable(fd).Map()
	tmp.Range(func(k protoreflect.MapKey, v protoreflect.Value) bool {
		dst.Set(k, v)
		return true
	})
	return nil
}

func (d decoder) mapValue(mp protoreflect.Map, vfd protoreflect.FieldDescriptor, v *jsonv.Value, p *path, depth int) (protoreflect.Value, *Issue) {
	k := KindOf(vfd)
	if k == KindMessage {
		if v.Kind() != jsonv.KindObject {
			return protoreflect.Value{}, objectExpected(p, v)
		}
		nv := mp.NewValue()
		if iss := d.message(v, nv.Message(), p, depth+1); iss != nil {
			return protoreflect.Value{}, iss
		}
		return nv, nil
	}
	c, ok := codecFor(k)
	if !ok {
		return vfd.Default(), nil
	}
	return c.decode(vfd, v, p)
}

// listField always yields an array, empty when the field has no elements.
func (e encoder) listField(m protoreflect.Message, fd protoreflect.FieldDescriptor) *jsonv.Value {
	arr := jsonv.Array()
	list := m.Get(fd).List()
	for i := 0; i < list.Len(); i++ {
		arr.Append(e.value(fd, list.Get(i)))
	}
	return arr
}

// mapField yields an array of entry objects ordered by key.
func (e encoder) mapField(m protoreflect.Message, fd protoreflect.FieldDescriptor) *jsonv.Value {
	arr := jsonv.Array()
	mp := m.Get(fd).Map()
	if mp.Len() == 0 {
		return arr
	}
	kfd, vfd := fd.MapKey(), fd.MapValue()
	keys := make([]protoreflect.MapKey, 0, mp.Len())
	mp.Range(func(k protoreflect.MapKey, _ protoreflect.Value) bool {
		keys = append(keys, k)
		return true
	})
	slices.SortFunc(keys, func(a, b protoreflect.MapKey) int { return compareMapKeys(kfd, a, b) })
	for _, k := range keys {
		entry := jsonv.Object().
			Set(string(kfd.Name()), e.value(kfd, k.Value())).
			Set(string(vfd.Name()), e.value(vfd, mp.Get(k)))
		arr.Append(entry)
	}
	return arr
}

func compareMapKeys(kfd protoreflect.FieldDescriptor, a, b protoreflect.MapKey) int {
	switch KindOf(kfd) {
	case KindBool:
		ab, bb := a.Bool(), b.Bool()
		switch {
		case ab == bb:
			return 0
		case !ab:
			return -1
		}
		return 1
	case KindInt32, KindInt64:
		return cmp.Compare(a.Int(), b.Int())
	case KindUint32, KindUint64:
		return cmp.Compare(a.Uint(), b.Uint())
	}
	return cmp.Compare(a.String(), b.String())
}
