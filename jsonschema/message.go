package jsonschema

import (
	"math"
	"sort"

	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/reoring/pbjson"
)

// Opt selects which side of the codec the exported schema describes.
type Opt struct {
	// Output describes what pbjson.Encode produces instead of what
	// pbjson.Decode accepts: required, repeated and map members are listed as
	// required and enums take only the form the encoder emits.
	Output bool
	// EnumsAsNames mirrors pbjson.EncodeOpt.EnumsAsNames. Only used with Output.
	EnumsAsNames bool
	// Unknown mirrors pbjson.DecodeOpt.Unknown. UnknownStrip allows additional
	// properties.
	Unknown pbjson.UnknownPolicy
}

// FromMessage exports the JSON shape of md. Every message reachable from md
// gets an entry in $defs keyed by its full name; the root refers to its own
// entry so recursive messages are representable.
func FromMessage(md protoreflect.MessageDescriptor, opts ...Opt) *Schema {
	var o Opt
	if len(opts) > 0 {
		o = opts[len(opts)-1]
	}
	g := &generator{opt: o, defs: map[string]*Schema{}}
	g.message(md)
	return &Schema{
		Dialect: Dialect2020,
		Ref:     ref(md),
		Defs:    g.defs,
	}
}

type generator struct {
	opt  Opt
	defs map[string]*Schema
}

func ref(md protoreflect.MessageDescriptor) string {
	return "#/$defs/" + string(md.FullName())
}

func (g *generator) message(md protoreflect.MessageDescriptor) {
	name := string(md.FullName())
	if _, ok := g.defs[name]; ok {
		return
	}
	s := &Schema{Type: "object", Title: name, Properties: map[string]*Schema{}}
	// Register before descending so self references terminate.
	g.defs[name] = s

	var req []string
	fields := md.Fields()
	for i := 0; i < fields.Len(); i++ {
		fd := fields.Get(i)
		if pbjson.KindOf(fd) == pbjson.KindInvalid {
			continue
		}
		fs := g.field(fd)
		s.Properties[string(fd.Name())] = fs
		if g.opt.Output && (fd.IsList() || fd.IsMap() || fd.Cardinality() == protoreflect.Required) {
			req = append(req, string(fd.Name()))
		}
	}
	sort.Strings(req)
	s.Required = req
	s.AdditionalProperties = g.opt.Unknown == pbjson.UnknownStrip
}

func (g *generator) field(fd protoreflect.FieldDescriptor) *Schema {
	switch {
	case fd.IsMap():
		kfd, vfd := fd.MapKey(), fd.MapValue()
		entry := &Schema{
			Type: "object",
			Properties: map[string]*Schema{
				string(kfd.Name()): g.value(kfd),
				string(vfd.Name()): g.value(vfd),
			},
			AdditionalProperties: g.opt.Unknown == pbjson.UnknownStrip,
		}
		if g.opt.Output {
			entry.Required = []string{string(kfd.Name()), string(vfd.Name())}
		}
		return &Schema{Type: "array", Items: entry}
	case fd.IsList():
		return &Schema{Type: "array", Items: g.value(fd)}
	}
	return g.value(fd)
}

// value is the schema of one singular value of fd.
func (g *generator) value(fd protoreflect.FieldDescriptor) *Schema {
	switch pbjson.KindOf(fd) {
	case pbjson.KindDouble, pbjson.KindFloat:
		return &Schema{OneOf: []*Schema{
			{Type: "number"},
			{Type: "string", Enum: []any{"NaN", "Infinity", "-Infinity"}},
		}}
	case pbjson.KindInt32:
		return &Schema{Type: "integer", Minimum: int64(math.MinInt32), Maximum: int64(math.MaxInt32)}
	case pbjson.KindUint32:
		return &Schema{Type: "integer", Minimum: 0, Maximum: uint64(math.MaxUint32)}
	case pbjson.KindInt64:
		return &Schema{Type: "integer", Minimum: int64(math.MinInt64), Maximum: int64(math.MaxInt64)}
	case pbjson.KindUint64:
		return &Schema{Type: "integer", Minimum: 0, Maximum: uint64(math.MaxUint64)}
	case pbjson.KindBool:
		return &Schema{Type: "boolean"}
	case pbjson.KindString:
		return &Schema{Type: "string"}
	case pbjson.KindEnum:
		return g.enum(fd.Enum())
	case pbjson.KindMessage:
		g.message(fd.Message())
		return &Schema{Ref: ref(fd.Message())}
	}
	return &Schema{}
}

func (g *generator) enum(ed protoreflect.EnumDescriptor) *Schema {
	vals := ed.Values()
	var numbers, names []any
	for i := 0; i < vals.Len(); i++ {
		v := vals.Get(i)
		numbers = append(numbers, int32(v.Number()))
		names = append(names, string(v.Name()))
	}
	switch {
	case g.opt.Output && g.opt.EnumsAsNames:
		return &Schema{Type: "string", Enum: names}
	case g.opt.Output:
		return &Schema{Type: "integer", Enum: numbers}
	}
	return &Schema{OneOf: []*Schema{
		{Type: "integer", Enum: numbers},
		{Type: "string", Enum: names},
	}}
}
