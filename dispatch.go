package pbjson

import (
	"math"

	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/reoring/pbjson/jsonv"
)

// kindCodec pairs the JSON acceptance rule of one Kind with its JSON
// production rule. decode and encode are nil for KindMessage: nested records
// are handled by the record codec, which owns recursion depth.
type kindCodec struct {
	expected string // label used in "Expected ..." messages
	decode   func(fd protoreflect.FieldDescriptor, v *jsonv.Value, p *path) (protoreflect.Value, *Issue)
	encode   func(fd protoreflect.FieldDescriptor, pv protoreflect.Value, opt EncodeOpt) *jsonv.Value
}

var dispatch = [...]kindCodec{
	KindDouble:  {expected: "number", decode: decodeDouble, encode: encodeFloat},
	KindFloat:   {expected: "number", decode: decodeFloat, encode: encodeFloat},
	KindInt32:   {expected: "int32", decode: decodeInt32, encode: encodeInt},
	KindUint32:  {expected: "uint32", decode: decodeUint32, encode: encodeUint},
	KindInt64:   {expected: "int64", decode: decodeInt64, encode: encodeInt},
	KindUint64:  {expected: "uint64", decode: decodeUint64, encode: encodeUint},
	KindBool:    {expected: "bool", decode: decodeBool, encode: encodeBool},
	KindString:  {expected: "string", decode: decodeString, encode: encodeString},
	KindMessage: {expected: "object"},
	KindEnum:    {expected: "enum", decode: decodeEnum, encode: encodeEnum},
}

// codecFor returns the table entry for k. ok is false for KindInvalid and
// anything outside the table.
func codecFor(k Kind) (kindCodec, bool) {
	if k == KindInvalid || int(k) >= len(dispatch) {
		return kindCodec{}, false
	}
	return dispatch[k], true
}

func mismatch(p *path, expected string, v *jsonv.Value) *Issue {
	return p.Issue(CodeInvalidType, "Expected "+expected, "expected", expected, "got", v.Kind().String())
}

// ---- decode ----

// jsonFloat accepts any JSON number plus the string spellings encode uses for
// non-finite values.
func jsonFloat(v *jsonv.Value) (float64, bool) {
	if f, ok := v.Float64(); ok {
		return f, true
	}
	s, ok := v.Str()
	if !ok {
		return 0, false
	}
	switch s {
	case "NaN":
		return math.NaN(), true
	case "Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}
	return 0, false
}

func decodeDouble(_ protoreflect.FieldDescriptor, v *jsonv.Value, p *path) (protoreflect.Value, *Issue) {
	f, ok := jsonFloat(v)
	if !ok {
		return protoreflect.Value{}, mismatch(p, "number", v)
	}
	return protoreflect.ValueOfFloat64(f), nil
}

func decodeFloat(_ protoreflect.FieldDescriptor, v *jsonv.Value, p *path) (protoreflect.Value, *Issue) {
	f, ok := jsonFloat(v)
	if !ok {
		return protoreflect.Value{}, mismatch(p, "number", v)
	}
	return protoreflect.ValueOfFloat32(float32(f)), nil
}

func decodeInt32(_ protoreflect.FieldDescriptor, v *jsonv.Value, p *path) (protoreflect.Value, *Issue) {
	i, ok := v.Int32()
	if !ok {
		return protoreflect.Value{}, mismatch(p, "int32", v)
	}
	return protoreflect.ValueOfInt32(i), nil
}

func decodeUint32(_ protoreflect.FieldDescriptor, v *jsonv.Value, p *path) (protoreflect.Value, *Issue) {
	u, ok := v.Uint32()
	if !ok {
		return protoreflect.Value{}, mismatch(p, "uint32", v)
	}
	return protoreflect.ValueOfUint32(u), nil
}

func decodeInt64(_ protoreflect.FieldDescriptor, v *jsonv.Value, p *path) (protoreflect.Value, *Issue) {
	i, ok := v.Int64()
	if !ok {
		return protoreflect.Value{}, mismatch(p, "int64", v)
	}
	return protoreflect.ValueOfInt64(i), nil
}

func decodeUint64(_ protoreflect.FieldDescriptor, v *jsonv.Value, p *path) (protoreflect.Value, *Issue) {
	u, ok := v.Uint64()
	if !ok {
		return protoreflect.Value{}, mismatch(p, "uint64", v)
	}
	return protoreflect.ValueOfUint64(u), nil
}

func decodeBool(_ protoreflect.FieldDescriptor, v *jsonv.Value, p *path) (protoreflect.Value, *Issue) {
	b, ok := v.Bool()
	if !ok {
		return protoreflect.Value{}, mismatch(p, "bool", v)
	}
	return protoreflect.ValueOfBool(b), nil
}

func decodeString(fd protoreflect.FieldDescriptor, v *jsonv.Value, p *path) (protoreflect.Value, *Issue) {
	s, ok := v.Str()
	if !ok {
		return protoreflect.Value{}, mismatch(p, "string", v)
	}
	if fd.Kind() == protoreflect.BytesKind {
		return protoreflect.ValueOfBytes([]byte(s)), nil
	}
	return protoreflect.ValueOfString(s), nil
}

func decodeEnum(fd protoreflect.FieldDescriptor, v *jsonv.Value, p *path) (protoreflect.Value, *Issue) {
	ed := fd.Enum()
	switch v.Kind() {
	case jsonv.KindNumber:
		if n, ok := v.Int32(); ok {
			if ev := ed.Values().ByNumber(protoreflect.EnumNumber(n)); ev != nil {
				return protoreflect.ValueOfEnum(ev.Number()), nil
			}
		}
	case jsonv.KindString:
		s, _ := v.Str()
		if ev := ed.Values().ByName(protoreflect.Name(s)); ev != nil {
			return protoreflect.ValueOfEnum(ev.Number()), nil
		}
	default:
		return protoreflect.Value{}, mismatch(p, "enum", v)
	}
	lit := v.String()
	return protoreflect.Value{}, p.Issue(CodeInvalidEnum,
		"Unknown value "+lit+" for enum "+string(ed.FullName()),
		"enum", string(ed.FullName()), "value", lit)
}

// ---- encode ----

func encodeFloat(_ protoreflect.FieldDescriptor, pv protoreflect.Value, _ EncodeOpt) *jsonv.Value {
	return jsonv.Float(pv.Float())
}

func encodeInt(_ protoreflect.FieldDescriptor, pv protoreflect.Value, _ EncodeOpt) *jsonv.Value {
	return jsonv.Int(pv.Int())
}

func encodeUint(_ protoreflect.FieldDescriptor, pv protoreflect.Value, _ EncodeOpt) *jsonv.Value {
	return jsonv.Uint(pv.Uint())
}

func encodeBool(_ protoreflect.FieldDescriptor, pv protoreflect.Value, _ EncodeOpt) *jsonv.Value {
	return jsonv.Bool(pv.Bool())
}

func encodeString(fd protoreflect.FieldDescriptor, pv protoreflect.Value, _ EncodeOpt) *jsonv.Value {
	if fd.Kind() == protoreflect.BytesKind {
		return jsonv.String(string(pv.Bytes()))
	}
	return jsonv.String(pv.String())
}

func encodeEnum(fd protoreflect.FieldDescriptor, pv protoreflect.Value, opt EncodeOpt) *jsonv.Value {
	n := pv.Enum()
	if opt.EnumsAsNames {
		if ev := fd.Enum().Values().ByNumber(n); ev != nil {
			return jsonv.String(string(ev.Name()))
		}
	}
	return jsonv.Int(int64(n))
}
