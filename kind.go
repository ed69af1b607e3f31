package pbjson

import (
	"strconv"

	"google.golang.org/protobuf/reflect/protoreflect"
)

// Kind is the closed set of field kinds the codec understands. Several
// protobuf wire kinds fold into one Kind because they share a JSON form.
type Kind uint8

const (
	KindInvalid Kind = iota // Not handled; skipped in both directions.
	KindDouble
	KindFloat
	KindInt32
	KindUint32
	KindInt64
	KindUint64
	KindBool
	KindString
	KindMessage
	KindEnum
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindDouble:  "double",
	KindFloat:   "float",
	KindInt32:   "int32",
	KindUint32:  "uint32",
	KindInt64:   "int64",
	KindUint64:  "uint64",
	KindBool:    "bool",
	KindString:  "string",
	KindMessage: "message",
	KindEnum:    "enum",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// KindOf maps a field descriptor to its codec Kind. Bytes fields are carried as
// text, groups as nested messages.
func KindOf(fd protoreflect.FieldDescriptor) Kind {
	switch fd.Kind() {
	case protoreflect.DoubleKind:
		return KindDouble
	case protoreflect.FloatKind:
		return KindFloat
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind:
		return KindInt32
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		return KindUint32
	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		return KindInt64
	case protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return KindUint64
	case protoreflect.BoolKind:
		return KindBool
	case protoreflect.StringKind, protoreflect.BytesKind:
		return KindString
	case protoreflect.MessageKind, protoreflect.GroupKind:
		return KindMessage
	case protoreflect.EnumKind:
		return KindEnum
	}
	return KindInvalid
}
