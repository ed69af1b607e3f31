package pbjson

import (
	"errors"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/reoring/pbjson/jsonv"
)

// Decode populates m from the JSON object v.
//
// Members are applied in object order and each key must name a field of m
// (unless DecodeOpt.Unknown is UnknownStrip). Decoding stops at the first
// failure and returns an *Issue whose Path locates it, for example
// /addresses[1]/street. Fields assigned before the failure stay assigned;
// repeated and map fields are only extended once every element decoded.
//
// A nested-record field (or element) holding anything but an object fails
// with ErrObjectExpected rather than ErrTypeMismatch, the same code as a
// non-object root.
func Decode(v *jsonv.Value, m protoreflect.Message, opts ...DecodeOpt) error {
	d := decoder{opt: decodeOpt(opts)}
	if iss := d.message(v, m, nil, 1); iss != nil {
		return iss
	}
	return nil
}

// Encode produces a JSON object from m.
//
// Fields are emitted in declaration order. Repeated and map fields are always
// emitted, as arrays; singular fields only when required or present.
func Encode(m protoreflect.Message, opts ...EncodeOpt) *jsonv.Value {
	e := encoder{opt: encodeOpt(opts)}
	return e.message(m)
}

// Unmarshal parses data as JSON and decodes it into msg. Syntax errors are
// reported as an *Issue with CodeParseError wrapping the *jsonv.SyntaxError.
func Unmarshal(data []byte, msg proto.Message, opts ...DecodeOpt) error {
	v, err := jsonv.Parse(data)
	if err != nil {
		iss := &Issue{Path: "/", Code: CodeParseError, Message: err.Error(), Cause: err}
		var se *jsonv.SyntaxError
		if errors.As(err, &se) {
			iss.Path = se.Path
			iss.Message = se.Message
		}
		return iss
	}
	return Decode(v, msg.ProtoReflect(), opts...)
}

// Marshal encodes msg and renders it as compact JSON. A bytes field whose
// content is not valid UTF-8 cannot be carried as JSON text and fails with
// jsonv.ErrInvalidUTF8.
func Marshal(msg proto.Message, opts ...EncodeOpt) ([]byte, error) {
	return Encode(msg.ProtoReflect(), opts...).MarshalJSON()
}
