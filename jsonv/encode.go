package jsonv

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	j "github.com/goccy/go-json"
)

// MarshalJSON renders v as compact JSON with object members in insertion order.
func (v *Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.appendTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write renders v as compact JSON to w.
func (v *Value) Write(w io.Writer) error {
	var buf bytes.Buffer
	if err := v.appendTo(&buf); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// MarshalIndent renders v like MarshalJSON, with each element on its own line
// beginning with prefix and indented by indent per nesting level.
func (v *Value) MarshalIndent(prefix, indent string) ([]byte, error) {
	raw, err := v.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := j.Indent(&out, raw, prefix, indent); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// String renders v as compact JSON. Invalid trees render as an empty string.
func (v *Value) String() string {
	b, err := v.MarshalJSON()
	if err != nil {
		return ""
	}
	return string(b)
}

func (v *Value) appendTo(buf *bytes.Buffer) error {
	switch v.Kind() {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		buf.WriteString(v.s)
	case KindString:
		return appendString(buf, v.s)
	case KindArray:
		buf.WriteByte('[')
		for i, e := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := e.appendTo(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, m := range v.obj {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := appendString(buf, m.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := m.Value.appendTo(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

// ErrInvalidUTF8 is returned when rendering a string or key that is not valid
// UTF-8. JSON cannot carry such text without altering it.
var ErrInvalidUTF8 = errors.New("jsonv: string is not valid UTF-8")

func appendString(buf *bytes.Buffer, s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("%w: %q", ErrInvalidUTF8, s)
	}
	b, err := j.MarshalNoEscape(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}
