package jsonv

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Kind enumerates JSON value kinds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Member is a single key/value pair of an object.
type Member struct {
	Key   string
	Value *Value
}

// Value is a node of an in-memory JSON tree. Numbers keep their literal text so
// integer range checks stay exact; objects keep insertion order.
//
// The zero Value is a JSON null.
type Value struct {
	kind Kind
	b    bool
	s    string // string contents, or number literal
	arr  []*Value
	obj  []Member
}

// Null returns a JSON null.
func Null() *Value { return &Value{kind: KindNull} }

// Bool returns a JSON boolean.
func Bool(b bool) *Value { return &Value{kind: KindBool, b: b} }

// String returns a JSON string.
func String(s string) *Value { return &Value{kind: KindString, s: s} }

// Int returns a JSON number holding a signed integer.
func Int(i int64) *Value { return &Value{kind: KindNumber, s: strconv.FormatInt(i, 10)} }

// Uint returns a JSON number holding an unsigned integer.
func Uint(u uint64) *Value { return &Value{kind: KindNumber, s: strconv.FormatUint(u, 10)} }

// Float returns a JSON number for f. JSON has no literal for NaN or the
// infinities, so those become the strings "NaN", "Infinity" and "-Infinity".
func Float(f float64) *Value {
	switch {
	case math.IsNaN(f):
		return String("NaN")
	case math.IsInf(f, 1):
		return String("Infinity")
	case math.IsInf(f, -1):
		return String("-Infinity")
	}
	return &Value{kind: KindNumber, s: strconv.FormatFloat(f, 'g', -1, 64)}
}

// Number returns a JSON number with the given literal. The literal is not
// validated; callers building from parsed input pass it through unchanged.
func Number(lit string) *Value { return &Value{kind: KindNumber, s: lit} }

// Array returns a JSON array holding elems.
func Array(elems ...*Value) *Value {
	a := &Value{kind: KindArray, arr: make([]*Value, 0, len(elems))}
	for _, e := range elems {
		a.arr = append(a.arr, orNull(e))
	}
	return a
}

// Object returns an empty JSON object.
func Object() *Value { return &Value{kind: KindObject} }

func orNull(v *Value) *Value {
	if v == nil {
		return Null()
	}
	return v
}

// Kind reports the kind of v. A nil *Value is null.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// Bool returns the boolean payload.
func (v *Value) Bool() (bool, bool) {
	if v.Kind() != KindBool {
		return false, false
	}
	return v.b, true
}

// Str returns the string payload.
func (v *Value) Str() (string, bool) {
	if v.Kind() != KindString {
		return "", false
	}
	return v.s, true
}

// Literal returns the number literal as written.
func (v *Value) Literal() (string, bool) {
	if v.Kind() != KindNumber {
		return "", false
	}
	return v.s, true
}

// IsInteger reports whether v is a number written without fraction or exponent.
func (v *Value) IsInteger() bool {
	if v.Kind() != KindNumber || v.s == "" {
		return false
	}
	return !strings.ContainsAny(v.s, ".eE")
}

// Int64 returns v as an int64 when it is an integer literal in range.
func (v *Value) Int64() (int64, bool) { return v.parseInt(64) }

// Int32 returns v as an int32 when it is an integer literal in range.
func (v *Value) Int32() (int32, bool) {
	i, ok := v.parseInt(32)
	return int32(i), ok
}

// Uint64 returns v as a uint64 when it is a non-negative integer literal in range.
func (v *Value) Uint64() (uint64, bool) { return v.parseUint(64) }

// Uint32 returns v as a uint32 when it is a non-negative integer literal in range.
func (v *Value) Uint32() (uint32, bool) {
	u, ok := v.parseUint(32)
	return uint32(u), ok
}

func (v *Value) parseInt(bits int) (int64, bool) {
	if !v.IsInteger() {
		return 0, false
	}
	i, err := strconv.ParseInt(v.s, 10, bits)
	if err != nil {
		return 0, false
	}
	return i, true
}

func (v *Value) parseUint(bits int) (uint64, bool) {
	if !v.IsInteger() {
		return 0, false
	}
	// "-0" is a valid integer literal with value zero.
	lit := v.s
	if lit == "-0" {
		lit = "0"
	}
	u, err := strconv.ParseUint(lit, 10, bits)
	if err != nil {
		return 0, false
	}
	return u, true
}

// Float64 returns v as a float64. Any number is accepted; literals beyond the
// float64 range round to ±Inf.
func (v *Value) Float64() (float64, bool) {
	if v.Kind() != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.s, 64)
	if err != nil {
		var ne *strconv.NumError
		if errors.As(err, &ne) && ne.Err == strconv.ErrRange {
			return f, true
		}
		return 0, false
	}
	return f, true
}

// Len returns the number of array elements or object members.
func (v *Value) Len() int {
	switch v.Kind() {
	case KindArray:
		return len(v.arr)
	case KindObject:
		return len(v.obj)
	}
	return 0
}

// Index returns the i-th array element, or nil when out of range.
func (v *Value) Index(i int) *Value {
	if v.Kind() != KindArray || i < 0 || i >= len(v.arr) {
		return nil
	}
	return v.arr[i]
}

// Elements returns the array elements. The slice is shared with v.
func (v *Value) Elements() []*Value {
	if v.Kind() != KindArray {
		return nil
	}
	return v.arr
}

// Append adds elems to the array v and returns v.
func (v *Value) Append(elems ...*Value) *Value {
	if v.Kind() != KindArray {
		panic("jsonv: Append on " + v.Kind().String())
	}
	for _, e := range elems {
		v.arr = append(v.arr, orNull(e))
	}
	return v
}

// Members returns the object members in insertion order. The slice is shared
// with v.
func (v *Value) Members() []Member {
	if v.Kind() != KindObject {
		return nil
	}
	return v.obj
}

// Get returns the member value for key.
func (v *Value) Get(key string) (*Value, bool) {
	if v.Kind() != KindObject {
		return nil, false
	}
	for _, m := range v.obj {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Set stores key in the object v and returns v. An existing key keeps its
// position and has its value replaced; a new key is appended.
func (v *Value) Set(key string, val *Value) *Value {
	if v.Kind() != KindObject {
		panic("jsonv: Set on " + v.Kind().String())
	}
	val = orNull(val)
	for i := range v.obj {
		if v.obj[i].Key == key {
			v.obj[i].Value = val
			return v
		}
	}
	v.obj = append(v.obj, Member{Key: key, Value: val})
	return v
}

// add appends without the uniqueness scan; the parser checks duplicates itself.
func (v *Value) add(key string, val *Value) {
	v.obj = append(v.obj, Member{Key: key, Value: val})
}

// Equal reports whether a and b hold the same tree. Object member order is
// significant. Integer literals compare by value, other numbers by text.
func Equal(a, b *Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindString:
		return a.s == b.s
	case KindNumber:
		if a.s == b.s {
			return true
		}
		if ai, ok := a.Int64(); ok {
			bi, ok := b.Int64()
			return ok && ai == bi
		}
		if au, ok := a.Uint64(); ok {
			bu, ok := b.Uint64()
			return ok && au == bu
		}
		return false
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.obj) != len(b.obj) {
			return false
		}
		for i := range a.obj {
			if a.obj[i].Key != b.obj[i].Key || !Equal(a.obj[i].Value, b.obj[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

// Equal lets go-cmp compare trees structurally.
func (v *Value) Equal(o *Value) bool { return Equal(v, o) }
