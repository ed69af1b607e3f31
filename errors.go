package pbjson

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/reoring/pbjson/i18n"
)

// Issue codes.
const (
	CodeObjectExpected = "object_expected"
	CodeArrayExpected  = "array_expected"
	CodeInvalidType    = "invalid_type"
	CodeUnknownKey     = "unknown_key"
	CodeInvalidEnum    = "invalid_enum"
	CodeMaxDepth       = "max_depth"
	CodeParseError     = "parse_error"
)

// Sentinels matched by errors.Is against a returned *Issue.
var (
	ErrObjectExpected   = errors.New("pbjson: object expected")
	ErrArrayExpected    = errors.New("pbjson: array expected")
	ErrTypeMismatch     = errors.New("pbjson: type mismatch")
	ErrUnknownField     = errors.New("pbjson: unknown field")
	ErrUnknownEnumValue = errors.New("pbjson: unknown enum value")
	ErrMaxDepth         = errors.New("pbjson: max depth exceeded")
)

var codeSentinels = map[string]error{
	CodeObjectExpected: ErrObjectExpected,
	CodeArrayExpected:  ErrArrayExpected,
	CodeInvalidType:    ErrTypeMismatch,
	CodeUnknownKey:     ErrUnknownField,
	CodeInvalidEnum:    ErrUnknownEnumValue,
	CodeMaxDepth:       ErrMaxDepth,
}

// Issue describes why a decode stopped. Decoding is fail-fast, so a failed
// call reports exactly one Issue.
type Issue struct {
	Path    string // Root-to-fault location, for example /addresses[1]/street.
	Code    string // One of the codes listed above.
	Message string // For example: Expected string.
	// Params carries structured details such as "expected", "got", "message",
	// "field", "enum" and "value".
	Params map[string]any
	Cause  error // Optional: underlying error.
}

func (iss *Issue) Error() string {
	b := &strings.Builder{}
	// e.g. invalid_type at /addresses[1]/street: Expected string
	fmt.Fprintf(b, "%s at %s", iss.Code, iss.Path)
	if iss.Message != "" {
		b.WriteString(": ")
		b.WriteString(iss.Message)
	}
	return b.String()
}

// Unwrap exposes the sentinel for the issue code and the cause, if any.
func (iss *Issue) Unwrap() []error {
	var errs []error
	if s, ok := codeSentinels[iss.Code]; ok {
		errs = append(errs, s)
	}
	if iss.Cause != nil {
		errs = append(errs, iss.Cause)
	}
	return errs
}

// Localized renders the issue with the current i18n Translator, prefixed by
// its path. Params are passed to the translator as strings.
func (iss *Issue) Localized() string {
	var data map[string]string
	if len(iss.Params) > 0 {
		data = make(map[string]string, len(iss.Params))
		for k, v := range iss.Params {
			data[k] = fmt.Sprint(v)
		}
	}
	return iss.Path + ": " + i18n.T(iss.Code, data)
}

// ParamKeys returns the Params keys in sorted order.
func (iss *Issue) ParamKeys() []string {
	keys := make([]string, 0, len(iss.Params))
	for k := range iss.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AsIssue extracts an *Issue from an error using errors.As internally.
func AsIssue(err error) (*Issue, bool) {
	if err == nil {
		return nil, false
	}
	var iss *Issue
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}
