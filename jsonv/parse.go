package jsonv

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"

	j "github.com/goccy/go-json"
)

// Severity selects how the parser reacts to duplicate object keys.
type Severity int

const (
	Ignore Severity = iota // Later value replaces the earlier one silently.
	Warn                   // Later value replaces the earlier one; a Warning is recorded.
	Error                  // Parsing fails.
)

// ParseOpt bundles parsing options.
type ParseOpt struct {
	OnDuplicateKey Severity
	// MaxDepth bounds array/object nesting. Zero means unlimited.
	MaxDepth int
	// Warnings, when non-nil, receives non-fatal findings such as duplicate
	// keys under Warn.
	Warnings func(Warning)
}

// Warning is a non-fatal parser finding.
type Warning struct {
	Path    string // JSON Pointer of the offending member.
	Code    string
	Message string
}

// Parser error codes.
const (
	CodeParseError   = "parse_error"
	CodeDuplicateKey = "duplicate_key"
	CodeMaxDepth     = "max_depth"
	CodeTrailingData = "trailing_data"
)

// SyntaxError reports malformed or rejected input.
type SyntaxError struct {
	Path    string
	Code    string
	Message string
	Cause   error
}

func (e *SyntaxError) Error() string {
	return "jsonv: " + e.Code + " at " + e.Path + ": " + e.Message
}

func (e *SyntaxError) Unwrap() error { return e.Cause }

// Parse builds a Value tree from a single JSON document.
func Parse(data []byte, opts ...ParseOpt) (*Value, error) {
	var opt ParseOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	v, err := parseTokens(data, opt)
	if err != nil {
		return nil, err
	}
	// The token stream skips separators, so the grammar is checked separately.
	if !j.Valid(data) {
		return nil, &SyntaxError{Path: "/", Code: CodeParseError, Message: "malformed JSON"}
	}
	return v, nil
}

// ParseReader reads r to the end and parses it like Parse.
func ParseReader(r io.Reader, opts ...ParseOpt) (*Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data, opts...)
}

func parseTokens(data []byte, opt ParseOpt) (*Value, error) {
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	p := &parser{dec: dec, opt: opt}

	tok, err := p.next("")
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &SyntaxError{Path: "/", Code: CodeParseError, Message: "empty input", Cause: io.ErrUnexpectedEOF}
		}
		return nil, err
	}
	v, err := p.value(tok, "", 0)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &SyntaxError{Path: "/", Code: CodeTrailingData, Message: "unexpected data after top-level value", Cause: err}
	}
	return v, nil
}

type parser struct {
	dec *j.Decoder
	opt ParseOpt
}

func (p *parser) next(path string) (j.Token, error) {
	tok, err := p.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, err
		}
		return nil, &SyntaxError{Path: pointer(path), Code: CodeParseError, Message: err.Error(), Cause: err}
	}
	return tok, nil
}

// nextIn reads a token inside a container, where EOF is never legal.
func (p *parser) nextIn(path string) (j.Token, error) {
	tok, err := p.next(path)
	if errors.Is(err, io.EOF) {
		return nil, &SyntaxError{Path: pointer(path), Code: CodeParseError, Message: "unexpected end of input", Cause: io.ErrUnexpectedEOF}
	}
	return tok, err
}

func (p *parser) value(tok j.Token, path string, depth int) (*Value, error) {
	switch t := tok.(type) {
	case j.Delim:
		switch t {
		case '{':
			if err := p.enter(path, depth); err != nil {
				return nil, err
			}
			return p.object(path, depth+1)
		case '[':
			if err := p.enter(path, depth); err != nil {
				return nil, err
			}
			return p.array(path, depth+1)
		}
		return nil, &SyntaxError{Path: pointer(path), Code: CodeParseError, Message: "unexpected delimiter " + string(rune(t))}
	case string:
		return String(t), nil
	case j.Number:
		return Number(string(t)), nil
	case float64:
		return Number(strconv.FormatFloat(t, 'g', -1, 64)), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Null(), nil
	}
	return nil, &SyntaxError{Path: pointer(path), Code: CodeParseError, Message: "unexpected token"}
}

func (p *parser) enter(path string, depth int) error {
	if p.opt.MaxDepth > 0 && depth+1 > p.opt.MaxDepth {
		return &SyntaxError{Path: pointer(path), Code: CodeMaxDepth, Message: "max depth exceeded"}
	}
	return nil
}

func (p *parser) object(path string, depth int) (*Value, error) {
	obj := Object()
	var seen map[string]int
	for {
		tok, err := p.nextIn(path)
		if err != nil {
			return nil, err
		}
		if d, ok := tok.(j.Delim); ok && d == '}' {
			return obj, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, &SyntaxError{Path: pointer(path), Code: CodeParseError, Message: "expected object key"}
		}
		mpath := joinPointer(path, key)
		vt, err := p.nextIn(mpath)
		if err != nil {
			return nil, err
		}
		v, err := p.value(vt, mpath, depth)
		if err != nil {
			return nil, err
		}
		if seen == nil {
			seen = make(map[string]int)
		}
		if at, dup := seen[key]; dup {
			msg := "key '" + key + "' duplicated"
			switch p.opt.OnDuplicateKey {
			case Error:
				return nil, &SyntaxError{Path: mpath, Code: CodeDuplicateKey, Message: msg}
			case Warn:
				if p.opt.Warnings != nil {
					p.opt.Warnings(Warning{Path: mpath, Code: CodeDuplicateKey, Message: msg})
				}
			}
			obj.obj[at].Value = v
			continue
		}
		seen[key] = len(obj.obj)
		obj.add(key, v)
	}
}

func (p *parser) array(path string, depth int) (*Value, error) {
	arr := Array()
	for i := 0; ; i++ {
		epath := joinPointer(path, strconv.Itoa(i))
		tok, err := p.nextIn(epath)
		if err != nil {
			return nil, err
		}
		if d, ok := tok.(j.Delim); ok && d == ']' {
			return arr, nil
		}
		v, err := p.value(tok, epath, depth)
		if err != nil {
			return nil, err
		}
		arr.arr = append(arr.arr, v)
	}
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func joinPointer(base, token string) string {
	return base + "/" + pointerEscaper.Replace(token)
}

func pointer(p string) string {
	if p == "" {
		return "/"
	}
	return p
}
