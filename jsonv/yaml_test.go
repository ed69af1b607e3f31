package jsonv_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/reoring/pbjson/jsonv"
)

func TestFromYAML_OrderedTypedScalars(t *testing.T) {
	src := []byte(`
name: Alice
id: 0x10
score: 1.5
active: true
email: ~
defaults: &d
  city: Rome
home: *d
tags: [a, "1"]
`)
	v, err := jsonv.FromYAML(src)
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	want := `{"name":"Alice","id":16,"score":1.5,"active":true,"email":null,` +
		`"defaults":{"city":"Rome"},"home":{"city":"Rome"},"tags":["a","1"]}`
	if diff := cmp.Diff(want, v.String()); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestFromYAML_DuplicateKey(t *testing.T) {
	_, err := jsonv.FromYAML([]byte("a: 1\nb: 2\na: 3\n"))
	var de *jsonv.DuplicateKeyError
	if !errors.As(err, &de) {
		t.Fatalf("expected DuplicateKeyError, got %v", err)
	}
	if de.Key != "a" || de.FirstLine != 1 || de.Line != 3 {
		t.Fatalf("unexpected positions: %+v", de)
	}
}

func TestFromYAML_Empty(t *testing.T) {
	v, err := jsonv.FromYAML(nil)
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if v.Kind() != jsonv.KindNull {
		t.Fatalf("expected null, got %s", v.Kind())
	}
}

func TestMarshalYAML_RoundTrip(t *testing.T) {
	v := jsonv.Object().
		Set("b", jsonv.String("true")).
		Set("a", jsonv.Array(jsonv.Int(1), jsonv.Float(2.5), jsonv.Null())).
		Set("c", jsonv.Object().Set("x", jsonv.Bool(false)))
	out, err := yaml.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	back, err := jsonv.FromYAML(out)
	if err != nil {
		t.Fatalf("reparse: %v\n%s", err, out)
	}
	if !jsonv.Equal(v, back) {
		t.Fatalf("round trip mismatch:\n%s\nvs\n%s", v, back)
	}
}

func TestFromYAML_AliasCycle(t *testing.T) {
	for _, src := range []string{
		"a: &x\n  - *x\n",
		"a: &x\n  b: *x\n",
	} {
		_, err := jsonv.FromYAML([]byte(src))
		if !errors.Is(err, jsonv.ErrAliasCycle) {
			t.Fatalf("%q: expected ErrAliasCycle, got %v", src, err)
		}
	}
}

func TestFromYAML_AliasExpansionLimit(t *testing.T) {
	var b strings.Builder
	b.WriteString("l0: &l0 [x, x, x, x, x, x, x, x, x, x]\n")
	for i := 1; i < 9; i++ {
		prev := fmt.Sprintf("*l%d", i-1)
		fmt.Fprintf(&b, "l%d: &l%d [%s]\n", i, i, strings.Repeat(prev+", ", 9)+prev)
	}
	_, err := jsonv.FromYAML([]byte(b.String()))
	if !errors.Is(err, jsonv.ErrAliasExpansion) {
		t.Fatalf("expected ErrAliasExpansion, got %v", err)
	}

	// Shared anchors that do not nest still expand.
	v, err := jsonv.FromYAML([]byte("a: &x {k: 1}\nb: [*x, *x]\n"))
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if got := v.String(); got != `{"a":{"k":1},"b":[{"k":1},{"k":1}]}` {
		t.Fatalf("got %s", got)
	}
}
