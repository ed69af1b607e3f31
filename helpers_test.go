package pbjson_test

import (
	"testing"

	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/reoring/pbjson"
	"github.com/reoring/pbjson/internal/testschema"
	"github.com/reoring/pbjson/jsonv"
)

// person builds an addressbook.Person from protobuf text format.
func person(t *testing.T, text string) *dynamicpb.Message {
	t.Helper()
	m := testschema.Person()
	if err := (prototext.UnmarshalOptions{AllowPartial: true}).Unmarshal([]byte(text), m); err != nil {
		t.Fatalf("prototext: %v", err)
	}
	return m
}

func parse(t *testing.T, js string) *jsonv.Value {
	t.Helper()
	v, err := jsonv.Parse([]byte(js))
	if err != nil {
		t.Fatalf("parse %s: %v", js, err)
	}
	return v
}

// decodePerson decodes js into a fresh addressbook.Person.
func decodePerson(t *testing.T, js string, opts ...pbjson.DecodeOpt) (*dynamicpb.Message, error) {
	t.Helper()
	m := testschema.Person()
	return m, pbjson.Decode(parse(t, js), m, opts...)
}

func fieldOf(m protoreflect.Message, name string) protoreflect.FieldDescriptor {
	return m.Descriptor().Fields().ByName(protoreflect.Name(name))
}

func mustIssue(t *testing.T, err error) *pbjson.Issue {
	t.Helper()
	iss, ok := pbjson.AsIssue(err)
	if !ok {
		t.Fatalf("expected *pbjson.Issue, got %v", err)
	}
	return iss
}
