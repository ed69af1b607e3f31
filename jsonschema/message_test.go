package jsonschema_test

import (
	"math"
	"strings"
	"testing"

	j "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/reoring/pbjson"
	"github.com/reoring/pbjson/internal/testschema"
	js "github.com/reoring/pbjson/jsonschema"
)

func personSchema(t *testing.T, opts ...js.Opt) *js.Schema {
	t.Helper()
	md := testschema.Person().Descriptor()
	s := js.FromMessage(md, opts...)
	if s == nil {
		t.Fatalf("FromMessage returned nil")
	}
	return s
}

func TestFromMessage_Defs(t *testing.T) {
	s := personSchema(t)
	if s.Ref != "#/$defs/addressbook.Person" || s.Dialect != js.Dialect2020 {
		t.Fatalf("root: %+v", s)
	}
	var names []string
	for k := range s.Defs {
		names = append(names, k)
	}
	if diff := cmp.Diff([]string{"addressbook.Address", "addressbook.Person"}, names, cmpSorted); diff != "" {
		t.Fatalf("defs (-want +got):\n%s", diff)
	}

	want := &js.Schema{
		Type:  "object",
		Title: "addressbook.Address",
		Properties: map[string]*js.Schema{
			"street": {Type: "string"},
			"city":   {Type: "string"},
			"zip":    {Type: "integer", Minimum: 0, Maximum: uint64(math.MaxUint32)},
		},
		AdditionalProperties: false,
	}
	if diff := cmp.Diff(want, s.Defs["addressbook.Address"]); diff != "" {
		t.Fatalf("Address (-want +got):\n%s", diff)
	}
}

func TestFromMessage_Fields(t *testing.T) {
	person := personSchema(t).Defs["addressbook.Person"]
	props := person.Properties

	if got := props["manager"]; got.Ref != "#/$defs/addressbook.Person" {
		t.Fatalf("manager: %+v", got)
	}
	if got := props["addresses"]; got.Type != "array" || got.Items.Ref != "#/$defs/addressbook.Address" {
		t.Fatalf("addresses: %+v", got)
	}
	if got := props["avatar"]; got.Type != "string" {
		t.Fatalf("avatar: %+v", got)
	}
	if got := props["count"]; got.Minimum != int64(math.MinInt32) || got.Maximum != int64(math.MaxInt32) {
		t.Fatalf("count: %+v", got)
	}
	status := props["status"]
	if len(status.OneOf) != 2 {
		t.Fatalf("status: %+v", status)
	}
	if diff := cmp.Diff([]any{"UNKNOWN", "ACTIVE", "SUSPENDED"}, status.OneOf[1].Enum); diff != "" {
		t.Fatalf("status names (-want +got):\n%s", diff)
	}
	labels := props["labels"]
	if labels.Type != "array" || labels.Items.Properties["key"].Type != "string" || labels.Items.Properties["value"].Type != "integer" {
		t.Fatalf("labels: %+v", labels.Items)
	}
	if len(person.Required) != 0 {
		t.Fatalf("decode schema must not require members: %v", person.Required)
	}
}

func TestFromMessage_Output(t *testing.T) {
	person := personSchema(t, js.Opt{Output: true, EnumsAsNames: true}).Defs["addressbook.Person"]
	want := []string{"addresses", "history", "labels", "name", "places", "samples", "tags"}
	if diff := cmp.Diff(want, person.Required); diff != "" {
		t.Fatalf("required (-want +got):\n%s", diff)
	}
	if got := person.Properties["status"]; got.Type != "string" || len(got.Enum) != 3 {
		t.Fatalf("status: %+v", got)
	}
	numbers := personSchema(t, js.Opt{Output: true}).Defs["addressbook.Person"].Properties["status"]
	if diff := cmp.Diff([]any{int32(0), int32(1), int32(2)}, numbers.Enum); diff != "" {
		t.Fatalf("status numbers (-want +got):\n%s", diff)
	}
}

func TestFromMessage_StripAndMarshal(t *testing.T) {
	s := personSchema(t, js.Opt{Unknown: pbjson.UnknownStrip})
	if s.Defs["addressbook.Address"].AdditionalProperties != true {
		t.Fatalf("strip must allow additional properties")
	}
	b, err := j.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, frag := range []string{
		`"$schema":"https://json-schema.org/draft/2020-12/schema"`,
		`"$ref":"#/$defs/addressbook.Person"`,
		`"maximum":18446744073709551615`,
		`"minimum":-9223372036854775808`,
	} {
		if !strings.Contains(string(b), frag) {
			t.Errorf("missing %s in %s", frag, b)
		}
	}
}

var cmpSorted = cmpopts.SortSlices(func(a, b string) bool { return a < b })
