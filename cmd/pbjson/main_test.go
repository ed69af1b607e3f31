package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/testing/protocmp"

	"github.com/reoring/pbjson/i18n"
	"github.com/reoring/pbjson/internal/testschema"
)

func descriptorFile(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "addressbook.txtpb")
	if err := os.WriteFile(p, testschema.Text(), 0o644); err != nil {
		t.Fatalf("write descriptor: %v", err)
	}
	return p
}

func runCLI(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errb bytes.Buffer
	code = run(args, strings.NewReader(stdin), &out, &errb)
	return code, out.String(), errb.String()
}

func TestDecodeCmd(t *testing.T) {
	desc := descriptorFile(t)
	code, out, errOut := runCLI(t, "", "decode", "-descriptor", desc, "-message", "addressbook.Person", "-in", "testdata/person.json")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	got := testschema.Person()
	if err := prototext.Unmarshal([]byte(out), got); err != nil {
		t.Fatalf("output is not text format: %v\n%s", err, out)
	}
	want := testschema.Person()
	if err := prototext.Unmarshal([]byte(`
		name: "Alice" id: 42 email: "alice@example.com"
		tags: "admin" tags: "ops" status: ACTIVE
		addresses { street: "1 Main St" city: "Springfield" zip: 12345 }
		labels { key: "team" value: 7 }
		home { city: "Springfield" }
	`), want); err != nil {
		t.Fatalf("want: %v", err)
	}
	if diff := cmp.Diff(want, got, protocmp.Transform()); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeCmd_YAMLInput(t *testing.T) {
	desc := descriptorFile(t)
	in := "name: Bob\ntags: [x]\nhome:\n  zip: 7\n"
	code, out, errOut := runCLI(t, in, "decode", "-descriptor", desc, "-message", "addressbook.Person", "-yaml")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	got := testschema.Person()
	if err := prototext.Unmarshal([]byte(out), got); err != nil {
		t.Fatalf("output: %v\n%s", err, out)
	}
	if name := got.Get(got.Descriptor().Fields().ByName("name")).String(); name != "Bob" {
		t.Fatalf("name: %q", name)
	}
}

func TestDecodeCmd_Errors(t *testing.T) {
	desc := descriptorFile(t)
	defer i18n.SetLanguage("en")

	tests := []struct {
		name  string
		stdin string
		args  []string
		code  int
		want  string
	}{
		{"unknown key", `{"name":"a","planet":"x"}`, nil, 1, "/planet: unknown key (message: addressbook.Person)"},
		{"strip", `{"name":"a","planet":"x"}`, []string{"-unknown", "strip"}, 0, ""},
		{"type mismatch ja", `{"addresses":[{},{"street":5}]}`, []string{"-lang", "ja"}, 1, "/addresses[1]/street: 型が不正です (期待される型: string)"},
		{"max depth", `{"manager":{"manager":{}}}`, []string{"-max-depth", "2"}, 1, "/manager/manager: nesting too deep (max: 2)"},
		{"syntax", `{"name":`, nil, 1, "jsonv: parse_error"},
		{"bad unknown flag", `{}`, []string{"-unknown", "lenient"}, 2, "-unknown must be strict or strip"},
		{"no such message", `{}`, []string{"-message", "addressbook.Nope"}, 1, "message not found"},
	}
	for _, tt := range tests {
		args := append([]string{"decode", "-descriptor", desc, "-message", "addressbook.Person"}, tt.args...)
		code, _, errOut := runCLI(t, tt.stdin, args...)
		if code != tt.code {
			t.Errorf("%s: exit %d want %d (%s)", tt.name, code, tt.code, errOut)
			continue
		}
		if !strings.Contains(errOut, tt.want) {
			t.Errorf("%s: stderr %q does not contain %q", tt.name, errOut, tt.want)
		}
	}
}

func TestEncodeCmd(t *testing.T) {
	desc := descriptorFile(t)
	in := `name: "Alice" status: SUSPENDED labels { key: "b" value: 2 } labels { key: "a" value: 1 }`
	code, out, errOut := runCLI(t, in, "encode", "-descriptor", desc, "-message", "addressbook.Person", "-indent", "")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	want := `{"name":"Alice","tags":[],"status":2,"addresses":[],"history":[],"samples":[],"labels":[{"key":"a","value":1},{"key":"b","value":2}],"places":[]}` + "\n"
	if out != want {
		t.Fatalf("got  %s\nwant %s", out, want)
	}
}

func TestEncodeCmd_BinaryYAMLAndConfig(t *testing.T) {
	desc := descriptorFile(t)
	m := testschema.Person()
	if err := prototext.Unmarshal([]byte(`name: "Zed" status: ACTIVE`), m); err != nil {
		t.Fatalf("record: %v", err)
	}
	bin, err := proto.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	code, out, errOut := runCLI(t, string(bin), "encode", "-descriptor", desc, "-message", "addressbook.Person", "-binary", "-yaml", "-enum-names")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.HasPrefix(out, "name: Zed\ntags: []\nstatus: ACTIVE\n") {
		t.Fatalf("yaml output:\n%s", out)
	}

	// testdata/config.yaml sets message, enum names and compact output.
	code, out, errOut = runCLI(t, `name: "Zed" status: ACTIVE`, "encode", "-config", "testdata/config.yaml", "-descriptor", desc)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.HasPrefix(out, `{"name":"Zed","tags":[],"status":"ACTIVE",`) {
		t.Fatalf("config output: %s", out)
	}

	// Flags win over the config file.
	code, out, _ = runCLI(t, `name: "Zed"`, "encode", "-config", "testdata/config.yaml", "-descriptor", desc, "-indent", "\t")
	if code != 0 || !strings.HasPrefix(out, "{\n\t\"name\": \"Zed\"") {
		t.Fatalf("indent override: %d %q", code, out)
	}
}

func TestRoundtripCmd(t *testing.T) {
	desc := descriptorFile(t)
	code, out, errOut := runCLI(t, `{"name":"Alice","tags":["x"]}`, "roundtrip", "-descriptor", desc, "-message", "addressbook.Person", "-indent", "")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	wantJSON := `{"name":"Alice","tags":["x"],"addresses":[],"history":[],"samples":[],"labels":[],"places":[]}` + "\n"
	if !strings.HasSuffix(out, wantJSON) {
		t.Fatalf("output:\n%s", out)
	}
	text := strings.TrimSuffix(out, wantJSON)
	got := testschema.Person()
	if err := prototext.Unmarshal([]byte(text), got); err != nil {
		t.Fatalf("text part: %v\n%s", err, text)
	}
}

func TestUsage(t *testing.T) {
	if code, _, errOut := runCLI(t, ""); code != 2 || !strings.Contains(errOut, "Usage:") {
		t.Fatalf("no args: %d %s", code, errOut)
	}
	if code, _, _ := runCLI(t, "", "frobnicate"); code != 2 {
		t.Fatalf("unknown subcommand: %d", code)
	}
	if code, out, _ := runCLI(t, "", "help"); code != 0 || !strings.Contains(out, "pbjson decode") {
		t.Fatalf("help: %d %s", code, out)
	}
	if code, _, errOut := runCLI(t, "", "decode", "-message", "x"); code != 1 || !strings.Contains(errOut, "-descriptor and -message are required") {
		t.Fatalf("missing descriptor: %d %s", code, errOut)
	}
}

func TestSchemaCmd(t *testing.T) {
	desc := descriptorFile(t)
	code, out, errOut := runCLI(t, "", "schema", "-descriptor", desc, "-message", "addressbook.Person", "-output", "-indent", "")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	for _, frag := range []string{
		`"$ref":"#/$defs/addressbook.Person"`,
		`"required":["addresses","history","labels","name","places","samples","tags"]`,
		`"additionalProperties":false`,
	} {
		if !strings.Contains(out, frag) {
			t.Errorf("missing %s in %s", frag, out)
		}
	}
}
