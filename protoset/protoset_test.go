package protoset_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/reoring/pbjson/internal/testschema"
	"github.com/reoring/pbjson/protoset"
)

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestLoad_BinaryAndText(t *testing.T) {
	bin, err := proto.Marshal(testschema.FileDescriptorSet())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, p := range []string{
		writeTemp(t, "addressbook.pb", bin),
		writeTemp(t, "addressbook.txtpb", testschema.Text()),
	} {
		s, err := protoset.Load(p)
		if err != nil {
			t.Fatalf("load %s: %v", p, err)
		}
		md, err := s.FindMessage("addressbook.Person")
		if err != nil {
			t.Fatalf("%s: %v", p, err)
		}
		if md.Fields().Len() != 22 {
			t.Fatalf("%s: %d fields", p, md.Fields().Len())
		}
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := protoset.Load(filepath.Join(t.TempDir(), "missing.pb")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file: %v", err)
	}
	if _, err := protoset.Load(writeTemp(t, "bad.txtpb", []byte("file { bogus: 1 }"))); err == nil {
		t.Fatalf("expected text decode error")
	}
	if _, err := protoset.Load(writeTemp(t, "bad.pb", []byte{0xff, 0xff})); err == nil {
		t.Fatalf("expected binary decode error")
	}

	// A field referring to a type that is not in the set.
	fds := &descriptorpb.FileDescriptorSet{File: []*descriptorpb.FileDescriptorProto{{
		Name:    proto.String("broken.proto"),
		Package: proto.String("broken"),
		MessageType: []*descriptorpb.DescriptorProto{{
			Name: proto.String("M"),
			Field: []*descriptorpb.FieldDescriptorProto{{
				Name:     proto.String("x"),
				Number:   proto.Int32(1),
				Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
				Type:     descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum(),
				TypeName: proto.String(".broken.Missing"),
			}},
		}},
	}}}
	if _, err := protoset.FromSet(fds); err == nil {
		t.Fatalf("expected unresolved type error")
	}
}

func TestFindMessage(t *testing.T) {
	s := testschema.Set()
	if _, err := s.FindMessage(".addressbook.Address"); err != nil {
		t.Fatalf("leading dot: %v", err)
	}
	for _, name := range []string{"addressbook.Nope", "addressbook.Status", "addressbook.Person.name"} {
		if _, err := s.FindMessage(name); !errors.Is(err, protoset.ErrNotFound) {
			t.Errorf("%s: expected ErrNotFound, got %v", name, err)
		}
	}
	m, err := s.New("addressbook.Address")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if m.Descriptor().FullName() != "addressbook.Address" {
		t.Fatalf("got %s", m.Descriptor().FullName())
	}
}

func TestMessages(t *testing.T) {
	want := []string{"addressbook.Address", "addressbook.Person"}
	if diff := cmp.Diff(want, testschema.Set().Messages()); diff != "" {
		t.Fatalf("messages (-want +got):\n%s", diff)
	}
}
