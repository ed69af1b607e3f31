// Package protoset loads protobuf schemas at runtime and instantiates dynamic
// records for them, so callers can use the codec without generated code.
package protoset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"
)

// ErrNotFound is returned when a name does not resolve to a message.
var ErrNotFound = errors.New("protoset: message not found")

// Set is an immutable collection of file descriptors. It is safe for
// concurrent use.
type Set struct {
	files *protoregistry.Files
}

// Load reads a FileDescriptorSet from path. Files ending in .txtpb, .pbtxt,
// .textproto or .txt are read as protobuf text format, everything else as the
// binary output of `protoc --descriptor_set_out`.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("protoset: reading %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txtpb", ".pbtxt", ".textproto", ".txt":
		return FromText(data)
	}
	return FromBytes(data)
}

// FromBytes builds a Set from a binary FileDescriptorSet.
func FromBytes(data []byte) (*Set, error) {
	fds := new(descriptorpb.FileDescriptorSet)
	if err := proto.Unmarshal(data, fds); err != nil {
		return nil, fmt.Errorf("protoset: decoding descriptor set: %w", err)
	}
	return FromSet(fds)
}

// FromText builds a Set from a FileDescriptorSet in protobuf text format.
func FromText(data []byte) (*Set, error) {
	fds := new(descriptorpb.FileDescriptorSet)
	if err := prototext.Unmarshal(data, fds); err != nil {
		return nil, fmt.Errorf("protoset: decoding text descriptor set: %w", err)
	}
	return FromSet(fds)
}

// FromSet builds a Set from a FileDescriptorSet. Every dependency of every
// file must be present in the set.
func FromSet(fds *descriptorpb.FileDescriptorSet) (*Set, error) {
	files, err := protodesc.NewFiles(fds)
	if err != nil {
		return nil, fmt.Errorf("protoset: building registry: %w", err)
	}
	return &Set{files: files}, nil
}

// FindMessage resolves a fully-qualified message name such as
// "addressbook.Person". A leading dot is accepted.
func (s *Set) FindMessage(name string) (protoreflect.MessageDescriptor, error) {
	full := protoreflect.FullName(strings.TrimPrefix(name, "."))
	d, err := s.files.FindDescriptorByName(full)
	if err != nil {
		if errors.Is(err, protoregistry.NotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, full)
		}
		return nil, fmt.Errorf("protoset: resolving %s: %w", full, err)
	}
	md, ok := d.(protoreflect.MessageDescriptor)
	if !ok {
		return nil, fmt.Errorf("%w: %s is a %T", ErrNotFound, full, d)
	}
	return md, nil
}

// New returns an empty dynamic record of the named message type.
func (s *Set) New(name string) (*dynamicpb.Message, error) {
	md, err := s.FindMessage(name)
	if err != nil {
		return nil, err
	}
	return dynamicpb.NewMessage(md), nil
}

// Messages lists the fully-qualified names of all top-level and nested
// messages, sorted.
func (s *Set) Messages() []string {
	var out []string
	var walk func(protoreflect.MessageDescriptors)
	walk = func(mds protoreflect.MessageDescriptors) {
		for i := 0; i < mds.Len(); i++ {
			md := mds.Get(i)
			if md.IsMapEntry() {
				continue
			}
			out = append(out, string(md.FullName()))
			walk(md.Messages())
		}
	}
	s.files.RangeFiles(func(fd protoreflect.FileDescriptor) bool {
		walk(fd.Messages())
		return true
	})
	sort.Strings(out)
	return out
}
