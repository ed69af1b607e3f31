// Package testschema exposes the address book schema shared by tests.
package testschema

import (
	_ "embed"
	"sync"

	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/reoring/pbjson/protoset"
)

//go:embed addressbook.txtpb
var addressbookText []byte

var (
	once   sync.Once
	set    *protoset.Set
	setErr error
)

// Text returns the schema as a text-format FileDescriptorSet.
func Text() []byte { return addressbookText }

// FileDescriptorSet returns a fresh copy of the schema.
func FileDescriptorSet() *descriptorpb.FileDescriptorSet {
	fds := new(descriptorpb.FileDescriptorSet)
	if err := prototext.Unmarshal(addressbookText, fds); err != nil {
		panic("testschema: " + err.Error())
	}
	return fds
}

// Set returns the schema registry. It panics if the embedded schema is invalid.
func Set() *protoset.Set {
	once.Do(func() { set, setErr = protoset.FromText(addressbookText) })
	if setErr != nil {
		panic("testschema: " + setErr.Error())
	}
	return set
}

// New returns an empty record of the named message, for example
// "addressbook.Person".
func New(name string) *dynamicpb.Message {
	m, err := Set().New(name)
	if err != nil {
		panic("testschema: " + err.Error())
	}
	return m
}

// Person returns an empty addressbook.Person.
func Person() *dynamicpb.Message { return New("addressbook.Person") }
