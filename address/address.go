// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package address provides the identity of mailboxes within a hub.
//
// An address is either unique or named:
//
//   - unique addresses are generated by the hub, one per actor, and
//     externalize as "+<n>";
//   - named addresses are chosen by the caller, globally unique within a hub,
//     and externalize as "/<name>".
//
// Addresses allocated by a hub carry a resident: an opaque handle that lets
// the hub reach the owning actor without consulting its address table.
// Addresses obtained with Parse carry no resident and are resolved by name.
// An Address is immutable once created.
package address

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	gerrors "github.com/tochemey/mailhub/errors"
	"github.com/tochemey/mailhub/internal/validation"
)

const (
	// UniquePrefix is the sigil of unique addresses.
	UniquePrefix = "+"
	// NamedPrefix is the sigil of named addresses.
	NamedPrefix = "/"
	// MaxNameLength is the maximum length of an address name in bytes.
	MaxNameLength = 255
)

// Kind tells unique addresses from named ones.
type Kind int

const (
	// NoSenderKind is the kind of the NoSender address.
	NoSenderKind Kind = iota
	// UniqueKind is the kind of hub generated addresses.
	UniqueKind
	// NamedKind is the kind of caller chosen addresses.
	NamedKind
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case UniqueKind:
		return "unique"
	case NamedKind:
		return "named"
	default:
		return "nosender"
	}
}

var (
	namePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-_\.]*$`)
	noSender    = &Address{kind: NoSenderKind}

	errNamePattern = errors.New("must contain only word characters (i.e. [a-zA-Z0-9] plus non-leading '-', '_' or '.')")
)

// Address identifies a mailbox.
type Address struct {
	kind     Kind
	id       uint64
	name     string
	resident any
}

var _ validation.Validator = (*Address)(nil)

// NewUnique creates a unique address with the given sequence number.
func NewUnique(id uint64, resident any) *Address {
	return &Address{kind: UniqueKind, id: id, resident: resident}
}

// NewNamed creates a named address. The name is not validated; see ValidateName.
func NewNamed(name string, resident any) *Address {
	return &Address{kind: NamedKind, name: name, resident: resident}
}

// NoSender returns the address used as sender of messages sent from outside
// any actor.
func NoSender() *Address {
	return noSender
}

// Parse builds an address from its externalized form. The returned address
// has no resident.
func Parse(text string) (*Address, error) {
	switch {
	case text == "":
		return nil, errors.New("address is required")
	case strings.HasPrefix(text, UniquePrefix):
		id, err := strconv.ParseUint(text[len(UniquePrefix):], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid unique address %q: %w", text, err)
		}
		return NewUnique(id, nil), nil
	case strings.HasPrefix(text, NamedPrefix):
		name := text[len(NamedPrefix):]
		if err := ValidateName(name); err != nil {
			return nil, err
		}
		return NewNamed(name, nil), nil
	default:
		return nil, fmt.Errorf("invalid address %q: missing %q or %q prefix", text, UniquePrefix, NamedPrefix)
	}
}

// ValidateName checks that name can be bound as a named address.
func ValidateName(name string) error {
	if strings.HasPrefix(name, UniquePrefix) || strings.HasPrefix(name, NamedPrefix) {
		return gerrors.NewErrIllegalName(name, errors.New("names must not start with an address sigil"))
	}

	err := validation.New(validation.FailFast()).
		AddValidator(validation.NewEmptyStringValidator("name", name)).
		AddValidator(validation.NewMaxLengthValidator("name", name, MaxNameLength)).
		AddValidator(validation.NewPatternValidator(namePattern, name, errNamePattern)).
		Validate()
	if err != nil {
		return gerrors.NewErrIllegalName(name, err)
	}
	return nil
}

// Normalize returns the externalized form of a named address given either
// its bare name or its externalized form.
func Normalize(name string) string {
	if strings.HasPrefix(name, NamedPrefix) || strings.HasPrefix(name, UniquePrefix) {
		return name
	}
	return NamedPrefix + name
}

// Kind returns the address kind
func (x *Address) Kind() Kind {
	if x == nil {
		return NoSenderKind
	}
	return x.kind
}

// ID returns the sequence number of a unique address and zero otherwise.
func (x *Address) ID() uint64 {
	if x == nil {
		return 0
	}
	return x.id
}

// Name returns the name of a named address without its sigil.
func (x *Address) Name() string {
	if x == nil {
		return ""
	}
	return x.name
}

// Resident returns the handle attached by the hub that allocated the address,
// or nil for parsed addresses.
func (x *Address) Resident() any {
	if x == nil {
		return nil
	}
	return x.resident
}

// IsLocal reports whether the address carries a resident.
func (x *Address) IsLocal() bool {
	return x.Resident() != nil
}

// IsNoSender reports whether x is nil or the NoSender address.
func (x *Address) IsNoSender() bool {
	return x == nil || x.kind == NoSenderKind
}

// String returns the externalized form of the address. NoSender
// externalizes as the empty string.
func (x *Address) String() string {
	switch x.Kind() {
	case UniqueKind:
		return UniquePrefix + strconv.FormatUint(x.id, 10)
	case NamedKind:
		return NamedPrefix + x.name
	default:
		return ""
	}
}

// Equals reports whether both addresses have the same externalized form.
// Residents are not compared: a parsed address equals the allocated one.
func (x *Address) Equals(y *Address) bool {
	if x == nil || y == nil {
		return false
	}
	return x.Kind() == y.Kind() && x.id == y.id && x.name == y.name
}

// Validate implements validation.Validator.
func (x *Address) Validate() error {
	if x.Kind() == NamedKind {
		return ValidateName(x.name)
	}
	return nil
}
