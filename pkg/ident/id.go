package ident

import (
	"cmp"
	"errors"
	"fmt"
	"strings"
)

// Separator joins the type and name of an ID in its canonical form.
const Separator = "::"

var (
	// ErrMalformedIdentifier is returned by [Parse] when the text lacks the
	// "::" separator.
	ErrMalformedIdentifier = errors.New("malformed identifier")

	// ErrMalformedPair is returned by [ParsePair] when the text lacks the "$"
	// separator or either half is not a valid identifier.
	ErrMalformedPair = errors.New("malformed pair")

	// ErrInvalidEndpoint is carried by [EndpointError] when an endpoint lookup
	// is made with an ID that does not belong to the pair.
	ErrInvalidEndpoint = errors.New("identifier is not an endpoint of the pair")
)

// ID identifies an entity by its type and name.
//
// The zero value is a valid ID with empty type and name ("::").
type ID struct {
	typ  string
	name string
}

// New returns the ID with the given type and name.
func New(typ, name string) ID {
	return ID{typ: typ, name: name}
}

// Parse decodes the canonical "type::name" form, splitting on the first "::".
func Parse(text string) (ID, error) {
	typ, name, ok := strings.Cut(text, Separator)
	if !ok {
		return ID{}, fmt.Errorf("%w: %q: expected %q separator", ErrMalformedIdentifier, text, Separator)
	}
	return ID{typ: typ, name: name}, nil
}

// MustParse is like [Parse] but panics on malformed input.
// It simplifies static initialization in tests and examples.
func MustParse(text string) ID {
	id, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return id
}

// Type returns the identifier type.
func (id ID) Type() string { return id.typ }

// Name returns the identifier name.
func (id ID) Name() string { return id.name }

// SetType replaces the type in place.
func (id *ID) SetType(typ string) { id.typ = typ }

// SetName replaces the name in place.
func (id *ID) SetName(name string) { id.name = name }

// WithType returns a copy of id with its type replaced.
func (id ID) WithType(typ string) ID {
	id.typ = typ
	return id
}

// WithName returns a copy of id with its name replaced.
func (id ID) WithName(name string) ID {
	id.name = name
	return id
}

// String returns the canonical "type::name" form.
func (id ID) String() string {
	return id.typ + Separator + id.name
}

// MarshalText implements encoding.TextMarshaler using the canonical form.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using [Parse].
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Compare orders IDs by type, then name. It returns -1, 0 or +1.
func Compare(a, b ID) int {
	if c := cmp.Compare(a.typ, b.typ); c != 0 {
		return c
	}
	return cmp.Compare(a.name, b.name)
}
