package ident

import (
	"fmt"
	"strings"
)

// PairSeparator joins the two endpoints of a Pair in its canonical form.
const PairSeparator = "$"

// Pair is an unordered relation between two IDs.
//
// Endpoints are stored by value when the pair is built, so the endpoint set
// cannot drift if the caller later rewrites the IDs it passed in.
type Pair struct {
	first  ID
	second ID
	key    PairKey
}

// PairKey is the normalized endpoint set of a Pair. Two pairs have the same
// key iff they relate the same two IDs, in either order. A self-pair has
// Low == High.
type PairKey struct {
	Low  ID
	High ID
}

// Len returns the size of the endpoint set: 1 for a self-pair, 2 otherwise.
func (k PairKey) Len() int {
	if k.Low == k.High {
		return 1
	}
	return 2
}

// NewPair relates a and b. If a == b the pair is a self-pair.
func NewPair(a, b ID) Pair {
	key := PairKey{Low: a, High: b}
	if Compare(a, b) > 0 {
		key = PairKey{Low: b, High: a}
	}
	return Pair{first: a, second: b, key: key}
}

// ParsePair decodes the canonical "first$second" form, splitting on the first
// "$". Both halves must parse with [Parse]; the returned error then wraps both
// [ErrMalformedPair] and [ErrMalformedIdentifier].
func ParsePair(text string) (Pair, error) {
	left, right, ok := strings.Cut(text, PairSeparator)
	if !ok {
		return Pair{}, fmt.Errorf("%w: %q: expected %q separator", ErrMalformedPair, text, PairSeparator)
	}
	a, err := Parse(left)
	if err != nil {
		return Pair{}, fmt.Errorf("%w: %q: first endpoint: %w", ErrMalformedPair, text, err)
	}
	b, err := Parse(right)
	if err != nil {
		return Pair{}, fmt.Errorf("%w: %q: second endpoint: %w", ErrMalformedPair, text, err)
	}
	return NewPair(a, b), nil
}

// MustParsePair is like [ParsePair] but panics on malformed input.
func MustParsePair(text string) Pair {
	p, err := ParsePair(text)
	if err != nil {
		panic(err)
	}
	return p
}

// First returns the endpoint the pair was built with first.
func (p Pair) First() ID { return p.first }

// Second returns the endpoint the pair was built with second.
func (p Pair) Second() ID { return p.second }

// IsSelf reports whether both endpoints are the same ID.
func (p Pair) IsSelf() bool { return p.first == p.second }

// Key returns the normalized endpoint set.
func (p Pair) Key() PairKey { return p.key }

// Equal reports whether p and o relate the same endpoints, ignoring order.
func (p Pair) Equal(o Pair) bool { return p.key == o.key }

// Contains reports whether id is one of the pair's endpoints.
func (p Pair) Contains(id ID) bool {
	return id == p.key.Low || id == p.key.High
}

// Other returns the endpoint opposite id. For a self-pair it returns id.
//
// Other panics with an *EndpointError if id is not an endpoint; asking a pair
// about an unrelated ID is a programming error. Use [Pair.Lookup] when id
// comes from untrusted input.
func (p Pair) Other(id ID) ID {
	other, err := p.Lookup(id)
	if err != nil {
		panic(err)
	}
	return other
}

// Lookup returns the endpoint opposite id, or an *EndpointError if id is not
// an endpoint.
func (p Pair) Lookup(id ID) (ID, error) {
	switch id {
	case p.first:
		return p.second, nil
	case p.second:
		return p.first, nil
	}
	return ID{}, &EndpointError{Pair: p, ID: id}
}

// String returns the canonical "first$second" form.
func (p Pair) String() string {
	return p.first.String() + PairSeparator + p.second.String()
}

// MarshalText implements encoding.TextMarshaler using the canonical form.
func (p Pair) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using [ParsePair].
func (p *Pair) UnmarshalText(text []byte) error {
	parsed, err := ParsePair(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// EndpointError reports an endpoint lookup with an ID outside the pair.
type EndpointError struct {
	Pair Pair
	ID   ID
}

func (e *EndpointError) Error() string {
	return fmt.Sprintf("%s: %s not in %s", ErrInvalidEndpoint, e.ID, e.Pair)
}

// Unwrap returns ErrInvalidEndpoint.
func (e *EndpointError) Unwrap() error { return ErrInvalidEndpoint }
