package ident

import (
	"errors"
	"testing"
)

func TestParsePair(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantFirst  ID
		wantSecond ID
		wantIDErr  bool
		wantErr    bool
	}{
		{name: "simple", text: "User::alice$Org::acme", wantFirst: New("User", "alice"), wantSecond: New("Org", "acme")},
		{name: "self pair", text: "A::1$A::1", wantFirst: New("A", "1"), wantSecond: New("A", "1")},
		{name: "empty halves", text: "::$::", wantFirst: ID{}, wantSecond: ID{}},
		{name: "first dollar wins", text: "A::1$B::2$3", wantFirst: New("A", "1"), wantSecond: New("B", "2$3")},
		{name: "no dollar", text: "Type::Name", wantErr: true},
		{name: "bad first half", text: "A1$B::2", wantErr: true, wantIDErr: true},
		{name: "bad second half", text: "A::1$B2", wantErr: true, wantIDErr: true},
		{name: "empty", text: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePair(tt.text)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedPair) {
					t.Fatalf("ParsePair(%q) error = %v, want ErrMalformedPair", tt.text, err)
				}
				if got := errors.Is(err, ErrMalformedIdentifier); got != tt.wantIDErr {
					t.Errorf("errors.Is(err, ErrMalformedIdentifier) = %v, want %v", got, tt.wantIDErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePair(%q) unexpected error: %v", tt.text, err)
			}
			if p.First() != tt.wantFirst || p.Second() != tt.wantSecond {
				t.Errorf("ParsePair(%q) = (%v, %v), want (%v, %v)", tt.text, p.First(), p.Second(), tt.wantFirst, tt.wantSecond)
			}
		})
	}
}

func TestPairEqualIgnoresOrder(t *testing.T) {
	a, b, c := New("A", "1"), New("B", "2"), New("C", "3")

	if !NewPair(a, b).Equal(NewPair(b, a)) {
		t.Error("Pair(a,b) should equal Pair(b,a)")
	}
	if NewPair(a, b).Key() != NewPair(b, a).Key() {
		t.Error("Pair(a,b) and Pair(b,a) should share a key")
	}
	if NewPair(a, b).Equal(NewPair(a, c)) {
		t.Error("Pair(a,b) should not equal Pair(a,c)")
	}
	if NewPair(a, a).Equal(NewPair(a, b)) {
		t.Error("self-pair should not equal a proper pair")
	}
}

func TestPairKeyLen(t *testing.T) {
	a, b := New("A", "1"), New("B", "2")
	if got := NewPair(a, b).Key().Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
	if got := NewPair(a, a).Key().Len(); got != 1 {
		t.Errorf("self-pair Len() = %d, want 1", got)
	}
}

func TestPairContains(t *testing.T) {
	a, b, c := New("A", "1"), New("B", "2"), New("C", "3")
	p := NewPair(a, b)

	if !p.Contains(a) || !p.Contains(b) {
		t.Error("pair should contain both endpoints")
	}
	if p.Contains(c) {
		t.Error("pair should not contain a third ID")
	}
	if !p.Contains(MustParse("A::1")) {
		t.Error("Contains should use structural equality")
	}
}

func TestPairOther(t *testing.T) {
	a, b := New("A", "1"), New("B", "2")
	p := NewPair(a, b)

	if got := p.Other(a); got != b {
		t.Errorf("Other(a) = %v, want %v", got, b)
	}
	if got := p.Other(b); got != a {
		t.Errorf("Other(b) = %v, want %v", got, a)
	}

	self := NewPair(a, a)
	if got := self.Other(a); got != a {
		t.Errorf("self-pair Other(a) = %v, want %v", got, a)
	}
}

func TestPairOtherPanicsOnStranger(t *testing.T) {
	p := NewPair(New("A", "1"), New("B", "2"))
	stranger := New("C", "3")

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("Other should panic for a non-endpoint")
		}
		err, ok := r.(error)
		if !ok {
			t.Fatalf("panic value %T is not an error", r)
		}
		if !errors.Is(err, ErrInvalidEndpoint) {
			t.Errorf("panic error = %v, want ErrInvalidEndpoint", err)
		}
		var ee *EndpointError
		if !errors.As(err, &ee) || ee.ID != stranger {
			t.Errorf("panic error should be *EndpointError for %v, got %v", stranger, err)
		}
	}()
	p.Other(stranger)
}

func TestPairLookup(t *testing.T) {
	a, b := New("A", "1"), New("B", "2")
	p := NewPair(a, b)

	got, err := p.Lookup(a)
	if err != nil || got != b {
		t.Errorf("Lookup(a) = %v, %v; want %v, nil", got, err, b)
	}
	if _, err := p.Lookup(New("C", "3")); !errors.Is(err, ErrInvalidEndpoint) {
		t.Errorf("Lookup(stranger) error = %v, want ErrInvalidEndpoint", err)
	}
}

func TestPairSnapshotsEndpoints(t *testing.T) {
	a, b := New("A", "1"), New("B", "2")
	p := NewPair(a, b)

	a.SetName("changed")

	if !p.Contains(New("A", "1")) {
		t.Error("pair should keep the endpoint value it was built with")
	}
	if p.Contains(a) {
		t.Error("pair should not follow later rewrites of the caller's ID")
	}
	if got := p.Other(New("A", "1")); got != b {
		t.Errorf("Other(original a) = %v, want %v", got, b)
	}
}

func TestPairString(t *testing.T) {
	p := NewPair(New("User", "alice"), New("Org", "acme"))
	if got := p.String(); got != "User::alice$Org::acme" {
		t.Errorf("String() = %q", got)
	}
	if got := NewPair(New("Org", "acme"), New("User", "alice")).String(); got != "Org::acme$User::alice" {
		t.Errorf("reversed String() = %q; canonical form keeps construction order", got)
	}
}

func TestPairTextRoundTrip(t *testing.T) {
	p := NewPair(New("User", "alice"), New("Org", "acme"))
	data, err := p.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}

	var out Pair
	if err := out.UnmarshalText(data); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if !out.Equal(p) || out.First() != p.First() {
		t.Errorf("round trip = %v, want %v", out, p)
	}

	if err := out.UnmarshalText([]byte("Type::Name")); !errors.Is(err, ErrMalformedPair) {
		t.Errorf("UnmarshalText malformed error = %v", err)
	}
}

func TestScenarioMalformedInputs(t *testing.T) {
	if _, err := Parse("BadFormat"); !errors.Is(err, ErrMalformedIdentifier) {
		t.Errorf("Parse(BadFormat) error = %v, want ErrMalformedIdentifier", err)
	}
	if _, err := ParsePair("Type::Name"); !errors.Is(err, ErrMalformedPair) {
		t.Errorf("ParsePair(Type::Name) error = %v, want ErrMalformedPair", err)
	}
}
