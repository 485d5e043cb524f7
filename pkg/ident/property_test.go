package ident

import (
	"testing"

	"pgregory.net/rapid"
)

// fieldGen draws identifier fields free of both separators.
func fieldGen() *rapid.Generator[string] {
	return rapid.StringMatching(`[A-Za-z0-9 _.\-]{0,10}`)
}

func idGen() *rapid.Generator[ID] {
	return rapid.Custom(func(t *rapid.T) ID {
		return New(fieldGen().Draw(t, "type"), fieldGen().Draw(t, "name"))
	})
}

func TestProperty_IDRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		id := idGen().Draw(t, "id")
		got, err := Parse(id.String())
		if err != nil {
			t.Fatalf("Parse(%q): %v", id.String(), err)
		}
		if got != id {
			t.Fatalf("round trip %v -> %v", id, got)
		}
	})
}

func TestProperty_PairRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := idGen().Draw(t, "a")
		b := idGen().Draw(t, "b")

		got, err := ParsePair(NewPair(b, a).String())
		if err != nil {
			t.Fatalf("ParsePair: %v", err)
		}
		if !got.Equal(NewPair(a, b)) {
			t.Fatalf("parse(canonical(Pair(b,a))) = %v, want equal to Pair(%v,%v)", got, a, b)
		}
	})
}

func TestProperty_PairSymmetry(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := idGen().Draw(t, "a")
		b := idGen().Filter(func(id ID) bool { return id != a }).Draw(t, "b")
		c := idGen().Filter(func(id ID) bool { return id != a && id != b }).Draw(t, "c")

		p := NewPair(a, b)
		if !p.Equal(NewPair(b, a)) {
			t.Fatalf("Pair(a,b) != Pair(b,a)")
		}
		if !p.Contains(a) || !p.Contains(b) {
			t.Fatalf("pair must contain both endpoints")
		}
		if p.Contains(c) {
			t.Fatalf("pair must not contain %v", c)
		}
		if p.Other(a) != b || p.Other(b) != a {
			t.Fatalf("Other endpoints wrong for %v", p)
		}
	})
}
