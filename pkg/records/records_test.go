package records

import (
	"testing"
	"time"
)

func TestAccessors(t *testing.T) {
	r := Record{
		"id":  "C1",
		"qty": 2.5,
		"key": int64(3),
		"nil": nil,
	}

	if !r.Missing("nil") || !r.Missing("absent") || r.Missing("id") {
		t.Fatalf("Missing misbehaves: %#v", r)
	}
	if s, ok := r.String("id"); !ok || s != "C1" {
		t.Fatalf("String: (%q,%v)", s, ok)
	}
	if _, ok := r.String("qty"); ok {
		t.Fatalf("String on float should fail")
	}
	if f, ok := r.Float("qty"); !ok || f != 2.5 {
		t.Fatalf("Float: (%v,%v)", f, ok)
	}
	if _, ok := r.Float("nil"); ok {
		t.Fatalf("Float on nil should fail")
	}
	if k, ok := r.Key("key"); !ok || k != 3 {
		t.Fatalf("Key: (%d,%v)", k, ok)
	}
}

func TestClone(t *testing.T) {
	r := Record{"a": "x"}
	c := r.Clone()
	c["a"] = "y"
	if r["a"] != "x" {
		t.Fatalf("clone aliased the source")
	}
}

/*
TestFormat verifies the tabular rendering of each cell kind; CSV output and
composite keys both route through it.
*/
func TestFormat(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{int64(42), "42"},
		{7, "7"},
		{12.5, "12.5"},
		{350.0, "350"},
		{time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), "2026-03-02"},
		{true, "true"},
	}
	for i, tc := range cases {
		if got := Format(tc.in); got != tc.want {
			t.Fatalf("case %d: Format(%v)=%q; want %q", i, tc.in, got, tc.want)
		}
	}
}
