package mangle

import (
	"strings"
	"testing"
)

func TestNameExamples(t *testing.T) {
	tests := []struct{ in, want string }{
		{"foo::bar::end", "foo.bar.end_"},
		{"foo::a-b", "foo.a_b"},
		{"_::x", "x"},
		{"core::option::Option::Some", "core.option.Option.Some"},
	}
	for _, tt := range tests {
		if got := Name(tt.in); got != tt.want {
			t.Errorf("Name(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNameCharset(t *testing.T) {
	inputs := []string{
		"foo::bar::end", "a::b::c-d!e", "_::_::x", "by", "foo::by", "...::::weird",
	}
	for _, in := range inputs {
		got := Name(in)
		for _, r := range got {
			ok := r == '.' || r == '_' ||
				(r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
			if !ok {
				t.Errorf("Name(%q) = %q contains disallowed char %q", in, got, r)
			}
		}
		if strings.HasPrefix(got, "_") && got != "" {
			t.Errorf("Name(%q) = %q starts with _", in, got)
		}
	}
}

func TestNameIdempotent(t *testing.T) {
	inputs := []string{
		"foo::bar::end", "foo::a-b", "_::x", "core::option::Option::Some", "by", "foo::by",
	}
	for _, in := range inputs {
		once := Name(in)
		twice := Name(once)
		if once != twice {
			t.Errorf("Name not idempotent for %q: Name(s)=%q, Name(Name(s))=%q", in, once, twice)
		}
	}
}

func TestNameReservedSuffix(t *testing.T) {
	if got := Name("by"); got != "by_" {
		t.Errorf("Name(\"by\") = %q, want by_", got)
	}
	if got := Name("mod::end"); got != "mod.end_" {
		t.Errorf("Name(\"mod::end\") = %q, want mod.end_", got)
	}
}
