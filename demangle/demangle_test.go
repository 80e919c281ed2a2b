// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package demangle

import (
	"errors"
	"testing"
)

func TestDemangleNonV0(t *testing.T) {
	_, err := Demangle("_ZN3foo3barE", 0)
	if err == nil {
		t.Fatal("expected error for non-v0 symbol")
	}
	var e *Error
	if !errors.As(err, &e) || e.Kind != ErrPrefix {
		t.Fatalf("expected ErrPrefix, got %v", err)
	}
}

func TestDemangleSimplePath(t *testing.T) {
	data := []struct {
		mangled string
		want    string
	}{
		{"_RNvCs123_4test3foo", "test::foo"},
		{"_RNvC4test3foo", "test::foo"},
		{"_RNvNtC4test3foo3bar", "test::foo::bar"},
	}
	for _, d := range data {
		got, err := Demangle(d.mangled, 0)
		if err != nil {
			t.Fatalf("Demangle(%q): %v", d.mangled, err)
		}
		if got != d.want {
			t.Fatalf("Demangle(%q) = %q, want %q", d.mangled, got, d.want)
		}
	}
}

func TestDemangleVerboseCrateDisambiguator(t *testing.T) {
	// disambiguator digits "123" are 3971 in base 62; parseInteger62 adds
	// 1 (3972) and the optional-tag convention adds 1 more, giving
	// 3973 = 0xf85; verbose mode appends it as a bracketed hex suffix on
	// the crate name (§4.5, §8).
	got, err := Demangle("_RNvCs123_4test3foo", Verbose)
	if err != nil {
		t.Fatal(err)
	}
	want := "test[f85]::foo"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

// The generic-arg cases below wrap the instantiation in a trait-impl path
// ("Y...C5Trait") so the arguments are demangled in type position
// (demangleType's fallback calls demanglePath(false)); a bare top-level
// "I..." path demangles in value position and would print a leading "::"
// turbofish instead (§4.9).

func TestDemangleTupleOfUnits(t *testing.T) {
	got, err := Demangle("_RYINtC3foo3FooTuuEEC5Trait", 0)
	if err != nil {
		t.Fatal(err)
	}
	want := "<foo::Foo<((), ())> as Trait>"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDemangleSingleElementTupleTrailingComma(t *testing.T) {
	got, err := Demangle("_RYINtC3foo3FooTuEEC5Trait", 0)
	if err != nil {
		t.Fatal(err)
	}
	want := "<foo::Foo<((),)> as Trait>"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDemangleReferenceWithElidedLifetime(t *testing.T) {
	got, err := Demangle("_RYINtC3foo3FooQL_hEC5Trait", 0)
	if err != nil {
		t.Fatal(err)
	}
	want := "<foo::Foo<&mut u8> as Trait>"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDemangleFunctionTypeExternC(t *testing.T) {
	got, err := Demangle("_RYINtC3foo3FooFKCEuEC5Trait", 0)
	if err != nil {
		t.Fatal(err)
	}
	want := `<foo::Foo<extern "C" fn()> as Trait>`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDemangleFunctionTypeCustomABI(t *testing.T) {
	got, err := Demangle("_RYINtC3foo3FooFK7aaa_bbbEuEC5Trait", 0)
	if err != nil {
		t.Fatal(err)
	}
	want := `<foo::Foo<extern "aaa-bbb" fn()> as Trait>`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDemangleBackreferenceFidelity(t *testing.T) {
	// The second generic argument is a 'B' backreference to the first
	// ("C4test" starts at offset 13 in the post-"_R" symbol, encoded as
	// base-62 value 12 -> "c"); both must print identically (§8
	// "Backreference fidelity").
	got, err := Demangle("_RYINtC3foo3FooC4testBc_EC5Trait", 0)
	if err != nil {
		t.Fatal(err)
	}
	want := "<foo::Foo<test, test> as Trait>"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDemangleConstUint(t *testing.T) {
	data := []struct {
		mangled string
		want    string
	}{
		// Decimal rendering: hex digit count <= 16.
		{"_RYINtC3foo3FooAhj7b_EC5Trait", "<foo::Foo<[u8; 123]> as Trait>"},
		// Zero is the empty digit sequence.
		{"_RYINtC3foo3FooAhj_EC5Trait", "<foo::Foo<[u8; 0]> as Trait>"},
		// Raw hex rendering: hex digit count > 16.
		{
			"_RYINtC3foo3FooAhj11111111111111111_EC5Trait",
			"<foo::Foo<[u8; 0x11111111111111111]> as Trait>",
		},
	}
	for _, d := range data {
		got, err := Demangle(d.mangled, 0)
		if err != nil {
			t.Fatalf("Demangle(%q): %v", d.mangled, err)
		}
		if got != d.want {
			t.Fatalf("Demangle(%q) = %q, want %q", d.mangled, got, d.want)
		}
	}
}

func TestDemangleMalformedAlphabet(t *testing.T) {
	_, err := Demangle("_RC3fo!", 0)
	if err == nil {
		t.Fatal("expected alphabet error")
	}
	var e *Error
	if !errors.As(err, &e) || e.Kind != ErrAlphabet {
		t.Fatalf("expected ErrAlphabet, got %v", err)
	}
}

func TestDemangleTruncated(t *testing.T) {
	_, err := Demangle("_RC3fo", 0)
	if err == nil {
		t.Fatal("expected truncated error")
	}
}

func TestDemangleIdempotent(t *testing.T) {
	const sym = "_RNvNtC4test3foo3bar"
	first, err := Demangle(sym, 0)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Demangle(sym, 0)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatalf("non-deterministic output: %q vs %q", first, second)
	}
}

func TestDemangleWithCallbackSpans(t *testing.T) {
	var buf Buffer
	if err := DemangleWithCallback("_RNvC4test3foo", 0, &buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "test::foo" {
		t.Fatalf("got %q", buf.String())
	}
}
