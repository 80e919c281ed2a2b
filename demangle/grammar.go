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

import "bytes"

// basicTypeName returns the fixed one-byte-alphabet type name for tag, or
// "" if tag does not name a basic type (§4.6).
func basicTypeName(tag byte) string {
	switch tag {
	case 'b':
		return "bool"
	case 'c':
		return "char"
	case 'e':
		return "str"
	case 'u':
		return "()"
	case 'a':
		return "i8"
	case 's':
		return "i16"
	case 'l':
		return "i32"
	case 'x':
		return "i64"
	case 'n':
		return "i128"
	case 'i':
		return "isize"
	case 'h':
		return "u8"
	case 't':
		return "u16"
	case 'm':
		return "u32"
	case 'y':
		return "u64"
	case 'o':
		return "u128"
	case 'j':
		return "usize"
	case 'f':
		return "f32"
	case 'd':
		return "f64"
	case 'z':
		return "!"
	case 'p':
		return "_"
	case 'v':
		return "..."
	default:
		return ""
	}
}

// printLifetimeFromIndex prints the lifetime named by the decoded index lt
// (§4.4): index 0 is always the anonymous '_, higher indices count back
// from the current binder depth, falling back to a numbered '_N form past
// 26 in-scope letters.
func (s *State) printLifetimeFromIndex(lt uint64) {
	s.print("'")
	if lt == 0 {
		s.print("_")
		return
	}
	depth := s.boundLifetimeDepth - lt
	if depth < 26 {
		s.printByte('a' + byte(depth))
		return
	}
	s.print("_")
	s.printUint64(depth)
}

// demangleBinder optionally parses a 'G<n>' binder, printing
// "for<'a, 'b, ...> " and extending boundLifetimeDepth by n. The caller is
// responsible for restoring boundLifetimeDepth on exit from the enclosing
// construct (§4.6's 'F' and 'D').
func (s *State) demangleBinder() {
	if s.failed() {
		return
	}
	n := s.parseOptInteger62('G')
	if n == 0 {
		return
	}
	s.print("for<")
	for i := uint64(0); i < n; i++ {
		if i > 0 {
			s.print(", ")
		}
		s.boundLifetimeDepth++
		s.printLifetimeFromIndex(1)
	}
	s.print("> ")
}

// demanglePath is the path grammar (§4.5): it dispatches on a single tag
// byte for crate roots, nested names, impls, trait impls/defs, generic
// instantiations, and backreferences.
func (s *State) demanglePath(inValue bool) {
	if s.failed() {
		return
	}
	tag := s.next()
	if s.failed() {
		return
	}
	switch tag {
	case 'C':
		dis := s.parseDisambiguator()
		name := s.parseIdent()
		if name.punycode == nil {
			// Unescape a leading '_' used to dodge a clash with the
			// grammar (§4.2).
			if len(name.ascii) > 1 && name.ascii[0] == '_' {
				name.ascii = name.ascii[1:]
			}
		}
		s.printIdent(name)
		if s.verbose() {
			s.print("[")
			s.printUint64Hex(dis)
			s.print("]")
		}

	case 'N':
		ns := s.next()
		if s.failed() {
			return
		}
		if !isLower(ns) && !isUpper(ns) {
			s.fail(errMalformed)
			return
		}

		s.demanglePath(inValue)
		s.print("::")

		dis := s.parseDisambiguator()
		name := s.parseIdent()

		if isUpper(ns) {
			// Compiler-synthesized scope: closures, shims, and the like.
			s.print("{")
			switch ns {
			case 'C':
				s.print("closure")
			case 'S':
				s.print("shim")
			default:
				s.printByte(ns)
			}
			if !name.empty() {
				s.print(":")
				s.printIdent(name)
			}
			s.print("#")
			s.printUint64(dis)
			s.print("}")
		} else {
			// Implementation-private/unspecified namespace.
			s.printIdent(name)
		}

	case 'M', 'X':
		s.parseDisambiguator()
		wasSkipping := s.skipping
		s.skipping++
		s.demanglePath(inValue) // the impl's own path, parsed and discarded
		s.skipping = wasSkipping
		s.printImplTrailer(tag)

	case 'Y':
		s.printImplTrailer(tag)

	case 'I':
		s.demanglePath(inValue)
		if inValue {
			s.print("::")
		}
		s.print("<")
		for i := 0; !s.failed() && !s.eat('E'); i++ {
			if i > 0 {
				s.print(", ")
			}
			s.demangleGenericArg()
		}
		s.print(">")

	case 'B':
		backref := int(s.parseInteger62())
		if s.failed() || s.skipping > 0 {
			return
		}
		if !s.enterBackref(backref) {
			return
		}
		oldNext := s.cur.next
		s.cur.next = backref
		s.demanglePath(inValue)
		s.cur.next = oldNext
		s.exitBackref()

	default:
		s.fail(errMalformed)
	}
}

// printImplTrailer prints the "<Type>" (tag == 'M') or "<Type as Trait>"
// (tag == 'X' or 'Y') wrapper shared by inherent impls, trait impls, and
// trait definitions (§4.5). The reference implementation reaches this via
// a switch fallthrough from 'M'/'X' into 'Y'; Go's fallthrough cannot skip
// the preceding case's guard, so the shared tail is factored out here
// instead (see the "M/Y fallthrough" open question in SPEC_FULL.md).
func (s *State) printImplTrailer(tag byte) {
	s.print("<")
	s.demangleType()
	if tag != 'M' {
		s.print(" as ")
		s.demanglePath(false)
	}
	s.print(">")
}

// demangleGenericArg parses one argument of an 'I' generic-instantiation
// list: a lifetime, a const, or a type (§4.7).
func (s *State) demangleGenericArg() {
	if s.eat('L') {
		lt := s.parseInteger62()
		s.printLifetimeFromIndex(lt)
	} else if s.eat('K') {
		s.demangleConst()
	} else {
		s.demangleType()
	}
}

// demangleType is the type grammar (§4.6): basic types are a fixed
// one-byte alphabet; everything else is a compound constructor or a path.
func (s *State) demangleType() {
	if s.failed() {
		return
	}
	tag := s.next()
	if s.failed() {
		return
	}

	if name := basicTypeName(tag); name != "" {
		s.print(name)
		return
	}

	switch tag {
	case 'R', 'Q':
		s.print("&")
		if s.eat('L') {
			lt := s.parseInteger62()
			if lt != 0 {
				s.printLifetimeFromIndex(lt)
				s.print(" ")
			}
		}
		if tag != 'R' {
			s.print("mut ")
		}
		s.demangleType()

	case 'P', 'O':
		s.print("*")
		if tag != 'P' {
			s.print("mut ")
		} else {
			s.print("const ")
		}
		s.demangleType()

	case 'A', 'S':
		s.print("[")
		s.demangleType()
		if tag == 'A' {
			s.print("; ")
			s.demangleConst()
		}
		s.print("]")

	case 'T':
		s.print("(")
		i := 0
		for !s.failed() && !s.eat('E') {
			if i > 0 {
				s.print(", ")
			}
			s.demangleType()
			i++
		}
		if i == 1 {
			s.print(",")
		}
		s.print(")")

	case 'F':
		s.demangleFnType()

	case 'D':
		s.demangleDynType()

	case 'B':
		backref := int(s.parseInteger62())
		if s.failed() || s.skipping > 0 {
			return
		}
		if !s.enterBackref(backref) {
			return
		}
		oldNext := s.cur.next
		s.cur.next = backref
		s.demangleType()
		s.cur.next = oldNext
		s.exitBackref()

	default:
		// Not a type tag after all; back up and let demanglePath see it.
		s.cur.next--
		s.demanglePath(false)
	}
}

// demangleFnType handles the 'F' function-type constructor: a binder, an
// optional unsafe/ABI prefix, parameters, and an elided-if-unit return.
func (s *State) demangleFnType() {
	oldDepth := s.boundLifetimeDepth
	s.demangleBinder()

	if s.eat('U') {
		s.print("unsafe ")
	}

	if s.eat('K') {
		var abi Ident
		if s.eat('C') {
			abi.ascii = []byte("C")
		} else {
			abi = s.parseIdent()
			if s.failed() || abi.punycode != nil || len(abi.ascii) == 0 {
				s.boundLifetimeDepth = oldDepth
				return
			}
		}

		s.print(`extern "`)
		// The mangler replaces '-' with '_' in the ABI name; rejoin at
		// each '_' boundary (§4.6, §9's "ABI identifier splitting").
		rest := abi.ascii
		for {
			idx := bytes.IndexByte(rest, '_')
			if idx < 0 {
				break
			}
			s.printBytes(rest[:idx])
			s.print("-")
			rest = rest[idx+1:]
		}
		s.printBytes(rest)
		s.print(`" `)
	}

	s.print("fn(")
	for i := 0; !s.failed() && !s.eat('E'); i++ {
		if i > 0 {
			s.print(", ")
		}
		s.demangleType()
	}
	s.print(")")

	if !s.eat('u') {
		s.print(" -> ")
		s.demangleType()
	}

	s.boundLifetimeDepth = oldDepth
}

// demangleDynType handles the 'D' trait-object constructor: a binder,
// '+'-separated dyn-traits, and a mandatory trailing lifetime bound.
func (s *State) demangleDynType() {
	s.print("dyn ")

	oldDepth := s.boundLifetimeDepth
	s.demangleBinder()

	for i := 0; !s.failed() && !s.eat('E'); i++ {
		if i > 0 {
			s.print(" + ")
		}
		s.demangleDynTrait()
	}
	s.boundLifetimeDepth = oldDepth

	if !s.eat('L') {
		s.fail(errMalformed)
		return
	}
	lt := s.parseInteger62()
	if lt != 0 {
		s.print(" + ")
		s.printLifetimeFromIndex(lt)
	}
}

// demanglePathMaybeOpenGenerics is like demanglePath(false), except for an
// 'I' tag it leaves the generic argument list open (omitting the closing
// '>') and reports so via its return value, letting dyn-trait printing
// append existential projections into the same list (§4.7).
func (s *State) demanglePathMaybeOpenGenerics() bool {
	open := false
	if s.failed() {
		return open
	}

	if s.eat('B') {
		backref := int(s.parseInteger62())
		if s.failed() {
			return open
		}
		if s.skipping == 0 {
			if !s.enterBackref(backref) {
				return open
			}
			oldNext := s.cur.next
			s.cur.next = backref
			open = s.demanglePathMaybeOpenGenerics()
			s.cur.next = oldNext
			s.exitBackref()
		}
	} else if s.eat('I') {
		s.demanglePath(false)
		s.print("<")
		open = true
		for i := 0; !s.failed() && !s.eat('E'); i++ {
			if i > 0 {
				s.print(", ")
			}
			s.demangleGenericArg()
		}
	} else {
		s.demanglePath(false)
	}
	return open
}

// demangleDynTrait prints one '+'-separated entry of a dyn-trait object:
// a (maybe-open-generics) path, followed by zero or more 'p'-tagged
// existential projections ("Assoc=Type"), which are never to be confused
// with the basic-type 'p' placeholder tag (§9).
func (s *State) demangleDynTrait() {
	if s.failed() {
		return
	}
	open := s.demanglePathMaybeOpenGenerics()

	for s.eat('p') {
		if !open {
			s.print("<")
		} else {
			s.print(", ")
		}
		open = true

		name := s.parseIdent()
		s.printIdent(name)
		s.print("=")
		s.demangleType()
	}

	if open {
		s.print(">")
	}
}

// demangleConst parses a backreference or a one-byte unsigned-integer type
// tag, followed by either a 'p' placeholder or a hexadecimal magnitude
// (§4.8).
func (s *State) demangleConst() {
	if s.failed() {
		return
	}

	if s.eat('B') {
		backref := int(s.parseInteger62())
		if s.failed() {
			return
		}
		if s.skipping == 0 {
			if !s.enterBackref(backref) {
				return
			}
			oldNext := s.cur.next
			s.cur.next = backref
			s.demangleConst()
			s.cur.next = oldNext
			s.exitBackref()
		}
		return
	}

	tyTag := s.next()
	if s.failed() {
		return
	}
	switch tyTag {
	case 'h', 't', 'm', 'y', 'o', 'j':
	default:
		s.fail(errMalformed)
		return
	}

	if s.eat('p') {
		s.print("_")
	} else {
		s.demangleConstUint()
	}

	if s.verbose() {
		s.print(": ")
		s.print(basicTypeName(tyTag))
	}
}

// demangleConstUint reads a hexadecimal magnitude terminated by '_'. A
// magnitude of 16 hex digits or fewer is printed in decimal; anything wider
// is printed verbatim as "0x" plus the raw hex digits, preserving leading
// zeros (§4.8).
func (s *State) demangleConstUint() {
	if s.failed() {
		return
	}
	var value uint64
	hexLen := 0
	for !s.eat('_') {
		value <<= 4
		c := s.next()
		if s.failed() {
			return
		}
		switch {
		case isDigit(c):
			value |= uint64(c - '0')
		case c >= 'a' && c <= 'f':
			value |= 10 + uint64(c-'a')
		default:
			s.fail(errMalformed)
			return
		}
		hexLen++
	}

	if hexLen > 16 {
		s.print("0x")
		s.printBytes(s.cur.sym[s.cur.next-hexLen-1 : s.cur.next-1])
		return
	}
	s.printUint64(value)
}
