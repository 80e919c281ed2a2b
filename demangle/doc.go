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

// Package demangle implements a demangler for the "v0" symbol-mangling
// scheme used to encode fully-qualified item paths, generic parameters,
// types, constants, lifetimes and trait-object projections into the byte
// alphabet [_0-9A-Za-z].
//
// A mangled symbol always starts with the two-byte tag "_R" followed by a
// path whose first significant byte is uppercase. Demangle and
// DemangleWithCallback are the two public entry points; both are pure,
// single-threaded functions over an immutable input with no I/O and no
// shared mutable state, so concurrent calls on distinct inputs never
// interfere with each other.
package demangle
