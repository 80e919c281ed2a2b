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

import "golang.org/x/exp/slices"

// Flags controls optional demangling behavior, passed to Demangle and
// DemangleWithCallback (§6).
type Flags uint8

const (
	// Verbose prints disambiguator hashes next to crate names in
	// brackets, and an explicit ": <type>" annotation on constants (§3).
	Verbose Flags = 1 << iota
)

// maxBackrefVisits bounds the number of 'B' backreferences a single
// top-level call may follow, guarding against the unbounded recursion
// adversarial input could otherwise cause (§5, §9 design note).
const maxBackrefVisits = 128

// State is the demangler's parsing state for a single top-level call: the
// cursor, the output sink, verbosity, the suppression counter, and the
// current late-bound-lifetime binder depth (§3). It is created fresh for
// every call and discarded on return; no state survives across calls.
type State struct {
	cur   cursor
	sink  Sink
	flags Flags

	err error

	// skipping is the suppression counter (§3): while positive, all
	// emission is dropped, but the cursor still advances. A counter
	// rather than a bool lets nested suppression (e.g. an impl's own path
	// met while the trailing instantiating-crate path is already being
	// skipped) nest correctly.
	skipping int

	// boundLifetimeDepth is the number of late-bound lifetimes currently
	// in scope across nested binders (§3, §4.4).
	boundLifetimeDepth uint64

	backrefVisits int
	backrefStack  []int
}

func newState(sym []byte, flags Flags, sink Sink) *State {
	return &State{cur: newCursor(sym), sink: sink, flags: flags}
}

func (s *State) fail(err error) {
	if s.err == nil {
		s.err = err
	}
}

func (s *State) failed() bool { return s.err != nil }

func (s *State) verbose() bool { return s.flags&Verbose != 0 }

// enterBackref records entry into the subtree at offset, failing the state
// if offset lies outside the symbol, the visit budget is exhausted, or
// offset is already on the active backreference stack (a direct cycle).
// Callers must call exitBackref on every return path, including error.
func (s *State) enterBackref(offset int) bool {
	if offset < 0 || offset >= len(s.cur.sym) {
		s.fail(errMalformed)
		return false
	}
	s.backrefVisits++
	if s.backrefVisits > maxBackrefVisits {
		s.fail(errMalformed)
		return false
	}
	if slices.Contains(s.backrefStack, offset) {
		s.fail(errMalformed)
		return false
	}
	s.backrefStack = append(s.backrefStack, offset)
	return true
}

func (s *State) exitBackref() {
	s.backrefStack = s.backrefStack[:len(s.backrefStack)-1]
}
