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

package main

import (
	"github.com/dchest/siphash"
)

// cacheEntry holds the outcome of a prior Demangle call: the demangled text
// when ok is true; when demangling failed, ok is false and text is empty,
// and the caller passes its input through unchanged (the CLI's
// c++filt-style behavior).
type cacheEntry struct {
	text string
	ok   bool
}

// cache memoizes Demangle results within one process run, keyed by a
// SipHash-2-4 digest of the raw symbol bytes rather than the symbol string
// itself, the same fast-keying role siphash plays for sneller's symbol
// tables (ion/zion/zll/hash.go, expr/redact.go).
type cache struct {
	k0, k1 uint64
	m      map[uint64]cacheEntry
}

func newCache(k0, k1 uint64) *cache {
	return &cache{k0: k0, k1: k1, m: make(map[uint64]cacheEntry)}
}

func (c *cache) key(sym []byte) uint64 {
	return siphash.Hash(c.k0, c.k1, sym)
}

func (c *cache) get(sym []byte) (cacheEntry, bool) {
	e, ok := c.m[c.key(sym)]
	return e, ok
}

func (c *cache) put(sym []byte, e cacheEntry) {
	c.m[c.key(sym)] = e
}
