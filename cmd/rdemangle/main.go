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

// Command rdemangle demangles Rust v0 mangled symbols, in the tradition of
// c++filt: given arguments, it demangles each one; given none, it reads
// newline-delimited symbols from stdin and demangles each line, passing a
// line through unchanged if it isn't a well-formed v0 symbol.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/SnellerInc/rdemangle/demangle"
)

func main() {
	verbose := flag.Bool("v", false, "print a run identifier and per-symbol errors to stderr")
	flag.Parse()

	errLog := log.New(os.Stderr, "", 0)

	if *verbose {
		errLog.Printf("run %s", uuid.New().String())
	}

	c := newCache(siphashKey())

	flags := demangle.Flags(0)
	if *verbose {
		flags |= demangle.Verbose
	}

	args := flag.Args()
	if len(args) > 0 {
		for _, arg := range args {
			fmt.Println(demangleOne(c, flags, errLog, *verbose, arg))
		}
		return
	}

	in := bufio.NewScanner(os.Stdin)
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	for in.Scan() {
		fmt.Fprintln(out, demangleOne(c, flags, errLog, *verbose, in.Text()))
	}
	if err := in.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "reading stdin: %s\n", err)
		os.Exit(1)
	}
}

// demangleOne demangles line, consulting and populating c, and returns the
// demangled text or — if line isn't a well-formed v0 symbol — line itself
// unchanged, the way c++filt leaves non-mangled input alone.
func demangleOne(c *cache, flags demangle.Flags, errLog *log.Logger, verbose bool, line string) string {
	sym := []byte(line)
	if e, ok := c.get(sym); ok {
		if e.ok {
			return e.text
		}
		return line
	}

	text, err := demangle.Demangle(line, flags)
	if err != nil {
		if verbose {
			errLog.Printf("%s: %s", line, err)
		}
		c.put(sym, cacheEntry{ok: false})
		return line
	}
	c.put(sym, cacheEntry{text: text, ok: true})
	return text
}

// siphashKey returns a fixed per-process key pair. The key only needs to
// disambiguate map buckets within one run, not resist adversarial input, so
// a process-invocation-stable constant is enough.
func siphashKey() (uint64, uint64) {
	return 0x5362656c53ee51e5, 0x9cc6d3a1b9e4f17d
}
