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

import "unicode/utf8"

// Punycode parameters fixed by the v0 scheme (§4.3), per RFC 3492 with a
// lowercase+A-J digit alphabet in place of RFC 3492's lowercase+digit one.
const (
	punyBase        = 36
	punyTMin        = 1
	punyTMax        = 26
	punySkew        = 38
	punyInitialBias = 72
	punyInitialDamp = 700
	punyInitialN    = 0x80
)

// decodePunycode reconstructs the UTF-8 text an identifier's ASCII prefix
// plus Punycode delta suffix encode, via RFC 3492 bias adaptation. It
// maintains the decoded text as a slice of code points rather than the
// 4-byte-per-slot scratch buffer of the reference implementation (an
// explicitly allowed alternative per §9), UTF-8 encoding once at the end.
func decodePunycode(s *State, asciiPrefix, puny []byte) []byte {
	cps := make([]int32, len(asciiPrefix))
	for i, b := range asciiPrefix {
		cps[i] = int32(b)
	}

	n := int32(punyInitialN)
	i := 0
	bias := punyInitialBias
	damp := punyInitialDamp
	pos := 0

	for pos < len(puny) {
		delta := 0
		w := 1
		k := 0
		var digit int
		var t int
		for {
			k += punyBase
			t = k - bias
			if k < bias {
				t = 0
			}
			if t < punyTMin {
				t = punyTMin
			} else if t > punyTMax {
				t = punyTMax
			}

			if pos >= len(puny) {
				s.fail(errMalformed)
				return nil
			}
			d := puny[pos]
			pos++
			switch {
			case isLower(d):
				digit = int(d - 'a')
			case d >= 'A' && d <= 'J':
				digit = 26 + int(d-'A')
			default:
				s.fail(errMalformed)
				return nil
			}

			delta += digit * w
			w *= punyBase - t
			if digit < t {
				break
			}
		}

		newLen := len(cps) + 1
		i += delta
		n += int32(i / newLen)
		i %= newLen

		cps = append(cps, 0)
		copy(cps[i+1:], cps[i:len(cps)-1])
		cps[i] = n

		if pos == len(puny) {
			break
		}
		i++

		delta /= damp
		damp = 2
		delta += delta / newLen
		k = 0
		for delta > ((punyBase-punyTMin)*punyTMax)/2 {
			delta /= punyBase - punyTMin
			k += punyBase
		}
		bias = k + ((punyBase-punyTMin+1)*delta)/(delta+punySkew)
	}

	out := make([]byte, 0, len(cps)*2)
	var tmp [utf8.UTFMax]byte
	for _, cp := range cps {
		n := utf8.EncodeRune(tmp[:], cp)
		out = append(out, tmp[:n]...)
	}
	return out
}
