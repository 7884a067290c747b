// Copyright (c) 2026-present The studentreg authors. All rights reserved.
//
// Permission is hereby granted, free of charge, to any person obtaining
// a copy of this software and associated documentation files (the
// "Software"), to deal in the Software without restriction, including
// without limitation the rights to use, copy, modify, merge, publish,
// distribute, sublicense, and/or sell copies of the Software, and to
// permit persons to whom the Software is furnished to do so, subject to
// the following conditions:
//
// The above copyright notice and this permission notice shall be
// included in all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
// EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
// MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND
// NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE
// LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION
// OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION
// WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

package studentreg

import (
	"github.com/segmentio/fasthash/fnv1a"
)

// Fingerprint hashes a collection in order. Field values are length-prefixed
// so that moving characters between adjacent fields changes the hash.
func Fingerprint(records []Record) uint64 {
	h := fnv1a.Init64
	h = fnv1a.AddUint64(h, uint64(len(records)))
	for i := range records {
		for _, f := range Fields {
			v := records[i].Value(f)
			h = fnv1a.AddUint64(h, uint64(len(v)))
			h = fnv1a.AddString64(h, v)
		}
	}
	return h
}
