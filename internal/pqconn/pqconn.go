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

// Package pqconn reads and writes libpq keyword/value connection strings,
// the DSN format shared by the PostgreSQL and CockroachDB adapters.
package pqconn

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/lib/pq"
)

// Options is a parsed connection string.
type Options map[string]string

var escaper = strings.NewReplacer(` `, `\ `, `'`, `\'`, `\`, `\\`)

// String renders the options sorted by keyword. Empty values are skipped.
func (o Options) String() string {
	keys := make([]string, 0, len(o))
	for k, v := range o {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+escaper.Replace(o[k]))
	}
	return strings.Join(parts, " ")
}

// Parse accepts either a postgres:// URL or a keyword/value string.
func Parse(s string) (Options, error) {
	if strings.HasPrefix(s, "postgres://") || strings.HasPrefix(s, "postgresql://") {
		kv, err := pq.ParseURL(s)
		if err != nil {
			return nil, err
		}
		s = kv
	}
	return parseKeywords(s)
}

type scanner struct {
	s []rune
	i int
}

func (s *scanner) next() (rune, bool) {
	if s.i >= len(s.s) {
		return 0, false
	}
	r := s.s[s.i]
	s.i++
	return r, true
}

func (s *scanner) skipSpaces() (rune, bool) {
	r, ok := s.next()
	for ok && unicode.IsSpace(r) {
		r, ok = s.next()
	}
	return r, ok
}

// parseKeywords follows conninfo_parse from libpq's fe-connect.c.
func parseKeywords(conninfo string) (Options, error) {
	o := Options{}
	s := &scanner{s: []rune(conninfo)}

	for {
		r, ok := s.skipSpaces()
		if !ok {
			return o, nil
		}

		var key []rune
		for ok && !unicode.IsSpace(r) && r != '=' {
			key = append(key, r)
			r, ok = s.next()
		}
		if ok && r != '=' {
			r, ok = s.skipSpaces()
		}
		if !ok || r != '=' {
			return nil, fmt.Errorf(`missing "=" after %q in connection info string`, string(key))
		}

		r, ok = s.skipSpaces()
		if !ok {
			o[string(key)] = ""
			return o, nil
		}

		var val []rune
		if r == '\'' {
		quoted:
			for {
				r, ok = s.next()
				if !ok {
					return nil, fmt.Errorf(`unterminated quoted string literal in connection string`)
				}
				switch r {
				case '\'':
					break quoted
				case '\\':
					if r, ok = s.next(); !ok {
						return nil, fmt.Errorf(`missing character after backslash`)
					}
				}
				val = append(val, r)
			}
		} else {
			for ok && !unicode.IsSpace(r) {
				if r == '\\' {
					if r, ok = s.next(); !ok {
						return nil, fmt.Errorf(`missing character after backslash`)
					}
				}
				val = append(val, r)
				r, ok = s.next()
			}
		}

		o[string(key)] = string(val)
	}
}
