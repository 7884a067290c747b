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

package ql

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/classbook/studentreg/internal/sqlslot"
)

const (
	fileScheme   = `file`
	memoryScheme = `memory`
)

// ConnectionURL points at a QL database file, or at a named in-memory
// database when InMemory is set.
//
// Options are passed to the driver, except "table" which names the slot
// table.
type ConnectionURL struct {
	Database string
	InMemory bool
	Options  map[string]string
}

func (c ConnectionURL) String() string {
	return c.format(true)
}

func (c ConnectionURL) dsn() string {
	return c.format(false)
}

func (c ConnectionURL) format(withTable bool) string {
	if c.Database == "" {
		return ""
	}

	u := url.URL{Scheme: fileScheme, Path: c.Database}
	if c.InMemory {
		u.Scheme = memoryScheme
	} else if !strings.HasPrefix(u.Path, "/") {
		u.Path, _ = filepath.Abs(u.Path)
	}

	vv := url.Values{}
	for k, v := range c.Options {
		if k == sqlslot.TableOption && !withTable {
			continue
		}
		vv.Set(k, v)
	}
	u.RawQuery = vv.Encode()

	return u.String()
}

// Table returns the slot table named in Options, or the default one.
func (c ConnectionURL) Table() string {
	if t := c.Options[sqlslot.TableOption]; t != "" {
		return t
	}
	return sqlslot.DefaultTable
}

// ParseURL parses a file:// or memory:// DSN into a ConnectionURL.
func ParseURL(s string) (conn ConnectionURL, err error) {
	u, err := url.Parse(s)
	if err != nil {
		return conn, err
	}

	switch u.Scheme {
	case fileScheme:
	case memoryScheme:
		conn.InMemory = true
	default:
		return conn, fmt.Errorf(`expecting %s:// or %s:// connection scheme`, fileScheme, memoryScheme)
	}

	conn.Database = u.Host + u.Path
	conn.Options = map[string]string{}
	for k, v := range u.Query() {
		if len(v) > 0 {
			conn.Options[k] = v[0]
		}
	}

	return conn, nil
}
