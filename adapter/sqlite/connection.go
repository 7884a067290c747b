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

package sqlite

import (
	"fmt"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/classbook/studentreg/internal/sqlslot"
)

const connectionScheme = `file`

// ConnectionURL points at a SQLite database file.
//
//	var settings = sqlite.ConnectionURL{
//		Database: "/var/lib/studentreg/students.db",
//		Options:  map[string]string{"table": "class_2026"},
//	}
//
// Options are passed to the driver, except "table" which names the slot
// table.
type ConnectionURL struct {
	Database string
	Options  map[string]string
}

func (c ConnectionURL) String() string {
	return c.format(true)
}

// dsn is the string handed to the driver.
func (c ConnectionURL) dsn() string {
	return c.format(false)
}

func (c ConnectionURL) format(withTable bool) string {
	if c.Database == "" {
		return ""
	}

	path := c.Database
	if !strings.HasPrefix(path, "/") {
		path, _ = filepath.Abs(path)
		if runtime.GOOS == "windows" {
			path = "/" + strings.ReplaceAll(path, `\`, `/`)
		}
	}

	vv := url.Values{}
	vv.Set("_busy_timeout", "10000")
	for k, v := range c.Options {
		if k == sqlslot.TableOption && !withTable {
			continue
		}
		vv.Set(k, v)
	}

	u := url.URL{
		Scheme:   connectionScheme,
		Path:     path,
		RawQuery: vv.Encode(),
	}
	return u.String()
}

// Table returns the slot table named in Options, or the default one.
func (c ConnectionURL) Table() string {
	if t := c.Options[sqlslot.TableOption]; t != "" {
		return t
	}
	return sqlslot.DefaultTable
}

// ParseURL parses a file:// DSN into a ConnectionURL.
func ParseURL(s string) (conn ConnectionURL, err error) {
	if !strings.HasPrefix(s, connectionScheme+"://") {
		return conn, fmt.Errorf(`expecting %s:// connection scheme`, connectionScheme)
	}

	u, err := url.Parse(s)
	if err != nil {
		return conn, err
	}

	conn.Database = u.Host + u.Path
	conn.Options = map[string]string{}

	vv, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return conn, err
	}
	for k := range vv {
		conn.Options[k] = vv.Get(k)
	}

	if _, ok := conn.Options["cache"]; !ok {
		conn.Options["cache"] = "shared"
	}

	return conn, nil
}
