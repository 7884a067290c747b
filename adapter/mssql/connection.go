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

package mssql

import (
	"errors"
	"net/url"

	"github.com/classbook/studentreg/internal/sqlslot"
)

const defaultHost = `127.0.0.1`

// ConnectionURL is a SQL Server DSN in sqlserver:// URL form. The
// "instance" option becomes the URL path, "table" names the slot table and
// every other option is passed to the driver.
type ConnectionURL struct {
	User     string
	Password string
	Database string
	Host     string
	Options  map[string]string
}

func (c ConnectionURL) String() string {
	return c.format(true)
}

func (c ConnectionURL) dsn() string {
	return c.format(false)
}

func (c ConnectionURL) format(withTable bool) string {
	if c.Host == "" && c.Database == "" && c.User == "" && c.Password == "" {
		return ""
	}

	if c.Host == "" {
		c.Host = defaultHost
	}
	if c.Database == "" {
		c.Database = "master"
	}

	params := url.Values{}
	for k, v := range c.Options {
		if k == "instance" || (k == sqlslot.TableOption && !withTable) {
			continue
		}
		params.Set(k, v)
	}
	params.Set("database", c.Database)

	u := url.URL{
		Scheme:   "sqlserver",
		Host:     c.Host,
		Path:     c.Options["instance"],
		RawQuery: params.Encode(),
	}
	if c.User != "" || c.Password != "" {
		u.User = url.UserPassword(c.User, c.Password)
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

// ParseURL parses a sqlserver:// (or mssql://) URL.
func ParseURL(s string) (conn ConnectionURL, err error) {
	u, err := url.Parse(s)
	if err != nil {
		return conn, err
	}

	if u.Scheme != "sqlserver" && u.Scheme != "mssql" {
		return conn, errors.New(`expecting "sqlserver" or "mssql" scheme`)
	}

	conn.Host = u.Host
	if conn.Host == "" {
		conn.Host = defaultHost
	}

	if u.User != nil {
		conn.User = u.User.Username()
		conn.Password, _ = u.User.Password()
	}

	conn.Options = map[string]string{}
	if instance := u.Path; len(instance) > 1 {
		conn.Options["instance"] = instance[1:]
	}

	q := u.Query()
	for k := range q {
		if k == "database" {
			conn.Database = q.Get(k)
			continue
		}
		conn.Options[k] = q.Get(k)
	}

	return conn, nil
}
