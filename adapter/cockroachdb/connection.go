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

package cockroachdb

import (
	"net"
	"strings"

	"github.com/classbook/studentreg/internal/pqconn"
	"github.com/classbook/studentreg/internal/sqlslot"
)

const defaultPort = `26257`

// ConnectionURL is a CockroachDB connection string in libpq keyword/value
// form. A Host without a port connects to 26257.
type ConnectionURL struct {
	User     string
	Password string
	Host     string
	Socket   string
	Database string
	Options  map[string]string
}

func (c ConnectionURL) String() string {
	return c.format(true)
}

func (c ConnectionURL) dsn() string {
	return c.format(false)
}

func (c ConnectionURL) format(withTable bool) string {
	if c.Host == "" && c.Socket == "" && c.Database == "" && c.User == "" && len(c.Options) == 0 {
		return ""
	}

	o := pqconn.Options{
		"user":     c.User,
		"password": c.Password,
		"dbname":   c.Database,
	}

	switch {
	case c.Socket != "":
		o["host"] = c.Socket
	case c.Host != "":
		host, port, err := net.SplitHostPort(c.Host)
		if err != nil {
			host, port = c.Host, defaultPort
		}
		o["host"], o["port"] = host, port
	}

	if _, ok := c.Options["sslmode"]; !ok {
		o["sslmode"] = "disable"
	}
	for k, v := range c.Options {
		if k == sqlslot.TableOption && !withTable {
			continue
		}
		o[k] = v
	}

	return o.String()
}

// Table returns the slot table named in Options, or the default one.
func (c ConnectionURL) Table() string {
	if t := c.Options[sqlslot.TableOption]; t != "" {
		return t
	}
	return sqlslot.DefaultTable
}

// ParseURL parses a postgres:// URL or a keyword/value string.
func ParseURL(s string) (conn ConnectionURL, err error) {
	o, err := pqconn.Parse(s)
	if err != nil {
		return conn, err
	}

	conn.User = o["user"]
	conn.Password = o["password"]
	conn.Database = o["dbname"]

	if host := o["host"]; strings.HasPrefix(host, "/") {
		conn.Socket = host
	} else if host != "" {
		port := o["port"]
		if port == "" {
			port = defaultPort
		}
		conn.Host = net.JoinHostPort(host, port)
	}

	for _, k := range []string{"user", "password", "host", "port", "dbname"} {
		delete(o, k)
	}
	conn.Options = map[string]string(o)

	return conn, nil
}
