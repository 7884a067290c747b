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

package mysql

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/classbook/studentreg/internal/sqlslot"
	"github.com/go-sql-driver/mysql"
)

// ConnectionURL is a MySQL DSN as understood by go-sql-driver/mysql:
//
//	[user[:password]@][net(address)]/dbname[?param1=value1&paramN=valueN]
//
// Host is dialed over TCP and Socket over a Unix socket; Socket wins when
// both are set. Options are sent as DSN parameters, except "table" which
// names the slot table. charset and parseTime default to utf8 and true.
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
	if c.Database == "" {
		return ""
	}

	var s strings.Builder

	if c.User != "" {
		s.WriteString(c.User)
		if c.Password != "" {
			s.WriteString(":" + c.Password)
		}
		s.WriteString("@")
	}

	switch {
	case c.Socket != "":
		s.WriteString("unix(" + c.Socket + ")")
	case c.Host != "":
		s.WriteString("tcp(" + c.Host + ")")
	}

	s.WriteString("/" + c.Database)

	vv := url.Values{}
	vv.Set("charset", "utf8")
	vv.Set("parseTime", "true")
	for k, v := range c.Options {
		if k == sqlslot.TableOption && !withTable {
			continue
		}
		vv.Set(k, v)
	}
	s.WriteString("?" + vv.Encode())

	return s.String()
}

// Table returns the slot table named in Options, or the default one.
func (c ConnectionURL) Table() string {
	if t := c.Options[sqlslot.TableOption]; t != "" {
		return t
	}
	return sqlslot.DefaultTable
}

// ParseURL parses a go-sql-driver/mysql DSN.
func ParseURL(s string) (conn ConnectionURL, err error) {
	cfg, err := mysql.ParseDSN(s)
	if err != nil {
		return conn, err
	}

	conn.User = cfg.User
	conn.Password = cfg.Passwd
	conn.Database = cfg.DBName

	switch cfg.Net {
	case "unix":
		conn.Socket = cfg.Addr
	case "tcp", "":
		conn.Host = cfg.Addr
	default:
		return conn, fmt.Errorf("unsupported network %q", cfg.Net)
	}

	conn.Options = map[string]string{}
	if i := strings.IndexByte(s, '?'); i >= 0 {
		vv, err := url.ParseQuery(s[i+1:])
		if err != nil {
			return conn, err
		}
		for k := range vv {
			conn.Options[k] = vv.Get(k)
		}
	}

	return conn, nil
}
