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

package mongo

import (
	"fmt"
	"net/url"
	"strings"
)

const connectionScheme = `mongodb`

// CollectionOption is the connection URL option naming the collection that
// holds the slots.
const CollectionOption = `collection`

// DefaultCollection is used when the connection URL names none.
const DefaultCollection = `slots`

// ConnectionURL is a mongodb:// DSN. Host may list several comma separated
// members of a replica set.
type ConnectionURL struct {
	User     string
	Password string
	Host     string
	Database string
	Options  map[string]string
}

func (c ConnectionURL) String() string {
	return c.format(true)
}

// uri is handed to the driver; it leaves out options the driver would not
// understand.
func (c ConnectionURL) uri() string {
	return c.format(false)
}

func (c ConnectionURL) format(withCollection bool) string {
	if c.Database == "" {
		return ""
	}

	vv := url.Values{}
	for k, v := range c.Options {
		if k == CollectionOption && !withCollection {
			continue
		}
		vv.Set(k, v)
	}

	var userInfo *url.Userinfo
	if c.User != "" {
		if c.Password == "" {
			userInfo = url.User(c.User)
		} else {
			userInfo = url.UserPassword(c.User, c.Password)
		}
	}

	u := url.URL{
		Scheme:   connectionScheme,
		Host:     c.Host,
		Path:     c.Database,
		User:     userInfo,
		RawQuery: vv.Encode(),
	}
	return u.String()
}

// Collection returns the slot collection named in Options, or the default
// one.
func (c ConnectionURL) Collection() string {
	if name := c.Options[CollectionOption]; name != "" {
		return name
	}
	return DefaultCollection
}

// ParseURL parses a mongodb:// DSN.
func ParseURL(s string) (conn ConnectionURL, err error) {
	if !strings.HasPrefix(s, connectionScheme+"://") {
		return conn, fmt.Errorf(`expecting %s:// connection scheme`, connectionScheme)
	}

	u, err := url.Parse(s)
	if err != nil {
		return conn, err
	}

	conn.Host = u.Host
	conn.Database = strings.Trim(u.Path, "/")

	if u.User != nil {
		conn.User = u.User.Username()
		conn.Password, _ = u.User.Password()
	}

	conn.Options = map[string]string{}
	vv, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return conn, err
	}
	for k := range vv {
		conn.Options[k] = vv.Get(k)
	}

	return conn, nil
}
