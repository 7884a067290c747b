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

package sqlslot

import (
	"fmt"
	"regexp"

	"github.com/classbook/studentreg"
)

// DefaultTable is the table that holds the slots unless the connection URL
// asks for another one.
const DefaultTable = `slots`

// TableOption is the connection URL option that overrides DefaultTable.
const TableOption = `table`

var reTableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// Template holds the statements one SQL dialect needs. Every statement names
// the table with a %s verb, or %[1]s when it appears more than once; it is
// replaced with the validated table name. The
// statements use the dialect's own bind markers.
type Template struct {
	// CreateTable creates the slot table if it does not exist.
	CreateTable string

	// Select reads the value of one slot; bound to the key.
	Select string

	// Upsert writes one slot; bound to the key and the value. When empty,
	// Delete followed by Insert is used inside the same transaction.
	Upsert string

	// Insert writes a slot known to be absent; bound to the key and the value.
	Insert string

	// Delete removes one slot; bound to the key.
	Delete string

	// Value converts a slot value into a driver argument. Nil means the raw
	// bytes are passed through.
	Value func([]byte) (interface{}, error)

	// Scan returns the destination for the value column and a function that
	// reads the scanned value back. Nil means scanning into []byte.
	Scan func() (dest interface{}, value func() ([]byte, error))
}

// Compiled is a Template bound to a table.
type Compiled struct {
	tpl   *Template
	table string

	createTable string
	selectStmt  string
	upsert      string
	insert      string
	deleteStmt  string
}

// Compile binds the template to a table name.
func (t *Template) Compile(table string) (*Compiled, error) {
	if table == "" {
		table = DefaultTable
	}
	if !reTableName.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", studentreg.ErrInvalidSlotName, table)
	}

	c := &Compiled{
		tpl:         t,
		table:       table,
		createTable: fmt.Sprintf(t.CreateTable, table),
		selectStmt:  fmt.Sprintf(t.Select, table),
		insert:      fmt.Sprintf(t.Insert, table),
		deleteStmt:  fmt.Sprintf(t.Delete, table),
	}
	if t.Upsert != "" {
		c.upsert = fmt.Sprintf(t.Upsert, table)
	}
	return c, nil
}

// Table returns the table name the template was compiled for.
func (c *Compiled) Table() string {
	return c.table
}

func (c *Compiled) value(v []byte) (interface{}, error) {
	if c.tpl.Value == nil {
		return v, nil
	}
	return c.tpl.Value(v)
}

func (c *Compiled) scanner() (interface{}, func() ([]byte, error)) {
	if c.tpl.Scan == nil {
		var buf []byte
		return &buf, func() ([]byte, error) {
			return buf, nil
		}
	}
	return c.tpl.Scan()
}
