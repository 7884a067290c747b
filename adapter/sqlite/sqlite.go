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

// Package sqlite stores registry slots in a SQLite file through the
// github.com/mattn/go-sqlite3 driver.
package sqlite

import (
	"context"

	"github.com/classbook/studentreg"
	"github.com/classbook/studentreg/internal/sqlslot"
	_ "github.com/mattn/go-sqlite3" // SQLite3 driver.
)

// Adapter is the public name of the adapter.
const Adapter = `sqlite`

const driverName = `sqlite3`

var template = &sqlslot.Template{
	CreateTable: `CREATE TABLE IF NOT EXISTS "%s" (
		slot_key VARCHAR(255) PRIMARY KEY,
		slot_value BLOB NOT NULL
	)`,
	Select: `SELECT slot_value FROM "%s" WHERE slot_key = ?`,
	Upsert: `INSERT INTO "%s" (slot_key, slot_value) VALUES (?, ?)
		ON CONFLICT (slot_key) DO UPDATE SET slot_value = excluded.slot_value`,
	Insert: `INSERT INTO "%s" (slot_key, slot_value) VALUES (?, ?)`,
	Delete: `DELETE FROM "%s" WHERE slot_key = ?`,
}

type sqliteAdapter struct{}

func (sqliteAdapter) Open(connURL studentreg.ConnectionURL) (studentreg.Backend, error) {
	conn, ok := connURL.(ConnectionURL)
	if !ok {
		var err error
		if conn, err = ParseURL(connURL.String()); err != nil {
			return nil, err
		}
	}
	return Open(conn)
}

func (sqliteAdapter) ParseURL(dsn string) (studentreg.ConnectionURL, error) {
	return ParseURL(dsn)
}

func init() {
	studentreg.RegisterAdapter(Adapter, &sqliteAdapter{})
}

// Open opens (creating if needed) the database file and its slot table.
func Open(connURL ConnectionURL) (*sqlslot.Session, error) {
	return OpenContext(context.Background(), connURL)
}

// OpenContext is like Open but bounds the connection attempt with ctx.
func OpenContext(ctx context.Context, connURL ConnectionURL) (*sqlslot.Session, error) {
	if connURL.Database == "" {
		return nil, studentreg.ErrMissingConnURL
	}

	sess, err := sqlslot.Open(ctx, Adapter, driverName, connURL.dsn(), template, connURL.Table())
	if err != nil {
		return nil, err
	}
	// A single connection avoids SQLITE_BUSY between writers of the same
	// process.
	sess.Driver().SetMaxOpenConns(1)
	return sess, nil
}
