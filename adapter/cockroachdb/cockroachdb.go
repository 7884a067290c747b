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

// Package cockroachdb stores registry slots in a CockroachDB table through
// the github.com/lib/pq driver.
package cockroachdb

import (
	"context"

	"github.com/classbook/studentreg"
	"github.com/classbook/studentreg/internal/sqlslot"
	_ "github.com/lib/pq" // PostgreSQL wire protocol driver.
)

// Adapter is the public name of the adapter.
const Adapter = `cockroachdb`

const driverName = `postgres`

var template = &sqlslot.Template{
	CreateTable: `CREATE TABLE IF NOT EXISTS "%s" (
		slot_key STRING PRIMARY KEY,
		slot_value BYTES NOT NULL
	)`,
	Select: `SELECT slot_value FROM "%s" WHERE slot_key = $1`,
	Upsert: `UPSERT INTO "%s" (slot_key, slot_value) VALUES ($1, $2)`,
	Insert: `INSERT INTO "%s" (slot_key, slot_value) VALUES ($1, $2)`,
	Delete: `DELETE FROM "%s" WHERE slot_key = $1`,
}

type cockroachdbAdapter struct{}

func (cockroachdbAdapter) Open(connURL studentreg.ConnectionURL) (studentreg.Backend, error) {
	conn, ok := connURL.(ConnectionURL)
	if !ok {
		var err error
		if conn, err = ParseURL(connURL.String()); err != nil {
			return nil, err
		}
	}
	return Open(conn)
}

func (cockroachdbAdapter) ParseURL(dsn string) (studentreg.ConnectionURL, error) {
	return ParseURL(dsn)
}

func init() {
	studentreg.RegisterAdapter(Adapter, &cockroachdbAdapter{})
}

// Open connects to the cluster and creates the slot table if needed.
func Open(connURL ConnectionURL) (*sqlslot.Session, error) {
	return OpenContext(context.Background(), connURL)
}

// OpenContext is like Open but bounds the connection attempt with ctx.
func OpenContext(ctx context.Context, connURL ConnectionURL) (*sqlslot.Session, error) {
	dsn := connURL.dsn()
	if dsn == "" {
		return nil, studentreg.ErrMissingConnURL
	}
	return sqlslot.Open(ctx, Adapter, driverName, dsn, template, connURL.Table())
}
