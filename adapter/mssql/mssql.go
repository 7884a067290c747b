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

// Package mssql stores registry slots in a SQL Server table through the
// github.com/denisenkom/go-mssqldb driver.
package mssql

import (
	"context"

	"github.com/classbook/studentreg"
	"github.com/classbook/studentreg/internal/sqlslot"
	_ "github.com/denisenkom/go-mssqldb" // SQL Server driver.
)

// Adapter is the public name of the adapter.
const Adapter = `mssql`

const driverName = `sqlserver`

// SQL Server has no single-statement upsert short of MERGE, so slots are
// replaced with Delete and Insert in one transaction.
var template = &sqlslot.Template{
	CreateTable: `IF OBJECT_ID(N'[%[1]s]', N'U') IS NULL
		CREATE TABLE [%[1]s] (
			slot_key NVARCHAR(255) NOT NULL PRIMARY KEY,
			slot_value VARBINARY(MAX) NOT NULL
		)`,
	Select: `SELECT slot_value FROM [%s] WHERE slot_key = @p1`,
	Insert: `INSERT INTO [%s] (slot_key, slot_value) VALUES (@p1, @p2)`,
	Delete: `DELETE FROM [%s] WHERE slot_key = @p1`,
}

type mssqlAdapter struct{}

func (mssqlAdapter) Open(connURL studentreg.ConnectionURL) (studentreg.Backend, error) {
	conn, ok := connURL.(ConnectionURL)
	if !ok {
		var err error
		if conn, err = ParseURL(connURL.String()); err != nil {
			return nil, err
		}
	}
	return Open(conn)
}

func (mssqlAdapter) ParseURL(dsn string) (studentreg.ConnectionURL, error) {
	return ParseURL(dsn)
}

func init() {
	studentreg.RegisterAdapter(Adapter, &mssqlAdapter{})
}

// Open connects to the server and creates the slot table if needed.
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
