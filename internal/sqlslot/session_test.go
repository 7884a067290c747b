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
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/classbook/studentreg"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// deleteInsert has no Upsert so Set goes through Delete and Insert.
var deleteInsert = &Template{
	CreateTable: `CREATE TABLE IF NOT EXISTS "%s" (slot_key VARCHAR(255) PRIMARY KEY, slot_value TEXT NOT NULL)`,
	Select:      `SELECT slot_value FROM "%s" WHERE slot_key = ?`,
	Insert:      `INSERT INTO "%s" (slot_key, slot_value) VALUES (?, ?)`,
	Delete:      `DELETE FROM "%s" WHERE slot_key = ?`,
	Value: func(v []byte) (interface{}, error) {
		return string(v), nil
	},
	Scan: func() (interface{}, func() ([]byte, error)) {
		var s sql.NullString
		return &s, func() ([]byte, error) {
			if !s.Valid {
				return nil, errors.New("unexpected NULL")
			}
			return []byte(s.String), nil
		}
	},
}

func openSQLite(t *testing.T, tpl *Template, table string) *Session {
	sess, err := Open(context.Background(), "test", "sqlite3", filepath.Join(t.TempDir(), "slots.db"), tpl, table)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sess.Close()
	})
	return sess
}

func TestCompile(t *testing.T) {
	c, err := deleteInsert.Compile("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTable, c.Table())
	assert.Equal(t, `DELETE FROM "slots" WHERE slot_key = ?`, c.deleteStmt)
	assert.Empty(t, c.upsert)

	for _, bad := range []string{"1slots", "slots-x", `sl"ots`, "a b"} {
		_, err := deleteInsert.Compile(bad)
		assert.ErrorIs(t, err, studentreg.ErrInvalidSlotName, bad)
	}
}

func TestCompileRepeatedTable(t *testing.T) {
	tpl := *deleteInsert
	tpl.CreateTable = `IF OBJECT_ID('%[1]s') IS NULL CREATE TABLE [%[1]s] (k INT)`
	c, err := tpl.Compile("class_a")
	require.NoError(t, err)
	assert.Equal(t, `IF OBJECT_ID('class_a') IS NULL CREATE TABLE [class_a] (k INT)`, c.createTable)
}

func TestSessionDeleteInsert(t *testing.T) {
	ctx := context.Background()
	sess := openSQLite(t, deleteInsert, "class_a")

	assert.Equal(t, "test", sess.Name())
	assert.Equal(t, "class_a", sess.Table())

	_, ok, err := sess.Get(ctx, "students")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, sess.Set(ctx, "students", []byte(`[]`)))
	require.NoError(t, sess.Set(ctx, "students", []byte(`[{"name":"Ada"}]`)))

	v, ok, err := sess.Get(ctx, "students")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"name":"Ada"}]`, string(v))

	var rows int
	require.NoError(t, sess.Driver().QueryRow(`SELECT COUNT(*) FROM "class_a"`).Scan(&rows))
	assert.Equal(t, 1, rows)

	require.NoError(t, sess.Delete(ctx, "students"))
	require.NoError(t, sess.Delete(ctx, "students"))
	_, ok, err = sess.Get(ctx, "students")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionRollsBackFailedWrite(t *testing.T) {
	ctx := context.Background()

	tpl := *deleteInsert
	tpl.Insert = `INSERT INTO "%s" (slot_key, slot_value, missing_column) VALUES (?, ?, 1)`
	sess := openSQLite(t, &tpl, "")

	_, err := sess.Driver().Exec(`INSERT INTO "slots" (slot_key, slot_value) VALUES ('k', 'old')`)
	require.NoError(t, err)

	assert.Error(t, sess.Set(ctx, "k", []byte("new")))

	v, ok, err := sess.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "old", string(v))
}

func TestSessionLogsStatements(t *testing.T) {
	lg, hook := test.NewNullLogger()
	lg.SetLevel(logrus.DebugLevel)

	prev := studentreg.Logger()
	studentreg.SetLogger(lg)
	defer studentreg.SetLogger(prev)

	ctx := context.Background()
	sess := openSQLite(t, deleteInsert, "")
	hook.Reset()

	require.NoError(t, sess.Set(ctx, "todayCount", []byte("3")))

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "statement", entries[1].Message)
	assert.Equal(t, "todayCount", entries[1].Data["slot"])
	assert.Equal(t, `INSERT INTO "slots" (slot_key, slot_value) VALUES (?, ?)`, entries[1].Data["query"])
	assert.Equal(t, "slots", entries[1].Data["table"])
}

func TestOpenPingFailure(t *testing.T) {
	_, err := Open(context.Background(), "test", "sqlite3", filepath.Join(t.TempDir(), "missing", "slots.db"), deleteInsert, "")
	assert.Error(t, err)
}

func TestSessionSetManyIsAtomic(t *testing.T) {
	ctx := context.Background()

	tpl := *deleteInsert
	tpl.CreateTable = `CREATE TABLE IF NOT EXISTS "%s" (
		slot_key VARCHAR(255) PRIMARY KEY,
		slot_value TEXT NOT NULL CHECK (slot_value <> 'rejected')
	)`
	sess := openSQLite(t, &tpl, "")

	require.NoError(t, sess.SetMany(ctx, []studentreg.Slot{
		{Key: "students", Value: []byte(`[]`)},
		{Key: "todayCount", Value: []byte(`0`)},
	}))

	err := sess.SetMany(ctx, []studentreg.Slot{
		{Key: "students", Value: []byte(`[{"name":"Ada"}]`)},
		{Key: "todayCount", Value: []byte(`rejected`)},
	})
	assert.Error(t, err)

	v, ok, err := sess.Get(ctx, "students")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, string(v))

	v, ok, err = sess.Get(ctx, "todayCount")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `0`, string(v))
}
