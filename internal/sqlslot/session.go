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

// Package sqlslot implements studentreg.Backend on top of database/sql. The
// SQL adapters only provide a driver, a DSN and a Template for their dialect.
package sqlslot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/classbook/studentreg"
	"github.com/sirupsen/logrus"
)

// Session is a slot table reached through a *sql.DB. Every write runs in its
// own transaction.
type Session struct {
	adapter string
	db      *sql.DB
	stmts   *Compiled
	log     logrus.FieldLogger
}

// New binds db to the slot table described by tpl, creating the table when
// it does not exist yet. The session owns db and closes it on Close.
func New(ctx context.Context, adapter string, db *sql.DB, tpl *Template, table string) (*Session, error) {
	stmts, err := tpl.Compile(table)
	if err != nil {
		return nil, err
	}

	s := &Session{
		adapter: adapter,
		db:      db,
		stmts:   stmts,
		log:     studentreg.Logger().WithField("table", stmts.Table()),
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("Ping: %w", err)
	}

	err = s.tx(ctx, func(tx *sql.Tx) error {
		return s.exec(ctx, tx, stmts.createTable, "")
	})
	if err != nil {
		return nil, fmt.Errorf("CreateTable(%s): %w", stmts.Table(), err)
	}

	return s, nil
}

// Name returns the adapter name.
func (s *Session) Name() string {
	return s.adapter
}

// Table returns the slot table name.
func (s *Session) Table() string {
	return s.stmts.Table()
}

// Driver returns the underlying *sql.DB.
func (s *Session) Driver() *sql.DB {
	return s.db
}

func (s *Session) Get(ctx context.Context, key string) ([]byte, bool, error) {
	dest, read := s.stmts.scanner()

	status := queryStatus{Adapter: s.adapter, Query: s.stmts.selectStmt, Key: key, Start: time.Now()}
	err := s.db.QueryRowContext(ctx, s.stmts.selectStmt, key).Scan(dest)
	status.End, status.Err = time.Now(), err
	status.log(s.log)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	value, err := read()
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (s *Session) Set(ctx context.Context, key string, value []byte) error {
	return s.SetMany(ctx, []studentreg.Slot{{Key: key, Value: value}})
}

// SetMany writes every slot in a single transaction.
func (s *Session) SetMany(ctx context.Context, slots []studentreg.Slot) error {
	args := make([]interface{}, len(slots))
	for i, slot := range slots {
		arg, err := s.stmts.value(slot.Value)
		if err != nil {
			return err
		}
		args[i] = arg
	}

	return s.tx(ctx, func(tx *sql.Tx) error {
		for i, slot := range slots {
			if err := s.write(ctx, tx, slot.Key, args[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Session) write(ctx context.Context, tx *sql.Tx, key string, arg interface{}) error {
	if s.stmts.upsert != "" {
		return s.exec(ctx, tx, s.stmts.upsert, key, key, arg)
	}
	if err := s.exec(ctx, tx, s.stmts.deleteStmt, key, key); err != nil {
		return err
	}
	return s.exec(ctx, tx, s.stmts.insert, key, key, arg)
}

func (s *Session) Delete(ctx context.Context, key string) error {
	return s.tx(ctx, func(tx *sql.Tx) error {
		return s.exec(ctx, tx, s.stmts.deleteStmt, key, key)
	})
}

// Close closes the underlying *sql.DB.
func (s *Session) Close() error {
	return s.db.Close()
}

func (s *Session) exec(ctx context.Context, tx *sql.Tx, query string, key string, args ...interface{}) error {
	status := queryStatus{Adapter: s.adapter, Query: query, Key: key, Start: time.Now()}
	_, err := tx.ExecContext(ctx, query, args...)
	status.End, status.Err = time.Now(), err
	status.log(s.log)
	return err
}

func (s *Session) tx(ctx context.Context, fn func(*sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("BeginTx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

var _ studentreg.BatchBackend = &Session{}

// Open opens a *sql.DB with the given driver and binds it to the slot table.
func Open(ctx context.Context, adapter string, driverName string, dsn string, tpl *Template, table string) (*Session, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}

	sess, err := New(ctx, adapter, db, tpl, table)
	if err != nil {
		db.Close()
		return nil, err
	}
	return sess, nil
}
