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

package studentreg

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Match is a search hit: the record and its position in the full
// collection.
type Match struct {
	Position int
	Record   Record
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for mutation and persistence messages.
func WithLogger(lg logrus.FieldLogger) Option {
	return func(m *Manager) {
		if lg != nil {
			m.log = lg
		}
	}
}

type roster struct {
	mu         sync.Mutex
	records    []Record
	todayCount int
}

// Manager owns the in-memory collection. Every mutation validates its input,
// writes the whole collection through the Store and only then becomes
// visible, so memory and durable state never diverge.
type Manager struct {
	state *roster
	store *Store
	ctx   context.Context
	log   logrus.FieldLogger
}

// NewManager loads the persisted state once and returns a manager bound to
// ctx.
func NewManager(ctx context.Context, store *Store, opts ...Option) (*Manager, error) {
	m := &Manager{
		store: store,
		ctx:   ctx,
		log:   Logger(),
	}
	for _, opt := range opts {
		opt(m)
	}

	state, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("Load: %w", err)
	}
	m.state = &roster{
		records:    state.Records,
		todayCount: state.TodayCount,
	}

	m.log.WithFields(logrus.Fields{
		"records":    len(state.Records),
		"todayCount": state.TodayCount,
	}).Debug("collection loaded")

	return m, nil
}

// Context returns the context used for persistence calls.
func (m *Manager) Context() context.Context {
	return m.ctx
}

// WithContext returns a manager that shares this manager's collection but
// persists using ctx.
func (m *Manager) WithContext(ctx context.Context) *Manager {
	clone := *m
	clone.ctx = ctx
	return &clone
}

// All returns a copy of the collection in order.
func (m *Manager) All() []Record {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	return append([]Record(nil), m.state.records...)
}

// Len returns the number of records.
func (m *Manager) Len() int {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	return len(m.state.records)
}

// TodayCount returns the number of records created since the persisted
// counter was last reset.
func (m *Manager) TodayCount() int {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	return m.state.todayCount
}

// Get returns the record at pos.
func (m *Manager) Get(pos int) (Record, error) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	if pos < 0 || pos >= len(m.state.records) {
		return Record{}, ErrOutOfRange
	}
	return m.state.records[pos], nil
}

// Fingerprint identifies the current contents of the collection.
func (m *Manager) Fingerprint() uint64 {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	return Fingerprint(m.state.records)
}

// CheckFingerprint returns ErrStaleView if the collection changed since fp
// was taken.
func (m *Manager) CheckFingerprint(fp uint64) error {
	if m.Fingerprint() != fp {
		return ErrStaleView
	}
	return nil
}

// Search returns the records having any field that contains query, ignoring
// case, in collection order. An empty query returns every record.
func (m *Manager) Search(query string) []Match {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	q := strings.ToLower(query)
	matches := make([]Match, 0, len(m.state.records))
	for i, rec := range m.state.records {
		if rec.Contains(q) {
			matches = append(matches, Match{Position: i, Record: rec})
		}
	}
	return matches
}

// Add appends a new record and bumps the daily counter. The record is
// validated first; a rejected record is returned as FieldErrors.
func (m *Manager) Add(rec Record) error {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	valid, errs := Validate(rec.Raw(), m.state.records, NoPosition)
	if errs != nil {
		return errs
	}
	return m.addLocked(valid)
}

// UpdateAt replaces the record at pos. The record may keep the id it
// already has. The daily counter is not touched.
func (m *Manager) UpdateAt(pos int, rec Record) error {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	if pos < 0 || pos >= len(m.state.records) {
		return ErrOutOfRange
	}
	valid, errs := Validate(rec.Raw(), m.state.records, pos)
	if errs != nil {
		return errs
	}
	return m.updateLocked(pos, valid)
}

// DeleteAt removes the record at pos; later records move down one position.
func (m *Manager) DeleteAt(pos int) error {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	if pos < 0 || pos >= len(m.state.records) {
		return ErrOutOfRange
	}

	prev := m.state.records
	next := make([]Record, 0, len(prev)-1)
	next = append(next, prev[:pos]...)
	next = append(next, prev[pos+1:]...)

	if err := m.persist(next, nil); err != nil {
		return err
	}
	m.state.records = next

	m.log.WithFields(logrus.Fields{
		"position": pos,
		"id":       prev[pos].ID,
		"records":  len(next),
	}).Debug("record deleted")

	return nil
}

// Submit validates raw input and either adds it (editing == NoPosition) or
// replaces the record at position editing. Validation failures are returned
// as FieldErrors with a nil error; the error is reserved for ErrOutOfRange
// and persistence failures.
func (m *Manager) Submit(raw RawRecord, editing int) (Record, FieldErrors, error) {
	m.state.mu.Lock()
	defer m.state.mu.Unlock()

	if editing != NoPosition && (editing < 0 || editing >= len(m.state.records)) {
		return Record{}, nil, ErrOutOfRange
	}

	rec, errs := Validate(raw, m.state.records, editing)
	if errs != nil {
		return Record{}, errs, nil
	}

	var err error
	if editing == NoPosition {
		err = m.addLocked(rec)
	} else {
		err = m.updateLocked(editing, rec)
	}
	if err != nil {
		return Record{}, nil, err
	}
	return rec, nil, nil
}

func (m *Manager) addLocked(rec Record) error {
	prev := m.state.records
	next := make([]Record, len(prev), len(prev)+1)
	copy(next, prev)
	next = append(next, rec)
	count := m.state.todayCount + 1

	if err := m.persist(next, &count); err != nil {
		return err
	}
	m.state.records = next
	m.state.todayCount = count

	m.log.WithFields(logrus.Fields{
		"position":   len(next) - 1,
		"id":         rec.ID,
		"records":    len(next),
		"todayCount": count,
	}).Debug("record added")

	return nil
}

func (m *Manager) updateLocked(pos int, rec Record) error {
	prev := m.state.records
	next := make([]Record, len(prev))
	copy(next, prev)
	next[pos] = rec

	if err := m.persist(next, nil); err != nil {
		return err
	}
	m.state.records = next

	m.log.WithFields(logrus.Fields{
		"position": pos,
		"id":       rec.ID,
	}).Debug("record updated")

	return nil
}

func (m *Manager) persist(records []Record, todayCount *int) error {
	if err := m.store.Save(m.ctx, records, todayCount); err != nil {
		m.log.WithError(err).Error("could not persist collection")
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}
