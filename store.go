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
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Slot names. The layout is shared with earlier browser-based versions of the
// tool, so existing exports can be loaded as they are.
const (
	SlotStudents   = "students"
	SlotTodayCount = "todayCount"
	SlotEditing    = "editingStudent"
)

// State is what a Store persists: the collection in order and the number of
// records created since the counter was last reset.
type State struct {
	Records    []Record
	TodayCount int
}

// Store serializes the collection and the daily counter into backend slots.
// It is the only component that reads or writes them.
type Store struct {
	backend Backend
	log     logrus.FieldLogger
}

// NewStore wraps a backend.
func NewStore(backend Backend) *Store {
	if backend == nil {
		panic(ErrNilBackend)
	}
	return &Store{
		backend: backend,
		log:     Logger().WithField("backend", backend.Name()),
	}
}

// Backend returns the underlying backend.
func (s *Store) Backend() Backend {
	return s.backend
}

// Load reads the persisted state. A missing or malformed slot yields an
// empty collection or a zero counter; only backend failures are returned as
// errors.
func (s *Store) Load(ctx context.Context) (State, error) {
	state := State{Records: []Record{}}

	raw, ok, err := s.backend.Get(ctx, SlotStudents)
	if err != nil {
		return State{}, fmt.Errorf("Get(%s): %w", SlotStudents, err)
	}
	if ok {
		records, err := decodeRecords(raw)
		if err != nil {
			s.log.WithError(err).Warnf("ignoring malformed %q slot", SlotStudents)
		} else {
			state.Records = records
		}
	}

	raw, ok, err = s.backend.Get(ctx, SlotTodayCount)
	if err != nil {
		return State{}, fmt.Errorf("Get(%s): %w", SlotTodayCount, err)
	}
	if ok {
		var count int
		if err := json.Unmarshal(raw, &count); err != nil || count < 0 {
			s.log.WithField("value", string(raw)).Warnf("ignoring malformed %q slot", SlotTodayCount)
		} else {
			state.TodayCount = count
		}
	}

	return state, nil
}

// Save writes the whole collection and, when todayCount is not nil, the
// daily counter. The two slots are written together: on a BatchBackend in
// one atomic call, elsewhere by restoring the previous collection when the
// counter cannot be written.
func (s *Store) Save(ctx context.Context, records []Record, todayCount *int) error {
	if records == nil {
		records = []Record{}
	}

	students, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if todayCount == nil {
		if err := s.backend.Set(ctx, SlotStudents, students); err != nil {
			return fmt.Errorf("Set(%s): %w", SlotStudents, err)
		}
		return nil
	}

	count, err := json.Marshal(*todayCount)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if batch, ok := s.backend.(BatchBackend); ok {
		err := batch.SetMany(ctx, []Slot{
			{Key: SlotStudents, Value: students},
			{Key: SlotTodayCount, Value: count},
		})
		if err != nil {
			return fmt.Errorf("SetMany(%s, %s): %w", SlotStudents, SlotTodayCount, err)
		}
		return nil
	}

	prev, hadPrev, err := s.backend.Get(ctx, SlotStudents)
	if err != nil {
		return fmt.Errorf("Get(%s): %w", SlotStudents, err)
	}
	if err := s.backend.Set(ctx, SlotStudents, students); err != nil {
		return fmt.Errorf("Set(%s): %w", SlotStudents, err)
	}
	if err := s.backend.Set(ctx, SlotTodayCount, count); err != nil {
		err = fmt.Errorf("Set(%s): %w", SlotTodayCount, err)
		if rerr := s.restore(ctx, prev, hadPrev); rerr != nil {
			s.log.WithError(rerr).Errorf("could not restore %q slot", SlotStudents)
			return errors.Join(err, rerr)
		}
		return err
	}
	return nil
}

// restore puts the students slot back the way it was before a failed Save.
func (s *Store) restore(ctx context.Context, prev []byte, hadPrev bool) error {
	if !hadPrev {
		if err := s.backend.Delete(ctx, SlotStudents); err != nil {
			return fmt.Errorf("Delete(%s): %w", SlotStudents, err)
		}
		return nil
	}
	if err := s.backend.Set(ctx, SlotStudents, prev); err != nil {
		return fmt.Errorf("Set(%s): %w", SlotStudents, err)
	}
	return nil
}

// decodeRecords parses a persisted collection. A collection holding any
// record that would not pass Validate is rejected as a whole.
func decodeRecords(raw []byte) ([]Record, error) {
	var stored []RawRecord
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, err
	}

	records := make([]Record, len(stored))
	for i := range stored {
		records[i] = Record(stored[i].trimmed())
	}
	for i := range stored {
		rec, errs := Validate(stored[i], records, i)
		if errs != nil {
			return nil, fmt.Errorf("record %d: %w", i, errs)
		}
		records[i] = rec
	}
	return records, nil
}
