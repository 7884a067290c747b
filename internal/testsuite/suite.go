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

// Package testsuite holds the conformance tests every storage adapter runs.
package testsuite

import (
	"context"
	"fmt"

	"github.com/classbook/studentreg"
	detectrace "github.com/ipfs/go-detect-race"
	"github.com/stretchr/testify/suite"
)

// Helper prepares a fresh backend before every test and disposes of it
// afterwards.
type Helper interface {
	Adapter() string
	Backend() studentreg.Backend

	SetUp() error
	TearDown() error
}

// Reopener is implemented by helpers whose backend keeps its data across a
// close and reopen.
type Reopener interface {
	Reopen() error
}

// Suite is the backend conformance suite.
type Suite struct {
	suite.Suite

	Helper
}

func (s *Suite) BeforeTest(suiteName, testName string) {
	err := s.SetUp()
	s.Require().NoError(err)
}

func (s *Suite) AfterTest(suiteName, testName string) {
	err := s.TearDown()
	s.Require().NoError(err)
}

func (s *Suite) ctx() context.Context {
	return context.Background()
}

func (s *Suite) TestAdapterName() {
	s.Equal(s.Adapter(), s.Backend().Name())
}

func (s *Suite) TestGetMissingSlot() {
	v, ok, err := s.Backend().Get(s.ctx(), "missing")
	s.Require().NoError(err)
	s.False(ok)
	s.Nil(v)
}

func (s *Suite) TestSetAndGet() {
	b := s.Backend()

	err := b.Set(s.ctx(), "greeting", []byte(`"hello"`))
	s.Require().NoError(err)

	v, ok, err := b.Get(s.ctx(), "greeting")
	s.Require().NoError(err)
	s.True(ok)
	s.JSONEq(`"hello"`, string(v))
}

func (s *Suite) TestOverwrite() {
	b := s.Backend()

	s.Require().NoError(b.Set(s.ctx(), "counter", []byte(`1`)))
	s.Require().NoError(b.Set(s.ctx(), "counter", []byte(`2`)))

	v, ok, err := b.Get(s.ctx(), "counter")
	s.Require().NoError(err)
	s.True(ok)
	s.JSONEq(`2`, string(v))
}

func (s *Suite) TestKeysAreIndependent() {
	b := s.Backend()

	s.Require().NoError(b.Set(s.ctx(), "a", []byte(`"first"`)))
	s.Require().NoError(b.Set(s.ctx(), "b", []byte(`"second"`)))
	s.Require().NoError(b.Delete(s.ctx(), "a"))

	_, ok, err := b.Get(s.ctx(), "a")
	s.Require().NoError(err)
	s.False(ok)

	v, ok, err := b.Get(s.ctx(), "b")
	s.Require().NoError(err)
	s.True(ok)
	s.JSONEq(`"second"`, string(v))
}

func (s *Suite) TestDeleteMissingSlot() {
	err := s.Backend().Delete(s.ctx(), "never-set")
	s.NoError(err)
}

func (s *Suite) TestUnicodeValue() {
	b := s.Backend()

	s.Require().NoError(b.Set(s.ctx(), "address", []byte(`"12 Rue de l'Église, Zürich"`)))

	v, ok, err := b.Get(s.ctx(), "address")
	s.Require().NoError(err)
	s.True(ok)
	s.JSONEq(`"12 Rue de l'Église, Zürich"`, string(v))
}

func (s *Suite) TestManagerRoundTrip() {
	store := studentreg.NewStore(s.Backend())

	mgr, err := studentreg.NewManager(s.ctx(), store)
	s.Require().NoError(err)
	s.Zero(mgr.Len())

	records := sampleRecords(3)
	for _, rec := range records {
		s.Require().NoError(mgr.Add(rec))
	}
	s.Require().NoError(mgr.DeleteAt(1))

	reloaded, err := studentreg.NewManager(s.ctx(), store)
	s.Require().NoError(err)

	s.Equal([]studentreg.Record{records[0], records[2]}, reloaded.All())
	s.Equal(3, reloaded.TodayCount())
}

func (s *Suite) TestHandoff() {
	h := studentreg.NewHandoff(s.Backend())

	s.Require().NoError(h.MarkForEdit(s.ctx(), 4))
	s.Require().NoError(h.MarkForEdit(s.ctx(), 2))

	pos, ok, err := h.ConsumePendingEdit(s.ctx())
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(2, pos)

	_, ok, err = h.ConsumePendingEdit(s.ctx())
	s.Require().NoError(err)
	s.False(ok)
}

func (s *Suite) TestReopen() {
	r, ok := s.Helper.(Reopener)
	if !ok {
		s.T().Skipf("adapter %s does not keep data across reopen", s.Adapter())
	}

	store := studentreg.NewStore(s.Backend())
	s.Require().NoError(store.Save(s.ctx(), sampleRecords(2), intPtr(2)))

	s.Require().NoError(r.Reopen())

	state, err := studentreg.NewStore(s.Backend()).Load(s.ctx())
	s.Require().NoError(err)
	s.Equal(sampleRecords(2), state.Records)
	s.Equal(2, state.TodayCount)
}

func (s *Suite) TestLargeCollection() {
	limit := 500
	if detectrace.WithRace() {
		// Every Add rewrites the whole collection; keep it short under the
		// race detector.
		limit = 50
	}

	store := studentreg.NewStore(s.Backend())
	mgr, err := studentreg.NewManager(s.ctx(), store)
	s.Require().NoError(err)

	for _, rec := range sampleRecords(limit) {
		s.Require().NoError(mgr.Add(rec))
	}

	state, err := store.Load(s.ctx())
	s.Require().NoError(err)
	s.Len(state.Records, limit)
	s.Equal(limit, state.TodayCount)
	s.Equal(mgr.All(), state.Records)
}

func sampleRecords(n int) []studentreg.Record {
	records := make([]studentreg.Record, n)
	for i := range records {
		records[i] = studentreg.Record{
			Name:    "Student Number",
			ID:      fmt.Sprintf("%d", 1000+i),
			Class:   fmt.Sprintf("%dA", 1+i%12),
			Email:   fmt.Sprintf("student%d@school.example", i),
			Contact: fmt.Sprintf("98765%05d", i),
			Address: fmt.Sprintf("%d Main St", i+1),
		}
	}
	return records
}

func intPtr(n int) *int {
	return &n
}
