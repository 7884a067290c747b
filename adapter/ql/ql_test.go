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

package ql

import (
	"path/filepath"
	"testing"

	"github.com/classbook/studentreg"
	"github.com/classbook/studentreg/internal/sqlslot"
	"github.com/classbook/studentreg/internal/testsuite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type Helper struct {
	t       *testing.T
	connURL ConnectionURL
	sess    *sqlslot.Session
}

func (h *Helper) Adapter() string {
	return Adapter
}

func (h *Helper) Backend() studentreg.Backend {
	return h.sess
}

func (h *Helper) SetUp() error {
	h.connURL = ConnectionURL{
		Database: filepath.Join(h.t.TempDir(), "students.ql"),
	}
	var err error
	h.sess, err = Open(h.connURL)
	return err
}

func (h *Helper) Reopen() error {
	if err := h.sess.Close(); err != nil {
		return err
	}
	var err error
	h.sess, err = Open(h.connURL)
	return err
}

func (h *Helper) TearDown() error {
	return h.sess.Close()
}

func TestQL(t *testing.T) {
	suite.Run(t, &testsuite.Suite{Helper: &Helper{t: t}})
}

func TestOpenDSN(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.ql")

	b, err := studentreg.OpenDSN(Adapter, "file://"+path+"?table=class_a")
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, Adapter, b.Name())
	assert.Equal(t, "class_a", b.(*sqlslot.Session).Table())
}
