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

package mongo

import (
	"context"
	"os"
	"testing"

	"github.com/classbook/studentreg"
	"github.com/classbook/studentreg/internal/testsuite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// EnvTestURL holds the URI of a disposable deployment. The adapter suite is
// skipped when it is unset.
const EnvTestURL = `STUDENTREG_TEST_MONGO`

type Helper struct {
	connURL ConnectionURL
	backend *Backend
}

func (h *Helper) Adapter() string {
	return Adapter
}

func (h *Helper) Backend() studentreg.Backend {
	return h.backend
}

func (h *Helper) SetUp() error {
	if h.connURL.Options == nil {
		h.connURL.Options = map[string]string{}
	}
	h.connURL.Options[CollectionOption] = "slots_" + uuid.New().String()

	var err error
	h.backend, err = Open(h.connURL)
	return err
}

func (h *Helper) Reopen() error {
	if err := h.backend.Close(); err != nil {
		return err
	}
	var err error
	h.backend, err = Open(h.connURL)
	return err
}

func (h *Helper) TearDown() error {
	if err := h.backend.Collection().Drop(context.Background()); err != nil {
		return err
	}
	return h.backend.Close()
}

func TestMongo(t *testing.T) {
	uri := os.Getenv(EnvTestURL)
	if uri == "" {
		t.Skipf("%s is not set", EnvTestURL)
	}
	connURL, err := ParseURL(uri)
	require.NoError(t, err)
	suite.Run(t, &testsuite.Suite{Helper: &Helper{connURL: connURL}})
}

func TestOpenMissingURL(t *testing.T) {
	_, err := Open(ConnectionURL{})
	assert.ErrorIs(t, err, studentreg.ErrMissingConnURL)
}

func TestOpenRejectsBadCollection(t *testing.T) {
	_, err := Open(ConnectionURL{
		Database: "school",
		Options:  map[string]string{CollectionOption: "system.indexes"},
	})
	assert.ErrorIs(t, err, studentreg.ErrInvalidSlotName)
}
