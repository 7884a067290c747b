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

package studentreg_test

import (
	"context"
	"testing"

	"github.com/classbook/studentreg"
	"github.com/classbook/studentreg/adapter/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandoffReadOnce(t *testing.T) {
	ctx := context.Background()
	h := studentreg.NewHandoff(memory.New())

	_, ok, err := h.ConsumePendingEdit(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, h.MarkForEdit(ctx, 0))
	require.NoError(t, h.MarkForEdit(ctx, 3))

	pos, ok, err := h.ConsumePendingEdit(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, pos)

	_, ok, err = h.ConsumePendingEdit(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHandoffRejectsNegativePosition(t *testing.T) {
	h := studentreg.NewHandoff(memory.New())
	assert.ErrorIs(t, h.MarkForEdit(context.Background(), -1), studentreg.ErrOutOfRange)
}

func TestHandoffMalformedSlot(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	require.NoError(t, backend.Set(ctx, studentreg.SlotEditing, []byte(`"two"`)))

	h := studentreg.NewHandoff(backend)
	_, ok, err := h.ConsumePendingEdit(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, found, err := backend.Get(ctx, studentreg.SlotEditing)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestHandoffSharesBackendWithStore(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()

	mgr := newManager(t, backend)
	require.NoError(t, mgr.Add(record("Alice", "1")))

	h := studentreg.NewHandoff(backend)
	require.NoError(t, h.MarkForEdit(ctx, 0))

	state, err := studentreg.NewStore(backend).Load(ctx)
	require.NoError(t, err)
	assert.Len(t, state.Records, 1)

	pos, ok, err := h.ConsumePendingEdit(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	rec, err := newManager(t, backend).Get(pos)
	require.NoError(t, err)
	assert.Equal(t, "Alice", rec.Name)
}
