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
	"fmt"
)

// Handoff is a single-slot mailbox carrying the position of the record the
// view flow asked to edit over to the registration flow. A pending position
// is read at most once.
type Handoff struct {
	backend Backend
}

// NewHandoff wraps a backend. It may share the backend with a Store.
func NewHandoff(backend Backend) *Handoff {
	if backend == nil {
		panic(ErrNilBackend)
	}
	return &Handoff{backend: backend}
}

// MarkForEdit records pos as pending, replacing any earlier pending position.
func (h *Handoff) MarkForEdit(ctx context.Context, pos int) error {
	if pos < 0 {
		return ErrOutOfRange
	}
	buf, err := json.Marshal(pos)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}
	if err := h.backend.Set(ctx, SlotEditing, buf); err != nil {
		return fmt.Errorf("Set(%s): %w", SlotEditing, err)
	}
	return nil
}

// ConsumePendingEdit returns the pending position and clears it. ok is false
// when nothing is pending; unreadable content is cleared and treated the
// same way.
func (h *Handoff) ConsumePendingEdit(ctx context.Context) (pos int, ok bool, err error) {
	raw, found, err := h.backend.Get(ctx, SlotEditing)
	if err != nil {
		return 0, false, fmt.Errorf("Get(%s): %w", SlotEditing, err)
	}
	if !found {
		return 0, false, nil
	}

	if err := h.backend.Delete(ctx, SlotEditing); err != nil {
		return 0, false, fmt.Errorf("Delete(%s): %w", SlotEditing, err)
	}

	if err := json.Unmarshal(raw, &pos); err != nil || pos < 0 {
		Logger().WithField("value", string(raw)).Warnf("discarding malformed %q slot", SlotEditing)
		return 0, false, nil
	}
	return pos, true, nil
}
