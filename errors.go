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
	"errors"
)

// Error messages
var (
	ErrOutOfRange         = errors.New(`position out of range`)
	ErrStaleView          = errors.New(`collection changed since it was rendered`)
	ErrPersist            = errors.New(`could not persist collection`)
	ErrUnknownAdapter     = errors.New(`unknown adapter`)
	ErrMissingAdapterName = errors.New(`missing adapter name`)
	ErrMissingConnURL     = errors.New(`missing DSN`)
	ErrNilBackend         = errors.New(`invalid backend (nil)`)
	ErrInvalidSlotName    = errors.New(`invalid slot table name`)
)
