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

// Package studentreg keeps an ordered collection of student registration
// records in a durable key-value store.
//
// The collection is owned by a Manager, which validates every record it
// accepts, persists the whole collection after each mutation and answers
// searches. Records are addressed by their position in the collection, so a
// collaborator that renders positions must re-render after every change.
//
// Storage is provided by adapters that register themselves by name:
//
//	import _ "github.com/classbook/studentreg/adapter/sqlite"
//
//	backend, err := studentreg.OpenDSN("sqlite", "file://students.db")
//	...
//	mgr, err := studentreg.NewManager(ctx, studentreg.NewStore(backend))
package studentreg
