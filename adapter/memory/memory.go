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

// Package memory provides a process-local backend. Slots live in a map and
// vanish with the process unless the same ConnectionURL name is reopened
// within it; it is meant for tests and throwaway sessions.
package memory

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/classbook/studentreg"
)

// Adapter is the public name of the adapter.
const Adapter = `memory`

func init() {
	studentreg.RegisterAdapter(Adapter, &memoryAdapter{})
}

type memoryAdapter struct{}

func (memoryAdapter) Open(connURL studentreg.ConnectionURL) (studentreg.Backend, error) {
	u, ok := connURL.(ConnectionURL)
	if !ok {
		parsed, err := ParseURL(connURL.String())
		if err != nil {
			return nil, err
		}
		u = parsed
	}
	return Open(u)
}

func (memoryAdapter) ParseURL(dsn string) (studentreg.ConnectionURL, error) {
	return ParseURL(dsn)
}

// ConnectionURL names a shared in-memory space. Backends opened with the
// same non-empty Name see the same slots; an empty Name gives a private
// space.
type ConnectionURL struct {
	Name string
}

const connectionScheme = `memory`

// String returns the DSN, e.g. "memory://registry".
func (c ConnectionURL) String() string {
	return connectionScheme + "://" + c.Name
}

// ParseURL parses a "memory://name" DSN.
func ParseURL(s string) (ConnectionURL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return ConnectionURL{}, err
	}
	if u.Scheme != connectionScheme {
		return ConnectionURL{}, fmt.Errorf(`expecting %s:// connection scheme`, connectionScheme)
	}
	return ConnectionURL{Name: u.Host + u.Path}, nil
}

type space struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

var (
	spacesMu sync.Mutex
	spaces   = map[string]*space{}
)

func lookupSpace(name string) *space {
	if name == "" {
		return &space{slots: map[string][]byte{}}
	}

	spacesMu.Lock()
	defer spacesMu.Unlock()

	sp, ok := spaces[name]
	if !ok {
		sp = &space{slots: map[string][]byte{}}
		spaces[name] = sp
	}
	return sp
}

// Backend is an in-memory slot store.
type Backend struct {
	connURL ConnectionURL
	space   *space
}

// Open returns a backend for the named space.
func Open(connURL ConnectionURL) (*Backend, error) {
	return &Backend{
		connURL: connURL,
		space:   lookupSpace(connURL.Name),
	}, nil
}

// New returns a backend with a private space.
func New() *Backend {
	b, _ := Open(ConnectionURL{})
	return b
}

// ConnectionURL returns the URL the backend was opened with.
func (b *Backend) ConnectionURL() ConnectionURL {
	return b.connURL
}

func (b *Backend) Name() string {
	return Adapter
}

func (b *Backend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	b.space.mu.RLock()
	defer b.space.mu.RUnlock()

	v, ok := b.space.slots[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (b *Backend) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.space.mu.Lock()
	defer b.space.mu.Unlock()

	b.space.slots[key] = append([]byte(nil), value...)
	return nil
}

// SetMany writes every slot under one lock.
func (b *Backend) SetMany(ctx context.Context, slots []studentreg.Slot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.space.mu.Lock()
	defer b.space.mu.Unlock()

	for _, slot := range slots {
		b.space.slots[slot.Key] = append([]byte(nil), slot.Value...)
	}
	return nil
}

func (b *Backend) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.space.mu.Lock()
	defer b.space.mu.Unlock()

	delete(b.space.slots, key)
	return nil
}

// Close is a no-op; the space outlives the backend.
func (b *Backend) Close() error {
	return nil
}

var _ studentreg.BatchBackend = &Backend{}
