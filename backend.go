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
	"sort"
	"sync"
)

// Backend is a durable key-value slot store. Get reports ok=false for a slot
// that was never set or has been deleted. Deleting a missing slot is not an
// error.
type Backend interface {
	// Name returns the adapter name the backend was opened with.
	Name() string

	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error

	// Close releases the underlying connection or file.
	Close() error
}

// Slot is one key and value written by a BatchBackend.
type Slot struct {
	Key   string
	Value []byte
}

// BatchBackend is implemented by backends that can write several slots
// atomically: either every slot is written or none is.
type BatchBackend interface {
	Backend

	SetMany(ctx context.Context, slots []Slot) error
}

// ConnectionURL represents a data source name (DSN).
type ConnectionURL interface {
	// String returns the DSN as a string.
	String() string
}

// Adapter opens backends of one kind. Adapters register themselves with
// RegisterAdapter from an init function.
type Adapter interface {
	Open(ConnectionURL) (Backend, error)
	ParseURL(dsn string) (ConnectionURL, error)
}

var (
	adaptersMu sync.RWMutex
	adapters   = map[string]Adapter{}
)

// RegisterAdapter associates an adapter name with an implementation. It
// panics if the name is empty, the adapter is nil or the name is taken.
func RegisterAdapter(name string, adapter Adapter) {
	adaptersMu.Lock()
	defer adaptersMu.Unlock()

	if name == "" {
		panic(`missing adapter name`)
	}
	if adapter == nil {
		panic(`RegisterAdapter called with a nil adapter: ` + name)
	}
	if _, ok := adapters[name]; ok {
		panic(`RegisterAdapter called twice for adapter: ` + name)
	}
	adapters[name] = adapter
}

// LookupAdapter returns the adapter registered under the given name.
func LookupAdapter(name string) (Adapter, error) {
	if name == "" {
		return nil, ErrMissingAdapterName
	}

	adaptersMu.RLock()
	defer adaptersMu.RUnlock()

	adapter, ok := adapters[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (forgot to import adapter/%s?)", ErrUnknownAdapter, name, name)
	}
	return adapter, nil
}

// Adapters returns the names of all registered adapters, sorted.
func Adapters() []string {
	adaptersMu.RLock()
	defer adaptersMu.RUnlock()

	names := make([]string, 0, len(adapters))
	for name := range adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open opens a backend with the named adapter.
func Open(adapterName string, connURL ConnectionURL) (Backend, error) {
	adapter, err := LookupAdapter(adapterName)
	if err != nil {
		return nil, err
	}
	if connURL == nil {
		return nil, ErrMissingConnURL
	}
	return adapter.Open(connURL)
}

// OpenDSN parses dsn with the named adapter and opens a backend.
func OpenDSN(adapterName string, dsn string) (Backend, error) {
	adapter, err := LookupAdapter(adapterName)
	if err != nil {
		return nil, err
	}
	connURL, err := adapter.ParseURL(dsn)
	if err != nil {
		return nil, fmt.Errorf("ParseURL: %w", err)
	}
	return adapter.Open(connURL)
}
