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

// Package mongo stores registry slots as documents of a MongoDB collection,
// one document per slot keyed by the slot name.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/classbook/studentreg"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Adapter is the public name of the adapter.
const Adapter = `mongo`

var connTimeout = time.Second * 5

type mongoAdapter struct{}

func (mongoAdapter) Open(connURL studentreg.ConnectionURL) (studentreg.Backend, error) {
	conn, ok := connURL.(ConnectionURL)
	if !ok {
		var err error
		if conn, err = ParseURL(connURL.String()); err != nil {
			return nil, err
		}
	}
	return Open(conn)
}

func (mongoAdapter) ParseURL(dsn string) (studentreg.ConnectionURL, error) {
	return ParseURL(dsn)
}

func init() {
	studentreg.RegisterAdapter(Adapter, &mongoAdapter{})
}

type slot struct {
	Key   string `bson:"_id"`
	Value []byte `bson:"value"`
}

// Backend is a studentreg.Backend on a MongoDB collection.
type Backend struct {
	client     *mongo.Client
	collection *mongo.Collection
	log        logrus.FieldLogger
}

// Open connects to the deployment and pings it.
func Open(connURL ConnectionURL) (*Backend, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connTimeout)
	defer cancel()
	return OpenContext(ctx, connURL)
}

// OpenContext is like Open but bounds the connection attempt with ctx
// instead of the default five second timeout.
func OpenContext(ctx context.Context, connURL ConnectionURL) (*Backend, error) {
	uri := connURL.uri()
	if uri == "" {
		return nil, studentreg.ErrMissingConnURL
	}

	name := connURL.Collection()
	if err := validCollection(name); err != nil {
		return nil, err
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("Ping: %w", err)
	}

	return &Backend{
		client:     client,
		collection: client.Database(connURL.Database).Collection(name),
		log:        studentreg.Logger().WithField("collection", name),
	}, nil
}

func validCollection(name string) error {
	if name == "" || strings.ContainsAny(name, "$\x00") || strings.HasPrefix(name, "system.") {
		return fmt.Errorf("%w: %q", studentreg.ErrInvalidSlotName, name)
	}
	return nil
}

// Name returns the adapter name.
func (b *Backend) Name() string {
	return Adapter
}

// Collection returns the underlying collection.
func (b *Backend) Collection() *mongo.Collection {
	return b.collection
}

func (b *Backend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var doc slot

	start := time.Now()
	err := b.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	b.trace("find", key, start, err)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return doc.Value, true, nil
}

func (b *Backend) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	_, err := b.collection.ReplaceOne(ctx,
		bson.M{"_id": key},
		slot{Key: key, Value: value},
		options.Replace().SetUpsert(true),
	)
	b.trace("replace", key, start, err)
	return err
}

func (b *Backend) Delete(ctx context.Context, key string) error {
	start := time.Now()
	_, err := b.collection.DeleteOne(ctx, bson.M{"_id": key})
	b.trace("delete", key, start, err)
	return err
}

// Close disconnects the client.
func (b *Backend) Close() error {
	return b.client.Disconnect(context.Background())
}

func (b *Backend) trace(op string, key string, start time.Time, err error) {
	entry := b.log.WithFields(logrus.Fields{
		"adapter": Adapter,
		"op":      op,
		"slot":    key,
		"elapsed": time.Since(start).String(),
	})
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		entry.WithError(err).Debug("operation failed")
		return
	}
	entry.Debug("operation")
}

var _ studentreg.Backend = &Backend{}
