// Package kv stores whole tables as single blobs keyed by table name.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrNotFound is returned by Store.Read when a table has never been written.
	ErrNotFound = errors.New("kv: table not found")
	// ErrCorrupt is returned when a stored blob cannot be decoded.
	ErrCorrupt = errors.New("kv: corrupt table data")
	// ErrRead wraps backend failures while loading a collection.
	ErrRead = errors.New("kv: read failed")
)

// Store is the minimal persistence contract: one blob per table.
type Store interface {
	Read(ctx context.Context, table string) ([]byte, error)
	Write(ctx context.Context, table string, data []byte) error
}

// Collection is a typed JSON array persisted under one table name.
// Every Update is a serialized read-modify-write within this process.
type Collection[T any] struct {
	store Store
	table string
	mu    sync.Mutex
}

// NewCollection binds a table name to a store.
func NewCollection[T any](store Store, table string) *Collection[T] {
	return &Collection[T]{store: store, table: table}
}

// Table returns the table name.
func (c *Collection[T]) Table() string {
	return c.table
}

// Load returns the stored items. A missing table is an empty collection.
// Undecodable data yields an empty collection and an error wrapping ErrCorrupt.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	data, err := c.store.Read(ctx, c.table)
	if errors.Is(err, ErrNotFound) {
		return []T{}, nil
	}
	if err != nil {
		return []T{}, fmt.Errorf("%w: %s: %v", ErrRead, c.table, err)
	}
	if len(data) == 0 {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return []T{}, fmt.Errorf("%w: %s: %v", ErrCorrupt, c.table, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Save replaces the stored items.
func (c *Collection[T]) Save(ctx context.Context, items []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save(ctx, items)
}

func (c *Collection[T]) save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("kv: encode %s: %w", c.table, err)
	}
	return c.store.Write(ctx, c.table, data)
}

// Update loads the collection, applies fn and writes the result back.
// onCorrupt decides what happens when the stored blob is undecodable: returning
// nil continues with an empty collection, returning an error aborts.
func (c *Collection[T]) Update(ctx context.Context, onCorrupt func(error) error, fn func([]T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrCorrupt) || onCorrupt == nil {
			return err
		}
		if err := onCorrupt(err); err != nil {
			return err
		}
	}

	next, err := fn(items)
	if err != nil {
		return err
	}
	return c.save(ctx, next)
}
