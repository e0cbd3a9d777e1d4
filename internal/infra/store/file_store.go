// Package store persists the lead and call collections as JSON files,
// matching the whole-collection read/write contract of the repositories.
package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/leadcall-ai/leadcall-api/internal/entity"
)

// Collection is a JSON-file collection of T. Whole-collection overwrite is
// not safe under unserialized concurrent writers, so every mutation holds
// the collection's mutex; Update runs the read-modify-write sequence inside
// that exclusive section.
type Collection[T any] struct {
	path string
	mu   sync.Mutex
}

func NewCollection[T any](path string) *Collection[T] {
	return &Collection[T]{path: path}
}

// NewLeadStore opens the lead collection under dataDir.
func NewLeadStore(dataDir string) *Collection[entity.Lead] {
	return NewCollection[entity.Lead](filepath.Join(dataDir, "leads.json"))
}

// NewCallStore opens the call-record collection under dataDir.
func NewCallStore(dataDir string) *Collection[entity.CallRecord] {
	return NewCollection[entity.CallRecord](filepath.Join(dataDir, "calls.json"))
}

func (c *Collection[T]) ReadAll(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.read()
}

func (c *Collection[T]) WriteAll(ctx context.Context, items []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.write(items)
}

// Update applies fn to the current contents and persists the result, all
// under the collection lock.
func (c *Collection[T]) Update(ctx context.Context, fn func(items []T) []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.read()
	if err != nil {
		return err
	}
	return c.write(fn(items))
}

// read treats a missing or empty file as an empty collection.
func (c *Collection[T]) read() ([]T, error) {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []T{}, nil
		}
		return nil, err
	}
	if len(raw) == 0 {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Collection[T]) write(items []T) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return err
	}

	raw, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}

	// Write to a temp file then rename. A crash mid-write leaves either the
	// old file or the new one, never a torn one.
	tempPath := c.path + ".tmp"
	if err := os.WriteFile(tempPath, raw, 0644); err != nil {
		return err
	}
	return os.Rename(tempPath, c.path)
}
